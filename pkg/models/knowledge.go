package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// GoldenKnowledge is a curated Q&A entry in the golden_knowledge collection.
// sourceMessageId is a weak back-reference to the message that prompted the
// entry; deleting either side never cascades.
type GoldenKnowledge struct {
	ID              bson.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Question        string         `bson:"question" json:"question"`
	Answer          string         `bson:"answer" json:"answer"`
	Tags            []string       `bson:"tags" json:"tags"`
	SourceMessageID *bson.ObjectID `bson:"sourceMessageId,omitempty" json:"sourceMessageId,omitempty"`
	CreatedBy       string         `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// SearchText flattens the entry into the single searchable string stored on
// its RAG copy: question, answer and tags joined by single spaces.
func (g *GoldenKnowledge) SearchText() string {
	return g.Question + " " + g.Answer + " " + strings.Join(g.Tags, " ")
}

// RagKnowledge is the consumption-side copy of a golden entry in the
// rag_knowledge collection. The collection is fully replaced on every sync.
type RagKnowledge struct {
	ID              bson.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Question        string         `bson:"question" json:"question"`
	Answer          string         `bson:"answer" json:"answer"`
	Tags            []string       `bson:"tags" json:"tags"`
	SourceMessageID *bson.ObjectID `bson:"sourceMessageId,omitempty" json:"sourceMessageId,omitempty"`
	CreatedBy       string         `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
	SearchText      string         `bson:"searchText" json:"searchText"`
	SyncedAt        time.Time      `bson:"syncedAt" json:"syncedAt"`
}

// NewRagKnowledge derives the RAG copy of a golden entry, keeping its ID so
// consumers can correlate across syncs.
func NewRagKnowledge(g GoldenKnowledge, syncedAt time.Time) RagKnowledge {
	return RagKnowledge{
		ID:              g.ID,
		Question:        g.Question,
		Answer:          g.Answer,
		Tags:            g.Tags,
		SourceMessageID: g.SourceMessageID,
		CreatedBy:       g.CreatedBy,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		SearchText:      g.SearchText(),
		SyncedAt:        syncedAt,
	}
}

// KnowledgeSearchResult is a RAG entry with internal bookkeeping fields
// stripped, as served to tool consumers.
type KnowledgeSearchResult struct {
	Question   string    `bson:"question" json:"question"`
	Answer     string    `bson:"answer" json:"answer"`
	Tags       []string  `bson:"tags" json:"tags"`
	SearchText string    `bson:"searchText" json:"searchText"`
	SyncedAt   time.Time `bson:"syncedAt" json:"syncedAt"`
}
