package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Conversation is a stored conversation document. The messages array is the
// authoritative membership list; a message's conversationId alone does not
// put it in a conversation's transcript.
type Conversation struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	ConversationID string          `bson:"conversationId" json:"conversationId"`
	Title          string          `bson:"title" json:"title"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
	Resolved       bool            `bson:"resolved,omitempty" json:"resolved,omitempty"`
	Messages       []bson.ObjectID `bson:"messages" json:"messages"`
}
