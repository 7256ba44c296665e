package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MessageView is one message as projected by the feedback-conversation
// pipeline: per-sender shape with text only on User turns, content only on
// Model turns, and the author resolved to a reduced user document (or null).
type MessageView struct {
	MessageID bson.ObjectID `bson:"messageId"`
	Sender    string        `bson:"sender"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
	Model     string        `bson:"model,omitempty"`
	Feedback  *Feedback     `bson:"feedback,omitempty"`
	Text      *string       `bson:"text"`
	Content   bson.RawValue `bson:"content"`
	User      *User         `bson:"user"`
}

// MarshalJSON renders the content union as a string or block array. text,
// content and user stay explicit nulls for the side of the sender split they
// do not apply to.
func (m MessageView) MarshalJSON() ([]byte, error) {
	content, err := DecodeContent(m.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		MessageID bson.ObjectID `json:"messageId"`
		Sender    string        `json:"sender"`
		CreatedAt time.Time     `json:"createdAt"`
		UpdatedAt time.Time     `json:"updatedAt"`
		Model     string        `json:"model,omitempty"`
		Feedback  *Feedback     `json:"feedback,omitempty"`
		Text      *string       `json:"text"`
		Content   any           `json:"content"`
		User      *User         `json:"user"`
	}{
		MessageID: m.MessageID,
		Sender:    m.Sender,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Model:     m.Model,
		Feedback:  m.Feedback,
		Text:      m.Text,
		Content:   content,
		User:      m.User,
	})
}

// ConversationView is one reshaped conversation from the
// feedback-conversation pipeline: conversation header fields plus the full
// chronological transcript.
type ConversationView struct {
	ID                 bson.ObjectID `bson:"_id" json:"_id"`
	ConversationID     string        `bson:"conversationId" json:"conversationId"`
	Title              string        `bson:"title" json:"title"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt" json:"updatedAt"`
	LatestFeedbackDate time.Time     `bson:"latestFeedbackDate" json:"latestFeedbackDate"`
	Resolved           bool          `bson:"resolved" json:"resolved"`
	Messages           []MessageView `bson:"messages" json:"messages"`
}

// PagedConversations is the page envelope for the feedback conversation list.
// Count is the number of items on this page; Total comes from an independent
// count pipeline and may disagree with the page under concurrent writes.
type PagedConversations struct {
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Count      int                `json:"count"`
	Total      int64              `json:"total"`
	TotalPages int64              `json:"totalPages"`
	Data       []ConversationView `json:"data"`
}

// NegativeFeedbackMessage is a raw message that received a thumbs-down,
// with its conversation joined in for context.
type NegativeFeedbackMessage struct {
	Message      `bson:",inline"`
	Conversation Conversation `bson:"conversation"`
}

// MarshalJSON flattens the embedded message fields and renders the content
// union, mirroring the stored document shape.
func (m NegativeFeedbackMessage) MarshalJSON() ([]byte, error) {
	content, err := DecodeContent(m.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID             bson.ObjectID `json:"_id"`
		ConversationID string        `json:"conversationId"`
		Sender         string        `json:"sender"`
		CreatedAt      time.Time     `json:"createdAt"`
		UpdatedAt      time.Time     `json:"updatedAt"`
		Model          string        `json:"model,omitempty"`
		Text           string        `json:"text,omitempty"`
		Content        any           `json:"content,omitempty"`
		User           UserRef       `json:"user,omitempty"`
		Feedback       *Feedback     `json:"feedback,omitempty"`
		Conversation   Conversation  `json:"conversation"`
	}{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Sender:         m.Sender,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Model:          m.Model,
		Text:           m.Text,
		Content:        content,
		User:           m.User,
		Feedback:       m.Feedback,
		Conversation:   m.Conversation,
	})
}

// PagedNegativeFeedback is the page envelope for the negative feedback feed.
type PagedNegativeFeedback struct {
	Data       []NegativeFeedbackMessage `json:"data"`
	Total      int64                     `json:"total"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int64                     `json:"totalPages"`
}

// ExportConversation is one conversation as shaped by the export pipeline:
// membership messages joined in full and sorted chronologically.
type ExportConversation struct {
	ID             bson.ObjectID `bson:"_id"`
	ConversationID string        `bson:"conversationId"`
	Title          string        `bson:"title"`
	CreatedAt      time.Time     `bson:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt"`
	Resolved       bool          `bson:"resolved"`
	Messages       []Message     `bson:"messages"`
}
