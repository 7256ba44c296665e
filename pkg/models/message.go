package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message senders. Anything that is not SenderUser is treated as a model turn
// when projecting the text/content split.
const (
	SenderUser  = "User"
	SenderModel = "Model"
)

// Feedback ratings. Early clients wrote thumbs-down as the number 0; later
// ones write the string form. Both encodings are live in the messages
// collection.
const (
	RatingThumbsUp   = "thumbsUp"
	RatingThumbsDown = "thumbsDown"
)

// Feedback is the optional reader reaction attached to a Model message.
type Feedback struct {
	Rating any    `bson:"rating" json:"rating"`
	Tag    string `bson:"tag,omitempty" json:"tag,omitempty"`
	Text   string `bson:"text,omitempty" json:"text,omitempty"`
}

// IsNegative reports whether the rating is a thumbs-down under either of the
// two stored encodings.
func (f *Feedback) IsNegative() bool {
	if f == nil {
		return false
	}
	switch v := f.Rating.(type) {
	case string:
		return v == RatingThumbsDown
	case int:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}

// Message is a stored chat message from the messages collection.
// conversationId is the correlation key to conversations (an opaque string,
// not the conversation _id). User turns carry text and a user ref; Model
// turns carry content and a model name.
type Message struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ConversationID string        `bson:"conversationId" json:"conversationId"`
	Sender         string        `bson:"sender" json:"sender"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	Model          string        `bson:"model,omitempty" json:"model,omitempty"`
	Text           string        `bson:"text,omitempty" json:"text,omitempty"`
	Content        bson.RawValue `bson:"content,omitempty" json:"-"`
	User           UserRef       `bson:"user,omitempty" json:"user,omitempty"`
	Feedback       *Feedback     `bson:"feedback,omitempty" json:"feedback,omitempty"`
}
