package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Content block types emitted by the chat model.
const (
	BlockText     = "text"
	BlockThink    = "think"
	BlockToolCall = "tool_call"
)

// ContentBlock is one element of a structured Model message body.
type ContentBlock struct {
	Type     string    `bson:"type" json:"type"`
	Text     string    `bson:"text,omitempty" json:"text,omitempty"`
	Think    string    `bson:"think,omitempty" json:"think,omitempty"`
	ToolCall *ToolCall `bson:"tool_call,omitempty" json:"tool_call,omitempty"`
}

// ToolCall describes a tool invocation block.
type ToolCall struct {
	Name string `bson:"name" json:"name"`
	Args bson.M `bson:"args,omitempty" json:"args,omitempty"`
}

// DecodeContent interprets a raw message content value. The field is a tagged
// union on the wire: either a plain string or an ordered array of content
// blocks. Returns nil for absent or null content.
func DecodeContent(rv bson.RawValue) (any, error) {
	switch rv.Type {
	case bson.Type(0), bson.TypeNull:
		return nil, nil
	case bson.TypeString:
		return rv.StringValue(), nil
	case bson.TypeArray:
		var blocks []ContentBlock
		if err := rv.Unmarshal(&blocks); err != nil {
			return nil, fmt.Errorf("failed to decode content blocks: %w", err)
		}
		return blocks, nil
	default:
		return nil, fmt.Errorf("unsupported content type %v", rv.Type)
	}
}
