package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/models"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// ExportService renders the full feedback-bearing conversation set as a
// Markdown document for offline review.
type ExportService interface {
	Markdown(ctx context.Context) (string, error)
}

type exportService struct {
	repo   repositories.FeedbackRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(repo repositories.FeedbackRepository, logger *zap.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

var _ ExportService = (*exportService)(nil)

func (s *exportService) Markdown(ctx context.Context) (string, error) {
	conversations, err := s.repo.ListForExport(ctx)
	if err != nil {
		return "", err
	}

	s.logger.Info("Exporting conversations", zap.Int("count", len(conversations)))
	return RenderMarkdown(conversations, s.now()), nil
}

// RenderMarkdown formats the export document. Pure function so the layout is
// testable without a store.
func RenderMarkdown(conversations []models.ExportConversation, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# All Conversations Export\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format("1/2/2006, 3:04:05 PM"))
	fmt.Fprintf(&b, "Total Conversations: %d\n\n", len(conversations))
	b.WriteString("---\n\n")

	for _, conv := range conversations {
		renderConversation(&b, conv)
	}
	return b.String()
}

func renderConversation(b *strings.Builder, conv models.ExportConversation) {
	title := conv.Title
	if title == "" {
		title = "Untitled Conversation"
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "**ID:** %s\n", conv.ConversationID)
	fmt.Fprintf(b, "**Date:** %s\n", conv.CreatedAt.Format("1/2/2006, 3:04:05 PM"))

	status := "Open"
	if conv.Resolved {
		status = "Resolved"
	}
	fmt.Fprintf(b, "**Status:** %s\n", status)
	b.WriteString("\n---\n\n")

	if len(conv.Messages) == 0 {
		b.WriteString("*No messages in this conversation.*\n\n")
	}
	for _, msg := range conv.Messages {
		renderMessage(b, msg)
	}

	b.WriteString("\n---\n\n")
}

func renderMessage(b *strings.Builder, msg models.Message) {
	sender := "\U0001F916 **Model**"
	if msg.Sender == models.SenderUser {
		sender = "\U0001F464 **User**"
	}
	fmt.Fprintf(b, "%s (%s)\n\n", sender, msg.CreatedAt.Format("3:04:05 PM"))

	if msg.Text != "" {
		fmt.Fprintf(b, "%s\n\n", msg.Text)
	}

	content, err := models.DecodeContent(msg.Content)
	if err != nil {
		// An undecodable body should not sink the whole export.
		b.WriteString("*Unreadable message content.*\n\n")
	}
	switch c := content.(type) {
	case string:
		if c != "" {
			fmt.Fprintf(b, "%s\n\n", c)
		}
	case []models.ContentBlock:
		for _, block := range c {
			switch block.Type {
			case models.BlockText:
				fmt.Fprintf(b, "%s\n", block.Text)
			case models.BlockThink:
				fmt.Fprintf(b, "> *Thinking:*\n> %s\n", block.Think)
			}
		}
		b.WriteString("\n")
	}

	if msg.Feedback != nil {
		line := fmt.Sprintf("%v", msg.Feedback.Rating)
		if msg.Feedback.Text != "" {
			line += " - " + msg.Feedback.Text
		}
		fmt.Fprintf(b, "> **Feedback:** %s\n\n", line)
	}
}
