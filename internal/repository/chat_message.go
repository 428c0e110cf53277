package repository

import (
	"context"
	"time"

	"feedchat/internal/domain"
)

// ChatMessageRepository stores chat room messages.
type ChatMessageRepository interface {
	// Save inserts the message and fills in the generated ID and CreatedAt.
	Save(ctx context.Context, msg *domain.ChatMessage) error

	// DeleteCreatedBefore removes all messages with CreatedAt < cutoff and
	// returns how many rows were deleted.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
