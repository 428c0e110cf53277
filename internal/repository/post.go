package repository

import (
	"context"
	"time"

	"feedchat/internal/domain"
)

// PostRepository stores feed posts.
type PostRepository interface {
	// Save inserts the post and fills in the generated ID and CreatedAt.
	Save(ctx context.Context, post *domain.Post) error

	// FindAllNewestFirst returns every post ordered by CreatedAt descending.
	FindAllNewestFirst(ctx context.Context) ([]domain.Post, error)

	// DeleteCreatedBefore removes all posts with CreatedAt < cutoff and
	// returns how many rows were deleted. Deleting nothing is not an error.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
