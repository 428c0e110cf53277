package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedchat/internal/domain"
)

// GormPostRepository is the GORM implementation of repository.PostRepository.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a GormPostRepository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Save(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("gorm: save post (author: %s): %w", post.Author, err)
	}
	return nil
}

func (r *GormPostRepository) FindAllNewestFirst(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list posts: %w", err)
	}
	return posts, nil
}

func (r *GormPostRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.Post{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete posts before %v: %w", cutoff, result.Error)
	}
	return result.RowsAffected, nil
}
