package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedchat/internal/domain"
)

// GormChatMessageRepository is the GORM implementation of
// repository.ChatMessageRepository.
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a GormChatMessageRepository.
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChatMessageRepository")
	}
	return &GormChatMessageRepository{db: db}
}

func (r *GormChatMessageRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("gorm: save chat message (username: %s): %w", msg.Username, err)
	}
	return nil
}

func (r *GormChatMessageRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.ChatMessage{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete chat messages before %v: %w", cutoff, result.Error)
	}
	return result.RowsAffected, nil
}
