package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"feedchat/internal/domain"
)

// ChatMessageRepository is a mock implementation of repository.ChatMessageRepository.
type ChatMessageRepository struct {
	mock.Mock
}

func (m *ChatMessageRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ChatMessageRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
