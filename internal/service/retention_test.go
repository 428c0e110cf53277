package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"feedchat/internal/repository/mocks"
	"feedchat/internal/service"
)

func TestRetentionService_Sweep_UsesTwoDayCutoff(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockChatRepo := new(mocks.ChatMessageRepository)
	retention := service.NewRetentionService(mockPostRepo, mockChatRepo)

	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	wantCutoff := now.Add(-48 * time.Hour)

	mockPostRepo.On("DeleteCreatedBefore", ctx, wantCutoff).Return(int64(2), nil).Once()
	mockChatRepo.On("DeleteCreatedBefore", ctx, wantCutoff).Return(int64(3), nil).Once()

	err := retention.Sweep(ctx, now)

	assert.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
	mockChatRepo.AssertExpectations(t)
}

func TestRetentionService_Sweep_Idempotent(t *testing.T) {
	// A second sweep with the same now matches nothing and must succeed.
	mockPostRepo := new(mocks.PostRepository)
	mockChatRepo := new(mocks.ChatMessageRepository)
	retention := service.NewRetentionService(mockPostRepo, mockChatRepo)

	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-48 * time.Hour)

	mockPostRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(4), nil).Once()
	mockChatRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(1), nil).Once()
	mockPostRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(0), nil).Once()
	mockChatRepo.On("DeleteCreatedBefore", ctx, cutoff).Return(int64(0), nil).Once()

	assert.NoError(t, retention.Sweep(ctx, now))
	assert.NoError(t, retention.Sweep(ctx, now))

	mockPostRepo.AssertExpectations(t)
	mockChatRepo.AssertExpectations(t)
}

func TestRetentionService_Sweep_PostDeleteFails(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	mockChatRepo := new(mocks.ChatMessageRepository)
	retention := service.NewRetentionService(mockPostRepo, mockChatRepo)

	ctx := context.Background()
	now := time.Now()

	mockPostRepo.On("DeleteCreatedBefore", ctx, now.Add(-48*time.Hour)).
		Return(int64(0), assert.AnError).Once()

	err := retention.Sweep(ctx, now)

	assert.Error(t, err)
	mockPostRepo.AssertExpectations(t)
	mockChatRepo.AssertNotCalled(t, "DeleteCreatedBefore", mock.Anything, mock.Anything)
}
