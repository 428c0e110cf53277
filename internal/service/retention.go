package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"feedchat/internal/repository"
)

// RetentionAge is how long posts and chat messages are kept.
const RetentionAge = 48 * time.Hour

// RetentionService deletes posts and chat messages older than RetentionAge.
// Sweeping is idempotent: rows already gone are simply not matched again, so
// the sweep may run redundantly and concurrently with itself.
type RetentionService struct {
	postRepo repository.PostRepository
	chatRepo repository.ChatMessageRepository
}

// NewRetentionService creates a RetentionService.
func NewRetentionService(postRepo repository.PostRepository, chatRepo repository.ChatMessageRepository) *RetentionService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for RetentionService")
	}
	if chatRepo == nil {
		panic("ChatMessageRepository cannot be nil for RetentionService")
	}
	return &RetentionService{postRepo: postRepo, chatRepo: chatRepo}
}

// Sweep deletes everything created before now minus RetentionAge. The two
// entity types are deleted independently; no cross-entity atomicity.
func (s *RetentionService) Sweep(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-RetentionAge)
	logCtx := logrus.WithField("cutoff", cutoff)

	postsDeleted, err := s.postRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sweep expired posts")
		return err
	}
	messagesDeleted, err := s.chatRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Failed to sweep expired chat messages")
		return err
	}

	if postsDeleted > 0 || messagesDeleted > 0 {
		logCtx.WithFields(logrus.Fields{
			"posts_deleted":    postsDeleted,
			"messages_deleted": messagesDeleted,
		}).Info("Retention sweep removed expired rows")
	}
	return nil
}
