package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"feedchat/internal/domain"
	"feedchat/internal/repository"
)

// FeedService handles the shared public post feed.
type FeedService struct {
	postRepo repository.PostRepository
}

// NewFeedService creates a FeedService.
func NewFeedService(postRepo repository.PostRepository) *FeedService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for FeedService")
	}
	return &FeedService{postRepo: postRepo}
}

// CreatePost stores a new post for author. CreatedAt is assigned at insert.
func (s *FeedService) CreatePost(ctx context.Context, author, content string) (*domain.Post, error) {
	if author == "" {
		return nil, fmt.Errorf("post author is required")
	}
	post := &domain.Post{
		Content: content,
		Author:  author,
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		logrus.WithError(err).WithField("author", author).Error("Failed to save post")
		return nil, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"post_id": post.ID, "author": author}).Info("Post created")
	return post, nil
}

// ListPosts returns every post, most recent first. No pagination.
func (s *FeedService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.FindAllNewestFirst(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		return nil, ErrInternalServer
	}
	return posts, nil
}
