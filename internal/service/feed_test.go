package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feedchat/internal/domain"
	"feedchat/internal/repository/mocks"
	"feedchat/internal/service"
)

func TestFeedService_CreatePost(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	feedService := service.NewFeedService(mockPostRepo)
	ctx := context.Background()

	mockPostRepo.On("Save", ctx, mock.MatchedBy(func(post *domain.Post) bool {
		return post.Author == "alice" && post.Content == "hello"
	})).
		Run(func(args mock.Arguments) {
			post := args.Get(1).(*domain.Post)
			post.ID = 1
			post.CreatedAt = time.Now()
		}).
		Return(nil).
		Once()

	post, err := feedService.CreatePost(ctx, "alice", "hello")

	assert.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "alice", post.Author)
	assert.Equal(t, "hello", post.Content)
	assert.WithinDuration(t, time.Now(), post.CreatedAt, time.Second)
	mockPostRepo.AssertExpectations(t)
}

func TestFeedService_CreatePost_NoAuthor(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	feedService := service.NewFeedService(mockPostRepo)

	_, err := feedService.CreatePost(context.Background(), "", "hello")

	assert.Error(t, err)
	mockPostRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFeedService_ListPosts_NewestFirst(t *testing.T) {
	mockPostRepo := new(mocks.PostRepository)
	feedService := service.NewFeedService(mockPostRepo)
	ctx := context.Background()

	t1 := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	want := []domain.Post{
		{ID: 3, Author: "c", Content: "third", CreatedAt: t1.Add(2 * time.Hour)},
		{ID: 2, Author: "b", Content: "second", CreatedAt: t1.Add(time.Hour)},
		{ID: 1, Author: "a", Content: "first", CreatedAt: t1},
	}
	mockPostRepo.On("FindAllNewestFirst", ctx).Return(want, nil).Once()

	posts, err := feedService.ListPosts(ctx)

	assert.NoError(t, err)
	require.Len(t, posts, 3)
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))
	assert.True(t, posts[1].CreatedAt.After(posts[2].CreatedAt))
	mockPostRepo.AssertExpectations(t)
}
