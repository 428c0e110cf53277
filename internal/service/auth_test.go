package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"feedchat/internal/domain"
	"feedchat/internal/repository"
	"feedchat/internal/repository/mocks"
	"feedchat/internal/service"
)

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	username := "alice"
	password := "StrongPass123"

	mockUserRepo.On("FindByUsername", ctx, username).
		Return(nil, repository.ErrUserNotFound).
		Once()
	// MatchedBy matchers may be re-invoked after the call (e.g. by
	// AssertExpectations), so capture the saved state in Run and assert on
	// it below instead of asserting inside the matcher.
	var savedUsername, savedPassword string
	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return true
	})).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*domain.User)
			savedUsername = user.Username
			savedPassword = user.Password
			user.ID = 5
		}).
		Return(nil).
		Once()

	// Act
	registered, err := authService.Register(ctx, username, password)

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, registered)
	assert.Equal(t, uint(5), registered.ID)
	assert.Equal(t, username, registered.Username)
	assert.Empty(t, registered.Password, "hash must not be handed back out")
	assert.Equal(t, username, savedUsername)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedPassword), []byte(password)),
		"stored password must be a bcrypt hash of the input")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	username := "existingUser"

	existing := &domain.User{ID: 10, Username: username}
	mockUserRepo.On("FindByUsername", ctx, username).Return(existing, nil).Once()

	_, err := authService.Register(ctx, username, "password123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDuplicateUsername))

	mockUserRepo.AssertExpectations(t)
	// The user table must gain no row for the duplicate.
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateRaceOnInsert(t *testing.T) {
	// A concurrent registration can slip between the lookup and the insert;
	// the unique index error must still come back as ErrDuplicateUsername.
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()
	username := "racer"

	mockUserRepo.On("FindByUsername", ctx, username).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, err := authService.Register(ctx, username, "password123")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrDuplicateUsername))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Verify_UnknownUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "nobody").Return(nil, repository.ErrUserNotFound).Once()

	ok, err := authService.Verify(ctx, "nobody", "whatever")

	// An unknown user is "not authenticated", not an error.
	assert.NoError(t, err)
	assert.False(t, ok)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Verify_WrongPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: 1, Username: "bob", Password: string(hash)}
	mockUserRepo.On("FindByUsername", ctx, "bob").Return(user, nil).Once()

	ok, err := authService.Verify(ctx, "bob", "wrong-password")

	assert.NoError(t, err)
	assert.False(t, ok)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Verify_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService := service.NewAuthService(mockUserRepo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: 1, Username: "bob", Password: string(hash)}
	mockUserRepo.On("FindByUsername", ctx, "bob").Return(user, nil).Once()

	ok, err := authService.Verify(ctx, "bob", "correct-password")

	assert.NoError(t, err)
	assert.True(t, ok)
	mockUserRepo.AssertExpectations(t)
}
