package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"feedchat/internal/domain"
	"feedchat/internal/repository"
)

// ChatService persists chat room messages.
type ChatService struct {
	chatRepo repository.ChatMessageRepository
}

// NewChatService creates a ChatService.
func NewChatService(chatRepo repository.ChatMessageRepository) *ChatService {
	if chatRepo == nil {
		panic("ChatMessageRepository cannot be nil for ChatService")
	}
	return &ChatService{chatRepo: chatRepo}
}

// SaveMessage stores one inbound chat message. CreatedAt is assigned at insert.
func (s *ChatService) SaveMessage(ctx context.Context, username, message string) (*domain.ChatMessage, error) {
	if username == "" {
		return nil, fmt.Errorf("chat message username is required")
	}
	msg := &domain.ChatMessage{
		Username: username,
		Message:  message,
	}
	if err := s.chatRepo.Save(ctx, msg); err != nil {
		logrus.WithError(err).WithField("username", username).Error("Failed to save chat message")
		return nil, ErrInternalServer
	}
	return msg, nil
}
