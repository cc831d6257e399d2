package messaging

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotParticipant      = errors.New("user is not part of this conversation")
	ErrMessagingNotAllowed = errors.New("messaging requires a mutual match")
	ErrEmptyMessage        = errors.New("message content is empty")
)

// MatchGate answers whether two users are allowed to message each
// other. It is satisfied by the matching layer.
type MatchGate interface {
	CanCommunicate(ctx context.Context, userID, otherID int64) (bool, error)
}

type Service interface {
	// GetOrCreateDirectConversation is called when a pair becomes
	// mutual; it is idempotent per ordered pair.
	GetOrCreateDirectConversation(ctx context.Context, user1ID, user2ID int64) (int64, error)

	GetConversations(ctx context.Context, userID int64) ([]*Conversation, error)
	SendMessage(ctx context.Context, senderID int64, dto *SendMessageDTO) (*Message, error)
	GetMessages(ctx context.Context, userID, conversationID, beforeID int64, limit int) ([]*Message, error)
	MarkConversationRead(ctx context.Context, userID, conversationID int64) error
	DeleteMessage(ctx context.Context, userID, messageID int64) error
}

type service struct {
	repo Repository
	gate MatchGate
	hub  *Hub
}

func NewService(repo Repository, gate MatchGate, hub *Hub) Service {
	return &service{repo: repo, gate: gate, hub: hub}
}

func (s *service) GetOrCreateDirectConversation(ctx context.Context, user1ID, user2ID int64) (int64, error) {
	conv, err := s.repo.GetOrCreateConversation(ctx, user1ID, user2ID)
	if err != nil {
		return 0, err
	}
	return conv.ID, nil
}

func (s *service) GetConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	conversations, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, conv := range conversations {
		conv.OtherUserID = conv.OtherParty(userID)
	}
	return conversations, nil
}

func (s *service) SendMessage(ctx context.Context, senderID int64, dto *SendMessageDTO) (*Message, error) {
	if dto.Content == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.repo.GetConversation(ctx, dto.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Involves(senderID) {
		return nil, ErrNotParticipant
	}

	recipientID := conv.OtherParty(senderID)

	allowed, err := s.gate.CanCommunicate(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrMessagingNotAllowed
	}

	messageType := dto.MessageType
	if messageType == "" {
		messageType = "text"
	}

	msg := &Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        dto.Content,
		MessageType:    messageType,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.SendToUser(recipientID, Event{
			Type:    EventNewMessage,
			Payload: msg,
		})
	}

	return msg, nil
}

func (s *service) GetMessages(ctx context.Context, userID, conversationID, beforeID int64, limit int) ([]*Message, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Involves(userID) {
		return nil, ErrNotParticipant
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, conversationID, beforeID, limit)
}

func (s *service) MarkConversationRead(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.Involves(userID) {
		return ErrNotParticipant
	}
	return s.repo.MarkRead(ctx, conversationID, userID, time.Now())
}

func (s *service) DeleteMessage(ctx context.Context, userID, messageID int64) error {
	return s.repo.DeleteMessage(ctx, messageID, userID)
}
