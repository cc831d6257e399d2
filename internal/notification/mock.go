package notification

import (
	"context"
	"log"
	"sync"
)

// Mock providers log instead of delivering. They back local
// development and tests.

type MockEmailService struct {
	mu   sync.Mutex
	Sent []*EmailNotification
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (s *MockEmailService) SendEmail(ctx context.Context, notification *EmailNotification) error {
	s.mu.Lock()
	s.Sent = append(s.Sent, notification)
	s.mu.Unlock()

	log.Printf("[MOCK EMAIL] to=%s subject=%q", notification.To, notification.Subject)
	return nil
}

type MockSMSService struct {
	mu   sync.Mutex
	Sent []*SMSNotification
}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SendSMS(ctx context.Context, notification *SMSNotification) error {
	s.mu.Lock()
	s.Sent = append(s.Sent, notification)
	s.mu.Unlock()

	log.Printf("[MOCK SMS] to=%s message=%q", notification.To, notification.Message)
	return nil
}

type MockPushService struct {
	mu   sync.Mutex
	Sent []*PushNotification
}

func NewMockPushService() *MockPushService {
	return &MockPushService{}
}

func (s *MockPushService) SendPush(ctx context.Context, notification *PushNotification) error {
	s.mu.Lock()
	s.Sent = append(s.Sent, notification)
	s.mu.Unlock()

	log.Printf("[MOCK PUSH] tokens=%d title=%q", len(notification.Tokens), notification.Title)
	return nil
}
