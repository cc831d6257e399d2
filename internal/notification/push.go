package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// PushService defines the push delivery interface
type PushService interface {
	SendPush(ctx context.Context, notification *PushNotification) error
}

// FCMPushService implements push delivery via Firebase Cloud Messaging
type FCMPushService struct {
	client *messaging.Client
}

func NewFCMPushService(ctx context.Context, credentialsPath, credentialsJSON string) (PushService, error) {
	var opt option.ClientOption
	switch {
	case credentialsPath != "":
		opt = option.WithCredentialsFile(credentialsPath)
	case credentialsJSON != "":
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	default:
		return nil, errors.New("firebase credentials path or JSON must be set")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %v", err)
	}

	return &FCMPushService{client: client}, nil
}

func (s *FCMPushService) SendPush(ctx context.Context, notification *PushNotification) error {
	if len(notification.Tokens) == 0 {
		return errors.New("no tokens provided")
	}

	data := notification.Data
	if data == nil {
		data = make(map[string]string)
	}

	message := &messaging.MulticastMessage{
		Tokens: notification.Tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: data,
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		log.Printf("Failed to send push: %v", err)
		return err
	}

	if response.FailureCount > 0 {
		log.Printf("Push partially delivered: %d ok, %d failed", response.SuccessCount, response.FailureCount)
	}
	return nil
}
