package notification

import (
	"context"
	"log"
	"strconv"
)

type Service interface {
	// NotifyMutualMatch fans the match event out to both parties on
	// every configured channel
	NotifyMutualMatch(ctx context.Context, userID, matchedUserID int64)
	NotifyLikeReceived(ctx context.Context, targetUserID int64)

	GetNotifications(ctx context.Context, userID int64, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
	RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error)
}

type service struct {
	repo  Repository
	email EmailService
	sms   SMSService
	push  PushService
}

func NewService(repo Repository, email EmailService, sms SMSService, push PushService) Service {
	return &service{repo: repo, email: email, sms: sms, push: push}
}

func (s *service) NotifyMutualMatch(ctx context.Context, userID, matchedUserID int64) {
	for _, pair := range [][2]int64{{userID, matchedUserID}, {matchedUserID, userID}} {
		s.notifyMatchParty(ctx, pair[0], pair[1])
	}
}

func (s *service) notifyMatchParty(ctx context.Context, recipientID, otherID int64) {
	recipient, err := s.repo.GetContact(ctx, recipientID)
	if err != nil {
		log.Printf("Contact lookup failed for user %d: %v", recipientID, err)
		return
	}

	otherName := ""
	if other, err := s.repo.GetContact(ctx, otherID); err == nil {
		otherName = other.DisplayName
	}

	stored := &Notification{
		UserID: recipientID,
		Type:   TypeMutualMatch,
		Title:  mutualMatchTitle(),
		Body:   mutualMatchBody(otherName),
	}
	if err := s.repo.Create(ctx, stored); err != nil {
		log.Printf("Failed to store notification for user %d: %v", recipientID, err)
	}

	s.sendPush(ctx, recipientID, stored.Title, stored.Body, map[string]string{
		"type":            TypeMutualMatch,
		"matched_user_id": strconv.FormatInt(otherID, 10),
	})

	if s.email != nil && recipient.Email != "" {
		err := s.email.SendEmail(ctx, &EmailNotification{
			To:      recipient.Email,
			Subject: mutualMatchTitle(),
			Body:    mutualMatchBody(otherName),
			HTML:    mutualMatchEmailHTML(recipient.DisplayName, otherName),
		})
		if err != nil {
			log.Printf("Match email failed for user %d: %v", recipientID, err)
		}
	}

	if s.sms != nil && recipient.Phone != nil && *recipient.Phone != "" {
		err := s.sms.SendSMS(ctx, &SMSNotification{
			To:      *recipient.Phone,
			Message: mutualMatchBody(otherName),
		})
		if err != nil {
			log.Printf("Match SMS failed for user %d: %v", recipientID, err)
		}
	}
}

func (s *service) NotifyLikeReceived(ctx context.Context, targetUserID int64) {
	stored := &Notification{
		UserID: targetUserID,
		Type:   TypeLikeReceived,
		Title:  likeReceivedTitle(),
		Body:   likeReceivedBody(),
	}
	if err := s.repo.Create(ctx, stored); err != nil {
		log.Printf("Failed to store notification for user %d: %v", targetUserID, err)
	}

	s.sendPush(ctx, targetUserID, stored.Title, stored.Body, map[string]string{
		"type": TypeLikeReceived,
	})
}

func (s *service) sendPush(ctx context.Context, userID int64, title, body string, data map[string]string) {
	if s.push == nil {
		return
	}

	tokens, err := s.repo.GetDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("Device token lookup failed for user %d: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	err = s.push.SendPush(ctx, &PushNotification{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		log.Printf("Push failed for user %d: %v", userID, err)
	}
}

func (s *service) GetNotifications(ctx context.Context, userID int64, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *service) CountUnread(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error) {
	deviceToken := &DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	}
	if err := s.repo.RegisterDeviceToken(ctx, deviceToken); err != nil {
		return nil, err
	}
	return deviceToken, nil
}
