package messaging

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeMessagingRepo struct {
	conversations map[[2]int64]*Conversation
	messages      map[int64]*Message
	nextConvID    int64
	nextMsgID     int64
}

func newFakeMessagingRepo() *fakeMessagingRepo {
	return &fakeMessagingRepo{
		conversations: make(map[[2]int64]*Conversation),
		messages:      make(map[int64]*Message),
	}
}

func (f *fakeMessagingRepo) GetOrCreateConversation(ctx context.Context, user1ID, user2ID int64) (*Conversation, error) {
	low, high := orderPair(user1ID, user2ID)
	key := [2]int64{low, high}
	if conv, ok := f.conversations[key]; ok {
		return conv, nil
	}
	f.nextConvID++
	conv := &Conversation{
		ID:       f.nextConvID,
		User1ID:  low,
		User2ID:  high,
		IsActive: true,
	}
	f.conversations[key] = conv
	return conv, nil
}

func (f *fakeMessagingRepo) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	for _, conv := range f.conversations {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, ErrConversationNotFound
}

func (f *fakeMessagingRepo) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	var out []*Conversation
	for _, conv := range f.conversations {
		if conv.Involves(userID) && conv.IsActive {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (f *fakeMessagingRepo) CreateMessage(ctx context.Context, msg *Message) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	msg.CreatedAt = time.Now()
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeMessagingRepo) ListMessages(ctx context.Context, conversationID int64, beforeID int64, limit int) ([]*Message, error) {
	var out []*Message
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID && !msg.IsDeleted {
			if beforeID > 0 && msg.ID >= beforeID {
				continue
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeMessagingRepo) MarkRead(ctx context.Context, conversationID, readerID int64, at time.Time) error {
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && msg.ReadAt == nil {
			msg.ReadAt = &at
		}
	}
	return nil
}

func (f *fakeMessagingRepo) DeleteMessage(ctx context.Context, messageID, senderID int64) error {
	msg, ok := f.messages[messageID]
	if !ok || msg.SenderID != senderID {
		return sql.ErrNoRows
	}
	msg.IsDeleted = true
	return nil
}

type fakeGate struct {
	allowed map[[2]int64]bool
}

func (f *fakeGate) CanCommunicate(ctx context.Context, userID, otherID int64) (bool, error) {
	return f.allowed[[2]int64{userID, otherID}], nil
}

func (f *fakeGate) allow(a, b int64) {
	f.allowed[[2]int64{a, b}] = true
	f.allowed[[2]int64{b, a}] = true
}

func newTestMessaging() (*fakeMessagingRepo, *fakeGate, Service) {
	repo := newFakeMessagingRepo()
	gate := &fakeGate{allowed: make(map[[2]int64]bool)}
	return repo, gate, NewService(repo, gate, nil)
}

func TestGetOrCreateDirectConversationIdempotent(t *testing.T) {
	_, _, svc := newTestMessaging()

	first, err := svc.GetOrCreateDirectConversation(context.Background(), 2, 1)
	require.NoError(t, err)

	second, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestSendMessageRequiresMutualMatch(t *testing.T) {
	_, _, svc := newTestMessaging()

	convID, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), 1, &SendMessageDTO{
		ConversationID: convID,
		Content:        "hello",
	})
	require.ErrorIs(t, err, ErrMessagingNotAllowed)
}

func TestSendMessageBetweenMatchedUsers(t *testing.T) {
	_, gate, svc := newTestMessaging()
	gate.allow(1, 2)

	convID, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	msg, err := svc.SendMessage(context.Background(), 1, &SendMessageDTO{
		ConversationID: convID,
		Content:        "hello there",
	})
	require.NoError(t, err)
	require.Equal(t, convID, msg.ConversationID)
	require.Equal(t, int64(1), msg.SenderID)
	require.Equal(t, "text", msg.MessageType)
	require.NotZero(t, msg.ID)
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	_, gate, svc := newTestMessaging()
	gate.allow(1, 2)
	gate.allow(3, 1)

	convID, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), 3, &SendMessageDTO{
		ConversationID: convID,
		Content:        "let me in",
	})
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	_, gate, svc := newTestMessaging()
	gate.allow(1, 2)

	convID, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), 1, &SendMessageDTO{ConversationID: convID})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestGetConversationsSetsOtherUser(t *testing.T) {
	_, _, svc := newTestMessaging()

	_, err := svc.GetOrCreateDirectConversation(context.Background(), 5, 9)
	require.NoError(t, err)

	conversations, err := svc.GetConversations(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Equal(t, int64(5), conversations[0].OtherUserID)
}

func TestMarkConversationReadRejectsOutsider(t *testing.T) {
	_, _, svc := newTestMessaging()

	convID, err := svc.GetOrCreateDirectConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	err = svc.MarkConversationRead(context.Background(), 3, convID)
	require.ErrorIs(t, err, ErrNotParticipant)
}
