package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildConversations(t *testing.T) {
	me := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	now := time.Now()

	// Сообщения отсортированы по created_at по убыванию, как возвращает база
	messages := []Message{
		{ID: uuid.New(), SenderID: alice, RecipientID: me, Content: "последнее от alice", IsRead: false, CreatedAt: now},
		{ID: uuid.New(), SenderID: me, RecipientID: bob, Content: "последнее к bob", IsRead: false, CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.New(), SenderID: alice, RecipientID: me, Content: "раннее от alice", IsRead: false, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: uuid.New(), SenderID: bob, RecipientID: me, Content: "от bob", IsRead: true, CreatedAt: now.Add(-3 * time.Minute)},
	}

	conversations := BuildConversations(me, messages)

	if len(conversations) != 2 {
		t.Fatalf("получено %d диалогов, ожидалось 2", len(conversations))
	}

	// Порядок диалогов соответствует времени последнего сообщения
	if conversations[0].OtherUserID != alice {
		t.Errorf("первый диалог с %v, ожидался alice", conversations[0].OtherUserID)
	}
	if conversations[1].OtherUserID != bob {
		t.Errorf("второй диалог с %v, ожидался bob", conversations[1].OtherUserID)
	}

	// Последнее сообщение диалога — первое встреченное при обходе
	if conversations[0].LastMessage.Content != "последнее от alice" {
		t.Errorf("последнее сообщение диалога с alice: %q", conversations[0].LastMessage.Content)
	}

	// Непрочитанными считаются только входящие: два от alice
	if conversations[0].UnreadCount != 2 {
		t.Errorf("непрочитанных от alice: %d, ожидалось 2", conversations[0].UnreadCount)
	}

	// Исходящее непрочитанное и прочитанное входящее не считаются
	if conversations[1].UnreadCount != 0 {
		t.Errorf("непрочитанных от bob: %d, ожидалось 0", conversations[1].UnreadCount)
	}
}

func TestBuildConversationsEmpty(t *testing.T) {
	conversations := BuildConversations(uuid.New(), nil)
	if len(conversations) != 0 {
		t.Errorf("получено %d диалогов для пустого списка сообщений", len(conversations))
	}
}

func TestValidMessageType(t *testing.T) {
	tests := []struct {
		messageType string
		want        bool
	}{
		{MessageTypeText, true},
		{MessageTypeOffer, true},
		{MessageTypeOfferResponse, true},
		{"", false},
		{"system", false},
	}

	for _, tt := range tests {
		if got := ValidMessageType(tt.messageType); got != tt.want {
			t.Errorf("ValidMessageType(%q) = %v, ожидалось %v", tt.messageType, got, tt.want)
		}
	}
}
