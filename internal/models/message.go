package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы сообщений
const (
	MessageTypeText          = "text"
	MessageTypeOffer         = "offer"
	MessageTypeOfferResponse = "offer_response"
)

// Message представляет сообщение между покупателем и продавцом
type Message struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	ToolID      *uuid.UUID `json:"tool_id,omitempty"`
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	OfferID     *uuid.UUID `json:"offer_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`

	// Дополнительные поля для API
	Sender *PublicProfile `json:"sender,omitempty"`
}

// Conversation представляет производную группировку сообщений с одним собеседником.
// Не хранится в базе, вычисляется по строкам messages.
type Conversation struct {
	OtherUserID     uuid.UUID      `json:"other_user_id"`
	OtherUser       *PublicProfile `json:"other_user,omitempty"`
	LastMessage     *Message       `json:"last_message,omitempty"`
	UnreadCount     int            `json:"unread_count"`
	LastMessageTime time.Time      `json:"last_message_time"`
}

// ValidMessageType проверяет допустимость типа сообщения
func ValidMessageType(messageType string) bool {
	switch messageType {
	case MessageTypeText, MessageTypeOffer, MessageTypeOfferResponse:
		return true
	}
	return false
}

// BuildConversations группирует сообщения пользователя по собеседникам.
// Сообщения должны быть отсортированы по created_at по убыванию: первое
// встреченное сообщение для собеседника становится последним в диалоге.
func BuildConversations(userID uuid.UUID, messages []Message) []Conversation {
	var order []uuid.UUID
	byUser := make(map[uuid.UUID]*Conversation)

	for i := range messages {
		msg := messages[i]

		otherID := msg.SenderID
		if otherID == userID {
			otherID = msg.RecipientID
		}

		conv, ok := byUser[otherID]
		if !ok {
			conv = &Conversation{
				OtherUserID:     otherID,
				LastMessage:     &messages[i],
				LastMessageTime: msg.CreatedAt,
			}
			byUser[otherID] = conv
			order = append(order, otherID)
		}

		// Непрочитанными считаются только входящие сообщения
		if msg.RecipientID == userID && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]Conversation, 0, len(order))
	for _, id := range order {
		conversations = append(conversations, *byUser[id])
	}
	return conversations
}
