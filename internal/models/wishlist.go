package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem представляет запись избранного инструмента
type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ToolID    uuid.UUID `json:"tool_id"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Tool *Tool `json:"tool,omitempty"`
}

// WishlistResponse представляет структуру ответа API со списком избранного
type WishlistResponse struct {
	Items  []WishlistItem `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
