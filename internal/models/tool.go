package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Tool представляет объявление о продаже инструмента
type Tool struct {
	ID            uuid.UUID   `json:"id"`
	SellerID      uuid.UUID   `json:"seller_id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category"`
	Condition     string      `json:"condition"`
	CurrentPrice  float64     `json:"current_price"`
	OriginalPrice float64     `json:"original_price,omitempty"`
	AllowOffers   bool        `json:"allow_offers"`
	IsVerified    bool        `json:"is_verified"`
	IsFeatured    bool        `json:"is_featured"`
	IsSold        bool        `json:"is_sold"`
	Status        string      `json:"status"`
	Images        []ToolImage `json:"images"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Дополнительные поля для API
	Seller *PublicProfile `json:"seller,omitempty"`
}

// ToolImage представляет изображение объявления
type ToolImage struct {
	ID         uuid.UUID `json:"id"`
	ToolID     uuid.UUID `json:"tool_id"`
	URL        string    `json:"url"`
	PreviewURL string    `json:"preview_url,omitempty"`
	PublicID   string    `json:"public_id"`
	FileName   string    `json:"file_name,omitempty"`
	IsMain     bool      `json:"is_main"`
	Position   int       `json:"position"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Категории инструментов, доступные в маркетплейсе
var ValidCategories = map[string]bool{
	"table_saws":      true,
	"band_saws":       true,
	"planers":         true,
	"jointers":        true,
	"routers":         true,
	"lathes":          true,
	"drill_presses":   true,
	"sanders":         true,
	"hand_tools":      true,
	"dust_collection": true,
	"other":           true,
}

// Состояния инструмента
var ValidConditions = map[string]bool{
	"like_new":     true,
	"excellent":    true,
	"good":         true,
	"fair":         true,
	"needs_repair": true,
}

// DiscountPercent возвращает скидку в процентах относительно исходной цены.
// Округляется до ближайшего целого: 175 -> 125 даёт 29%.
func (t *Tool) DiscountPercent() int {
	return DiscountPercent(t.OriginalPrice, t.CurrentPrice)
}

// DiscountPercent вычисляет процент скидки между двумя ценами
func DiscountPercent(originalPrice, currentPrice float64) int {
	if originalPrice <= 0 || currentPrice >= originalPrice {
		return 0
	}
	return int(math.Round((originalPrice - currentPrice) / originalPrice * 100))
}

// MainImageURL возвращает URL основного изображения объявления
func (t *Tool) MainImageURL() string {
	for _, img := range t.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(t.Images) > 0 {
		return t.Images[0].URL
	}
	return ""
}
