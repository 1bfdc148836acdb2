package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Статусы предложения цены
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCountered = "countered"
)

// Действия над предложением
const (
	OfferActionAccept  = "accept"
	OfferActionReject  = "reject"
	OfferActionCounter = "counter"
)

var (
	ErrOfferNotPending    = errors.New("предложение уже обработано")
	ErrOfferNotActionable = errors.New("предложение нельзя изменить в текущем статусе")
	ErrNotOfferSeller     = errors.New("только продавец может ответить на предложение")
	ErrNotOfferBuyer      = errors.New("только покупатель может ответить на встречное предложение")
	ErrUnknownOfferAction = errors.New("недопустимое действие над предложением")
)

// Offer представляет предложение цены на инструмент
type Offer struct {
	ID            uuid.UUID `json:"id"`
	ToolID        uuid.UUID `json:"tool_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	SellerID      uuid.UUID `json:"seller_id"`
	Amount        float64   `json:"amount"`
	CounterAmount *float64  `json:"counter_amount,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Tool   *Tool          `json:"tool,omitempty"`
	Buyer  *PublicProfile `json:"buyer,omitempty"`
	Seller *PublicProfile `json:"seller,omitempty"`
}

// IsTerminal возвращает true для конечных статусов предложения
func (o *Offer) IsTerminal() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusRejected
}

// ValidateResponse проверяет, может ли пользователь выполнить действие над
// предложением. Переходы односторонние: pending -> accepted | rejected |
// countered, countered -> accepted | rejected. На pending отвечает только
// продавец, на countered — только покупатель (принимает или отклоняет
// встречную цену).
func (o *Offer) ValidateResponse(userID uuid.UUID, action string) error {
	switch action {
	case OfferActionAccept, OfferActionReject, OfferActionCounter:
	default:
		return ErrUnknownOfferAction
	}

	switch o.Status {
	case OfferStatusPending:
		if userID != o.SellerID {
			return ErrNotOfferSeller
		}
		return nil
	case OfferStatusCountered:
		// Встречное предложение уже сделано, повторный counter недопустим
		if action == OfferActionCounter {
			return ErrOfferNotActionable
		}
		if userID != o.BuyerID {
			return ErrNotOfferBuyer
		}
		return nil
	default:
		return ErrOfferNotPending
	}
}

// NextStatus возвращает новый статус предложения после действия
func NextStatus(action string) string {
	switch action {
	case OfferActionAccept:
		return OfferStatusAccepted
	case OfferActionReject:
		return OfferStatusRejected
	case OfferActionCounter:
		return OfferStatusCountered
	}
	return ""
}
