package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidateResponse(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	strangerID := uuid.New()

	tests := []struct {
		name    string
		status  string
		userID  uuid.UUID
		action  string
		wantErr error
	}{
		{"продавец принимает pending", OfferStatusPending, sellerID, OfferActionAccept, nil},
		{"продавец отклоняет pending", OfferStatusPending, sellerID, OfferActionReject, nil},
		{"продавец делает counter", OfferStatusPending, sellerID, OfferActionCounter, nil},
		{"покупатель не может ответить на pending", OfferStatusPending, buyerID, OfferActionAccept, ErrNotOfferSeller},
		{"посторонний не может ответить на pending", OfferStatusPending, strangerID, OfferActionReject, ErrNotOfferSeller},
		{"покупатель принимает countered", OfferStatusCountered, buyerID, OfferActionAccept, nil},
		{"покупатель отклоняет countered", OfferStatusCountered, buyerID, OfferActionReject, nil},
		{"продавец не может ответить на countered", OfferStatusCountered, sellerID, OfferActionAccept, ErrNotOfferBuyer},
		{"повторный counter недопустим", OfferStatusCountered, sellerID, OfferActionCounter, ErrOfferNotActionable},
		{"accepted конечный статус", OfferStatusAccepted, sellerID, OfferActionAccept, ErrOfferNotPending},
		{"rejected конечный статус", OfferStatusRejected, buyerID, OfferActionReject, ErrOfferNotPending},
		{"неизвестное действие", OfferStatusPending, sellerID, "withdraw", ErrUnknownOfferAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := Offer{
				BuyerID:  buyerID,
				SellerID: sellerID,
				Status:   tt.status,
			}

			err := offer.ValidateResponse(tt.userID, tt.action)
			if err != tt.wantErr {
				t.Errorf("ValidateResponse() = %v, ожидалось %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OfferStatusPending, false},
		{OfferStatusCountered, false},
		{OfferStatusAccepted, true},
		{OfferStatusRejected, true},
	}

	for _, tt := range tests {
		offer := Offer{Status: tt.status}
		if got := offer.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal() для %q = %v, ожидалось %v", tt.status, got, tt.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{OfferActionAccept, OfferStatusAccepted},
		{OfferActionReject, OfferStatusRejected},
		{OfferActionCounter, OfferStatusCountered},
		{"unknown", ""},
	}

	for _, tt := range tests {
		if got := NextStatus(tt.action); got != tt.want {
			t.Errorf("NextStatus(%q) = %q, ожидалось %q", tt.action, got, tt.want)
		}
	}
}
