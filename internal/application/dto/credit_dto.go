package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RechargeCreditRequest body pour POST /api/members/:id/credit/recharge.
type RechargeCreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// CreditEntryResponse ligne du journal de crédit.
type CreditEntryResponse struct {
	ID            string          `json:"id"`
	MemberID      string          `json:"member_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          string          `json:"kind"` // recharge | usage | refund
	ReservationID string          `json:"reservation_id,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// CreditHistoryResponse journal paginé plus solde courant.
type CreditHistoryResponse struct {
	MemberID string                `json:"member_id"`
	Balance  decimal.Decimal       `json:"balance"`
	Entries  []CreditEntryResponse `json:"entries"`
	Page     PageResponse          `json:"page"`
}
