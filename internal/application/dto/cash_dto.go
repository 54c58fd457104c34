package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRegisterRequest body pour POST /api/cash-registers.
type CreateRegisterRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"` // généré si absent
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id,omitempty"` // responsable
	IsMain    bool   `json:"is_main"`
	MainID    string `json:"main_id,omitempty"` // requis pour une sous-caisse
}

// RegisterResponse caisse avec son solde courant.
type RegisterResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	IsMain         bool            `json:"is_main"`
	MainID         string          `json:"main_id,omitempty"`
	State          string          `json:"state"` // closed | opened
	OpeningDate    *time.Time      `json:"opening_date,omitempty"`
	OpeningUserID  string          `json:"opening_user_id,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingDate    *time.Time      `json:"closing_date,omitempty"`
	ClosingUserID  string          `json:"closing_user_id,omitempty"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
}

// CreateOperationRequest body pour POST /api/cash-registers/:id/operations.
type CreateOperationRequest struct {
	Type          string          `json:"type"` // receipt | expense
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	ReservationID string          `json:"reservation_id,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// OperationResponse opération de caisse.
type OperationResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	RegisterID    string          `json:"register_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	ReservationID string          `json:"reservation_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	Date          time.Time       `json:"date"`
	State         string          `json:"state"` // draft | confirmed | cancelled
	UserID        string          `json:"user_id"`
}
