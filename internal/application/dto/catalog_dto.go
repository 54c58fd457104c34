package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDestinationRequest body pour POST /api/destinations.
type CreateDestinationRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"` // prix indicatif TTC
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
}

// DestinationResponse voyage dans les réponses.
type DestinationResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
}

// CreateServiceRequest body pour POST /api/services.
type CreateServiceRequest struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"` // hebergement | transport | activite | autre
	Price         decimal.Decimal `json:"price"`
	RoomPrice     decimal.Decimal `json:"room_price,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	DestinationID string          `json:"destination_id,omitempty"`
	TaxRate       string          `json:"tax_rate,omitempty"`
	TaxRateCustom decimal.Decimal `json:"tax_rate_custom,omitempty"`
}

// ServiceResponse prestation dans les réponses.
type ServiceResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	RoomPrice     decimal.Decimal `json:"room_price,omitempty"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	DestinationID string          `json:"destination_id,omitempty"`
	TaxRate       string          `json:"tax_rate,omitempty"`
	TaxRateCustom decimal.Decimal `json:"tax_rate_custom,omitempty"`
}

// CreateSupplierRequest body pour POST /api/suppliers.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	VAT     string `json:"vat,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// SupplierResponse fournisseur dans les réponses.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	VAT     string `json:"vat,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
