package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de service proposés par l'agence.
const (
	ServiceHebergement = "hebergement"
	ServiceTransport   = "transport"
	ServiceActivite    = "activite"
	ServiceAutre       = "autre"
)

// Destination représente un voyage proposé par l'agence.
type Destination struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // prix indicatif TTC en TND
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Service représente une prestation facturable (hébergement, transport, ...).
type Service struct {
	ID            string
	Name          string
	Type          string // hebergement | transport | activite | autre
	Price         decimal.Decimal // prix TTC
	RoomPrice     decimal.Decimal // prix par nuit si hébergement
	SupplierID    string          // fournisseur (optionnel)
	DestinationID string          // voyage associé (optionnel)
	TaxRate       string          // "7" | "19" | "custom"
	TaxRateCustom decimal.Decimal // taux en % si TaxRate == "custom"
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Supplier représente un fournisseur (hôtel, plateforme, transporteur).
type Supplier struct {
	ID        string
	Name      string
	VAT       string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
