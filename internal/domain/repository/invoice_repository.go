package repository

import "github.com/rayen-omar/travel-pro-version1/internal/domain/entity"

// InvoiceRepository définit le port de persistance des factures clients.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	List(state string, limit, offset int) ([]*entity.Invoice, error)
	// Update réécrit les totaux dérivés, la remise, les retenues et l'état.
	Update(invoice *entity.Invoice) error
	UpdateLine(line *entity.InvoiceLine) error
	DeleteLine(id string) error
	// NextNumber réserve le prochain numéro de séquence (FAC-00001).
	NextNumber() (string, error)
}

// PurchaseRepository définit le port de persistance des factures fournisseurs.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.Purchase, error)
	List(state string, limit, offset int) ([]*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	NextNumber() (string, error)
}

// WithholdingRepository définit le port de persistance des retenues fournisseur.
type WithholdingRepository interface {
	Create(withholding *entity.Withholding) error
	GetByID(id string) (*entity.Withholding, error)
	List(state string, limit, offset int) ([]*entity.Withholding, error)
	Update(withholding *entity.Withholding) error
	NextNumber() (string, error)
}
