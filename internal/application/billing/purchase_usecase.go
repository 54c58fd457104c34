package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/tax"
)

// Taux de retenue à la source fournisseur par défaut: 1%.
var defaultWithholdingRate = decimal.NewFromInt(1)

// PurchaseUseCase gère les factures fournisseurs (convention par soustraction).
type PurchaseUseCase struct {
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	convention   tax.SupplierConvention
}

// NewPurchaseUseCase construit le cas d'usage.
func NewPurchaseUseCase(purchaseRepo repository.PurchaseRepository, supplierRepo repository.SupplierRepository) *PurchaseUseCase {
	return &PurchaseUseCase{purchaseRepo: purchaseRepo, supplierRepo: supplierRepo}
}

// Create crée une facture fournisseur en brouillon avec ses montants dérivés.
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || !in.AmountTTC.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	number, err := uc.purchaseRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	kind := in.Kind
	if kind == "" {
		kind = entity.PurchaseSupplier
	}
	stamp := in.FiscalStamp
	if stamp.IsZero() {
		stamp = defaultFiscalStamp
	}
	withholdingRate := in.WithholdingRate
	if withholdingRate.IsZero() {
		withholdingRate = defaultWithholdingRate
	}

	p := &entity.Purchase{
		ID:              uuid.New().String(),
		Number:          number,
		Date:            date,
		PurchaseType:    kind,
		SupplierID:      in.SupplierID,
		AmountTTC:       in.AmountTTC,
		TaxRate:         in.TaxRate,
		FiscalStamp:     stamp,
		WithholdingRate: withholdingRate,
		State:           entity.InvoiceDraft,
		Note:            in.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	totals, err := uc.convention.Compute(p)
	if err != nil {
		return nil, err
	}
	totals.Apply(p)

	if err := uc.purchaseRepo.Create(p); err != nil {
		return nil, err
	}
	return uc.toResponse(p, supplier.Name), nil
}

// Get retourne une facture fournisseur.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	supplierName := ""
	if supplier, _ := uc.supplierRepo.GetByID(p.SupplierID); supplier != nil {
		supplierName = supplier.Name
	}
	return uc.toResponse(p, supplierName), nil
}

// List retourne les factures fournisseurs filtrées par état.
func (uc *PurchaseUseCase) List(ctx context.Context, state string, page dto.PageRequest) ([]*dto.PurchaseResponse, error) {
	page.DefaultPage()
	purchases, err := uc.purchaseRepo.List(state, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, uc.toResponse(p, ""))
	}
	return out, nil
}

// ListBySupplier liste les factures d'un fournisseur.
func (uc *PurchaseUseCase) ListBySupplier(ctx context.Context, supplierID string, page dto.PageRequest) ([]*dto.PurchaseResponse, error) {
	if supplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	purchases, err := uc.purchaseRepo.ListBySupplier(supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, uc.toResponse(p, ""))
	}
	return out, nil
}

// Confirm valide une facture fournisseur en brouillon.
func (uc *PurchaseUseCase) Confirm(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.State != entity.InvoiceDraft {
		return nil, domain.ErrConflict
	}
	totals, err := uc.convention.Compute(p)
	if err != nil {
		return nil, err
	}
	totals.Apply(p)
	p.State = entity.InvoiceConfirmed
	p.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(p); err != nil {
		return nil, err
	}
	return uc.toResponse(p, ""), nil
}

// SetPaid enregistre le paiement d'une facture fournisseur confirmée.
func (uc *PurchaseUseCase) SetPaid(ctx context.Context, id string, datePayment time.Time) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.State != entity.InvoiceConfirmed {
		return nil, domain.ErrConflict
	}
	if datePayment.IsZero() {
		datePayment = time.Now()
	}
	p.State = entity.InvoicePaid
	p.DatePayment = &datePayment
	p.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(p); err != nil {
		return nil, err
	}
	return uc.toResponse(p, ""), nil
}

// Cancel annule une facture fournisseur non payée.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.State == entity.InvoicePaid {
		return nil, domain.ErrConflict
	}
	p.State = entity.InvoiceCancelled
	p.UpdatedAt = time.Now()
	if err := uc.purchaseRepo.Update(p); err != nil {
		return nil, err
	}
	return uc.toResponse(p, ""), nil
}

func (uc *PurchaseUseCase) toResponse(p *entity.Purchase, supplierName string) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:                p.ID,
		Kind:              p.PurchaseType,
		SupplierID:        p.SupplierID,
		SupplierName:      supplierName,
		Date:              p.Date,
		Reference:         p.Number,
		AmountTTC:         p.AmountTTC,
		TaxRate:           p.TaxRate,
		FiscalStamp:       p.FiscalStamp,
		WithholdingRate:   p.WithholdingRate,
		AmountUntaxed:     p.AmountUntaxed,
		AmountTax:         p.AmountTax,
		AmountTotal:       p.AmountTotal,
		AmountWithholding: p.AmountWithholding,
		AmountServed:      p.AmountServed,
		DatePayment:       p.DatePayment,
		State:             p.State,
		Note:              p.Note,
	}
}
