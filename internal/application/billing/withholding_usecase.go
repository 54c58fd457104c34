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
)

// WithholdingUseCase gère les certificats de retenue à la source fournisseur.
type WithholdingUseCase struct {
	withholdingRepo repository.WithholdingRepository
	supplierRepo    repository.SupplierRepository
}

// NewWithholdingUseCase construit le cas d'usage.
func NewWithholdingUseCase(withholdingRepo repository.WithholdingRepository, supplierRepo repository.SupplierRepository) *WithholdingUseCase {
	return &WithholdingUseCase{withholdingRepo: withholdingRepo, supplierRepo: supplierRepo}
}

// Create crée un certificat en brouillon, montant retenu = brut × taux / 100.
func (uc *WithholdingUseCase) Create(ctx context.Context, in dto.CreateWithholdingRequest) (*dto.WithholdingResponse, error) {
	if in.PartnerID == "" || !in.AmountGross.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.PartnerID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	number, err := uc.withholdingRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	rate := in.WithholdingRate
	if rate.IsZero() {
		rate = defaultWithholdingRate
	}

	w := &entity.Withholding{
		ID:              uuid.New().String(),
		Number:          number,
		DatePayment:     date,
		SupplierID:      in.PartnerID,
		AmountGross:     in.AmountGross,
		WithholdingRate: rate,
		State:           entity.WithholdingDraft,
		Note:            in.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	w.AmountWithholding = w.ComputeWithholding()

	if err := uc.withholdingRepo.Create(w); err != nil {
		return nil, err
	}
	return toWithholdingResponse(w), nil
}

// Get retourne un certificat.
func (uc *WithholdingUseCase) Get(ctx context.Context, id string) (*dto.WithholdingResponse, error) {
	w, err := uc.withholdingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return toWithholdingResponse(w), nil
}

// List retourne les certificats filtrés par état.
func (uc *WithholdingUseCase) List(ctx context.Context, state string, page dto.PageRequest) ([]*dto.WithholdingResponse, error) {
	page.DefaultPage()
	list, err := uc.withholdingRepo.List(state, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WithholdingResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWithholdingResponse(w))
	}
	return out, nil
}

// Validate passe le certificat en brouillon à l'état fait et fige la date
// de retenue.
func (uc *WithholdingUseCase) Validate(ctx context.Context, id string) (*dto.WithholdingResponse, error) {
	w, err := uc.withholdingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if w.State != entity.WithholdingDraft {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	w.AmountWithholding = w.ComputeWithholding()
	w.DateWithholding = &now
	w.State = entity.WithholdingDone
	w.UpdatedAt = now
	if err := uc.withholdingRepo.Update(w); err != nil {
		return nil, err
	}
	return toWithholdingResponse(w), nil
}

// Cancel annule un certificat.
func (uc *WithholdingUseCase) Cancel(ctx context.Context, id string) (*dto.WithholdingResponse, error) {
	w, err := uc.withholdingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	w.State = entity.WithholdingCancelled
	w.UpdatedAt = time.Now()
	if err := uc.withholdingRepo.Update(w); err != nil {
		return nil, err
	}
	return toWithholdingResponse(w), nil
}

func toWithholdingResponse(w *entity.Withholding) *dto.WithholdingResponse {
	return &dto.WithholdingResponse{
		ID:                w.ID,
		Number:            w.Number,
		PartnerID:         w.SupplierID,
		Date:              w.DatePayment,
		AmountGross:       w.AmountGross,
		WithholdingRate:   w.WithholdingRate,
		AmountWithholding: w.AmountWithholding,
		State:             w.State,
		Note:              w.Note,
	}
}
