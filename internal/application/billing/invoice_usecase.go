// Package billing implémente la facturation client et fournisseur.
//
// Toute modification d'une facture (ligne, remise, timbre, retenues) passe
// par un recalcul complet des totaux via le moteur fiscal, jamais par une
// mise à jour incrémentale.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/tax"
)

// Timbre fiscal par défaut: 1.000 TND.
var defaultFiscalStamp = decimal.NewFromInt(1)

// InvoiceUseCase gère le cycle de vie des factures clients.
type InvoiceUseCase struct {
	txRunner        BillingTxRunner
	invoiceRepo     repository.InvoiceRepository
	companyRepo     repository.CompanyRepository
	memberRepo      repository.MemberRepository
	serviceRepo     repository.ServiceRepository
	reservationRepo repository.ReservationRepository
	convention      tax.ClientConvention
	generator       InvoicePDFGenerator
	seller          SellerInfo
}

// NewInvoiceUseCase construit le cas d'usage.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	memberRepo repository.MemberRepository,
	serviceRepo repository.ServiceRepository,
	reservationRepo repository.ReservationRepository,
	generator InvoicePDFGenerator,
	seller SellerInfo,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:        txRunner,
		invoiceRepo:     invoiceRepo,
		companyRepo:     companyRepo,
		memberRepo:      memberRepo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		generator:       generator,
		seller:          seller,
	}
}

// Create crée une facture en brouillon, avec ses lignes initiales si fournies.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.companyRepo.GetByID(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	number, err := uc.invoiceRepo.NextNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	stamp := in.FiscalStamp
	if stamp.IsZero() {
		stamp = defaultFiscalStamp
	}
	discountType := in.DiscountType
	if discountType == "" {
		discountType = entity.DiscountNone
	}

	inv := &entity.Invoice{
		ID:                  uuid.New().String(),
		Number:              number,
		Date:                date,
		CompanyID:           in.CompanyID,
		DiscountType:        discountType,
		DiscountRate:        in.DiscountRate,
		DiscountFixed:       in.DiscountFixed,
		FiscalStamp:         stamp,
		ApplyWithholdingTax: in.ApplyWithholdingTax,
		ApplyVATWithholding: in.ApplyVATWithholding,
		State:               entity.InvoiceDraft,
		Note:                in.Note,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	lines := make([]*entity.InvoiceLine, 0, len(in.Lines))
	for i := range in.Lines {
		line, err := uc.buildLine(inv.ID, i+1, &in.Lines[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	totals, err := uc.convention.ComputeInvoice(inv, lines)
	if err != nil {
		return nil, err
	}
	totals.Apply(inv)

	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := uc.invoiceRepo.CreateLine(line); err != nil {
			return nil, err
		}
	}
	return uc.toResponse(inv, company.Name, lines), nil
}

// Get retourne une facture avec ses lignes.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	companyName := ""
	if company, _ := uc.companyRepo.GetByID(inv.CompanyID); company != nil {
		companyName = company.Name
	}
	return uc.toResponse(inv, companyName, lines), nil
}

// List retourne les factures filtrées par état.
func (uc *InvoiceUseCase) List(ctx context.Context, state string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(state, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, uc.toResponse(inv, "", nil))
	}
	return out, nil
}

// AddLine ajoute une ligne à une facture en brouillon et recalcule les totaux.
func (uc *InvoiceUseCase) AddLine(ctx context.Context, invoiceID string, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	line, err := uc.buildLine(inv.ID, len(lines)+1, &in)
	if err != nil {
		return nil, err
	}
	lines = append(lines, line)

	if err := uc.recompute(inv, lines); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.CreateLine(line); err != nil {
		return nil, err
	}
	if err := uc.persistTotals(inv, lines[:len(lines)-1]); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// UpdateLine remplace une ligne d'une facture en brouillon.
func (uc *InvoiceUseCase) UpdateLine(ctx context.Context, invoiceID, lineID string, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	var target *entity.InvoiceLine
	for _, line := range lines {
		if line.ID == lineID {
			target = line
			break
		}
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}

	target.MemberID = in.MemberID
	target.ServiceID = in.ServiceID
	target.ReservationID = in.ReservationID
	target.DestinationID = in.DestinationID
	target.Description = in.Description
	target.Quantity = in.Quantity
	target.UOM = in.UOM
	target.PriceTTC = in.PriceTTC
	target.TaxRate = in.TaxRate
	target.TaxRateCustom = in.TaxRateCustom

	if err := uc.recompute(inv, lines); err != nil {
		return nil, err
	}
	if err := uc.persistTotals(inv, lines); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// RemoveLine supprime une ligne d'une facture en brouillon.
func (uc *InvoiceUseCase) RemoveLine(ctx context.Context, invoiceID, lineID string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	kept := lines[:0]
	found := false
	for _, line := range lines {
		if line.ID == lineID {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	if err := uc.recompute(inv, kept); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.DeleteLine(lineID); err != nil {
		return nil, err
	}
	if err := uc.persistTotals(inv, kept); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", kept), nil
}

// UpdateSettings modifie remise, timbre et retenues d'un brouillon puis
// recalcule les totaux.
func (uc *InvoiceUseCase) UpdateSettings(ctx context.Context, invoiceID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	if in.DiscountType != "" {
		inv.DiscountType = in.DiscountType
	}
	inv.DiscountRate = in.DiscountRate
	inv.DiscountFixed = in.DiscountFixed
	if !in.FiscalStamp.IsZero() {
		inv.FiscalStamp = in.FiscalStamp
	}
	inv.ApplyWithholdingTax = in.ApplyWithholdingTax
	inv.ApplyVATWithholding = in.ApplyVATWithholding
	if in.Note != "" {
		inv.Note = in.Note
	}

	if err := uc.recompute(inv, lines); err != nil {
		return nil, err
	}
	if err := uc.persistTotals(inv, lines); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// FillLines génère les lignes depuis les réservations facturables des
// membres donnés: une ligne par réservation, prix TTC = total réservation.
func (uc *InvoiceUseCase) FillLines(ctx context.Context, invoiceID string, in dto.FillLinesRequest) (*dto.InvoiceResponse, error) {
	if len(in.MemberIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	taxRate := in.TaxRate
	if taxRate == "" {
		taxRate = entity.TaxRate7
	}

	for _, memberID := range in.MemberIDs {
		member, err := uc.memberRepo.GetByID(memberID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, domain.ErrNotFound
		}
		reservations, err := uc.reservationRepo.ListBillable(memberID)
		if err != nil {
			return nil, err
		}
		for _, res := range reservations {
			line := &entity.InvoiceLine{
				ID:            uuid.New().String(),
				InvoiceID:     inv.ID,
				Sequence:      len(lines) + 1,
				MemberID:      memberID,
				ReservationID: res.ID,
				DestinationID: res.DestinationID,
				Reference:     res.Reference,
				Description:   fmt.Sprintf("%s (%s)", member.Name, res.Reference),
				Quantity:      decimal.NewFromInt(1),
				PriceTTC:      res.TotalPrice,
				TaxRate:       taxRate,
			}
			if err := uc.invoiceRepo.CreateLine(line); err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
	}

	if err := uc.recompute(inv, lines); err != nil {
		return nil, err
	}
	if err := uc.persistTotals(inv, lines); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// Confirm valide une facture en brouillon. Au moins une ligne est requise.
func (uc *InvoiceUseCase) Confirm(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.loadDraft(invoiceID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.recompute(inv, lines); err != nil {
		return nil, err
	}
	inv.State = entity.InvoiceConfirmed
	inv.UpdatedAt = time.Now()
	if err := uc.persistTotals(inv, lines); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// SetPaid marque une facture confirmée comme payée (règlement hors caisse).
func (uc *InvoiceUseCase) SetPaid(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.load(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.State != entity.InvoiceConfirmed {
		return nil, domain.ErrConflict
	}
	inv.State = entity.InvoicePaid
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// Cancel annule une facture non payée.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.load(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.State == entity.InvoicePaid {
		return nil, domain.ErrConflict
	}
	inv.State = entity.InvoiceCancelled
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// BackToDraft ramène une facture annulée ou confirmée en brouillon.
func (uc *InvoiceUseCase) BackToDraft(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.load(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.State == entity.InvoicePaid || inv.State == entity.InvoiceDraft {
		return nil, domain.ErrConflict
	}
	inv.State = entity.InvoiceDraft
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, "", lines), nil
}

// Pay encaisse le net à payer d'une facture confirmée dans une caisse
// ouverte: l'opération de caisse confirmée et le passage à l'état payé sont
// faits dans la même transaction.
func (uc *InvoiceUseCase) Pay(ctx context.Context, invoiceID, userID string, in dto.PayInvoiceRequest) (*dto.OperationResponse, error) {
	if in.RegisterID == "" {
		return nil, domain.ErrInvalidInput
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}

	var op *entity.CashOperation
	now := time.Now()
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.ReservationRepository,
		registerRepo repository.CashRegisterRepository,
		opRepo repository.CashOperationRepository,
	) error {
		inv, err := invoiceRepo.GetByID(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.State != entity.InvoiceConfirmed {
			return domain.ErrConflict
		}
		register, err := registerRepo.GetByID(in.RegisterID)
		if err != nil {
			return err
		}
		if register == nil {
			return domain.ErrNotFound
		}
		if register.State != entity.RegisterOpened {
			return domain.ErrRegisterClosed
		}

		ref, err := opRepo.NextReference()
		if err != nil {
			return err
		}
		op = &entity.CashOperation{
			ID:            uuid.New().String(),
			Reference:     ref,
			RegisterID:    register.ID,
			Date:          now,
			Type:          entity.OperationReceipt,
			Amount:        inv.NetToPay,
			PaymentMethod: method,
			Note:          fmt.Sprintf("règlement facture %s", inv.Number),
			InvoiceNumber: inv.Number,
			InvoiceID:     inv.ID,
			UserID:        userID,
			State:         entity.OperationConfirmed,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := opRepo.Create(op); err != nil {
			return err
		}

		inv.State = entity.InvoicePaid
		inv.UpdatedAt = now
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// DownloadPDF génère la représentation PDF d'une facture confirmée ou payée.
func (uc *InvoiceUseCase) DownloadPDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, lines, err := uc.load(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.State == entity.InvoiceDraft || inv.State == entity.InvoiceCancelled {
		return nil, "", fmt.Errorf("%w: la facture est en état %s", domain.ErrConflict, inv.State)
	}
	company, err := uc.companyRepo.GetByID(inv.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtenir la société: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: obtenir la société: %w", domain.ErrNotFound)
	}

	enriched := make([]InvoiceLineForPDF, 0, len(lines))
	for _, line := range lines {
		name := line.Description
		if line.MemberID != "" {
			if member, mErr := uc.memberRepo.GetByID(line.MemberID); mErr == nil && member != nil {
				name = member.Name
			}
		} else if line.ServiceID != "" {
			if service, sErr := uc.serviceRepo.GetByID(line.ServiceID); sErr == nil && service != nil {
				name = service.Name
			}
		}
		enriched = append(enriched, InvoiceLineForPDF{
			InvoiceLine: *line,
			SubjectName: name,
			RateLabel:   tax.RateLabel(line.TaxRate, line.TaxRateCustom),
		})
	}

	words := tax.AmountInWordsFR(inv.NetToPay)
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, company, uc.seller, enriched, words)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: génération échouée: %w", err)
	}
	return pdfBytes, fmt.Sprintf("facture_%s.pdf", inv.Number), nil
}

// ── aides internes ────────────────────────────────────────────────────────────

func (uc *InvoiceUseCase) load(id string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(id)
	if err != nil {
		return nil, nil, err
	}
	return inv, lines, nil
}

func (uc *InvoiceUseCase) loadDraft(id string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	inv, lines, err := uc.load(id)
	if err != nil {
		return nil, nil, err
	}
	if inv.State != entity.InvoiceDraft {
		return nil, nil, domain.ErrConflict
	}
	return inv, lines, nil
}

func (uc *InvoiceUseCase) buildLine(invoiceID string, sequence int, in *dto.InvoiceLineRequest) (*entity.InvoiceLine, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	line := &entity.InvoiceLine{
		ID:            uuid.New().String(),
		InvoiceID:     invoiceID,
		Sequence:      sequence,
		MemberID:      in.MemberID,
		ServiceID:     in.ServiceID,
		ReservationID: in.ReservationID,
		DestinationID: in.DestinationID,
		Description:   in.Description,
		Quantity:      in.Quantity,
		UOM:           in.UOM,
		PriceTTC:      in.PriceTTC,
		TaxRate:       in.TaxRate,
		TaxRateCustom: in.TaxRateCustom,
	}
	if err := uc.convention.ValidateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (uc *InvoiceUseCase) recompute(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	totals, err := uc.convention.ComputeInvoice(inv, lines)
	if err != nil {
		return err
	}
	totals.Apply(inv)
	inv.UpdatedAt = time.Now()
	return nil
}

// persistTotals réécrit la facture et ses lignes recalculées.
func (uc *InvoiceUseCase) persistTotals(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return err
	}
	for _, line := range lines {
		if err := uc.invoiceRepo.UpdateLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, companyName string, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                  inv.ID,
		Number:              inv.Number,
		CompanyID:           inv.CompanyID,
		CompanyName:         companyName,
		Date:                inv.Date,
		State:               inv.State,
		DiscountType:        inv.DiscountType,
		DiscountRate:        inv.DiscountRate,
		DiscountFixed:       inv.DiscountFixed,
		FiscalStamp:         inv.FiscalStamp,
		ApplyWithholdingTax: inv.ApplyWithholdingTax,
		ApplyVATWithholding: inv.ApplyVATWithholding,
		AmountUntaxed:       inv.AmountUntaxed,
		AmountDiscount:      inv.DiscountAmount,
		AmountAfterDiscount: inv.AmountAfterDiscount,
		AmountTax:           inv.AmountTax,
		Tax7Amount:          inv.Tax7Amount,
		Tax19Amount:         inv.Tax19Amount,
		TaxCustomAmount:     inv.TaxCustomAmount,
		AmountTotal:         inv.AmountTotal,
		WithholdingTax:      inv.WithholdingTax,
		VATWithholding:      inv.VATWithholding,
		NetToPay:            inv.NetToPay,
		Lines:               make([]dto.InvoiceLineResponse, 0, len(lines)),
		Note:                inv.Note,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:            line.ID,
			MemberID:      line.MemberID,
			ServiceID:     line.ServiceID,
			ReservationID: line.ReservationID,
			DestinationID: line.DestinationID,
			Reference:     line.Reference,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UOM:           line.UOM,
			PriceTTC:      line.PriceTTC,
			TaxRate:       line.TaxRate,
			TaxRateCustom: line.TaxRateCustom,
			PriceUnit:     line.PriceUnit,
			Subtotal:      line.PriceSubtotal,
			Tax:           line.PriceTax,
			Total:         line.PriceTotal,
		})
	}
	return resp
}

func toOperationResponse(op *entity.CashOperation) *dto.OperationResponse {
	return &dto.OperationResponse{
		ID:            op.ID,
		Reference:     op.Reference,
		RegisterID:    op.RegisterID,
		Type:          op.Type,
		Amount:        op.Amount,
		PaymentMethod: op.PaymentMethod,
		InvoiceID:     op.InvoiceID,
		ReservationID: op.ReservationID,
		Note:          op.Note,
		Date:          op.Date,
		State:         op.State,
		UserID:        op.UserID,
	}
}
