package billing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

// ── fakes en mémoire ──────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    map[string]*entity.InvoiceLine
	seq      int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[string]*entity.Invoice{},
		lines:    map[string]*entity.InvoiceLine{},
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error { r.invoices[inv.ID] = inv; return nil }
func (r *fakeInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	r.lines[line.ID] = line
	return nil
}
func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return r.invoices[id], nil }
func (r *fakeInvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	for _, line := range r.lines {
		if line.InvoiceID == invoiceID {
			out = append(out, line)
		}
	}
	return out, nil
}
func (r *fakeInvoiceRepo) List(state string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if state == "" || inv.State == state {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error          { r.invoices[inv.ID] = inv; return nil }
func (r *fakeInvoiceRepo) UpdateLine(line *entity.InvoiceLine) error { r.lines[line.ID] = line; return nil }
func (r *fakeInvoiceRepo) DeleteLine(id string) error                { delete(r.lines, id); return nil }
func (r *fakeInvoiceRepo) NextNumber() (string, error) {
	r.seq++
	return fmt.Sprintf("FAC-%05d", r.seq), nil
}

type fakeCompanyRepo struct {
	companies map[string]*entity.Company
	getErr    error
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }
func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.companies[id], nil
}
func (r *fakeCompanyRepo) GetByVAT(string) (*entity.Company, error)   { return nil, nil }
func (r *fakeCompanyRepo) List(int, int) ([]*entity.Company, error)   { return nil, nil }
func (r *fakeCompanyRepo) Update(c *entity.Company) error             { return nil }
func (r *fakeCompanyRepo) CountMembers(string) (int, error)           { return 0, nil }

type fakeMemberRepo struct {
	members map[string]*entity.Member
}

func (r *fakeMemberRepo) Create(m *entity.Member) error                   { return nil }
func (r *fakeMemberRepo) GetByID(id string) (*entity.Member, error)       { return r.members[id], nil }
func (r *fakeMemberRepo) GetByMatricule(string) (*entity.Member, error)   { return nil, nil }
func (r *fakeMemberRepo) List(string, int, int) ([]*entity.Member, error) { return nil, nil }
func (r *fakeMemberRepo) Update(m *entity.Member) error                   { return nil }
func (r *fakeMemberRepo) Archive(string) error                            { return nil }

type fakeServiceRepo struct{}

func (fakeServiceRepo) Create(*entity.Service) error                         { return nil }
func (fakeServiceRepo) GetByID(string) (*entity.Service, error)              { return nil, nil }
func (fakeServiceRepo) List(string, string, int, int) ([]*entity.Service, error) { return nil, nil }
func (fakeServiceRepo) Update(*entity.Service) error                         { return nil }

// fakeReservationRepo reproduit le contrat de facturabilité de l'adaptateur:
// une réservation reprise sur une ligne de facture non annulée n'est plus
// facturable, annuler la facture la libère.
type fakeReservationRepo struct {
	billable    map[string][]*entity.Reservation
	invoiceRepo *fakeInvoiceRepo
}

func (r *fakeReservationRepo) Create(*entity.Reservation) error               { return nil }
func (r *fakeReservationRepo) GetByID(string) (*entity.Reservation, error)    { return nil, nil }
func (r *fakeReservationRepo) ListByMember(string, int, int) ([]*entity.Reservation, error) {
	return nil, nil
}
func (r *fakeReservationRepo) List(string, int, int) ([]*entity.Reservation, error) {
	return nil, nil
}
func (r *fakeReservationRepo) Update(*entity.Reservation) error { return nil }
func (r *fakeReservationRepo) ListBillable(memberID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.billable[memberID] {
		if r.alreadyBilled(res.ID) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}
func (r *fakeReservationRepo) alreadyBilled(reservationID string) bool {
	for _, line := range r.invoiceRepo.lines {
		if line.ReservationID != reservationID {
			continue
		}
		if inv := r.invoiceRepo.invoices[line.InvoiceID]; inv != nil && inv.State != entity.InvoiceCancelled {
			return true
		}
	}
	return false
}
func (r *fakeReservationRepo) NextReference() (string, error) { return "RES-00001", nil }

type fakeRegisterRepo struct {
	registers map[string]*entity.CashRegister
}

func (r *fakeRegisterRepo) Create(reg *entity.CashRegister) error { return nil }
func (r *fakeRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	return r.registers[id], nil
}
func (r *fakeRegisterRepo) GetByCode(string) (*entity.CashRegister, error)        { return nil, nil }
func (r *fakeRegisterRepo) GetMainByCompany(string) (*entity.CashRegister, error) { return nil, nil }
func (r *fakeRegisterRepo) ListSubRegisters(string) ([]*entity.CashRegister, error) {
	return nil, nil
}
func (r *fakeRegisterRepo) ListOpenMains() ([]*entity.CashRegister, error) { return nil, nil }
func (r *fakeRegisterRepo) List(int, int) ([]*entity.CashRegister, error)  { return nil, nil }
func (r *fakeRegisterRepo) Update(*entity.CashRegister) error              { return nil }

type fakeOpRepo struct {
	ops []*entity.CashOperation
	seq int
}

func (r *fakeOpRepo) Create(op *entity.CashOperation) error { r.ops = append(r.ops, op); return nil }
func (r *fakeOpRepo) GetByID(string) (*entity.CashOperation, error) { return nil, nil }
func (r *fakeOpRepo) ListByRegister(string, int, int) ([]*entity.CashOperation, error) {
	return nil, nil
}
func (r *fakeOpRepo) ListConfirmedSince(string, time.Time) ([]*entity.CashOperation, error) {
	return nil, nil
}
func (r *fakeOpRepo) Update(*entity.CashOperation) error { return nil }
func (r *fakeOpRepo) NextReference() (string, error) {
	r.seq++
	return fmt.Sprintf("OP-%05d", r.seq), nil
}

type fakeTxRunner struct {
	invoiceRepo     *fakeInvoiceRepo
	reservationRepo *fakeReservationRepo
	registerRepo    *fakeRegisterRepo
	opRepo          *fakeOpRepo
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	reservationRepo repository.ReservationRepository,
	registerRepo repository.CashRegisterRepository,
	opRepo repository.CashOperationRepository,
) error) error {
	return fn(r.invoiceRepo, r.reservationRepo, r.registerRepo, r.opRepo)
}

type fakePDFGenerator struct{}

func (fakePDFGenerator) GenerateInvoicePDF(
	ctx context.Context,
	inv *entity.Invoice,
	company *entity.Company,
	seller billing.SellerInfo,
	lines []billing.InvoiceLineForPDF,
	amountInWords string,
) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// ── montage ───────────────────────────────────────────────────────────────────

type fixture struct {
	uc           *billing.InvoiceUseCase
	invoiceRepo  *fakeInvoiceRepo
	companyRepo  *fakeCompanyRepo
	resRepo      *fakeReservationRepo
	registerRepo *fakeRegisterRepo
	opRepo       *fakeOpRepo
}

func newFixture() *fixture {
	invoiceRepo := newFakeInvoiceRepo()
	resRepo := &fakeReservationRepo{billable: map[string][]*entity.Reservation{}, invoiceRepo: invoiceRepo}
	registerRepo := &fakeRegisterRepo{registers: map[string]*entity.CashRegister{}}
	opRepo := &fakeOpRepo{}
	txRunner := &fakeTxRunner{
		invoiceRepo:     invoiceRepo,
		reservationRepo: resRepo,
		registerRepo:    registerRepo,
		opRepo:          opRepo,
	}
	companyRepo := &fakeCompanyRepo{companies: map[string]*entity.Company{
		"soc-1": {ID: "soc-1", Name: "Société Voyageurs SARL", VAT: "1234567/A/M/000"},
	}}
	memberRepo := &fakeMemberRepo{members: map[string]*entity.Member{
		"mem-1": {ID: "mem-1", Name: "Ali Ben Salah", Matricule: "MEM-0001"},
	}}
	uc := billing.NewInvoiceUseCase(
		txRunner, invoiceRepo, companyRepo, memberRepo, fakeServiceRepo{}, resRepo,
		fakePDFGenerator{}, billing.SellerInfo{Name: "Agence Horizon"},
	)
	return &fixture{uc: uc, invoiceRepo: invoiceRepo, companyRepo: companyRepo, resRepo: resRepo, registerRepo: registerRepo, opRepo: opRepo}
}

func lineRequest(ttc int64) dto.InvoiceLineRequest {
	return dto.InvoiceLineRequest{
		MemberID: "mem-1",
		Quantity: decimal.NewFromInt(1),
		PriceTTC: decimal.NewFromInt(ttc),
		TaxRate:  entity.TaxRate7,
	}
}

// ── cycle de vie facture ──────────────────────────────────────────────────────

func TestCreateInvoice_TotauxCalcules(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID:           "soc-1",
		ApplyWithholdingTax: true,
		ApplyVATWithholding: true,
		Lines:               []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)

	assert.Equal(t, "FAC-00001", resp.Number)
	assert.True(t, resp.AmountUntaxed.Equal(decimal.NewFromInt(1000)), "HT attendu 1000, obtenu %s", resp.AmountUntaxed)
	assert.True(t, resp.AmountTax.Equal(decimal.NewFromInt(70)))
	assert.True(t, resp.AmountTotal.Equal(decimal.NewFromInt(1071)), "total avec timbre par défaut")
	assert.True(t, resp.NetToPay.Round(2).Equal(decimal.NewFromFloat(1042.80)), "net attendu 1042.80, obtenu %s", resp.NetToPay)
	assert.Equal(t, entity.InvoiceDraft, resp.State)
}

func TestConfirm_SansLigneRefuse(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{CompanyID: "soc-1"})
	require.NoError(t, err)

	_, err = f.uc.Confirm(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddLine_RecalculeLesTotaux(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "soc-1",
		Lines:     []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)

	resp, err := f.uc.AddLine(context.Background(), created.ID, dto.InvoiceLineRequest{
		MemberID: "mem-1",
		Quantity: decimal.NewFromInt(1),
		PriceTTC: decimal.NewFromInt(1190),
		TaxRate:  entity.TaxRate19,
	})
	require.NoError(t, err)

	assert.True(t, resp.AmountUntaxed.Equal(decimal.NewFromInt(2000)), "HT cumulé")
	assert.True(t, resp.Tax7Amount.Equal(decimal.NewFromInt(70)))
	assert.True(t, resp.Tax19Amount.Equal(decimal.NewFromInt(190)))
}

func TestAddLine_SurFactureConfirmeeRefuse(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "soc-1",
		Lines:     []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.AddLine(context.Background(), created.ID, lineRequest(100))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFillLines_DepuisReservationsFacturables(t *testing.T) {
	f := newFixture()
	f.resRepo.billable["mem-1"] = []*entity.Reservation{
		{ID: "res-1", Reference: "RES-00001", MemberID: "mem-1", TotalPrice: decimal.NewFromInt(535)},
		{ID: "res-2", Reference: "RES-00002", MemberID: "mem-1", TotalPrice: decimal.NewFromInt(321)},
	}
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{CompanyID: "soc-1"})
	require.NoError(t, err)

	resp, err := f.uc.FillLines(context.Background(), created.ID, dto.FillLinesRequest{MemberIDs: []string{"mem-1"}})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 2)
	// 535/1.07 + 321/1.07 = 500 + 300
	assert.True(t, resp.AmountUntaxed.Round(3).Equal(decimal.NewFromInt(800)), "HT attendu 800, obtenu %s", resp.AmountUntaxed)
}

func TestFillLines_FactureAnnuleeLibereLaReservation(t *testing.T) {
	f := newFixture()
	f.resRepo.billable["mem-1"] = []*entity.Reservation{
		{ID: "res-1", Reference: "RES-00001", MemberID: "mem-1", TotalPrice: decimal.NewFromInt(535)},
	}

	first, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{CompanyID: "soc-1"})
	require.NoError(t, err)
	resp, err := f.uc.FillLines(context.Background(), first.ID, dto.FillLinesRequest{MemberIDs: []string{"mem-1"}})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)

	// tant que la première facture vit, la réservation n'est plus facturable
	second, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{CompanyID: "soc-1"})
	require.NoError(t, err)
	resp, err = f.uc.FillLines(context.Background(), second.ID, dto.FillLinesRequest{MemberIDs: []string{"mem-1"}})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines, "la réservation est déjà reprise sur une facture active")

	// l'annulation de la première facture la rend refacturable
	_, err = f.uc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)
	resp, err = f.uc.FillLines(context.Background(), second.ID, dto.FillLinesRequest{MemberIDs: []string{"mem-1"}})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "RES-00001", resp.Lines[0].Reference)
}

func TestPay_EncaisseLeNetDansLaCaisse(t *testing.T) {
	f := newFixture()
	f.registerRepo.registers["cse-1"] = &entity.CashRegister{
		ID: "cse-1", Code: "CSE-000001", IsMain: true, State: entity.RegisterOpened, Active: true,
	}
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID:           "soc-1",
		ApplyWithholdingTax: true,
		ApplyVATWithholding: true,
		Lines:               []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	op, err := f.uc.Pay(context.Background(), created.ID, "user-1", dto.PayInvoiceRequest{RegisterID: "cse-1"})
	require.NoError(t, err)

	assert.Equal(t, entity.OperationReceipt, op.Type)
	assert.Equal(t, entity.OperationConfirmed, op.State)
	assert.True(t, op.Amount.Round(2).Equal(decimal.NewFromFloat(1042.80)), "l'encaissement porte le net à payer")

	inv, _ := f.invoiceRepo.GetByID(created.ID)
	assert.Equal(t, entity.InvoicePaid, inv.State)
}

func TestPay_CaisseFermeeRefuse(t *testing.T) {
	f := newFixture()
	f.registerRepo.registers["cse-1"] = &entity.CashRegister{
		ID: "cse-1", State: entity.RegisterClosed, Active: true,
	}
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "soc-1",
		Lines:     []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Pay(context.Background(), created.ID, "user-1", dto.PayInvoiceRequest{RegisterID: "cse-1"})
	assert.ErrorIs(t, err, domain.ErrRegisterClosed)
	assert.Empty(t, f.opRepo.ops, "aucune opération de caisse ne doit être créée")
}

func TestDownloadPDF_BrouillonRefuse(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "soc-1",
		Lines:     []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)

	_, _, err = f.uc.DownloadPDF(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)
	pdfBytes, filename, err := f.uc.DownloadPDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "facture_FAC-00001.pdf", filename)
}

func TestDownloadPDF_PanneDepotSocietePropagee(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CompanyID: "soc-1",
		Lines:     []dto.InvoiceLineRequest{lineRequest(1070)},
	})
	require.NoError(t, err)
	_, err = f.uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)

	// une panne du dépôt n'est pas un 404: l'erreur remonte telle quelle
	boom := errors.New("connexion perdue")
	f.companyRepo.getErr = boom

	_, _, err = f.uc.DownloadPDF(context.Background(), created.ID)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

// ── achats fournisseurs ───────────────────────────────────────────────────────

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error             { return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) { return r.suppliers[id], nil }
func (r *fakeSupplierRepo) List(int, int) ([]*entity.Supplier, error)   { return nil, nil }
func (r *fakeSupplierRepo) Update(*entity.Supplier) error               { return nil }

type fakePurchaseRepo struct {
	purchases map[string]*entity.Purchase
	seq       int
}

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error             { r.purchases[p.ID] = p; return nil }
func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) { return r.purchases[id], nil }
func (r *fakePurchaseRepo) ListBySupplier(string, int, int) ([]*entity.Purchase, error) {
	return nil, nil
}
func (r *fakePurchaseRepo) List(string, int, int) ([]*entity.Purchase, error) { return nil, nil }
func (r *fakePurchaseRepo) Update(p *entity.Purchase) error                   { r.purchases[p.ID] = p; return nil }
func (r *fakePurchaseRepo) NextNumber() (string, error) {
	r.seq++
	return fmt.Sprintf("FAC-FOUR-%05d", r.seq), nil
}

func TestCreatePurchase_ConventionSoustraction(t *testing.T) {
	purchaseRepo := &fakePurchaseRepo{purchases: map[string]*entity.Purchase{}}
	supplierRepo := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"four-1": {ID: "four-1", Name: "Hôtel El Mouradi"},
	}}
	uc := billing.NewPurchaseUseCase(purchaseRepo, supplierRepo)

	resp, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		Kind:       entity.PurchaseHotel,
		SupplierID: "four-1",
		AmountTTC:  decimal.NewFromInt(1000),
		TaxRate:    "19",
	})
	require.NoError(t, err)

	assert.True(t, resp.AmountTax.Equal(decimal.NewFromInt(190)), "TVA = TTC × taux")
	assert.True(t, resp.AmountUntaxed.Equal(decimal.NewFromInt(810)), "HT = TTC − TVA")
	assert.True(t, resp.AmountWithholding.Round(2).Equal(decimal.NewFromFloat(8.10)), "retenue 1% par défaut")
	assert.True(t, resp.AmountServed.Round(2).Equal(decimal.NewFromFloat(801.90)))
	assert.True(t, resp.AmountTotal.Equal(decimal.NewFromInt(1001)), "HT + TVA + timbre par défaut")
}

func TestPurchaseSetPaid_ExigeConfirmation(t *testing.T) {
	purchaseRepo := &fakePurchaseRepo{purchases: map[string]*entity.Purchase{}}
	supplierRepo := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		"four-1": {ID: "four-1", Name: "Hôtel El Mouradi"},
	}}
	uc := billing.NewPurchaseUseCase(purchaseRepo, supplierRepo)

	created, err := uc.Create(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: "four-1", AmountTTC: decimal.NewFromInt(500), TaxRate: "7",
	})
	require.NoError(t, err)

	_, err = uc.SetPaid(context.Background(), created.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict, "un brouillon ne peut pas être payé")

	_, err = uc.Confirm(context.Background(), created.ID)
	require.NoError(t, err)
	paid, err := uc.SetPaid(context.Background(), created.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, paid.State)
	assert.NotNil(t, paid.DatePayment)
}
