package credit_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// ── fakes en mémoire ──────────────────────────────────────────────────────────

type fakeMemberRepo struct {
	members map[string]*entity.Member
}

func newFakeMemberRepo(members ...*entity.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[string]*entity.Member)}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) Create(m *entity.Member) error { r.members[m.ID] = m; return nil }
func (r *fakeMemberRepo) GetByID(id string) (*entity.Member, error) {
	return r.members[id], nil
}
func (r *fakeMemberRepo) GetByMatricule(mat string) (*entity.Member, error) {
	for _, m := range r.members {
		if m.Matricule == mat {
			return m, nil
		}
	}
	return nil, nil
}
func (r *fakeMemberRepo) List(companyID string, limit, offset int) ([]*entity.Member, error) {
	return nil, nil
}
func (r *fakeMemberRepo) Update(m *entity.Member) error { r.members[m.ID] = m; return nil }
func (r *fakeMemberRepo) Archive(id string) error {
	if m, ok := r.members[id]; ok {
		m.Archived = true
	}
	return nil
}

type fakeCreditRepo struct {
	entries []*entity.CreditEntry
}

func (r *fakeCreditRepo) Append(e *entity.CreditEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeCreditRepo) Balance(memberID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.MemberID == memberID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (r *fakeCreditRepo) History(memberID string, limit, offset int) ([]*entity.CreditEntry, error) {
	var out []*entity.CreditEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].MemberID == memberID {
			out = append(out, r.entries[i])
		}
	}
	// date décroissante, à date égale ordre d'insertion décroissant
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCreditRepo) FindByReservation(reservationID, kind string) ([]*entity.CreditEntry, error) {
	var out []*entity.CreditEntry
	for _, e := range r.entries {
		if e.ReservationID == reservationID && e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}

func buildMember() *entity.Member {
	return &entity.Member{ID: "mem-1", CompanyID: "soc-1", Name: "Ali Ben Salah", Matricule: "MEM-0001"}
}

// ── recharge ──────────────────────────────────────────────────────────────────

func TestRecharge_AugmenteLeSolde(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)

	_, err := svc.Recharge(context.Background(), "mem-1", dto.RechargeCreditRequest{
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	balance, err := svc.Balance(context.Background(), "mem-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(500)),
		"le solde doit valoir la somme des recharges, obtenu %s", balance)
}

func TestRecharge_MontantNulOuNegatifRefuse(t *testing.T) {
	svc := credit.NewService(newFakeMemberRepo(buildMember()), &fakeCreditRepo{})

	_, err := svc.Recharge(context.Background(), "mem-1", dto.RechargeCreditRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Recharge(context.Background(), "mem-1", dto.RechargeCreditRequest{Amount: decimal.NewFromInt(-10)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRecharge_MembreInconnu(t *testing.T) {
	svc := credit.NewService(newFakeMemberRepo(), &fakeCreditRepo{})
	_, err := svc.Recharge(context.Background(), "inconnu", dto.RechargeCreditRequest{Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecharge_MembreArchiveRefuse(t *testing.T) {
	m := buildMember()
	m.Archived = true
	svc := credit.NewService(newFakeMemberRepo(m), &fakeCreditRepo{})
	_, err := svc.Recharge(context.Background(), "mem-1", dto.RechargeCreditRequest{Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── historique ────────────────────────────────────────────────────────────────

func TestHistory_OrdreDateDecroissante(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)

	jour := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	creditRepo.entries = []*entity.CreditEntry{
		{ID: "e1", MemberID: "mem-1", Date: jour, Amount: decimal.NewFromInt(100), Kind: entity.CreditRecharge},
		{ID: "e2", MemberID: "mem-1", Date: jour.AddDate(0, 0, 2), Amount: decimal.NewFromInt(200), Kind: entity.CreditRecharge},
		{ID: "e3", MemberID: "mem-1", Date: jour.AddDate(0, 0, 1), Amount: decimal.NewFromInt(-50), Kind: entity.CreditUsage},
	}

	hist, err := svc.History(context.Background(), "mem-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Entries, 3)
	assert.Equal(t, "e2", hist.Entries[0].ID)
	assert.Equal(t, "e3", hist.Entries[1].ID)
	assert.Equal(t, "e1", hist.Entries[2].ID)
	assert.True(t, hist.Balance.Equal(decimal.NewFromInt(250)))
}

func TestHistory_MemeDateOrdreInsertionDecroissant(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)

	jour := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	creditRepo.entries = []*entity.CreditEntry{
		{ID: "premier", MemberID: "mem-1", Date: jour, Amount: decimal.NewFromInt(100), Kind: entity.CreditRecharge},
		{ID: "second", MemberID: "mem-1", Date: jour, Amount: decimal.NewFromInt(100), Kind: entity.CreditRecharge},
	}

	hist, err := svc.History(context.Background(), "mem-1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Entries, 2)
	assert.Equal(t, "second", hist.Entries[0].ID, "la plus récente insérée d'abord")
	assert.Equal(t, "premier", hist.Entries[1].ID)
}

// ── utilisation réservation ───────────────────────────────────────────────────

func TestRecordUsage_DebiteLeSolde(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))

	err := svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now)
	require.NoError(t, err)

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(600)), "solde attendu 600, obtenu %s", balance)
}

func TestRecordUsage_IdempotentParReservation(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))

	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now))
	err := svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now)
	assert.ErrorIs(t, err, domain.ErrDuplicateCreditUsage)

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(600)), "un seul débit doit être enregistré")
}

func TestRecordUsage_ApresRemboursementAutorise(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now))
	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))

	// l'utilisation précédente est soldée: un nouveau débit est permis
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(250), now))

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(750)), "solde attendu 750, obtenu %s", balance)

	// et ce nouveau débit redevient le seul en attente
	err := svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(250), now)
	assert.ErrorIs(t, err, domain.ErrDuplicateCreditUsage)
}

func TestRecordRefund_ApresNouvelleUtilisationRembourseCelleCi(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now))
	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(250), now))

	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)),
		"chaque cycle utilisation/remboursement solde exactement son montant")
}

func TestRecordUsage_SoldeInsuffisantSansEcriture(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(100), Kind: entity.CreditRecharge,
	}))

	err := svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredit)

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(100)), "aucune écriture partielle ne doit exister")
	assert.Len(t, creditRepo.entries, 1)
}

// ── remboursement ─────────────────────────────────────────────────────────────

func TestRecordRefund_RestitueExactementLUtilisation(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now))

	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)),
		"après remboursement le solde doit revenir à sa valeur d'avant utilisation")
}

func TestRecordRefund_SansUtilisationNoOp(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)

	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", time.Now()))
	assert.Empty(t, creditRepo.entries, "pas d'utilisation enregistrée, pas de remboursement")
}

func TestRecordRefund_Idempotent(t *testing.T) {
	creditRepo := &fakeCreditRepo{}
	svc := credit.NewService(newFakeMemberRepo(buildMember()), creditRepo)
	now := time.Now()

	require.NoError(t, creditRepo.Append(&entity.CreditEntry{
		ID: "r1", MemberID: "mem-1", Date: now, Amount: decimal.NewFromInt(1000), Kind: entity.CreditRecharge,
	}))
	require.NoError(t, svc.RecordUsageInTx(creditRepo, "mem-1", "res-1", decimal.NewFromInt(400), now))

	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))
	require.NoError(t, svc.RecordRefundInTx(creditRepo, "mem-1", "res-1", now))

	balance, _ := creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)), "un seul remboursement doit être enregistré")
}
