package reservation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/application/reservation"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

// ── fakes en mémoire ──────────────────────────────────────────────────────────

type fakeMemberRepo struct {
	members map[string]*entity.Member
}

func (r *fakeMemberRepo) Create(m *entity.Member) error               { r.members[m.ID] = m; return nil }
func (r *fakeMemberRepo) GetByID(id string) (*entity.Member, error)   { return r.members[id], nil }
func (r *fakeMemberRepo) GetByMatricule(string) (*entity.Member, error) { return nil, nil }
func (r *fakeMemberRepo) List(string, int, int) ([]*entity.Member, error) { return nil, nil }
func (r *fakeMemberRepo) Update(m *entity.Member) error               { r.members[m.ID] = m; return nil }
func (r *fakeMemberRepo) Archive(id string) error {
	if m, ok := r.members[id]; ok {
		m.Archived = true
	}
	return nil
}

type fakeServiceRepo struct {
	services map[string]*entity.Service
}

func (r *fakeServiceRepo) Create(s *entity.Service) error             { r.services[s.ID] = s; return nil }
func (r *fakeServiceRepo) GetByID(id string) (*entity.Service, error) { return r.services[id], nil }
func (r *fakeServiceRepo) List(string, string, int, int) ([]*entity.Service, error) {
	return nil, nil
}
func (r *fakeServiceRepo) Update(s *entity.Service) error { r.services[s.ID] = s; return nil }

type fakeCreditRepo struct {
	entries []*entity.CreditEntry
	// snapshot pour simuler le rollback transactionnel
	saved int
}

func (r *fakeCreditRepo) Append(e *entity.CreditEntry) error { r.entries = append(r.entries, e); return nil }
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
	return nil, nil
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

type fakeReservationRepo struct {
	reservations map[string]*entity.Reservation
	seq          int
}

func (r *fakeReservationRepo) Create(res *entity.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}
func (r *fakeReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	return r.reservations[id], nil
}
func (r *fakeReservationRepo) ListByMember(string, int, int) ([]*entity.Reservation, error) {
	return nil, nil
}
func (r *fakeReservationRepo) List(status string, limit, offset int) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.reservations {
		if status == "" || res.Status == status {
			out = append(out, res)
		}
	}
	return out, nil
}
func (r *fakeReservationRepo) Update(res *entity.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}
func (r *fakeReservationRepo) ListBillable(string) ([]*entity.Reservation, error) { return nil, nil }
func (r *fakeReservationRepo) NextReference() (string, error) {
	r.seq++
	return fmt.Sprintf("RES-%05d", r.seq), nil
}

type fakeFlightRepo struct {
	flights map[string]*entity.Flight
}

func (r *fakeFlightRepo) Create(f *entity.Flight) error             { r.flights[f.ID] = f; return nil }
func (r *fakeFlightRepo) GetByID(id string) (*entity.Flight, error) { return r.flights[id], nil }
func (r *fakeFlightRepo) ListByReservation(reservationID string) ([]*entity.Flight, error) {
	var out []*entity.Flight
	for _, f := range r.flights {
		if f.ReservationID == reservationID {
			out = append(out, f)
		}
	}
	return out, nil
}
func (r *fakeFlightRepo) Update(f *entity.Flight) error { r.flights[f.ID] = f; return nil }
func (r *fakeFlightRepo) Delete(id string) error        { delete(r.flights, id); return nil }

type fakePassengerRepo struct {
	passengers map[string]*entity.Passenger
}

func (r *fakePassengerRepo) Create(p *entity.Passenger) error { r.passengers[p.ID] = p; return nil }
func (r *fakePassengerRepo) GetByID(id string) (*entity.Passenger, error) {
	return r.passengers[id], nil
}
func (r *fakePassengerRepo) ListByReservation(reservationID string) ([]*entity.Passenger, error) {
	var out []*entity.Passenger
	for _, p := range r.passengers {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakePassengerRepo) CountByReservation(reservationID string) (int, error) {
	n := 0
	for _, p := range r.passengers {
		if p.ReservationID == reservationID {
			n++
		}
	}
	return n, nil
}
func (r *fakePassengerRepo) Delete(id string) error { delete(r.passengers, id); return nil }

// fakeTxRunner exécute le callback avec les fakes partagés et simule le
// rollback du journal crédit en cas d'erreur.
type fakeTxRunner struct {
	creditRepo      *fakeCreditRepo
	reservationRepo *fakeReservationRepo
}

func (r *fakeTxRunner) RunReservation(ctx context.Context, fn func(
	creditRepo repository.CreditRepository,
	reservationRepo repository.ReservationRepository,
) error) error {
	r.creditRepo.saved = len(r.creditRepo.entries)
	if err := fn(r.creditRepo, r.reservationRepo); err != nil {
		r.creditRepo.entries = r.creditRepo.entries[:r.creditRepo.saved]
		return err
	}
	return nil
}

// ── montage ───────────────────────────────────────────────────────────────────

type fixture struct {
	svc           *reservation.Service
	memberRepo    *fakeMemberRepo
	creditRepo    *fakeCreditRepo
	resRepo       *fakeReservationRepo
	flightRepo    *fakeFlightRepo
	passengerRepo *fakePassengerRepo
}

func newFixture() *fixture {
	memberRepo := &fakeMemberRepo{members: map[string]*entity.Member{
		"mem-1": {ID: "mem-1", CompanyID: "soc-1", Name: "Ali Ben Salah", Matricule: "MEM-0001"},
	}}
	serviceRepo := &fakeServiceRepo{services: map[string]*entity.Service{
		"svc-transfert": {ID: "svc-transfert", Name: "Transfert aéroport", Type: entity.ServiceTransport, Price: decimal.NewFromInt(50)},
	}}
	creditRepo := &fakeCreditRepo{}
	resRepo := &fakeReservationRepo{reservations: map[string]*entity.Reservation{}}
	flightRepo := &fakeFlightRepo{flights: map[string]*entity.Flight{}}
	passengerRepo := &fakePassengerRepo{passengers: map[string]*entity.Passenger{}}
	txRunner := &fakeTxRunner{creditRepo: creditRepo, reservationRepo: resRepo}
	creditSvc := credit.NewService(memberRepo, creditRepo)
	svc := reservation.NewService(txRunner, resRepo, memberRepo, serviceRepo, flightRepo, passengerRepo, creditSvc)
	return &fixture{
		svc: svc, memberRepo: memberRepo, creditRepo: creditRepo,
		resRepo: resRepo, flightRepo: flightRepo, passengerRepo: passengerRepo,
	}
}

func buildRequest() dto.CreateReservationRequest {
	checkIn := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	return dto.CreateReservationRequest{
		MemberID:   "mem-1",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 4),
		Adults:     2,
		Children:   1,
		SaleAmount: decimal.NewFromInt(200),
		UseCredit:  true,
	}
}

func (f *fixture) recharge(t *testing.T, amount int64) {
	t.Helper()
	require.NoError(t, f.creditRepo.Append(&entity.CreditEntry{
		ID: "r", MemberID: "mem-1", Date: time.Now(),
		Amount: decimal.NewFromInt(amount), Kind: entity.CreditRecharge,
	}))
}

// ── création ──────────────────────────────────────────────────────────────────

func TestCreate_CalculeNuiteesEtTotal(t *testing.T) {
	f := newFixture()
	in := buildRequest()
	in.ServiceIDs = []string{"svc-transfert"}

	resp, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Nights)
	assert.Equal(t, 3, resp.Participants)
	// 4 nuits x 200 + 50 de services
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(850)), "total attendu 850, obtenu %s", resp.TotalPrice)
	// acompte 30%
	assert.True(t, resp.DepositAmount.Equal(decimal.NewFromInt(255)), "acompte attendu 255, obtenu %s", resp.DepositAmount)
	assert.Equal(t, entity.ReservationDraft, resp.Status)
}

func TestCreate_DatesIncoherentesRefusees(t *testing.T) {
	f := newFixture()
	in := buildRequest()
	in.CheckOut = in.CheckIn.AddDate(0, 0, -1)

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// l'égalité des dates est refusée aussi: au moins une nuitée
	in.CheckOut = in.CheckIn
	_, err = f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SansAdulteRefusee(t *testing.T) {
	f := newFixture()
	in := buildRequest()
	in.Adults = 0

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_SansAdulteRefusee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	zero := 0
	_, err = f.svc.Update(context.Background(), created.ID, dto.UpdateReservationRequest{Adults: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── confirmation ──────────────────────────────────────────────────────────────

func TestConfirm_DebiteLeCreditPlafonneAuSolde(t *testing.T) {
	f := newFixture()
	f.recharge(t, 300)

	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	// total 800, solde 300: le crédit utilisé est plafonné au solde
	assert.True(t, resp.CreditUsed.Equal(decimal.NewFromInt(300)), "crédit utilisé attendu 300, obtenu %s", resp.CreditUsed)
	assert.True(t, resp.RemainingToPay.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, entity.ReservationConfirmed, resp.Status)

	balance, _ := f.creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.Zero), "le solde doit être entièrement consommé")
}

func TestConfirm_SoldeSuperieurAuTotal(t *testing.T) {
	f := newFixture()
	f.recharge(t, 2000)

	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	assert.True(t, resp.CreditUsed.Equal(decimal.NewFromInt(800)), "le débit est plafonné au total")
	assert.True(t, resp.RemainingToPay.Equal(decimal.Zero))

	balance, _ := f.creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(1200)))
}

func TestConfirm_SansCreditActiveNeDebitePas(t *testing.T) {
	f := newFixture()
	f.recharge(t, 500)
	in := buildRequest()
	in.UseCredit = false

	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	assert.True(t, resp.CreditUsed.Equal(decimal.Zero))
	balance, _ := f.creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(500)), "le solde reste intact")
}

func TestConfirm_DejaConfirmeeRefuse(t *testing.T) {
	f := newFixture()
	f.recharge(t, 100)
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── annulation ────────────────────────────────────────────────────────────────

func TestCancel_RembourseLeCreditEnregistre(t *testing.T) {
	f := newFixture()
	f.recharge(t, 300)
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	resp, err := f.svc.Cancel(context.Background(), created.ID, "user-1", dto.CancelReservationRequest{Reason: "client désisté"})
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationCancelled, resp.Status)
	balance, _ := f.creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(300)), "le remboursement restitue exactement l'utilisation")
}

func TestCancel_SansDebitNeRembourseRien(t *testing.T) {
	f := newFixture()
	in := buildRequest()
	in.UseCredit = false
	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created.ID, "user-1", dto.CancelReservationRequest{Reason: "annulation hôtel"})
	require.NoError(t, err)

	assert.Empty(t, f.creditRepo.entries, "aucune écriture refund ne doit apparaître sans usage")
}

func TestCancel_PuisBrouillonPuisReconfirme(t *testing.T) {
	f := newFixture()
	f.recharge(t, 1000)
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), created.ID, "user-1", dto.CancelReservationRequest{Reason: "report"})
	require.NoError(t, err)
	_, err = f.svc.BackToDraft(context.Background(), created.ID)
	require.NoError(t, err)

	// une nouvelle confirmation rejoue le protocole crédit: l'utilisation
	// précédente est soldée par son remboursement, le re-débit est permis
	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationConfirmed, resp.Status)

	balance, _ := f.creditRepo.Balance("mem-1")
	assert.True(t, balance.Equal(decimal.NewFromInt(700)),
		"la reconfirmation débite à nouveau l'utilisation, solde attendu 700, obtenu %s", balance)
}
