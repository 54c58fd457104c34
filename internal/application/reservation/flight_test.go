package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

func buildFlightRequest() dto.CreateFlightRequest {
	departure := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)
	return dto.CreateFlightRequest{
		FlightType:    entity.FlightOneWay,
		DepartureCity: "Tunis",
		ArrivalCity:   "Djerba",
		DepartureDate: departure,
		ArrivalDate:   departure.Add(time.Hour),
		FlightNumber:  "TU 712",
		Airline:       "Tunisair",
		PurchasePrice: decimal.NewFromInt(120),
		SalePrice:     decimal.NewFromInt(180),
	}
}

// ── vols ──────────────────────────────────────────────────────────────────────

func TestAddFlight_AlimenteLePrixTotal(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	flight, err := f.svc.AddFlight(context.Background(), created.ID, buildFlightRequest())
	require.NoError(t, err)
	assert.Equal(t, entity.FlightQuote, flight.Status)
	assert.True(t, flight.Margin.Equal(decimal.NewFromInt(60)))

	resp, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	// 4 nuits x 200 + 180 de vol
	assert.True(t, resp.FlightSubtotal.Equal(decimal.NewFromInt(180)),
		"sous-total vols attendu 180, obtenu %s", resp.FlightSubtotal)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(980)),
		"total attendu 980, obtenu %s", resp.TotalPrice)
}

func TestAddFlight_DatesIncoherentesRefusees(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	in := buildFlightRequest()
	in.ArrivalDate = in.DepartureDate

	_, err = f.svc.AddFlight(context.Background(), created.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddFlight_VenteSousLachatRefusee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	in := buildFlightRequest()
	in.SalePrice = decimal.NewFromInt(100)

	_, err = f.svc.AddFlight(context.Background(), created.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddFlight_RetourAvantArriveeRefuse(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	in := buildFlightRequest()
	in.FlightType = entity.FlightRoundTrip
	// le retour décollerait avant l'arrivée de l'aller
	back := in.DepartureDate.Add(30 * time.Minute)
	backArrival := back.Add(time.Hour)
	in.ReturnDepartureDate = &back
	in.ReturnArrivalDate = &backArrival

	_, err = f.svc.AddFlight(context.Background(), created.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddFlight_ReservationConfirmeeRefusee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	_, err = f.svc.AddFlight(context.Background(), created.ID, buildFlightRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelFlight_SortDuSousTotal(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)
	flight, err := f.svc.AddFlight(context.Background(), created.ID, buildFlightRequest())
	require.NoError(t, err)

	cancelled, err := f.svc.CancelFlight(context.Background(), created.ID, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FlightCancelled, cancelled.Status)

	resp, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, resp.FlightSubtotal.Equal(decimal.Zero), "un vol annulé ne compte plus")
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(800)))

	// le vol annulé reste dans l'historique
	flights, err := f.svc.ListFlights(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, flights, 1)
}

func TestRemoveFlight_RecalculeLeTotal(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)
	flight, err := f.svc.AddFlight(context.Background(), created.ID, buildFlightRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveFlight(context.Background(), created.ID, flight.ID))

	resp, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(800)))

	flights, err := f.svc.ListFlights(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestBookFlight_PuisEmission(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)
	flight, err := f.svc.AddFlight(context.Background(), created.ID, buildFlightRequest())
	require.NoError(t, err)

	// l'émission directe depuis le devis est refusée
	_, err = f.svc.TicketFlight(context.Background(), created.ID, flight.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	booked, err := f.svc.BookFlight(context.Background(), created.ID, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FlightBooked, booked.Status)

	ticketed, err := f.svc.TicketFlight(context.Background(), created.ID, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.FlightTicketed, ticketed.Status)
}

// ── passagers ─────────────────────────────────────────────────────────────────

func buildPassengerRequest(name string, birth time.Time) dto.CreatePassengerRequest {
	return dto.CreatePassengerRequest{
		FirstName:   name,
		LastName:    "Ben Salah",
		BirthDate:   birth,
		Nationality: "tunisienne",
	}
}

func TestAddPassenger_CategorieSelonLAge(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	adult, err := f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Ali", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, entity.PassengerAdult, adult.Type)

	child, err := f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Youssef", time.Date(2019, 5, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, entity.PassengerChild, child.Type)

	infant, err := f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Lina", time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, entity.PassengerInfant, infant.Type)
}

func TestAddPassenger_AuDelaDesParticipantsRefuse(t *testing.T) {
	f := newFixture()
	in := buildRequest()
	in.Adults = 1
	in.Children = 0
	created, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Ali", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Sami", time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, domain.ErrPassengerMismatch)
}

func TestConfirm_ListePassagersIncompleteRefusee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	// 1 passager saisi pour 3 participants annoncés
	_, err = f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Ali", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrPassengerMismatch)
}

func TestConfirm_ListePassagersCompleteAcceptee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	births := []time.Time{
		time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, birth := range births {
		_, err = f.svc.AddPassenger(context.Background(), created.ID,
			buildPassengerRequest([]string{"Ali", "Sami", "Youssef"}[i], birth))
		require.NoError(t, err)
	}

	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationConfirmed, resp.Status)
}

func TestConfirm_SansListePassagersAcceptee(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	// liste vide: la saisie du manifeste reste facultative
	resp, err := f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationConfirmed, resp.Status)
}

func TestRemovePassenger_BrouillonUniquement(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), buildRequest())
	require.NoError(t, err)

	p, err := f.svc.AddPassenger(context.Background(), created.ID,
		buildPassengerRequest("Ali", time.Date(1988, 3, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NoError(t, f.svc.RemovePassenger(context.Background(), created.ID, p.ID))

	list, err := f.svc.ListPassengers(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Confirm(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	err = f.svc.RemovePassenger(context.Background(), created.ID, "quelconque")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
