package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.FlightRepository = (*FlightRepo)(nil)

// FlightRepo implémentation du port FlightRepository sur PostgreSQL.
type FlightRepo struct {
	q Querier
}

// NewFlightRepository construit l'adaptateur de persistance des vols.
func NewFlightRepository(q Querier) *FlightRepo {
	return &FlightRepo{q: q}
}

const flightColumns = `
	id, reservation_id, flight_type,
	departure_city, arrival_city, departure_date, arrival_date, flight_number, airline,
	return_departure_date, return_arrival_date, return_flight_number,
	class_type, booking_reference, ticket_number,
	purchase_price, sale_price,
	status, COALESCE(supplier_id, ''), note, created_at, updated_at`

func scanFlight(row pgx.Row) (*entity.Flight, error) {
	var f entity.Flight
	err := row.Scan(
		&f.ID, &f.ReservationID, &f.FlightType,
		&f.DepartureCity, &f.ArrivalCity, &f.DepartureDate, &f.ArrivalDate, &f.FlightNumber, &f.Airline,
		&f.ReturnDepartureDate, &f.ReturnArrivalDate, &f.ReturnFlightNumber,
		&f.ClassType, &f.BookingReference, &f.TicketNumber,
		&f.PurchasePrice, &f.SalePrice,
		&f.Status, &f.SupplierID, &f.Note, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create persiste un nouveau vol.
func (r *FlightRepo) Create(f *entity.Flight) error {
	query := `
		INSERT INTO flights (
			id, reservation_id, flight_type,
			departure_city, arrival_city, departure_date, arrival_date, flight_number, airline,
			return_departure_date, return_arrival_date, return_flight_number,
			class_type, booking_reference, ticket_number,
			purchase_price, sale_price,
			status, supplier_id, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, NULLIF($19, ''), $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.ReservationID, f.FlightType,
		f.DepartureCity, f.ArrivalCity, f.DepartureDate, f.ArrivalDate, f.FlightNumber, f.Airline,
		f.ReturnDepartureDate, f.ReturnArrivalDate, f.ReturnFlightNumber,
		f.ClassType, f.BookingReference, f.TicketNumber,
		f.PurchasePrice, f.SalePrice,
		f.Status, f.SupplierID, f.Note, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

// GetByID obtient un vol par ID.
func (r *FlightRepo) GetByID(id string) (*entity.Flight, error) {
	f, err := scanFlight(r.q.QueryRow(context.Background(),
		`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return f, nil
}

// ListByReservation liste les vols d'une réservation par date de départ.
func (r *FlightRepo) ListByReservation(reservationID string) ([]*entity.Flight, error) {
	query := `SELECT ` + flightColumns + `
		FROM flights WHERE reservation_id = $1
		ORDER BY departure_date, created_at`
	rows, err := r.q.Query(context.Background(), query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()
	var list []*entity.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update réécrit le vol complet.
func (r *FlightRepo) Update(f *entity.Flight) error {
	query := `
		UPDATE flights SET
			flight_type = $2,
			departure_city = $3, arrival_city = $4, departure_date = $5, arrival_date = $6,
			flight_number = $7, airline = $8,
			return_departure_date = $9, return_arrival_date = $10, return_flight_number = $11,
			class_type = $12, booking_reference = $13, ticket_number = $14,
			purchase_price = $15, sale_price = $16,
			status = $17, supplier_id = NULLIF($18, ''), note = $19, updated_at = $20
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.FlightType,
		f.DepartureCity, f.ArrivalCity, f.DepartureDate, f.ArrivalDate,
		f.FlightNumber, f.Airline,
		f.ReturnDepartureDate, f.ReturnArrivalDate, f.ReturnFlightNumber,
		f.ClassType, f.BookingReference, f.TicketNumber,
		f.PurchasePrice, f.SalePrice,
		f.Status, f.SupplierID, f.Note, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update flight: %w", err)
	}
	return nil
}

// Delete supprime un vol.
func (r *FlightRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flight: %w", err)
	}
	return nil
}
