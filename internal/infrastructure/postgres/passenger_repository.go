package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.PassengerRepository = (*PassengerRepo)(nil)

// PassengerRepo implémentation du port PassengerRepository sur PostgreSQL.
type PassengerRepo struct {
	q Querier
}

// NewPassengerRepository construit l'adaptateur de persistance des passagers.
func NewPassengerRepository(q Querier) *PassengerRepo {
	return &PassengerRepo{q: q}
}

const passengerColumns = `
	id, reservation_id, first_name, last_name, birth_date, gender, nationality,
	passport_number, passport_expiry, email, phone, created_at, updated_at`

func scanPassenger(row pgx.Row) (*entity.Passenger, error) {
	var p entity.Passenger
	err := row.Scan(
		&p.ID, &p.ReservationID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender, &p.Nationality,
		&p.PassportNumber, &p.PassportExpiry, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nouveau passager.
func (r *PassengerRepo) Create(p *entity.Passenger) error {
	query := `
		INSERT INTO passengers (
			id, reservation_id, first_name, last_name, birth_date, gender, nationality,
			passport_number, passport_expiry, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ReservationID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Nationality,
		p.PassportNumber, p.PassportExpiry, p.Email, p.Phone, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

// GetByID obtient un passager par ID.
func (r *PassengerRepo) GetByID(id string) (*entity.Passenger, error) {
	p, err := scanPassenger(r.q.QueryRow(context.Background(),
		`SELECT `+passengerColumns+` FROM passengers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get passenger: %w", err)
	}
	return p, nil
}

// ListByReservation liste les passagers d'une réservation par nom.
func (r *PassengerRepo) ListByReservation(reservationID string) ([]*entity.Passenger, error) {
	query := `SELECT ` + passengerColumns + `
		FROM passengers WHERE reservation_id = $1
		ORDER BY last_name, first_name`
	rows, err := r.q.Query(context.Background(), query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan passenger: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountByReservation compte les passagers d'une réservation.
func (r *PassengerRepo) CountByReservation(reservationID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM passengers WHERE reservation_id = $1`, reservationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count passengers: %w", err)
	}
	return n, nil
}

// Delete supprime un passager.
func (r *PassengerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM passengers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	return nil
}
