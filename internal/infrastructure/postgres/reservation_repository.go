package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implémentation du port ReservationRepository sur PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construit l'adaptateur de persistance des réservations.
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, reference, member_id, COALESCE(destination_id, ''), check_in, check_out,
	adults, children, infants,
	COALESCE(hotel_service_id, ''), COALESCE(supplier_id, ''), local_or_foreign, room_category, room_type,
	purchase_amount, sale_amount, service_ids,
	service_total, flight_subtotal, total_price, deposit_required,
	use_credit, credit_used,
	status, cancellation_reason, confirmed_by, confirmed_at, cancelled_by, cancelled_at,
	note, created_at, updated_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID, &res.Reference, &res.MemberID, &res.DestinationID, &res.CheckIn, &res.CheckOut,
		&res.Adults, &res.Children, &res.Infants,
		&res.HotelServiceID, &res.SupplierID, &res.LocalOrForeign, &res.RoomCategory, &res.RoomType,
		&res.PurchaseAmount, &res.SaleAmount, &res.ServiceIDs,
		&res.ServiceTotal, &res.FlightSubtotal, &res.TotalPrice, &res.DepositRequired,
		&res.UseCredit, &res.CreditUsed,
		&res.Status, &res.CancellationReason, &res.ConfirmedBy, &res.ConfirmedAt, &res.CancelledBy, &res.CancelledAt,
		&res.Note, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create persiste une nouvelle réservation.
func (r *ReservationRepo) Create(res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, reference, member_id, destination_id, check_in, check_out,
			adults, children, infants,
			hotel_service_id, supplier_id, local_or_foreign, room_category, room_type,
			purchase_amount, sale_amount, service_ids,
			service_total, flight_subtotal, total_price, deposit_required,
			use_credit, credit_used,
			status, cancellation_reason, confirmed_by, confirmed_at, cancelled_by, cancelled_at,
			note, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9,
			NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23,
			$24, $25, $26, $27, $28, $29, $30, $31, $32)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.Reference, res.MemberID, res.DestinationID, res.CheckIn, res.CheckOut,
		res.Adults, res.Children, res.Infants,
		res.HotelServiceID, res.SupplierID, res.LocalOrForeign, res.RoomCategory, res.RoomType,
		res.PurchaseAmount, res.SaleAmount, res.ServiceIDs,
		res.ServiceTotal, res.FlightSubtotal, res.TotalPrice, res.DepositRequired,
		res.UseCredit, res.CreditUsed,
		res.Status, res.CancellationReason, res.ConfirmedBy, res.ConfirmedAt, res.CancelledBy, res.CancelledAt,
		res.Note, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtient une réservation par ID.
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	res, err := scanReservation(r.q.QueryRow(context.Background(),
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// ListByMember liste les réservations d'un membre.
func (r *ReservationRepo) ListByMember(memberID string, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations WHERE member_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryList(query, memberID, limit, offset)
}

// List liste les réservations filtrées par état si status non vide.
func (r *ReservationRepo) List(status string, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryList(query, status, limit, offset)
}

// ListBillable retourne les réservations confirmées ou terminées du membre,
// avec un prix positif, non reprises sur une ligne de facture non annulée.
func (r *ReservationRepo) ListBillable(memberID string) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations res
		WHERE res.member_id = $1
		  AND res.status IN ($2, $3)
		  AND res.total_price > 0
		  AND NOT EXISTS (
			SELECT 1 FROM invoice_lines il
			JOIN invoices inv ON inv.id = il.invoice_id
			WHERE il.reservation_id = res.id AND inv.state <> $4)
		ORDER BY res.check_in`
	rows, err := r.q.Query(context.Background(), query,
		memberID, entity.ReservationConfirmed, entity.ReservationDone, entity.InvoiceCancelled)
	if err != nil {
		return nil, fmt.Errorf("list billable reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

// Update réécrit la réservation complète (montants dérivés inclus).
func (r *ReservationRepo) Update(res *entity.Reservation) error {
	query := `
		UPDATE reservations SET
			member_id = $2, destination_id = NULLIF($3, ''), check_in = $4, check_out = $5,
			adults = $6, children = $7, infants = $8,
			hotel_service_id = NULLIF($9, ''), supplier_id = NULLIF($10, ''),
			local_or_foreign = $11, room_category = $12, room_type = $13,
			purchase_amount = $14, sale_amount = $15, service_ids = $16,
			service_total = $17, flight_subtotal = $18, total_price = $19, deposit_required = $20,
			use_credit = $21, credit_used = $22,
			status = $23, cancellation_reason = $24,
			confirmed_by = $25, confirmed_at = $26, cancelled_by = $27, cancelled_at = $28,
			note = $29, updated_at = $30
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.MemberID, res.DestinationID, res.CheckIn, res.CheckOut,
		res.Adults, res.Children, res.Infants,
		res.HotelServiceID, res.SupplierID, res.LocalOrForeign, res.RoomCategory, res.RoomType,
		res.PurchaseAmount, res.SaleAmount, res.ServiceIDs,
		res.ServiceTotal, res.FlightSubtotal, res.TotalPrice, res.DepositRequired,
		res.UseCredit, res.CreditUsed,
		res.Status, res.CancellationReason,
		res.ConfirmedBy, res.ConfirmedAt, res.CancelledBy, res.CancelledAt,
		res.Note, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// NextReference réserve la prochaine référence de séquence (RES-00042).
func (r *ReservationRepo) NextReference() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('reservation_reference_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next reservation reference: %w", err)
	}
	return fmt.Sprintf("RES-%05d", n), nil
}

func (r *ReservationRepo) queryList(query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	return collectReservations(rows)
}

func collectReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
