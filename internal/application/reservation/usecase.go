// Package reservation implémente le cycle de vie des réservations:
// brouillon, confirmation (avec débit crédit), terminée, annulation
// (avec remboursement du crédit réellement enregistré).
package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

// Pourcentage d'acompte par défaut à la création.
var defaultDepositPercent = decimal.NewFromInt(30)

// TxRunner exécute fn dans une transaction couvrant crédit et réservation.
type TxRunner interface {
	RunReservation(ctx context.Context, fn func(
		creditRepo repository.CreditRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}

// Service expose les opérations réservation.
type Service struct {
	txRunner        TxRunner
	reservationRepo repository.ReservationRepository
	memberRepo      repository.MemberRepository
	serviceRepo     repository.ServiceRepository
	flightRepo      repository.FlightRepository
	passengerRepo   repository.PassengerRepository
	creditSvc       *credit.Service
}

// NewService construit le service.
func NewService(
	txRunner TxRunner,
	reservationRepo repository.ReservationRepository,
	memberRepo repository.MemberRepository,
	serviceRepo repository.ServiceRepository,
	flightRepo repository.FlightRepository,
	passengerRepo repository.PassengerRepository,
	creditSvc *credit.Service,
) *Service {
	return &Service{
		txRunner:        txRunner,
		reservationRepo: reservationRepo,
		memberRepo:      memberRepo,
		serviceRepo:     serviceRepo,
		flightRepo:      flightRepo,
		passengerRepo:   passengerRepo,
		creditSvc:       creditSvc,
	}
}

// Create crée une réservation en brouillon et calcule ses montants dérivés.
func (s *Service) Create(ctx context.Context, in dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	if in.MemberID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Adults < 1 {
		return nil, domain.ErrInvalidInput
	}
	if !in.CheckOut.After(in.CheckIn) {
		return nil, domain.ErrInvalidInput
	}
	member, err := s.memberRepo.GetByID(in.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	if member.Archived {
		return nil, domain.ErrConflict
	}

	ref, err := s.reservationRepo.NextReference()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := &entity.Reservation{
		ID:              uuid.New().String(),
		Reference:       ref,
		MemberID:        in.MemberID,
		DestinationID:   in.DestinationID,
		RoomType:        in.RoomType,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Adults:          in.Adults,
		Children:        in.Children,
		Infants:         in.Infants,
		PurchaseAmount:  in.PurchaseAmount,
		SaleAmount:      in.SaleAmount,
		ServiceIDs:      in.ServiceIDs,
		DepositRequired: defaultDepositPercent,
		UseCredit:       in.UseCredit,
		Status:          entity.ReservationDraft,
		Note:            in.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.compute(res); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Create(res); err != nil {
		return nil, err
	}
	return s.toResponse(res, member.Name), nil
}

// Update modifie une réservation en brouillon et recalcule les montants.
func (s *Service) Update(ctx context.Context, id string, in dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status != entity.ReservationDraft {
		return nil, domain.ErrConflict
	}

	if in.DestinationID != "" {
		res.DestinationID = in.DestinationID
	}
	if in.RoomType != "" {
		res.RoomType = in.RoomType
	}
	if in.CheckIn != nil {
		res.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		res.CheckOut = *in.CheckOut
	}
	if !res.CheckOut.After(res.CheckIn) {
		return nil, domain.ErrInvalidInput
	}
	if in.Adults != nil {
		res.Adults = *in.Adults
	}
	if res.Adults < 1 {
		return nil, domain.ErrInvalidInput
	}
	if in.Children != nil {
		res.Children = *in.Children
	}
	if in.Infants != nil {
		res.Infants = *in.Infants
	}
	if !in.PurchaseAmount.IsZero() {
		res.PurchaseAmount = in.PurchaseAmount
	}
	if !in.SaleAmount.IsZero() {
		res.SaleAmount = in.SaleAmount
	}
	if in.ServiceIDs != nil {
		res.ServiceIDs = in.ServiceIDs
	}
	if in.UseCredit != nil {
		res.UseCredit = *in.UseCredit
	}
	if in.Note != "" {
		res.Note = in.Note
	}
	res.UpdatedAt = time.Now()

	if err := s.compute(res); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Update(res); err != nil {
		return nil, err
	}
	return s.toResponse(res, ""), nil
}

// Get retourne une réservation par son ID.
func (s *Service) Get(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	memberName := ""
	if member, _ := s.memberRepo.GetByID(res.MemberID); member != nil {
		memberName = member.Name
	}
	return s.toResponse(res, memberName), nil
}

// List retourne les réservations filtrées par statut.
func (s *Service) List(ctx context.Context, status string, page dto.PageRequest) ([]*dto.ReservationResponse, error) {
	page.DefaultPage()
	list, err := s.reservationRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, s.toResponse(res, ""))
	}
	return out, nil
}

// ListByMember liste les réservations d'un membre, les plus récentes d'abord.
func (s *Service) ListByMember(ctx context.Context, memberID string, page dto.PageRequest) ([]*dto.ReservationResponse, error) {
	if memberID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := s.reservationRepo.ListByMember(memberID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, s.toResponse(res, ""))
	}
	return out, nil
}

// Confirm passe la réservation de brouillon à confirmée.
//
// Si le crédit est activé, le débit est enregistré dans la même transaction
// que le changement d'état: crédit insuffisant annule tout (pas d'état
// partiel). Le montant débité est min(solde, total), figé à la confirmation.
func (s *Service) Confirm(ctx context.Context, id, userID string) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status != entity.ReservationDraft {
		return nil, domain.ErrConflict
	}
	if !res.TotalPrice.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	// La liste des passagers, si elle est renseignée, doit couvrir
	// exactement la répartition adultes + enfants + bébés.
	paxCount, err := s.passengerRepo.CountByReservation(res.ID)
	if err != nil {
		return nil, err
	}
	if paxCount > 0 && paxCount != res.Participants() {
		return nil, domain.ErrPassengerMismatch
	}

	now := time.Now()
	err = s.txRunner.RunReservation(ctx, func(
		creditRepo repository.CreditRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		if res.UseCredit {
			balance, err := creditRepo.Balance(res.MemberID)
			if err != nil {
				return err
			}
			res.CreditUsed = decimal.Min(balance, res.TotalPrice)
			if res.CreditUsed.GreaterThan(decimal.Zero) {
				if err := s.creditSvc.RecordUsageInTx(creditRepo, res.MemberID, res.ID, res.CreditUsed, now); err != nil {
					return err
				}
			}
		}
		res.Status = entity.ReservationConfirmed
		res.ConfirmedBy = userID
		res.ConfirmedAt = &now
		res.UpdatedAt = now
		return reservationRepo.Update(res)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(res, ""), nil
}

// Done marque une réservation confirmée comme terminée.
func (s *Service) Done(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status != entity.ReservationConfirmed {
		return nil, domain.ErrConflict
	}
	res.Status = entity.ReservationDone
	res.UpdatedAt = time.Now()
	if err := s.reservationRepo.Update(res); err != nil {
		return nil, err
	}
	return s.toResponse(res, ""), nil
}

// Cancel annule la réservation et rembourse le crédit réellement enregistré.
//
// Le remboursement porte sur la somme des écritures usage du journal, jamais
// sur le champ CreditUsed de la réservation: si aucune écriture n'existe,
// rien n'est remboursé.
func (s *Service) Cancel(ctx context.Context, id, userID string, in dto.CancelReservationRequest) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status == entity.ReservationCancelled {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	err = s.txRunner.RunReservation(ctx, func(
		creditRepo repository.CreditRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		if err := s.creditSvc.RecordRefundInTx(creditRepo, res.MemberID, res.ID, now); err != nil {
			return err
		}
		res.Status = entity.ReservationCancelled
		res.CancellationReason = in.Reason
		res.CancelledBy = userID
		res.CancelledAt = &now
		res.CreditUsed = decimal.Zero
		res.UpdatedAt = now
		return reservationRepo.Update(res)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(res, ""), nil
}

// BackToDraft ramène une réservation annulée en brouillon.
func (s *Service) BackToDraft(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status != entity.ReservationCancelled {
		return nil, domain.ErrConflict
	}
	res.Status = entity.ReservationDraft
	res.CancellationReason = ""
	res.CancelledBy = ""
	res.CancelledAt = nil
	res.UpdatedAt = time.Now()
	if err := s.reservationRepo.Update(res); err != nil {
		return nil, err
	}
	return s.toResponse(res, ""), nil
}

// compute recalcule les montants dérivés: total services, sous-total vols,
// prix total (vente par nuit x nuitées + services + vols non annulés).
func (s *Service) compute(res *entity.Reservation) error {
	serviceTotal := decimal.Zero
	for _, serviceID := range res.ServiceIDs {
		svc, err := s.serviceRepo.GetByID(serviceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return domain.ErrNotFound
		}
		serviceTotal = serviceTotal.Add(svc.Price)
	}
	res.ServiceTotal = serviceTotal

	flights, err := s.flightRepo.ListByReservation(res.ID)
	if err != nil {
		return err
	}
	flightSubtotal := decimal.Zero
	for _, f := range flights {
		if f.Status == entity.FlightCancelled {
			continue
		}
		flightSubtotal = flightSubtotal.Add(f.SalePrice)
	}
	res.FlightSubtotal = flightSubtotal

	nights := decimal.NewFromInt(int64(res.Nights()))
	res.TotalPrice = res.SaleAmount.Mul(nights).Add(serviceTotal).Add(flightSubtotal)
	return nil
}

func (s *Service) toResponse(res *entity.Reservation, memberName string) *dto.ReservationResponse {
	return &dto.ReservationResponse{
		ID:             res.ID,
		Reference:      res.Reference,
		MemberID:       res.MemberID,
		MemberName:     memberName,
		DestinationID:  res.DestinationID,
		RoomType:       res.RoomType,
		CheckIn:        res.CheckIn,
		CheckOut:       res.CheckOut,
		Nights:         res.Nights(),
		Adults:         res.Adults,
		Children:       res.Children,
		Infants:        res.Infants,
		Participants:   res.Participants(),
		PurchaseAmount: res.PurchaseAmount,
		SaleAmount:     res.SaleAmount,
		ServiceTotal:   res.ServiceTotal,
		FlightSubtotal: res.FlightSubtotal,
		TotalPrice:     res.TotalPrice,
		DepositPercent: res.DepositRequired,
		DepositAmount:  res.DepositAmount(),
		UseCredit:      res.UseCredit,
		CreditUsed:     res.CreditUsed,
		RemainingToPay: res.RemainingToPay(),
		Status:         res.Status,
		Note:           res.Note,
	}
}
