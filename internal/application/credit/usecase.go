// Package credit implémente le journal de crédit des membres.
//
// Le journal est append-only: le solde est toujours la somme complète de
// l'historique, jamais un champ stocké. Une utilisation est une écriture
// négative, un remboursement une écriture positive liée à la même
// réservation.
package credit

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

// Service expose les opérations du journal de crédit.
type Service struct {
	memberRepo repository.MemberRepository
	creditRepo repository.CreditRepository
}

// NewService construit le service.
func NewService(memberRepo repository.MemberRepository, creditRepo repository.CreditRepository) *Service {
	return &Service{memberRepo: memberRepo, creditRepo: creditRepo}
}

// Recharge ajoute du crédit au compte d'un membre.
// Le montant doit être strictement positif, sinon ErrInvalidAmount.
func (s *Service) Recharge(ctx context.Context, memberID string, in dto.RechargeCreditRequest) (*dto.CreditEntryResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	if member.Archived {
		return nil, domain.ErrConflict
	}

	entry := &entity.CreditEntry{
		ID:       uuid.New().String(),
		MemberID: memberID,
		Date:     time.Now(),
		Amount:   in.Amount,
		Kind:     entity.CreditRecharge,
		Note:     in.Note,
	}
	if err := s.creditRepo.Append(entry); err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// Balance retourne le solde courant du membre (somme de l'historique).
func (s *Service) Balance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return decimal.Zero, err
	}
	if member == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return s.creditRepo.Balance(memberID)
}

// History retourne le journal paginé du membre, du plus récent au plus ancien.
func (s *Service) History(ctx context.Context, memberID string, page dto.PageRequest) (*dto.CreditHistoryResponse, error) {
	member, err := s.memberRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()

	balance, err := s.creditRepo.Balance(memberID)
	if err != nil {
		return nil, err
	}
	entries, err := s.creditRepo.History(memberID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.CreditHistoryResponse{
		MemberID: memberID,
		Balance:  balance,
		Entries:  make([]dto.CreditEntryResponse, 0, len(entries)),
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, *toEntryResponse(e))
	}
	return resp, nil
}

// RecordUsageInTx débite le crédit d'un membre pour une réservation, dans la
// transaction du caller.
//
// Garanties: une utilisation non remboursée pour la réservation rend l'appel
// idempotent (ErrDuplicateCreditUsage); une utilisation déjà remboursée par
// une annulation ne bloque pas une reconfirmation. Le solde est revérifié
// dans la tx avant écriture; s'il est insuffisant, aucune écriture n'est
// faite et le caller doit faire rollback.
func (s *Service) RecordUsageInTx(creditRepo repository.CreditRepository, memberID, reservationID string, amount decimal.Decimal, now time.Time) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	outstanding, err := outstandingUsage(creditRepo, reservationID)
	if err != nil {
		return err
	}
	if outstanding.GreaterThan(decimal.Zero) {
		return domain.ErrDuplicateCreditUsage
	}
	balance, err := creditRepo.Balance(memberID)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return domain.ErrInsufficientCredit
	}
	return creditRepo.Append(&entity.CreditEntry{
		ID:            uuid.New().String(),
		MemberID:      memberID,
		Date:          now,
		Amount:        amount.Neg(),
		Kind:          entity.CreditUsage,
		ReservationID: reservationID,
		Note:          "utilisation réservation",
	})
}

// RecordRefundInTx rembourse exactement le crédit utilisé sur la réservation.
//
// Le montant remboursé est le solde des écritures usage non encore
// remboursées (jamais le champ de la réservation). Si rien ne reste à
// rembourser, l'appel est un no-op; un cycle confirmation puis annulation
// peut donc se répéter, chaque annulation remboursant sa propre utilisation.
func (s *Service) RecordRefundInTx(creditRepo repository.CreditRepository, memberID, reservationID string, now time.Time) error {
	outstanding, err := outstandingUsage(creditRepo, reservationID)
	if err != nil {
		return err
	}
	if !outstanding.GreaterThan(decimal.Zero) {
		return nil
	}
	return creditRepo.Append(&entity.CreditEntry{
		ID:            uuid.New().String(),
		MemberID:      memberID,
		Date:          now,
		Amount:        outstanding,
		Kind:          entity.CreditRefund,
		ReservationID: reservationID,
		Note:          "remboursement annulation",
	})
}

// outstandingUsage retourne le crédit utilisé sur la réservation et pas
// encore remboursé (somme des usages moins somme des remboursements).
func outstandingUsage(creditRepo repository.CreditRepository, reservationID string) (decimal.Decimal, error) {
	usages, err := creditRepo.FindByReservation(reservationID, entity.CreditUsage)
	if err != nil {
		return decimal.Zero, err
	}
	refunds, err := creditRepo.FindByReservation(reservationID, entity.CreditRefund)
	if err != nil {
		return decimal.Zero, err
	}
	var outstanding decimal.Decimal
	for _, u := range usages {
		outstanding = outstanding.Add(u.Amount.Neg())
	}
	for _, r := range refunds {
		outstanding = outstanding.Sub(r.Amount)
	}
	return outstanding, nil
}

func toEntryResponse(e *entity.CreditEntry) *dto.CreditEntryResponse {
	return &dto.CreditEntryResponse{
		ID:            e.ID,
		MemberID:      e.MemberID,
		Date:          e.Date,
		Amount:        e.Amount,
		Kind:          e.Kind,
		ReservationID: e.ReservationID,
		Note:          e.Note,
	}
}
