// Package cashregister implémente la hiérarchie de caisses de l'agence:
// une caisse principale par société, au plus deux sous-caisses, ouverture et
// fermeture contraintes par l'état de la principale.
package cashregister

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
)

// Service expose les opérations de caisse.
type Service struct {
	registerRepo repository.CashRegisterRepository
	opRepo       repository.CashOperationRepository
}

// NewService construit le service.
func NewService(registerRepo repository.CashRegisterRepository, opRepo repository.CashOperationRepository) *Service {
	return &Service{registerRepo: registerRepo, opRepo: opRepo}
}

// CreateRegister crée une caisse fermée.
//
// Invariants: au plus une principale active par société, au plus deux
// sous-caisses par principale, une sous-caisse référence obligatoirement
// une principale existante.
func (s *Service) CreateRegister(ctx context.Context, in dto.CreateRegisterRequest) (*dto.RegisterResponse, error) {
	if in.Name == "" || in.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}

	var mainID string
	if in.IsMain {
		existing, err := s.registerRepo.GetMainByCompany(in.CompanyID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrMainRegisterExist
		}
	} else {
		if in.MainID == "" {
			return nil, domain.ErrInvalidInput
		}
		main, err := s.registerRepo.GetByID(in.MainID)
		if err != nil {
			return nil, err
		}
		if main == nil || !main.IsMain {
			return nil, domain.ErrNotFound
		}
		subs, err := s.registerRepo.ListSubRegisters(in.MainID)
		if err != nil {
			return nil, err
		}
		if len(subs) >= entity.MaxSubRegisters {
			return nil, domain.ErrSubRegisterLimit
		}
		mainID = in.MainID
	}

	now := time.Now()
	code := in.Code
	if code == "" {
		code = fmt.Sprintf("CSE-%d", now.UnixNano()%1_000_000)
	} else {
		existing, err := s.registerRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	register := &entity.CashRegister{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Code:      code,
		IsMain:    in.IsMain,
		MainID:    mainID,
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		State:     entity.RegisterClosed,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.registerRepo.Create(register); err != nil {
		return nil, err
	}
	return s.toResponse(register, register.OpeningBalance), nil
}

// Open ouvre une caisse. Le solde d'ouverture est le dernier solde de
// fermeture. Une sous-caisse ne peut ouvrir que si sa principale est ouverte.
func (s *Service) Open(ctx context.Context, id, userID string) (*dto.RegisterResponse, error) {
	register, err := s.registerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	if register.State == entity.RegisterOpened {
		return nil, domain.ErrRegisterOpened
	}
	if !register.IsMain {
		main, err := s.registerRepo.GetByID(register.MainID)
		if err != nil {
			return nil, err
		}
		if main == nil || main.State != entity.RegisterOpened {
			return nil, domain.ErrRegisterClosed
		}
	}

	now := time.Now()
	register.State = entity.RegisterOpened
	register.OpeningDate = &now
	register.OpeningUserID = userID
	register.OpeningBalance = register.ClosingBalance
	register.ClosingDate = nil
	register.ClosingUserID = ""
	register.UpdatedAt = now
	if err := s.registerRepo.Update(register); err != nil {
		return nil, err
	}

	// L'ouverture d'une principale entraîne celle de ses sous-caisses
	// fermées, chacune reprenant son dernier solde de fermeture.
	if register.IsMain {
		subs, err := s.registerRepo.ListSubRegisters(register.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.State == entity.RegisterOpened {
				continue
			}
			sub.State = entity.RegisterOpened
			sub.OpeningDate = &now
			sub.OpeningUserID = userID
			sub.OpeningBalance = sub.ClosingBalance
			sub.ClosingDate = nil
			sub.ClosingUserID = ""
			sub.UpdatedAt = now
			if err := s.registerRepo.Update(sub); err != nil {
				return nil, err
			}
		}
	}
	return s.toResponse(register, register.OpeningBalance), nil
}

// Close ferme une caisse et fige son solde de fermeture. Une principale ne
// peut fermer tant qu'une de ses sous-caisses est ouverte.
func (s *Service) Close(ctx context.Context, id, userID string) (*dto.RegisterResponse, error) {
	register, err := s.registerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	if register.State != entity.RegisterOpened {
		return nil, domain.ErrRegisterClosed
	}
	if register.IsMain {
		subs, err := s.registerRepo.ListSubRegisters(register.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.State == entity.RegisterOpened {
				return nil, domain.ErrRegisterOpened
			}
		}
	}

	balance, err := s.sessionBalance(register)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	register.State = entity.RegisterClosed
	register.ClosingDate = &now
	register.ClosingUserID = userID
	register.ClosingBalance = balance
	register.UpdatedAt = now
	if err := s.registerRepo.Update(register); err != nil {
		return nil, err
	}
	return s.toResponse(register, balance), nil
}

// Get retourne une caisse avec son solde courant.
func (s *Service) Get(ctx context.Context, id string) (*dto.RegisterResponse, error) {
	register, err := s.registerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	balance, err := s.sessionBalance(register)
	if err != nil {
		return nil, err
	}
	return s.toResponse(register, balance), nil
}

// List retourne les caisses avec leurs soldes.
func (s *Service) List(ctx context.Context, page dto.PageRequest) ([]*dto.RegisterResponse, error) {
	page.DefaultPage()
	registers, err := s.registerRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RegisterResponse, 0, len(registers))
	for _, register := range registers {
		balance, err := s.sessionBalance(register)
		if err != nil {
			return nil, err
		}
		out = append(out, s.toResponse(register, balance))
	}
	return out, nil
}

// AddOperation enregistre une recette ou une dépense en brouillon sur une
// caisse ouverte.
func (s *Service) AddOperation(ctx context.Context, registerID, userID string, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	if in.Type != entity.OperationReceipt && in.Type != entity.OperationExpense {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	register, err := s.registerRepo.GetByID(registerID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	if register.State != entity.RegisterOpened {
		return nil, domain.ErrRegisterClosed
	}

	ref, err := s.opRepo.NextReference()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	op := &entity.CashOperation{
		ID:            uuid.New().String(),
		Reference:     ref,
		RegisterID:    registerID,
		Date:          now,
		Type:          in.Type,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
		InvoiceID:     in.InvoiceID,
		ReservationID: in.ReservationID,
		UserID:        userID,
		State:         entity.OperationDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.opRepo.Create(op); err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// ConfirmOperation confirme une opération en brouillon; elle entre alors
// dans le solde de la caisse.
func (s *Service) ConfirmOperation(ctx context.Context, id string) (*dto.OperationResponse, error) {
	return s.transitionOperation(id, entity.OperationDraft, entity.OperationConfirmed)
}

// CancelOperation annule une opération non confirmée.
func (s *Service) CancelOperation(ctx context.Context, id string) (*dto.OperationResponse, error) {
	return s.transitionOperation(id, entity.OperationDraft, entity.OperationCancelled)
}

// ListOperations retourne les opérations d'une caisse, récentes d'abord.
func (s *Service) ListOperations(ctx context.Context, registerID string, page dto.PageRequest) ([]*dto.OperationResponse, error) {
	page.DefaultPage()
	ops, err := s.opRepo.ListByRegister(registerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, toOperationResponse(op))
	}
	return out, nil
}

func (s *Service) transitionOperation(id, from, to string) (*dto.OperationResponse, error) {
	op, err := s.opRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrNotFound
	}
	if op.State != from {
		return nil, domain.ErrConflict
	}
	op.State = to
	op.UpdatedAt = time.Now()
	if err := s.opRepo.Update(op); err != nil {
		return nil, err
	}
	return toOperationResponse(op), nil
}

// sessionBalance calcule le solde de session: solde d'ouverture plus les
// opérations confirmées depuis l'ouverture. Caisse fermée: solde de fermeture.
func (s *Service) sessionBalance(register *entity.CashRegister) (decimal.Decimal, error) {
	if register.State != entity.RegisterOpened || register.OpeningDate == nil {
		return register.ClosingBalance, nil
	}
	ops, err := s.opRepo.ListConfirmedSince(register.ID, *register.OpeningDate)
	if err != nil {
		return decimal.Zero, err
	}
	return entity.RegisterBalance(register.OpeningBalance, ops), nil
}

func (s *Service) toResponse(register *entity.CashRegister, balance decimal.Decimal) *dto.RegisterResponse {
	return &dto.RegisterResponse{
		ID:             register.ID,
		Code:           register.Code,
		CompanyID:      register.CompanyID,
		Name:           register.Name,
		IsMain:         register.IsMain,
		MainID:         register.MainID,
		State:          register.State,
		OpeningDate:    register.OpeningDate,
		OpeningUserID:  register.OpeningUserID,
		OpeningBalance: register.OpeningBalance,
		ClosingDate:    register.ClosingDate,
		ClosingUserID:  register.ClosingUserID,
		ClosingBalance: register.ClosingBalance,
		Balance:        balance,
		Active:         register.Active,
	}
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
