package service

import (
	"context"
	"time"

	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/model"
	"github.com/frpatino6/parkingHub/internal/repository"
	"github.com/frpatino6/parkingHub/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketService interface {
	CheckIn(ctx context.Context, actor Actor, req dto.CheckInRequest) (*dto.CheckInResponse, error)
	CheckOut(ctx context.Context, actor Actor, req dto.CheckOutRequest) (*dto.TicketResponse, error)
	Cancel(ctx context.Context, actor Actor, ticketID uuid.UUID, reason string) (*dto.TicketResponse, error)
	// GetByQr previews the running fee of a session before settlement
	GetByQr(ctx context.Context, actor Actor, code string) (*dto.TicketInfoResponse, error)
	ListActive(ctx context.Context, actor Actor) ([]dto.TicketInfoResponse, error)
	HistoryByPlate(ctx context.Context, actor Actor, plate string, page, limit int) (*dto.TicketListResponse, error)
}

type ticketService struct {
	// db is nil in unit tests: runTx then calls fn directly without a transaction
	db       *gorm.DB
	tickets  repository.TicketRepository
	cashCuts repository.CashCutRepository
	pricing  repository.PricingConfigRepository
	engine   *PricingEngine
	audit    AuditSink
	clock    Clock
}

func NewTicketService(
	db *gorm.DB,
	tickets repository.TicketRepository,
	cashCuts repository.CashCutRepository,
	pricing repository.PricingConfigRepository,
	engine *PricingEngine,
	audit AuditSink,
	clock Clock,
) TicketService {
	return &ticketService{
		db:       db,
		tickets:  tickets,
		cashCuts: cashCuts,
		pricing:  pricing,
		engine:   engine,
		audit:    audit,
		clock:    clock,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CheckIn ───────────────────────────────────────────────────────────────────

func (s *ticketService) CheckIn(ctx context.Context, actor Actor, req dto.CheckInRequest) (*dto.CheckInResponse, error) {
	// An operator without an open shift cannot take custody of cash
	cashCut, err := s.cashCuts.FindOpenByOperator(ctx, actor.BranchID, actor.OperatorID)
	if err != nil {
		return nil, err
	}
	if cashCut == nil {
		return nil, model.ValidationError("Debes abrir tu caja (turno) antes de registrar ingresos.")
	}

	qrCode := uuid.NewString()
	ticket := model.NewTicket(
		actor.TenantID, actor.BranchID, actor.OperatorID,
		model.VehicleType(req.VehicleType), req.Plate, qrCode,
		s.clock.Now(),
	)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditTicketCreated),
		EntityType: "Ticket",
		EntityID:   ticket.ID.String(),
		Metadata: map[string]interface{}{
			"plate":        ticket.Plate,
			"vehicle_type": string(ticket.VehicleType),
		},
	})

	return &dto.CheckInResponse{
		TicketID:    ticket.ID.String(),
		QrCode:      ticket.QrCode,
		Plate:       ticket.Plate,
		VehicleType: string(ticket.VehicleType),
		CheckIn:     ticket.CheckIn,
	}, nil
}

// ── CheckOut ──────────────────────────────────────────────────────────────────
// Settles the ticket and credits the operator's open cash cut in a single
// transaction: ticket first, then cash cut. The conditional ticket update
// makes concurrent checkout/cancel racers lose with InvalidState.

func (s *ticketService) CheckOut(ctx context.Context, actor Actor, req dto.CheckOutRequest) (*dto.TicketResponse, error) {
	ticket, err := s.findByQrOrPlate(ctx, actor.BranchID, req.QrCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ticket, actor); err != nil {
		return nil, err
	}

	config, err := s.pricing.FindActive(ctx, ticket.BranchID, ticket.VehicleType)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, model.ValidationError("No hay una tarifa de precios configurada para '" + string(ticket.VehicleType) + "' en esta sede. Contacte con el administrador del sistema.")
	}

	now := s.clock.Now()
	durationMinutes := ticket.DurationMinutes(now)
	amount := s.engine.Calculate(config, durationMinutes)

	method := model.PaymentMethod(req.PaymentMethod)
	if err := ticket.Checkout(amount, method, now); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		cashCut, err := s.cashCuts.LockOpenByOperator(tx, actor.BranchID, actor.OperatorID)
		if err != nil {
			return err
		}
		if cashCut == nil {
			return model.ValidationError("No hay un turno (corte de caja) abierto para registrar el cobro")
		}

		settled, err := s.tickets.SettleIfOpen(tx, ticket)
		if err != nil {
			return err
		}
		if !settled {
			return model.InvalidStateError("el ticket ya fue procesado por otra operacion")
		}

		if err := cashCut.AddSale(amount, method); err != nil {
			return err
		}
		return s.cashCuts.Update(tx, cashCut)
	})
	if err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditTicketCheckedOut),
		EntityType: "Ticket",
		EntityID:   ticket.ID.String(),
		Metadata: map[string]interface{}{
			"duration_minutes": durationMinutes,
			"amount_cop":       amount.Amount(),
			"payment_method":   req.PaymentMethod,
		},
	})

	return ticketResponse(ticket, now), nil
}

// ── Cancel ────────────────────────────────────────────────────────────────────

func (s *ticketService) Cancel(ctx context.Context, actor Actor, ticketID uuid.UUID, reason string) (*dto.TicketResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, model.NotFoundError("Ticket", ticketID.String())
	}
	if err := s.checkOwnership(ticket, actor); err != nil {
		return nil, err
	}

	if err := ticket.Cancel(); err != nil {
		return nil, err
	}

	settled, err := s.tickets.SettleIfOpen(nil, ticket)
	if err != nil {
		return nil, err
	}
	if !settled {
		return nil, model.InvalidStateError("el ticket ya fue procesado por otra operacion")
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditTicketCancelled),
		EntityType: "Ticket",
		EntityID:   ticket.ID.String(),
		Metadata:   map[string]interface{}{"reason": reason},
	})

	return ticketResponse(ticket, s.clock.Now()), nil
}

// ── GetByQr ───────────────────────────────────────────────────────────────────

func (s *ticketService) GetByQr(ctx context.Context, actor Actor, code string) (*dto.TicketInfoResponse, error) {
	ticket, err := s.findByQrOrPlate(ctx, actor.BranchID, code)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ticket, actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	durationMinutes := ticket.DurationMinutes(now)

	var currentAmount int64
	if ticket.AmountCOP != nil {
		currentAmount = ticket.AmountCOP.Amount()
	} else {
		config, err := s.pricing.FindActive(ctx, ticket.BranchID, ticket.VehicleType)
		if err != nil {
			return nil, err
		}
		if config == nil {
			return nil, model.ValidationError("No hay una tarifa de precios configurada para '" + string(ticket.VehicleType) + "' en esta sede. Contacte con el administrador del sistema.")
		}
		currentAmount = s.engine.Calculate(config, durationMinutes).Amount()
	}

	return &dto.TicketInfoResponse{
		ID:               ticket.ID.String(),
		Plate:            ticket.Plate,
		VehicleType:      string(ticket.VehicleType),
		Status:           string(ticket.Status),
		QrCode:           ticket.QrCode,
		CheckIn:          ticket.CheckIn,
		DurationMinutes:  durationMinutes,
		CurrentAmountCOP: currentAmount,
	}, nil
}

// ── ListActive ────────────────────────────────────────────────────────────────

func (s *ticketService) ListActive(ctx context.Context, actor Actor) ([]dto.TicketInfoResponse, error) {
	tickets, err := s.tickets.ListActive(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	// One config lookup per vehicle type, not per ticket
	configs := make(map[model.VehicleType]*model.PricingConfig)

	result := make([]dto.TicketInfoResponse, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		config, seen := configs[t.VehicleType]
		if !seen {
			config, err = s.pricing.FindActive(ctx, actor.BranchID, t.VehicleType)
			if err != nil {
				return nil, err
			}
			configs[t.VehicleType] = config
		}

		durationMinutes := t.DurationMinutes(now)
		var currentAmount int64
		if config != nil {
			currentAmount = s.engine.Calculate(config, durationMinutes).Amount()
		}

		result = append(result, dto.TicketInfoResponse{
			ID:               t.ID.String(),
			Plate:            t.Plate,
			VehicleType:      string(t.VehicleType),
			Status:           string(t.Status),
			QrCode:           t.QrCode,
			CheckIn:          t.CheckIn,
			DurationMinutes:  durationMinutes,
			CurrentAmountCOP: currentAmount,
		})
	}
	return result, nil
}

// ── HistoryByPlate ────────────────────────────────────────────────────────────

func (s *ticketService) HistoryByPlate(ctx context.Context, actor Actor, plate string, page, limit int) (*dto.TicketListResponse, error) {
	tickets, total, err := s.tickets.ListByPlate(ctx, actor.BranchID, model.NormalizePlate(plate), page, limit)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	data := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		data = append(data, *ticketResponse(&tickets[i], now))
	}
	return &dto.TicketListResponse{Data: data, Page: page, Limit: limit, Total: total}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// findByQrOrPlate resolves a scanned QR code, falling back to a plate search
// for manually typed entries.
func (s *ticketService) findByQrOrPlate(ctx context.Context, branchID, code string) (*model.Ticket, error) {
	ticket, err := s.tickets.FindByQr(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		ticket, err = s.tickets.FindActiveByPlate(ctx, branchID, model.NormalizePlate(code))
		if err != nil {
			return nil, err
		}
	}
	if ticket == nil {
		return nil, model.NotFoundError("Ticket", code)
	}
	return ticket, nil
}

func (s *ticketService) checkOwnership(ticket *model.Ticket, actor Actor) error {
	if ticket.TenantID != actor.TenantID || ticket.BranchID != actor.BranchID {
		return model.ForbiddenError("el ticket no pertenece a esta sede")
	}
	return nil
}

func ticketResponse(t *model.Ticket, now time.Time) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:              t.ID.String(),
		Plate:           t.Plate,
		VehicleType:     string(t.VehicleType),
		Status:          string(t.Status),
		QrCode:          t.QrCode,
		CheckIn:         t.CheckIn,
		CheckOut:        t.CheckOut,
		DurationMinutes: t.DurationMinutes(now),
	}
	if t.AmountCOP != nil {
		amount := t.AmountCOP.Amount()
		resp.AmountCOP = &amount
	}
	if t.PaymentMethod != nil {
		method := string(*t.PaymentMethod)
		resp.PaymentMethod = &method
	}
	return resp
}
