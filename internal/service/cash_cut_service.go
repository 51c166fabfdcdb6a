package service

import (
	"context"
	"time"

	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/model"
	"github.com/frpatino6/parkingHub/internal/repository"
	"github.com/frpatino6/parkingHub/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashCutService interface {
	Open(ctx context.Context, actor Actor) (*dto.CashCutResponse, error)
	Close(ctx context.Context, actor Actor, req dto.CloseCashCutRequest) (*dto.CashCutResponse, error)
	RegisterMovement(ctx context.Context, actor Actor, req dto.MovementRequest) (*dto.MovementResponse, error)
	GetCurrent(ctx context.Context, actor Actor) (*dto.CashCutResponse, error)
	ListMovements(ctx context.Context, actor Actor, cashCutID uuid.UUID) ([]dto.MovementResponse, error)
	MovementsReport(ctx context.Context, actor Actor, from, to time.Time) ([]dto.MovementResponse, error)
	History(ctx context.Context, actor Actor, page, limit int) (*dto.CashCutListResponse, error)
}

type cashCutService struct {
	db       *gorm.DB
	cashCuts repository.CashCutRepository
	audit    AuditSink
	clock    Clock
}

func NewCashCutService(db *gorm.DB, cashCuts repository.CashCutRepository, audit AuditSink, clock Clock) CashCutService {
	return &cashCutService{db: db, cashCuts: cashCuts, audit: audit, clock: clock}
}

// ── Open ──────────────────────────────────────────────────────────────────────
// The duplicate-shift guard here is advisory; the partial unique index on
// (branch_id, operator_id) WHERE status = 'OPEN' is what makes a race between
// two concurrent opens end with exactly one winner.

func (s *cashCutService) Open(ctx context.Context, actor Actor) (*dto.CashCutResponse, error) {
	existing, err := s.cashCuts.FindOpenByOperator(ctx, actor.BranchID, actor.OperatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ConflictError("Ya tienes un corte de caja abierto en esta sede")
	}

	cashCut := model.OpenCashCut(actor.TenantID, actor.BranchID, actor.OperatorID, s.clock.Now())
	if err := s.cashCuts.Create(ctx, cashCut); err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditCashCutOpened),
		EntityType: "CashCut",
		EntityID:   cashCut.ID.String(),
	})

	return cashCutResponse(cashCut), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *cashCutService) Close(ctx context.Context, actor Actor, req dto.CloseCashCutRequest) (*dto.CashCutResponse, error) {
	reportedCash, err := model.NewMoney(req.ReportedCashCOP)
	if err != nil {
		return nil, err
	}

	var cashCut *model.CashCut
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		cashCut, err = s.cashCuts.LockOpenByOperator(tx, actor.BranchID, actor.OperatorID)
		if err != nil {
			return err
		}
		if cashCut == nil {
			return model.NotFoundError("Corte de caja abierto", actor.BranchID+"/"+actor.OperatorID)
		}
		if err := cashCut.Close(reportedCash, s.clock.Now()); err != nil {
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
		Action:     string(model.AuditCashCutClosed),
		EntityType: "CashCut",
		EntityID:   cashCut.ID.String(),
		Metadata: map[string]interface{}{
			"total_sales_cop":      cashCut.TotalSalesCOP.Amount(),
			"total_cash_cop":       cashCut.TotalCashCOP.Amount(),
			"total_electronic_cop": cashCut.TotalElectronicCOP.Amount(),
			"reported_cash_cop":    reportedCash.Amount(),
			"discrepancy_cop":      *cashCut.DiscrepancyCOP,
		},
	})

	return cashCutResponse(cashCut), nil
}

// ── RegisterMovement ──────────────────────────────────────────────────────────
// Movements are immutable — no Update/Delete. The movement row and the
// aggregate totals commit together or not at all.

func (s *cashCutService) RegisterMovement(ctx context.Context, actor Actor, req dto.MovementRequest) (*dto.MovementResponse, error) {
	amount, err := model.NewMoney(req.AmountCOP)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, model.ValidationError("el monto del movimiento debe ser mayor que cero")
	}

	var movement *model.FinancialMovement
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		cashCut, err := s.cashCuts.LockOpenByOperator(tx, actor.BranchID, actor.OperatorID)
		if err != nil {
			return err
		}
		if cashCut == nil {
			return model.ValidationError("No hay un turno (corte de caja) abierto para registrar el movimiento")
		}

		movType := model.MovementType(req.Type)
		if err := cashCut.RecordMovement(amount, movType); err != nil {
			return err
		}

		movement = model.NewFinancialMovement(
			actor.TenantID, actor.BranchID, cashCut.ID, actor.OperatorID,
			movType, model.MovementCategory(req.Category), req.Description, amount,
		)
		if err := s.cashCuts.CreateMovement(tx, movement); err != nil {
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
		Action:     string(model.AuditMovementCreated),
		EntityType: "FinancialMovement",
		EntityID:   movement.ID.String(),
		Metadata: map[string]interface{}{
			"type":        req.Type,
			"category":    req.Category,
			"amount_cop":  req.AmountCOP,
			"cash_cut_id": movement.CashCutID.String(),
		},
	})

	return movementResponse(movement), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *cashCutService) GetCurrent(ctx context.Context, actor Actor) (*dto.CashCutResponse, error) {
	cashCut, err := s.cashCuts.FindOpenByOperator(ctx, actor.BranchID, actor.OperatorID)
	if err != nil {
		return nil, err
	}
	if cashCut == nil {
		return nil, model.NotFoundError("Corte de caja abierto", actor.BranchID+"/"+actor.OperatorID)
	}
	return cashCutResponse(cashCut), nil
}

func (s *cashCutService) ListMovements(ctx context.Context, actor Actor, cashCutID uuid.UUID) ([]dto.MovementResponse, error) {
	cashCut, err := s.cashCuts.FindByID(ctx, cashCutID)
	if err != nil {
		return nil, err
	}
	if cashCut == nil {
		return nil, model.NotFoundError("Corte de caja", cashCutID.String())
	}
	if cashCut.TenantID != actor.TenantID || cashCut.BranchID != actor.BranchID {
		return nil, model.ForbiddenError("el corte de caja no pertenece a esta sede")
	}

	movements, err := s.cashCuts.ListMovements(ctx, cashCutID)
	if err != nil {
		return nil, err
	}
	return movementResponses(movements), nil
}

func (s *cashCutService) MovementsReport(ctx context.Context, actor Actor, from, to time.Time) ([]dto.MovementResponse, error) {
	if !to.After(from) {
		return nil, model.ValidationError("el rango de fechas es invalido")
	}
	movements, err := s.cashCuts.ListMovementsByRange(ctx, actor.BranchID, from, to)
	if err != nil {
		return nil, err
	}
	return movementResponses(movements), nil
}

func (s *cashCutService) History(ctx context.Context, actor Actor, page, limit int) (*dto.CashCutListResponse, error) {
	cuts, total, err := s.cashCuts.ListClosed(ctx, actor.BranchID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CashCutResponse, 0, len(cuts))
	for i := range cuts {
		data = append(data, *cashCutResponse(&cuts[i]))
	}
	return &dto.CashCutListResponse{Data: data, Page: page, Limit: limit, Total: total}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// classifyDeviation returns "normal" | "warning" | "critical"
// normal: |deviation| <= 1% of expected cash, warning: <= 5%, critical: > 5%
func classifyDeviation(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "warning"
	default:
		return "critical"
	}
}

func cashCutResponse(c *model.CashCut) *dto.CashCutResponse {
	resp := &dto.CashCutResponse{
		ID:                 c.ID.String(),
		BranchID:           c.BranchID,
		OperatorID:         c.OperatorID,
		Status:             string(c.Status),
		OpenedAt:           c.OpenedAt,
		ClosedAt:           c.ClosedAt,
		TotalSalesCOP:      c.TotalSalesCOP.Amount(),
		TotalCashCOP:       c.TotalCashCOP.Amount(),
		TotalElectronicCOP: c.TotalElectronicCOP.Amount(),
		ManualIncomeCOP:    c.ManualIncomeCOP.Amount(),
		ManualExpenseCOP:   c.ManualExpenseCOP.Amount(),
		ExpectedCashCOP:    c.ExpectedCashCOP(),
	}
	if c.ReportedCashCOP != nil {
		reported := c.ReportedCashCOP.Amount()
		resp.ReportedCashCOP = &reported
	}
	if c.DiscrepancyCOP != nil {
		discrepancy := *c.DiscrepancyCOP
		resp.DiscrepancyCOP = &discrepancy

		pct := decimal.Zero
		if expected := c.ExpectedCashCOP(); expected != 0 {
			pct = decimal.NewFromInt(discrepancy).
				Div(decimal.NewFromInt(expected)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		resp.Deviation = &dto.DeviationResponse{
			Percentage:     pct,
			Classification: classifyDeviation(pct),
		}
	}
	return resp
}

func movementResponse(m *model.FinancialMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID.String(),
		CashCutID:   m.CashCutID.String(),
		OperatorID:  m.OperatorID,
		Type:        string(m.Type),
		Category:    string(m.Category),
		Description: m.Description,
		AmountCOP:   m.AmountCOP.Amount(),
		CreatedAt:   m.CreatedAt,
	}
}

func movementResponses(movements []model.FinancialMovement) []dto.MovementResponse {
	result := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		result = append(result, *movementResponse(&movements[i]))
	}
	return result
}
