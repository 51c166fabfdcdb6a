package service

import (
	"context"
	"time"

	"github.com/frpatino6/parkingHub/internal/model"
	"github.com/frpatino6/parkingHub/internal/repository"
	"github.com/frpatino6/parkingHub/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Fixed clock ───────────────────────────────────────────────────────────────

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// ── In-memory TicketRepository ────────────────────────────────────────────────

type fakeTicketRepo struct {
	tickets map[uuid.UUID]*model.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*model.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, t *model.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stored := *t
	r.tickets[t.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTicketRepo) FindByQr(_ context.Context, qrCode string) (*model.Ticket, error) {
	for _, t := range r.tickets {
		if t.QrCode == qrCode {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) FindActiveByPlate(_ context.Context, branchID, plate string) (*model.Ticket, error) {
	for _, t := range r.tickets {
		if t.BranchID == branchID && t.Plate == plate && t.Status == model.TicketOpen {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) ListActive(_ context.Context, branchID string) ([]model.Ticket, error) {
	var result []model.Ticket
	for _, t := range r.tickets {
		if t.BranchID == branchID && t.Status == model.TicketOpen {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByPlate(_ context.Context, branchID, plate string, page, limit int) ([]model.Ticket, int64, error) {
	var all []model.Ticket
	for _, t := range r.tickets {
		if t.BranchID == branchID && t.Plate == plate {
			all = append(all, *t)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeTicketRepo) SettleIfOpen(_ *gorm.DB, t *model.Ticket) (bool, error) {
	stored, ok := r.tickets[t.ID]
	if !ok || stored.Status != model.TicketOpen {
		return false, nil
	}
	copied := *t
	r.tickets[t.ID] = &copied
	return true, nil
}

var _ repository.TicketRepository = (*fakeTicketRepo)(nil)

// ── In-memory CashCutRepository ───────────────────────────────────────────────

type fakeCashCutRepo struct {
	cuts      map[uuid.UUID]*model.CashCut
	movements []model.FinancialMovement
}

func newFakeCashCutRepo() *fakeCashCutRepo {
	return &fakeCashCutRepo{cuts: make(map[uuid.UUID]*model.CashCut)}
}

func (r *fakeCashCutRepo) Create(_ context.Context, c *model.CashCut) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	r.cuts[c.ID] = &stored
	return nil
}

func (r *fakeCashCutRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashCut, error) {
	c, ok := r.cuts[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCashCutRepo) FindOpenByOperator(_ context.Context, branchID, operatorID string) (*model.CashCut, error) {
	for _, c := range r.cuts {
		if c.BranchID == branchID && c.OperatorID == operatorID && c.Status == model.CashCutOpen {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCashCutRepo) LockOpenByOperator(_ *gorm.DB, branchID, operatorID string) (*model.CashCut, error) {
	return r.FindOpenByOperator(context.Background(), branchID, operatorID)
}

func (r *fakeCashCutRepo) Update(_ *gorm.DB, c *model.CashCut) error {
	copied := *c
	r.cuts[c.ID] = &copied
	return nil
}

func (r *fakeCashCutRepo) ListClosed(_ context.Context, branchID string, page, limit int) ([]model.CashCut, int64, error) {
	var all []model.CashCut
	for _, c := range r.cuts {
		if c.BranchID == branchID && c.Status == model.CashCutClosed {
			all = append(all, *c)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCashCutRepo) CreateMovement(_ *gorm.DB, m *model.FinancialMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeCashCutRepo) ListMovements(_ context.Context, cashCutID uuid.UUID) ([]model.FinancialMovement, error) {
	var result []model.FinancialMovement
	for _, m := range r.movements {
		if m.CashCutID == cashCutID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeCashCutRepo) ListMovementsByRange(_ context.Context, branchID string, from, to time.Time) ([]model.FinancialMovement, error) {
	var result []model.FinancialMovement
	for _, m := range r.movements {
		if m.BranchID == branchID && !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			result = append(result, m)
		}
	}
	return result, nil
}

var _ repository.CashCutRepository = (*fakeCashCutRepo)(nil)

// ── In-memory PricingConfigRepository ─────────────────────────────────────────

type fakePricingRepo struct {
	configs map[uuid.UUID]*model.PricingConfig
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{configs: make(map[uuid.UUID]*model.PricingConfig)}
}

func (r *fakePricingRepo) Create(_ context.Context, c *model.PricingConfig) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	r.configs[c.ID] = &stored
	return nil
}

func (r *fakePricingRepo) Update(_ context.Context, c *model.PricingConfig) error {
	copied := *c
	r.configs[c.ID] = &copied
	return nil
}

func (r *fakePricingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PricingConfig, error) {
	c, ok := r.configs[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakePricingRepo) FindActive(_ context.Context, branchID string, vehicleType model.VehicleType) (*model.PricingConfig, error) {
	for _, c := range r.configs {
		if c.BranchID == branchID && c.VehicleType == vehicleType && c.Active {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePricingRepo) ListByBranch(_ context.Context, branchID string) ([]model.PricingConfig, error) {
	var result []model.PricingConfig
	for _, c := range r.configs {
		if c.BranchID == branchID {
			result = append(result, *c)
		}
	}
	return result, nil
}

var _ repository.PricingConfigRepository = (*fakePricingRepo)(nil)

// ── Capturing audit sink ──────────────────────────────────────────────────────

type fakeAuditSink struct {
	events []worker.AuditEvent
}

func (s *fakeAuditSink) EnqueueAudit(_ context.Context, ev worker.AuditEvent) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeAuditSink) actions() []string {
	result := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		result = append(result, ev.Action)
	}
	return result
}
