package model

import (
	"time"

	"github.com/google/uuid"
)

// CashCutStatus: "OPEN" → "CLOSED" (terminal)
type CashCutStatus string

const (
	CashCutOpen   CashCutStatus = "OPEN"
	CashCutClosed CashCutStatus = "CLOSED"
)

// CashCut represents one operator's continuous custody of a cash drawer at a
// branch (corte de caja). At most one OPEN cut may exist per (branch,
// operator) pair — backed by a partial unique index at the storage layer.
//
// All running totals freeze at close; every mutation on a non-OPEN cut is
// rejected so that reconciliation totals never drift after the fact.
type CashCut struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   string        `gorm:"not null;index"`
	BranchID   string        `gorm:"not null;index:idx_cash_cuts_branch_operator_status"`
	OperatorID string        `gorm:"not null;index:idx_cash_cuts_branch_operator_status"`
	Status     CashCutStatus `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_cash_cuts_branch_operator_status"`
	OpenedAt   time.Time     `gorm:"not null"`
	ClosedAt   *time.Time
	// TotalSalesCOP is the legacy aggregate: every settled ticket regardless
	// of payment method. Kept for report continuity.
	TotalSalesCOP      Money `gorm:"type:bigint;not null;default:0"`
	TotalCashCOP       Money `gorm:"type:bigint;not null;default:0"`
	TotalElectronicCOP Money `gorm:"type:bigint;not null;default:0"`
	ManualIncomeCOP    Money `gorm:"type:bigint;not null;default:0"`
	ManualExpenseCOP   Money `gorm:"type:bigint;not null;default:0"`
	// ReportedCashCOP is the operator-declared physical count at close
	ReportedCashCOP *Money `gorm:"type:bigint"`
	// DiscrepancyCOP is signed: positive = surplus, negative = deficit
	DiscrepancyCOP *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OpenCashCut starts a new shift with all totals at zero.
func OpenCashCut(tenantID, branchID, operatorID string, now time.Time) *CashCut {
	return &CashCut{
		TenantID:   tenantID,
		BranchID:   branchID,
		OperatorID: operatorID,
		Status:     CashCutOpen,
		OpenedAt:   now,
	}
}

func (c *CashCut) IsOpen() bool { return c.Status == CashCutOpen }

// AddSale accumulates a settled ticket into the running totals, splitting by
// payment method.
func (c *CashCut) AddSale(amount Money, method PaymentMethod) error {
	if !c.IsOpen() {
		return InvalidStateError("no se pueden registrar ventas en un corte de caja cerrado")
	}
	c.TotalSalesCOP = c.TotalSalesCOP.Add(amount)
	if method.IsCash() {
		c.TotalCashCOP = c.TotalCashCOP.Add(amount)
	} else {
		c.TotalElectronicCOP = c.TotalElectronicCOP.Add(amount)
	}
	return nil
}

// RecordMovement accumulates a manual adjustment. INCOME raises the expected
// cash (extra income enters the drawer as cash); EXPENSE lowers it (spending
// taken from the drawer).
func (c *CashCut) RecordMovement(amount Money, direction MovementType) error {
	if !c.IsOpen() {
		return InvalidStateError("no se pueden registrar movimientos en un corte de caja cerrado")
	}
	switch direction {
	case MovementIncome:
		c.ManualIncomeCOP = c.ManualIncomeCOP.Add(amount)
	case MovementExpense:
		c.ManualExpenseCOP = c.ManualExpenseCOP.Add(amount)
	default:
		return ValidationError("tipo de movimiento desconocido: " + string(direction))
	}
	return nil
}

// ExpectedCashCOP is what the drawer should physically hold:
// cash sales + manual income − manual expenses. Electronic totals are
// excluded on purpose — only physical cash is subject to miscount.
func (c *CashCut) ExpectedCashCOP() int64 {
	return c.TotalCashCOP.Amount() + c.ManualIncomeCOP.Amount() - c.ManualExpenseCOP.Amount()
}

// Close freezes the cut and computes the signed discrepancy against the
// cash-only expected total.
func (c *CashCut) Close(reportedCash Money, now time.Time) error {
	if !c.IsOpen() {
		return InvalidStateError("el corte de caja ya esta cerrado")
	}
	discrepancy := reportedCash.Amount() - c.ExpectedCashCOP()
	c.Status = CashCutClosed
	c.ClosedAt = &now
	c.ReportedCashCOP = &reportedCash
	c.DiscrepancyCOP = &discrepancy
	return nil
}
