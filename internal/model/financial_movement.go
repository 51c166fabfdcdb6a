package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementType: "INCOME" | "EXPENSE"
type MovementType string

const (
	MovementIncome  MovementType = "INCOME"
	MovementExpense MovementType = "EXPENSE"
)

// MovementCategory is the enumerated business reason for a manual adjustment.
type MovementCategory string

const (
	CategorySupplies    MovementCategory = "SUPPLIES"
	CategoryServices    MovementCategory = "SERVICES"
	CategoryFuel        MovementCategory = "FUEL"
	CategoryExtraIncome MovementCategory = "EXTRA_INCOME"
	CategoryOther       MovementCategory = "OTHER"
)

// FinancialMovement is an operator-entered cash adjustment unrelated to
// ticket sales (e.g. buying supplies from the drawer). Immutable after
// creation — corrections are new inverse movements, never edits.
type FinancialMovement struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string           `gorm:"not null;index"`
	BranchID    string           `gorm:"not null;index:idx_movements_branch_created"`
	CashCutID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	OperatorID  string           `gorm:"not null"`
	Type        MovementType     `gorm:"type:varchar(20);not null"`
	Category    MovementCategory `gorm:"type:varchar(20);not null"`
	Description string           `gorm:"not null"`
	AmountCOP   Money            `gorm:"type:bigint;not null"`
	CreatedAt   time.Time        `gorm:"index:idx_movements_branch_created"`
}

// NewFinancialMovement builds a movement tied to an open cash cut. The
// caller (CashCutService) verifies the cut is OPEN before constructing.
func NewFinancialMovement(tenantID, branchID string, cashCutID uuid.UUID, operatorID string,
	movType MovementType, category MovementCategory, description string, amount Money) *FinancialMovement {
	return &FinancialMovement{
		TenantID:    tenantID,
		BranchID:    branchID,
		CashCutID:   cashCutID,
		OperatorID:  operatorID,
		Type:        movType,
		Category:    category,
		Description: description,
		AmountCOP:   amount,
	}
}
