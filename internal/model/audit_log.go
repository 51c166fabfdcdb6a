package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the business operation being recorded.
type AuditAction string

const (
	AuditTicketCreated    AuditAction = "TICKET_CREATED"
	AuditTicketCheckedOut AuditAction = "TICKET_CHECKED_OUT"
	AuditTicketCancelled  AuditAction = "TICKET_CANCELLED"
	AuditCashCutOpened    AuditAction = "CASH_CUT_OPENED"
	AuditCashCutClosed    AuditAction = "CASH_CUT_CLOSED"
	AuditMovementCreated  AuditAction = "FINANCIAL_MOVEMENT_CREATED"
	AuditPricingUpdated   AuditAction = "PRICING_CONFIG_UPDATED"
)

// AuditLog is an immutable record of a critical business action. Rows are
// only ever inserted — never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   string      `gorm:"not null;index"`
	BranchID   string      `gorm:"index"`
	UserID     string      `gorm:"not null"`
	Action     AuditAction `gorm:"type:varchar(40);not null"`
	EntityType string      `gorm:"type:varchar(40);not null"`
	EntityID   string      `gorm:"not null"`
	// Metadata holds salient values (amount, duration, payment method) as JSON
	Metadata  []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
}
