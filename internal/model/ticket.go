package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleType: "CAR" | "MOTORCYCLE" | "BICYCLE" | "OTHER"
type VehicleType string

const (
	VehicleCar        VehicleType = "CAR"
	VehicleMotorcycle VehicleType = "MOTORCYCLE"
	VehicleBicycle    VehicleType = "BICYCLE"
	VehicleOther      VehicleType = "OTHER"
)

// PaymentMethod is an opaque tag for the core; the only distinction that
// matters for reconciliation is cash vs. everything else.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// IsCash reports whether the method settles in physical cash.
func (p PaymentMethod) IsCash() bool { return p == PaymentCash }

// TicketStatus: "OPEN" → "PAID" | "CANCELLED" (both terminal)
type TicketStatus string

const (
	TicketOpen      TicketStatus = "OPEN"
	TicketPaid      TicketStatus = "PAID"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket is one vehicle's parking session from check-in to settlement or
// cancellation. Amount and CheckOut are set iff Status == PAID; once the
// ticket leaves OPEN no further mutation is permitted.
type Ticket struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string      `gorm:"not null;index"`
	BranchID    string      `gorm:"not null;index:idx_tickets_branch_status"`
	OperatorID  string      `gorm:"not null"`
	VehicleType VehicleType `gorm:"type:varchar(20);not null"`
	// Plate is normalized (trim + uppercase) before construction
	Plate  string `gorm:"not null"`
	QrCode string `gorm:"uniqueIndex;not null"`
	Status TicketStatus `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_tickets_branch_status"`
	CheckIn     time.Time  `gorm:"not null"`
	CheckOut    *time.Time
	// AmountCOP is nil until the ticket is paid
	AmountCOP     *Money         `gorm:"type:bigint"`
	PaymentMethod *PaymentMethod `gorm:"type:varchar(20)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTicket creates an OPEN ticket checked in at now.
func NewTicket(tenantID, branchID, operatorID string, vehicleType VehicleType, plate, qrCode string, now time.Time) *Ticket {
	return &Ticket{
		TenantID:    tenantID,
		BranchID:    branchID,
		OperatorID:  operatorID,
		VehicleType: vehicleType,
		Plate:       NormalizePlate(plate),
		QrCode:      qrCode,
		Status:      TicketOpen,
		CheckIn:     now,
	}
}

// NormalizePlate trims surrounding whitespace and uppercases the plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (t *Ticket) IsOpen() bool { return t.Status == TicketOpen }

func (t *Ticket) IsPaid() bool { return t.Status == TicketPaid }

// Checkout registers payment and closes the ticket. Called after the pricing
// engine has calculated the amount.
func (t *Ticket) Checkout(amount Money, method PaymentMethod, now time.Time) error {
	if !t.IsOpen() {
		return InvalidStateError(fmt.Sprintf("el ticket en estado '%s' no admite check-out", t.Status))
	}
	t.Status = TicketPaid
	t.CheckOut = &now
	t.AmountCOP = &amount
	t.PaymentMethod = &method
	return nil
}

func (t *Ticket) Cancel() error {
	if !t.IsOpen() {
		return InvalidStateError(fmt.Sprintf("el ticket en estado '%s' no admite anulacion", t.Status))
	}
	t.Status = TicketCancelled
	return nil
}

// DurationMinutes returns the elapsed session time in whole minutes, using
// CheckOut when set and now otherwise. Safe to call repeatedly on open
// tickets to preview the running fee.
func (t *Ticket) DurationMinutes(now time.Time) int {
	end := now
	if t.CheckOut != nil {
		end = *t.CheckOut
	}
	return int(end.Sub(t.CheckIn).Milliseconds() / 60_000)
}
