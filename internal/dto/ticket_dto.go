package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckInRequest struct {
	VehicleType string `json:"vehicle_type" validate:"required,oneof=CAR MOTORCYCLE BICYCLE OTHER"`
	Plate       string `json:"plate"        validate:"required,min=1,max=10"`
}

type CheckOutRequest struct {
	// QrCode accepts the scanned code or, as fallback, a plate typed manually
	QrCode        string `json:"qr_code"        validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=CASH CARD TRANSFER"`
}

type CancelTicketRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CheckInResponse struct {
	TicketID    string    `json:"ticket_id"`
	QrCode      string    `json:"qr_code"`
	Plate       string    `json:"plate"`
	VehicleType string    `json:"vehicle_type"`
	CheckIn     time.Time `json:"check_in"`
}

type TicketResponse struct {
	ID              string     `json:"id"`
	Plate           string     `json:"plate"`
	VehicleType     string     `json:"vehicle_type"`
	Status          string     `json:"status"`
	QrCode          string     `json:"qr_code"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        *time.Time `json:"check_out,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	AmountCOP       *int64     `json:"amount_cop,omitempty"`
	PaymentMethod   *string    `json:"payment_method,omitempty"`
}

// TicketInfoResponse previews an open ticket's running fee before settlement.
type TicketInfoResponse struct {
	ID               string    `json:"id"`
	Plate            string    `json:"plate"`
	VehicleType      string    `json:"vehicle_type"`
	Status           string    `json:"status"`
	QrCode           string    `json:"qr_code"`
	CheckIn          time.Time `json:"check_in"`
	DurationMinutes  int       `json:"duration_minutes"`
	CurrentAmountCOP int64     `json:"current_amount_cop"`
}

type TicketListResponse struct {
	Data  []TicketResponse `json:"data"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}
