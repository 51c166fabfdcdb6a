package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePricingConfigRequest struct {
	VehicleType        string `json:"vehicle_type"         validate:"required,oneof=CAR MOTORCYCLE BICYCLE OTHER"`
	Mode               string `json:"mode"                 validate:"required,oneof=MINUTE FRACTION BLOCK"`
	RatePerUnitCOP     int64  `json:"rate_per_unit_cop"    validate:"required,gt=0"`
	GracePeriodMinutes int    `json:"grace_period_minutes" validate:"min=0"`
	DayMaxRateCOP      *int64 `json:"day_max_rate_cop"     validate:"omitempty,gt=0"`
	BlockSizeMinutes   *int   `json:"block_size_minutes"   validate:"omitempty,gt=0"`
}

type UpdatePricingConfigRequest struct {
	RatePerUnitCOP     *int64 `json:"rate_per_unit_cop"    validate:"omitempty,gt=0"`
	GracePeriodMinutes *int   `json:"grace_period_minutes" validate:"omitempty,min=0"`
	DayMaxRateCOP      *int64 `json:"day_max_rate_cop"     validate:"omitempty,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PricingConfigResponse struct {
	ID                 string    `json:"id"`
	BranchID           string    `json:"branch_id"`
	VehicleType        string    `json:"vehicle_type"`
	Mode               string    `json:"mode"`
	RatePerUnitCOP     int64     `json:"rate_per_unit_cop"`
	GracePeriodMinutes int       `json:"grace_period_minutes"`
	DayMaxRateCOP      *int64    `json:"day_max_rate_cop,omitempty"`
	BlockSizeMinutes   *int      `json:"block_size_minutes,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}
