package model

import (
	"time"

	"github.com/google/uuid"
)

// PricingMode: "MINUTE" | "FRACTION" | "BLOCK"
type PricingMode string

const (
	ModeMinute PricingMode = "MINUTE"
	// ModeFraction charges per started 15-minute period (fracción de hora)
	ModeFraction PricingMode = "FRACTION"
	// ModeBlock charges per started block of BlockSizeMinutes
	ModeBlock PricingMode = "BLOCK"
)

// FractionMinutes is the fixed unit size for FRACTION mode.
const FractionMinutes = 15

// PricingConfig is a per-branch, per-vehicle-type billing rule. Exactly one
// config may be active per (branch, vehicleType) at a time; PricingService
// deactivates the prior active config before creating a new one.
type PricingConfig struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    string      `gorm:"not null;index"`
	BranchID    string      `gorm:"not null;index:idx_pricing_branch_vehicle_active"`
	VehicleType VehicleType `gorm:"type:varchar(20);not null;index:idx_pricing_branch_vehicle_active"`
	Mode        PricingMode `gorm:"type:varchar(20);not null"`
	// RatePerUnitCOP is charged per unit: minute, fraction or block
	RatePerUnitCOP Money `gorm:"type:bigint;not null"`
	// GracePeriodMinutes are never billed; 0 = no grace
	GracePeriodMinutes int `gorm:"not null;default:0"`
	// DayMaxRateCOP caps the fee for a single day; nil = no cap
	DayMaxRateCOP *Money `gorm:"type:bigint"`
	// BlockSizeMinutes is required iff Mode == BLOCK
	BlockSizeMinutes *int
	Active           bool `gorm:"not null;default:true;index:idx_pricing_branch_vehicle_active"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPricingConfig validates the rule at construction — a BLOCK config
// without a block size must fail fast, not at calculation time.
func NewPricingConfig(tenantID, branchID string, vehicleType VehicleType, mode PricingMode,
	ratePerUnit Money, gracePeriodMinutes int, dayMaxRate *Money, blockSizeMinutes *int) (*PricingConfig, error) {
	cfg := &PricingConfig{
		TenantID:           tenantID,
		BranchID:           branchID,
		VehicleType:        vehicleType,
		Mode:               mode,
		RatePerUnitCOP:     ratePerUnit,
		GracePeriodMinutes: gracePeriodMinutes,
		DayMaxRateCOP:      dayMaxRate,
		BlockSizeMinutes:   blockSizeMinutes,
		Active:             true,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PricingConfig) Validate() error {
	if c.GracePeriodMinutes < 0 {
		return ValidationError("gracePeriodMinutes no puede ser negativo")
	}
	if c.Mode == ModeBlock && (c.BlockSizeMinutes == nil || *c.BlockSizeMinutes <= 0) {
		return ValidationError("blockSizeMinutes es obligatorio para el modo BLOCK")
	}
	return nil
}

func (c *PricingConfig) Deactivate() { c.Active = false }
