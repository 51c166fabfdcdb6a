package service

import (
	"github.com/frpatino6/parkingHub/internal/model"
)

// PricingEngine calculates the parking fee for a config and elapsed duration.
// Pure computation — no storage, no side effects, deterministic for fixed
// inputs, so it can be called repeatedly on open tickets to preview the
// running fee.
//
// Modes:
//
//	MINUTE   — charge per elapsed minute (after grace period)
//	FRACTION — charge per started 15-minute fraction
//	BLOCK    — charge per started block of BlockSizeMinutes
//
// DayMaxRateCOP caps the total when present.
type PricingEngine struct{}

func NewPricingEngine() *PricingEngine { return &PricingEngine{} }

// Calculate never fails for a valid config: negative elapsed minutes (clock
// skew between check-in and check-out) floor to zero billable time.
func (e *PricingEngine) Calculate(cfg *model.PricingConfig, elapsedMinutes int) model.Money {
	billable := elapsedMinutes - cfg.GracePeriodMinutes
	if billable <= 0 {
		return model.ZeroMoney()
	}

	rate := cfg.RatePerUnitCOP.Amount()
	var fee int64
	switch cfg.Mode {
	case model.ModeMinute:
		fee = int64(billable) * rate
	case model.ModeFraction:
		fee = int64(ceilDiv(billable, model.FractionMinutes)) * rate
	case model.ModeBlock:
		// Validate() guarantees BlockSizeMinutes > 0 for BLOCK configs
		fee = int64(ceilDiv(billable, *cfg.BlockSizeMinutes)) * rate
	}

	amount, _ := model.NewMoney(fee)
	if cfg.DayMaxRateCOP != nil && amount.GreaterThan(*cfg.DayMaxRateCOP) {
		return *cfg.DayMaxRateCOP
	}
	return amount
}

// ceilDiv rounds the started unit up: 1 minute into a block bills the block.
func ceilDiv(n, unit int) int {
	return (n + unit - 1) / unit
}
