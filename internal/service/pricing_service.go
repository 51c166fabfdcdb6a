package service

import (
	"context"

	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/model"
	"github.com/frpatino6/parkingHub/internal/repository"
	"github.com/frpatino6/parkingHub/internal/worker"

	"github.com/google/uuid"
)

type PricingService interface {
	// Create supersedes any prior active config for the same (branch, vehicleType)
	Create(ctx context.Context, actor Actor, req dto.CreatePricingConfigRequest) (*dto.PricingConfigResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdatePricingConfigRequest) (*dto.PricingConfigResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.PricingConfigResponse, error)
}

type pricingService struct {
	configs repository.PricingConfigRepository
	audit   AuditSink
}

func NewPricingService(configs repository.PricingConfigRepository, audit AuditSink) PricingService {
	return &pricingService{configs: configs, audit: audit}
}

func (s *pricingService) Create(ctx context.Context, actor Actor, req dto.CreatePricingConfigRequest) (*dto.PricingConfigResponse, error) {
	ratePerUnit, err := model.NewMoney(req.RatePerUnitCOP)
	if err != nil {
		return nil, err
	}
	var dayMaxRate *model.Money
	if req.DayMaxRateCOP != nil {
		maxRate, err := model.NewMoney(*req.DayMaxRateCOP)
		if err != nil {
			return nil, err
		}
		dayMaxRate = &maxRate
	}

	config, err := model.NewPricingConfig(
		actor.TenantID, actor.BranchID,
		model.VehicleType(req.VehicleType), model.PricingMode(req.Mode),
		ratePerUnit, req.GracePeriodMinutes, dayMaxRate, req.BlockSizeMinutes,
	)
	if err != nil {
		return nil, err
	}

	// Only one active config per (branch, vehicleType) at a time
	existing, err := s.configs.FindActive(ctx, actor.BranchID, config.VehicleType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Deactivate()
		if err := s.configs.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	if err := s.configs.Create(ctx, config); err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditPricingUpdated),
		EntityType: "PricingConfig",
		EntityID:   config.ID.String(),
		Metadata: map[string]interface{}{
			"vehicle_type":         req.VehicleType,
			"mode":                 req.Mode,
			"rate_per_unit_cop":    req.RatePerUnitCOP,
			"grace_period_minutes": req.GracePeriodMinutes,
		},
	})

	return pricingConfigResponse(config), nil
}

func (s *pricingService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdatePricingConfigRequest) (*dto.PricingConfigResponse, error) {
	config, err := s.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, model.NotFoundError("PricingConfig", id.String())
	}
	if config.TenantID != actor.TenantID || config.BranchID != actor.BranchID {
		return nil, model.ForbiddenError("la tarifa no pertenece a esta sede")
	}

	if req.RatePerUnitCOP != nil {
		rate, err := model.NewMoney(*req.RatePerUnitCOP)
		if err != nil {
			return nil, err
		}
		config.RatePerUnitCOP = rate
	}
	if req.GracePeriodMinutes != nil {
		config.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.DayMaxRateCOP != nil {
		maxRate, err := model.NewMoney(*req.DayMaxRateCOP)
		if err != nil {
			return nil, err
		}
		config.DayMaxRateCOP = &maxRate
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := s.configs.Update(ctx, config); err != nil {
		return nil, err
	}

	emitAudit(ctx, s.audit, worker.AuditEvent{
		TenantID:   actor.TenantID,
		BranchID:   actor.BranchID,
		UserID:     actor.OperatorID,
		Action:     string(model.AuditPricingUpdated),
		EntityType: "PricingConfig",
		EntityID:   config.ID.String(),
		Metadata: map[string]interface{}{
			"rate_per_unit_cop":    config.RatePerUnitCOP.Amount(),
			"grace_period_minutes": config.GracePeriodMinutes,
		},
	})

	return pricingConfigResponse(config), nil
}

func (s *pricingService) List(ctx context.Context, actor Actor) ([]dto.PricingConfigResponse, error) {
	configs, err := s.configs.ListByBranch(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PricingConfigResponse, 0, len(configs))
	for i := range configs {
		result = append(result, *pricingConfigResponse(&configs[i]))
	}
	return result, nil
}

func pricingConfigResponse(c *model.PricingConfig) *dto.PricingConfigResponse {
	resp := &dto.PricingConfigResponse{
		ID:                 c.ID.String(),
		BranchID:           c.BranchID,
		VehicleType:        string(c.VehicleType),
		Mode:               string(c.Mode),
		RatePerUnitCOP:     c.RatePerUnitCOP.Amount(),
		GracePeriodMinutes: c.GracePeriodMinutes,
		BlockSizeMinutes:   c.BlockSizeMinutes,
		Active:             c.Active,
		CreatedAt:          c.CreatedAt,
	}
	if c.DayMaxRateCOP != nil {
		maxRate := c.DayMaxRateCOP.Amount()
		resp.DayMaxRateCOP = &maxRate
	}
	return resp
}
