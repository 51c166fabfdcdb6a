package repository

import (
	"context"
	"errors"

	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PricingConfigRepository interface {
	Create(ctx context.Context, c *model.PricingConfig) error
	Update(ctx context.Context, c *model.PricingConfig) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PricingConfig, error)
	// FindActive returns (nil, nil) when no active config exists for the pair
	FindActive(ctx context.Context, branchID string, vehicleType model.VehicleType) (*model.PricingConfig, error)
	ListByBranch(ctx context.Context, branchID string) ([]model.PricingConfig, error)
}

type pricingConfigRepo struct{ db *gorm.DB }

func NewPricingConfigRepository(db *gorm.DB) PricingConfigRepository {
	return &pricingConfigRepo{db: db}
}

func (r *pricingConfigRepo) Create(ctx context.Context, c *model.PricingConfig) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *pricingConfigRepo) Update(ctx context.Context, c *model.PricingConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *pricingConfigRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingConfig, error) {
	var c model.PricingConfig
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *pricingConfigRepo) FindActive(ctx context.Context, branchID string, vehicleType model.VehicleType) (*model.PricingConfig, error) {
	var c model.PricingConfig
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND vehicle_type = ? AND active = true", branchID, vehicleType).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *pricingConfigRepo) ListByBranch(ctx context.Context, branchID string) ([]model.PricingConfig, error) {
	var configs []model.PricingConfig
	err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("vehicle_type ASC, created_at DESC").
		Find(&configs).Error
	return configs, err
}
