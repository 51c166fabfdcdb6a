package repository

import (
	"context"
	"errors"
	"time"

	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CashCutRepository interface {
	Create(ctx context.Context, c *model.CashCut) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashCut, error)
	// FindOpenByOperator returns (nil, nil) when the operator has no open cut at the branch
	FindOpenByOperator(ctx context.Context, branchID, operatorID string) (*model.CashCut, error)
	// LockOpenByOperator takes a row lock on the open cut inside tx so that
	// concurrent sales and movements against the same cut serialize.
	LockOpenByOperator(tx *gorm.DB, branchID, operatorID string) (*model.CashCut, error)
	Update(tx *gorm.DB, c *model.CashCut) error
	ListClosed(ctx context.Context, branchID string, page, limit int) ([]model.CashCut, int64, error)

	// Movements belong to the cash-cut aggregate: created only through it,
	// never mutated afterwards.
	CreateMovement(tx *gorm.DB, m *model.FinancialMovement) error
	ListMovements(ctx context.Context, cashCutID uuid.UUID) ([]model.FinancialMovement, error)
	ListMovementsByRange(ctx context.Context, branchID string, from, to time.Time) ([]model.FinancialMovement, error)
}

type cashCutRepo struct{ db *gorm.DB }

func NewCashCutRepository(db *gorm.DB) CashCutRepository { return &cashCutRepo{db: db} }

func (r *cashCutRepo) Create(ctx context.Context, c *model.CashCut) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cashCutRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashCut, error) {
	var c model.CashCut
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *cashCutRepo) FindOpenByOperator(ctx context.Context, branchID, operatorID string) (*model.CashCut, error) {
	var c model.CashCut
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND operator_id = ? AND status = ?", branchID, operatorID, model.CashCutOpen).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *cashCutRepo) LockOpenByOperator(tx *gorm.DB, branchID, operatorID string) (*model.CashCut, error) {
	if tx == nil {
		tx = r.db
	}
	var c model.CashCut
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("branch_id = ? AND operator_id = ? AND status = ?", branchID, operatorID, model.CashCutOpen).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *cashCutRepo) Update(tx *gorm.DB, c *model.CashCut) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(c).Error
}

func (r *cashCutRepo) ListClosed(ctx context.Context, branchID string, page, limit int) ([]model.CashCut, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CashCut{}).
		Where("branch_id = ? AND status = ?", branchID, model.CashCutClosed)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cuts []model.CashCut
	err := q.Order("closed_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&cuts).Error
	return cuts, total, err
}

func (r *cashCutRepo) CreateMovement(tx *gorm.DB, m *model.FinancialMovement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(m).Error
}

func (r *cashCutRepo) ListMovements(ctx context.Context, cashCutID uuid.UUID) ([]model.FinancialMovement, error) {
	var movs []model.FinancialMovement
	err := r.db.WithContext(ctx).
		Where("cash_cut_id = ?", cashCutID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cashCutRepo) ListMovementsByRange(ctx context.Context, branchID string, from, to time.Time) ([]model.FinancialMovement, error) {
	var movs []model.FinancialMovement
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND created_at >= ? AND created_at < ?", branchID, from, to).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}
