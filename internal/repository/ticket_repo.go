package repository

import (
	"context"
	"errors"

	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	// FindByQr returns (nil, nil) when no ticket carries the code
	FindByQr(ctx context.Context, qrCode string) (*model.Ticket, error)
	// FindActiveByPlate returns (nil, nil) when the branch has no open ticket for the plate
	FindActiveByPlate(ctx context.Context, branchID, plate string) (*model.Ticket, error)
	ListActive(ctx context.Context, branchID string) ([]model.Ticket, error)
	ListByPlate(ctx context.Context, branchID, plate string, page, limit int) ([]model.Ticket, int64, error)
	// SettleIfOpen persists a terminal transition with an optimistic guard:
	// the UPDATE only applies while the row is still OPEN. Returns false when
	// a concurrent writer got there first.
	SettleIfOpen(tx *gorm.DB, t *model.Ticket) (bool, error)
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) FindByQr(ctx context.Context, qrCode string) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).Where("qr_code = ?", qrCode).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) FindActiveByPlate(ctx context.Context, branchID, plate string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND plate = ? AND status = ?", branchID, plate, model.TicketOpen).
		Order("check_in DESC").
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) ListActive(ctx context.Context, branchID string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ?", branchID, model.TicketOpen).
		Order("check_in ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) ListByPlate(ctx context.Context, branchID, plate string, page, limit int) ([]model.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("branch_id = ? AND plate = ?", branchID, plate)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []model.Ticket
	err := q.Order("check_in DESC").Offset((page - 1) * limit).Limit(limit).Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepo) SettleIfOpen(tx *gorm.DB, t *model.Ticket) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.Model(&model.Ticket{}).
		Where("id = ? AND status = ?", t.ID, model.TicketOpen).
		Updates(map[string]interface{}{
			"status":         t.Status,
			"check_out":      t.CheckOut,
			"amount_cop":     t.AmountCOP,
			"payment_method": t.PaymentMethod,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
