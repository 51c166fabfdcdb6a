package repository

import (
	"context"

	"github.com/frpatino6/parkingHub/internal/model"

	"gorm.io/gorm"
)

// AuditLogRepository is write-only: the application appends records and
// never reads them back.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
