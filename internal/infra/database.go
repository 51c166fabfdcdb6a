package infra

import (
	"fmt"

	"github.com/frpatino6/parkingHub/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
// Also used by integration tests against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.PricingConfig{},
		&model.Ticket{},
		&model.CashCut{},
		&model.FinancialMovement{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle on its
// own.  Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one OPEN cash cut per operator per branch.  This partial unique
		// index is the authoritative guard against concurrent opens; the service
		// pre-check only exists to return a friendlier message.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cash_cuts_open_operator') THEN
		    CREATE UNIQUE INDEX uni_cash_cuts_open_operator
		        ON cash_cuts (branch_id, operator_id)
		        WHERE status = 'OPEN';
		  END IF;
		END $$`,
		// Active vehicle board and plate-fallback lookups scan OPEN tickets only.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_tickets_open_plate') THEN
		    CREATE INDEX idx_tickets_open_plate
		        ON tickets (branch_id, plate)
		        WHERE status = 'OPEN';
		  END IF;
		END $$`,
		// One active tariff per (branch, vehicle type).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_pricing_configs_active') THEN
		    CREATE UNIQUE INDEX uni_pricing_configs_active
		        ON pricing_configs (branch_id, vehicle_type)
		        WHERE active = true;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
