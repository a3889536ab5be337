package db

import (
	"fmt"

	"table_booking/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// NoOverlapConstraint is the Postgres exclusion constraint that keeps bookings of one table disjoint
const NoOverlapConstraint = "bookings_no_overlap"

// Migrate performs automatic migration for the database schema
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := gdb.AutoMigrate(&domain.User{}, &domain.Table{}, &domain.Booking{}, &domain.Payment{}, &domain.AdminLog{})
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if gdb.Dialector.Name() == "postgres" {
		if err := ensureNoOverlapConstraint(gdb); err != nil {
			return err
		}
	}
	logrus.WithField("dialect", gdb.Dialector.Name()).Info("Migration completed.")
	return nil
}

// ensureNoOverlapConstraint adds the exclusion constraint once. It uses int4range with its
// default [) bounds, so bookings that only touch do not collide.
func ensureNoOverlapConstraint(gdb *gorm.DB) error {
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	var count int64
	if err := gdb.Raw(`SELECT count(*) FROM pg_constraint WHERE conname = ?`, NoOverlapConstraint).Scan(&count).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", NoOverlapConstraint, err)
	}
	if count > 0 {
		return nil
	}

	err := gdb.Exec(`
		ALTER TABLE bookings ADD CONSTRAINT ` + NoOverlapConstraint + `
		EXCLUDE USING gist (
			table_id WITH =,
			booking_date WITH =,
			int4range(booking_time, booking_end_time) WITH &&
		)
	`).Error
	if err != nil {
		return fmt.Errorf("add %s: %w", NoOverlapConstraint, err)
	}
	logrus.WithField("constraint", NoOverlapConstraint).Info("Exclusion constraint created")
	return nil
}
