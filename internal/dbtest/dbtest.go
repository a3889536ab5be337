// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"table_booking/internal/db"
	"table_booking/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database. It holds a single connection, so
// transactions run one after another the way row locks order them in Postgres.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedUser inserts a user whose password is "password123"
func SeedUser(t *testing.T, gdb *gorm.DB, loginID string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{FirstName: "Test " + loginID, LoginID: loginID, Password: string(hash), Role: role}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedTable inserts a table with the given capacity
func SeedTable(t *testing.T, gdb *gorm.DB, name string, capacity int) *domain.Table {
	t.Helper()
	tbl := &domain.Table{Name: name, Capacity: capacity, Location: "hall"}
	if err := gdb.Create(tbl).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return tbl
}
