package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"table_booking/internal/dbtest"
	"table_booking/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Fake publisher ---

type fakePublisher struct {
	mu        sync.Mutex
	keys      []string
	payloads  []any
	publishFn func(ctx context.Context, routingKey string, payload any) error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if p.publishFn != nil {
		if err := p.publishFn(ctx, routingKey, payload); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type fixture struct {
	db       *gorm.DB
	bookings BookingService
	payments PaymentService
	auth     AuthService
	events   *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	pub := &fakePublisher{}
	paymentRepo := repository.NewPaymentRepository()
	return &fixture{
		db: gdb,
		bookings: NewBookingService(
			repository.NewBookingRepository(gdb),
			repository.NewTableRepository(gdb),
			paymentRepo,
			pub,
		),
		payments: NewPaymentService(gdb, paymentRepo, repository.NewAdminLogRepository(gdb), pub),
		auth:     NewAuthService(repository.NewUserRepository(gdb), "test-secret", time.Hour),
		events:   pub,
	}
}

// failInsertsInto makes every INSERT into table fail, to exercise rollbacks
func failInsertsInto(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()
	err := gdb.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("forced insert failure"))
		}
	})
	require.NoError(t, err)
}

func count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
