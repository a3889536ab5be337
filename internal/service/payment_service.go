package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"table_booking/internal/domain"
	"table_booking/internal/events"
	"table_booking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uint
	Role   domain.Role
}

type PaymentService interface {
	UpdateStatus(ctx context.Context, actor Actor, bookingID uint, status string) (*domain.Payment, error)
	History(ctx context.Context, page Page) ([]domain.AdminLog, int64, error)
}

type paymentService struct {
	db          *gorm.DB
	paymentRepo repository.PaymentRepository
	logRepo     repository.AdminLogRepository
	publisher   events.Publisher
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	logRepo repository.AdminLogRepository,
	publisher events.Publisher,
) PaymentService {
	return &paymentService{
		db:          db,
		paymentRepo: paymentRepo,
		logRepo:     logRepo,
		publisher:   publisher,
	}
}

// UpdateStatus sets the payment status of a booking and records the change in the admin log.
// Both writes share one transaction.
func (s *paymentService) UpdateStatus(ctx context.Context, actor Actor, bookingID uint, raw string) (*domain.Payment, error) {
	// Role first, so non-admins learn nothing about which bookings exist
	if !actor.Role.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	if bookingID == 0 {
		return nil, domain.Validation("booking_id is required")
	}
	status, err := domain.ParsePaymentStatus(raw)
	if err != nil {
		return nil, err
	}

	var result *domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByBookingIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}

		if err := s.paymentRepo.UpdateStatus(ctx, tx, payment, status); err != nil {
			return err
		}
		payment.Status = status

		entry := &domain.AdminLog{
			AdminID: actor.UserID,
			Action:  fmt.Sprintf("Updated payment status for booking %d to %s", bookingID, status),
		}
		if err := s.logRepo.Create(ctx, tx, entry); err != nil {
			return fmt.Errorf("write admin log: %w", err)
		}

		result = payment
		return nil
	})
	if err != nil {
		logger := logrus.WithFields(logrus.Fields{"booking_id": bookingID, "admin_id": actor.UserID, "status": status})
		if isDomainError(err) {
			logger.WithField("reason", err.Error()).Info("Payment status update rejected")
			return nil, err
		}
		logger.WithError(err).Error("Payment status update failed")
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"admin_id":   actor.UserID,
		"status":     status,
	}).Info("Payment status updated")

	evt := events.PaymentEvent{
		BookingID:  bookingID,
		Status:     status,
		Amount:     result.Amount,
		AdminID:    actor.UserID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.PaymentStatusUpdated, evt); err != nil {
		logrus.WithError(err).WithField("routing_key", events.PaymentStatusUpdated).Warn("Event not published")
	}
	return result, nil
}

func (s *paymentService) History(ctx context.Context, page Page) ([]domain.AdminLog, int64, error) {
	logs, total, err := s.logRepo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("list admin logs: %w", err)
	}
	return logs, total, nil
}
