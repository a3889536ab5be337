package service

import (
	"context"
	"errors"
	"fmt"

	"table_booking/internal/domain"
	"table_booking/internal/events"
	"table_booking/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SQLSTATE raised by Postgres when an exclusion constraint rejects a row
const pgExclusionViolation = "23P01"

type BookingService interface {
	Admit(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, userID uint) error
	CheckAvailability(ctx context.Context, req domain.BookingRequest) (bool, error)
	ListTables(ctx context.Context) ([]domain.Table, error)
	ListUserBookings(ctx context.Context, userID uint) ([]domain.BookingView, error)
	ListAllBookings(ctx context.Context, page Page) ([]domain.BookingView, int64, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	tableRepo   repository.TableRepository
	paymentRepo repository.PaymentRepository
	publisher   events.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	tableRepo repository.TableRepository,
	paymentRepo repository.PaymentRepository,
	publisher events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
	}
}

func (s *bookingService) Admit(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		result  *domain.Booking
		payment *domain.Payment
	)
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the table row, concurrent admissions for this table wait here
		table, err := s.tableRepo.FindByIDForUpdate(ctx, tx, req.TableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTableNotFound
			}
			return err
		}
		if !table.Fits(req.PeopleCount) {
			return domain.Validation(fmt.Sprintf("table %d seats at most %d people", table.ID, table.Capacity))
		}

		// 2. Reject any overlap with an existing booking
		candidate := req.Booking()
		existing, err := s.bookingRepo.FindByTableAndDate(ctx, tx, req.TableID, req.Date)
		if err != nil {
			return err
		}
		for _, b := range existing {
			if candidate.ConflictsWith(b) {
				return domain.ErrSlotUnavailable
			}
		}

		// 3. Booking and payment commit together
		if err := s.bookingRepo.Create(ctx, tx, &candidate); err != nil {
			return err
		}
		p := &domain.Payment{
			BookingID: candidate.ID,
			Amount:    domain.AmountFor(candidate.PeopleCount),
			Status:    domain.PaymentUnpaid,
		}
		if err := s.paymentRepo.Create(ctx, tx, p); err != nil {
			return err
		}

		result, payment = &candidate, p
		return nil
	})
	if err != nil {
		if isExclusionViolation(err) {
			err = domain.ErrSlotUnavailable
		}
		logger := logrus.WithFields(logrus.Fields{
			"table_id":         req.TableID,
			"user_id":          req.UserID,
			"booking_date":     req.Date,
			"booking_time":     req.Start.String(),
			"booking_end_time": req.End.String(),
		})
		if isDomainError(err) {
			logger.WithField("reason", err.Error()).Info("Booking rejected")
			return nil, err
		}
		logger.WithError(err).Error("Booking failed")
		return nil, fmt.Errorf("admit booking: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id":   result.ID,
		"table_id":     result.TableID,
		"user_id":      result.UserID,
		"booking_date": result.BookingDate,
		"amount":       payment.Amount,
	}).Info("Booking admitted")
	s.publish(ctx, events.BookingCreated, events.NewBookingEvent(*result, payment.Amount))
	return result, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, userID uint) error {
	var cancelled *domain.Booking

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		if booking.UserID != userID {
			return domain.ErrNotBookingOwner
		}

		// The payment goes with its booking
		if err := s.paymentRepo.DeleteByBookingID(ctx, tx, booking.ID); err != nil {
			return err
		}
		if err := s.bookingRepo.Delete(ctx, tx, booking.ID); err != nil {
			return err
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		logger := logrus.WithFields(logrus.Fields{"booking_id": bookingID, "user_id": userID})
		if isDomainError(err) {
			logger.WithField("reason", err.Error()).Info("Cancellation rejected")
			return err
		}
		logger.WithError(err).Error("Cancellation failed")
		return fmt.Errorf("cancel booking: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": cancelled.ID,
		"table_id":   cancelled.TableID,
		"user_id":    userID,
	}).Info("Booking cancelled")
	s.publish(ctx, events.BookingCancelled, events.NewBookingEvent(*cancelled, 0))
	return nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, req domain.BookingRequest) (bool, error) {
	if err := req.ValidateSlot(); err != nil {
		return false, err
	}
	if _, err := s.tableRepo.FindByID(ctx, req.TableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrTableNotFound
		}
		return false, fmt.Errorf("check availability: %w", err)
	}
	candidate := req.Booking()
	existing, err := s.bookingRepo.FindByTableAndDate(ctx, s.bookingRepo.GetDB(), req.TableID, req.Date)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	for _, b := range existing {
		if candidate.ConflictsWith(b) {
			return false, nil
		}
	}
	return true, nil
}

func (s *bookingService) ListTables(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uint) ([]domain.BookingView, error) {
	views, err := s.bookingRepo.ListViewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return views, nil
}

func (s *bookingService) ListAllBookings(ctx context.Context, page Page) ([]domain.BookingView, int64, error) {
	views, total, err := s.bookingRepo.ListViews(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return views, total, nil
}

// publish is best effort, the booking is already committed
func (s *bookingService) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logrus.WithError(err).WithField("routing_key", routingKey).Warn("Event not published")
	}
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

func isDomainError(err error) bool {
	var de *domain.Error
	return errors.As(err, &de)
}
