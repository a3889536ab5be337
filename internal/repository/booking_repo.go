package repository

import (
	"context"

	"table_booking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *domain.Booking) error
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*domain.Booking, error)
	FindByTableAndDate(ctx context.Context, tx *gorm.DB, tableID uint, date string) ([]domain.Booking, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListViewsByUser(ctx context.Context, userID uint) ([]domain.BookingView, error)
	ListViews(ctx context.Context, offset, limit int) ([]domain.BookingView, int64, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *domain.Booking) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*domain.Booking, error) {
	var booking domain.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByTableAndDate(ctx context.Context, tx *gorm.DB, tableID uint, date string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := tx.WithContext(ctx).
		Where("table_id = ? AND booking_date = ?", tableID, date).
		Order("booking_time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&domain.Booking{}, id).Error
}

// viewQuery joins bookings with their payments. A booking without a payment row reports
// an unspecified status.
func (r *bookingRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings AS b").
		Select(`b.id AS booking_id, b.table_id, b.user_id, b.booking_date,
			b.booking_time, b.booking_end_time, b.people_count,
			COALESCE(p.amount, 0) AS amount,
			COALESCE(p.payment_status, ?) AS payment_status`, string(domain.PaymentUnspecified)).
		Joins("LEFT JOIN payments AS p ON p.booking_id = b.id")
}

func (r *bookingRepository) ListViewsByUser(ctx context.Context, userID uint) ([]domain.BookingView, error) {
	views := []domain.BookingView{}
	err := r.viewQuery(ctx).
		Where("b.user_id = ?", userID).
		Order("b.booking_date ASC, b.booking_time ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *bookingRepository) ListViews(ctx context.Context, offset, limit int) ([]domain.BookingView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	views := []domain.BookingView{}
	err := r.viewQuery(ctx).
		Order("b.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}
