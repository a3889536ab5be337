package repository

import (
	"context"

	"table_booking/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *domain.Payment) error
	FindByBookingIDForUpdate(ctx context.Context, tx *gorm.DB, bookingID uint) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, payment *domain.Payment, status domain.PaymentStatus) error
	DeleteByBookingID(ctx context.Context, tx *gorm.DB, bookingID uint) error
}

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *domain.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByBookingIDForUpdate(ctx context.Context, tx *gorm.DB, bookingID uint) (*domain.Payment, error) {
	var payment domain.Payment
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("booking_id = ?", bookingID).
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, payment *domain.Payment, status domain.PaymentStatus) error {
	return tx.WithContext(ctx).Model(payment).Update("payment_status", status).Error
}

func (r *paymentRepository) DeleteByBookingID(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).Where("booking_id = ?", bookingID).Delete(&domain.Payment{}).Error
}
