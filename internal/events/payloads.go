package events

import (
	"time"

	"table_booking/internal/domain"
)

// BookingEvent is the body of booking.created and booking.cancelled
type BookingEvent struct {
	BookingID   uint             `json:"booking_id"`
	TableID     uint             `json:"table_id"`
	UserID      uint             `json:"user_id"`
	BookingDate string           `json:"booking_date"`
	StartTime   domain.ClockTime `json:"booking_time"`
	EndTime     domain.ClockTime `json:"booking_end_time"`
	PeopleCount int              `json:"people_count"`
	Amount      int64            `json:"amount,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// NewBookingEvent snapshots a booking for publishing
func NewBookingEvent(b domain.Booking, amount int64) BookingEvent {
	return BookingEvent{
		BookingID:   b.ID,
		TableID:     b.TableID,
		UserID:      b.UserID,
		BookingDate: b.BookingDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		PeopleCount: b.PeopleCount,
		Amount:      amount,
		OccurredAt:  time.Now().UTC(),
	}
}

// PaymentEvent is the body of payment.status_updated
type PaymentEvent struct {
	BookingID  uint                 `json:"booking_id"`
	Status     domain.PaymentStatus `json:"payment_status"`
	Amount     int64                `json:"amount"`
	AdminID    uint                 `json:"admin_id"`
	OccurredAt time.Time            `json:"occurred_at"`
}
