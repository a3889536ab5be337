package domain

import (
	"fmt"
	"strings"
	"time"
)

// UnitPrice is charged per guest when a booking is admitted
const UnitPrice int64 = 300

// PaymentStatus is the manually managed state of a payment
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"

	// PaymentUnspecified is only rendered in listings for bookings without a payment row
	PaymentUnspecified PaymentStatus = "unspecified"
)

// ParsePaymentStatus converts raw input into a PaymentStatus, rejecting unknown values
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return st, nil
	case "":
		return "", Validation("payment_status is required")
	default:
		return "", Validation(fmt.Sprintf("unknown payment status %q", s))
	}
}

// AmountFor returns the amount due for a party
func AmountFor(people int) int64 {
	return int64(people) * UnitPrice
}

// Payment Model
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"payment_id"`                                 // Primary key
	BookingID uint          `gorm:"uniqueIndex;not null" json:"booking_id"`                       // One payment per booking
	Amount    int64         `gorm:"not null" json:"amount"`                                       // People count times unit price
	Status    PaymentStatus `gorm:"column:payment_status;size:16;not null" json:"payment_status"` // unpaid, paid, refunded
	UpdatedAt time.Time     `json:"updated_at"`                                                   // Last status change
}
