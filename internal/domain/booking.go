package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of booking dates
const DateLayout = "2006-01-02"

// MaxPartySize bounds people_count, also on tables with unlimited capacity
const MaxPartySize = 1000

// EndOfDay is 24:00, the latest a booking may end
const EndOfDay ClockTime = 24 * 60

// ClockTime is a time of day stored as minutes since midnight
type ClockTime int

// ParseClock accepts "HH:MM" or "HH:MM:SS" and drops the seconds. "24:00" is accepted as the
// end of the day.
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" || s == "24:00:00" {
		return EndOfDay, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, Validation(fmt.Sprintf("invalid time %q, expected HH:MM", s))
}

// String renders the time as HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalJSON renders the time as "HH:MM"
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON reads "HH:MM" or "HH:MM:SS"
func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return Validation("time must be a string in HH:MM format")
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseDate normalizes a YYYY-MM-DD date
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t.Format(DateLayout), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd ClockTime) bool {
	return aStart < bEnd && bStart < aEnd
}

// Booking Model
type Booking struct {
	ID          uint      `gorm:"primaryKey" json:"booking_id"`                                                           // Primary key
	TableID     uint      `gorm:"not null;index:idx_bookings_table_date,priority:1" json:"table_id"`                      // Booked table
	UserID      uint      `gorm:"not null;index" json:"user_id"`                                                          // Owner
	BookingDate string    `gorm:"type:varchar(10);not null;index:idx_bookings_table_date,priority:2" json:"booking_date"` // YYYY-MM-DD
	StartTime   ClockTime `gorm:"column:booking_time;type:integer;not null" json:"booking_time"`                          // Inclusive start
	EndTime     ClockTime `gorm:"column:booking_end_time;type:integer;not null" json:"booking_end_time"`                  // Exclusive end
	PeopleCount int       `gorm:"not null" json:"people_count"`                                                           // Party size
	CreatedAt   time.Time `json:"created_at"`                                                                             // Creation time

	DiningTable *Table   `gorm:"foreignKey:TableID;constraint:OnDelete:RESTRICT" json:"-"`  // Belongs to Table
	User        *User    `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`   // Belongs to User
	Payment     *Payment `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"` // Has one Payment
}

// ConflictsWith reports whether two bookings claim the same table at overlapping times
func (b Booking) ConflictsWith(o Booking) bool {
	return b.TableID == o.TableID && b.BookingDate == o.BookingDate &&
		Overlaps(b.StartTime, b.EndTime, o.StartTime, o.EndTime)
}

// BookingRequest carries the input of an admission or availability check
type BookingRequest struct {
	TableID     uint
	UserID      uint
	Date        string
	Start       ClockTime
	End         ClockTime
	PeopleCount int
}

// ValidateSlot checks the table, date and time range. The date is normalized in place.
func (r *BookingRequest) ValidateSlot() error {
	if r.TableID == 0 {
		return Validation("table_id is required")
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return err
	}
	r.Date = date
	if r.Start < 0 || r.End > EndOfDay {
		return Validation("booking time is out of range")
	}
	if r.Start >= r.End {
		return Validation("booking_time must be before booking_end_time")
	}
	return nil
}

// Validate checks every field required to admit a booking
func (r *BookingRequest) Validate() error {
	if r.UserID == 0 {
		return Validation("user_id is required")
	}
	if err := r.ValidateSlot(); err != nil {
		return err
	}
	if r.PeopleCount <= 0 {
		return Validation("people_count must be positive")
	}
	if r.PeopleCount > MaxPartySize {
		return Validation(fmt.Sprintf("people_count must be at most %d", MaxPartySize))
	}
	return nil
}

// Booking builds the row to insert for a validated request
func (r BookingRequest) Booking() Booking {
	return Booking{
		TableID:     r.TableID,
		UserID:      r.UserID,
		BookingDate: r.Date,
		StartTime:   r.Start,
		EndTime:     r.End,
		PeopleCount: r.PeopleCount,
	}
}

// BookingView is a booking joined with its payment, as listed to users and admins
type BookingView struct {
	BookingID      uint          `json:"booking_id"`
	TableID        uint          `json:"table_id"`
	UserID         uint          `json:"user_id"`
	BookingDate    string        `json:"booking_date"`
	BookingTime    ClockTime     `json:"booking_time"`
	BookingEndTime ClockTime     `json:"booking_end_time"`
	PeopleCount    int           `json:"people_count"`
	Amount         int64         `json:"amount"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
}
