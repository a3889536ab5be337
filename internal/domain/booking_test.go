package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, s string) ClockTime {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want ClockTime
		ok   bool
	}{
		{"18:00", 18 * 60, true},
		{"07:45", 7*60 + 45, true},
		{"19:30:00", 19*60 + 30, true},
		{" 00:00 ", 0, true},
		{"24:00", EndOfDay, true},
		{"24:00:00", EndOfDay, true},
		{"24:01", 0, false},
		{"7pm", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if !tt.ok {
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		At ClockTime `json:"at"`
	}{At: 18*60 + 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"18:05"}`, string(b))

	var in struct {
		At ClockTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"09:15:00"}`), &in))
	assert.Equal(t, ClockTime(9*60+15), in.At)

	err = json.Unmarshal([]byte(`{"at":915}`), &in)
	assert.Error(t, err)
}

func TestOverlapsScenarios(t *testing.T) {
	existingStart, existingEnd := clock(t, "18:00"), clock(t, "19:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"touching after", "19:00", "20:00", false},
		{"touching before", "17:00", "18:00", false},
		{"straddles end", "18:30", "19:30", true},
		{"ends at existing end", "17:00", "19:00", true},
		{"inside", "18:15", "18:45", true},
		{"covers", "17:00", "20:00", true},
		{"identical", "18:00", "19:00", true},
		{"disjoint", "20:00", "21:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := clock(t, tt.start), clock(t, tt.end)
			assert.Equal(t, tt.want, Overlaps(s, e, existingStart, existingEnd))
			assert.Equal(t, tt.want, Overlaps(existingStart, existingEnd, s, e), "predicate must be symmetric")
		})
	}
}

// Overlaps must agree with intersecting the sets of occupied minutes.
func TestOverlapsMatchesMinuteSets(t *testing.T) {
	const step = 30
	occupied := func(s, e int) map[int]bool {
		m := make(map[int]bool)
		for i := s; i < e; i++ {
			m[i] = true
		}
		return m
	}
	for as := 0; as < 6*step; as += step {
		for ae := as + step; ae <= 6*step; ae += step {
			a := occupied(as, ae)
			for bs := 0; bs < 6*step; bs += step {
				for be := bs + step; be <= 6*step; be += step {
					shared := false
					for m := range occupied(bs, be) {
						if a[m] {
							shared = true
							break
						}
					}
					got := Overlaps(ClockTime(as), ClockTime(ae), ClockTime(bs), ClockTime(be))
					assert.Equal(t, shared, got, "[%d,%d) vs [%d,%d)", as, ae, bs, be)
				}
			}
		}
	}
}

func TestBookingConflictsWith(t *testing.T) {
	base := Booking{TableID: 1, BookingDate: "2026-05-01", StartTime: 18 * 60, EndTime: 19 * 60}

	other := base
	other.StartTime, other.EndTime = 18*60+30, 19*60+30
	assert.True(t, base.ConflictsWith(other))

	other.TableID = 2
	assert.False(t, base.ConflictsWith(other), "different table")

	other.TableID = 1
	other.BookingDate = "2026-05-02"
	assert.False(t, base.ConflictsWith(other), "different date")
}

func TestBookingRequestValidate(t *testing.T) {
	valid := func() BookingRequest {
		return BookingRequest{TableID: 1, UserID: 2, Date: "2026-05-01", Start: 18 * 60, End: 19 * 60, PeopleCount: 2}
	}

	r := valid()
	require.NoError(t, r.Validate())
	assert.Equal(t, "2026-05-01", r.Date)

	// Bookings may run until midnight, and the largest allowed party is accepted
	late := valid()
	late.Start, late.End, late.PeopleCount = 23*60, EndOfDay, MaxPartySize
	require.NoError(t, late.Validate())
	assert.Equal(t, "24:00", late.End.String())

	tests := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"missing table", func(r *BookingRequest) { r.TableID = 0 }},
		{"missing user", func(r *BookingRequest) { r.UserID = 0 }},
		{"bad date", func(r *BookingRequest) { r.Date = "01.05.2026" }},
		{"empty date", func(r *BookingRequest) { r.Date = "" }},
		{"end before start", func(r *BookingRequest) { r.Start, r.End = 19*60, 18*60 }},
		{"empty range", func(r *BookingRequest) { r.End = r.Start }},
		{"zero people", func(r *BookingRequest) { r.PeopleCount = 0 }},
		{"negative people", func(r *BookingRequest) { r.PeopleCount = -3 }},
		{"party too large", func(r *BookingRequest) { r.PeopleCount = MaxPartySize + 1 }},
		{"starts at midnight end", func(r *BookingRequest) { r.Start, r.End = EndOfDay, EndOfDay }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}
