package events

import (
	"context"
	"encoding/json"
	"testing"

	"table_booking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEventBody(t *testing.T) {
	b := domain.Booking{ID: 7, TableID: 3, UserID: 9, BookingDate: "2026-05-01", StartTime: 18 * 60, EndTime: 19 * 60, PeopleCount: 4}

	body, err := json.Marshal(NewBookingEvent(b, domain.AmountFor(b.PeopleCount)))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, float64(7), got["booking_id"])
	assert.Equal(t, "18:00", got["booking_time"])
	assert.Equal(t, "19:00", got["booking_end_time"])
	assert.Equal(t, float64(1200), got["amount"])
	assert.NotEmpty(t, got["occurred_at"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), BookingCreated, map[string]int{"booking_id": 1}))
	assert.NoError(t, p.Close())
}
