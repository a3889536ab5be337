package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"table_booking/internal/domain"
	"table_booking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// --- Mock service ---

type mockBookingService struct {
	service.BookingService
	listTablesFn func(ctx context.Context) ([]domain.Table, error)
}

func (m *mockBookingService) ListTables(ctx context.Context) ([]domain.Table, error) {
	return m.listTablesFn(ctx)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Validation("bad"), http.StatusBadRequest},
		{domain.ErrSlotUnavailable, http.StatusConflict},
		{domain.ErrLoginTaken, http.StatusConflict},
		{domain.ErrBookingNotFound, http.StatusNotFound},
		{domain.ErrNotBookingOwner, http.StatusForbidden},
		{domain.ErrAdminRequired, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", domain.ErrPaymentNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	svc := &mockBookingService{
		listTablesFn: func(ctx context.Context) ([]domain.Table, error) {
			return nil, errors.New("pq: password authentication failed for user \"booking\"")
		},
	}
	r := gin.New()
	r.GET("/tables", ListTablesHandler(svc, nil, 0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tables", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
