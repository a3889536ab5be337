package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"table_booking/internal/dbtest"
	"table_booking/internal/domain"
	"table_booking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(t, http.MethodPost, "/register", gin.H{"first_name": "Alice", "login_id": "Alice", "password": "password123"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "User registered successfully", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/register", gin.H{"first_name": "Alice", "login_id": "alice", "password": "password123"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/login", gin.H{"login_id": "alice", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "booking.html", body["redirect"])
	assert.Equal(t, "user", body["role"])

	w = s.do(t, http.MethodGet, "/user/info", nil, body["token"].(string))
	require.Equal(t, http.StatusOK, w.Code)
	info := decode(t, w)
	assert.Equal(t, "Alice", info["first_name"])
	assert.Equal(t, "alice", info["login_id"])

	w = s.do(t, http.MethodPost, "/login", gin.H{"login_id": "alice", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(t, http.MethodPost, "/register", gin.H{"login_id": "bob"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/register", gin.H{"first_name": "Bob", "login_id": "bob", "password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRedirectsAdmins(t *testing.T) {
	s := newTestServer(t, testConfig())
	dbtest.SeedUser(t, s.db, "boss", domain.RoleAdmin)

	w := s.do(t, http.MethodPost, "/login", gin.H{"login_id": "boss", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin.html", decode(t, w)["redirect"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testConfig())
	table := dbtest.SeedTable(t, s.db, "T1", 4)

	w := s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 2), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/bookings/user", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := utils.GenerateJWT(1, domain.RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/user/info", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)
	table := dbtest.SeedTable(t, s.db, "T1", 4)
	token := tokenFor(t, alice)

	w := s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 2), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode(t, w)["booking"].(map[string]any)
	assert.Equal(t, "18:00", booking["booking_time"])
	assert.Equal(t, "19:00", booking["booking_end_time"])
	bookingID := uint(booking["booking_id"].(float64))

	// Overlapping slot is refused
	w = s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:30", "19:30", 2), token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Touching slot is fine
	w = s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "19:00", "20:00", 2), token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/bookings/user", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["bookings"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "unpaid", first["payment_status"])
	assert.EqualValues(t, 2*domain.UnitPrice, first["amount"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/bookings/%d", bookingID), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/bookings/%d", bookingID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/bookings/user", nil, token)
	assert.Len(t, decode(t, w)["bookings"].([]any), 1)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)
	table := dbtest.SeedTable(t, s.db, "T1", 4)
	token := tokenFor(t, alice)

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"end before start", bookingBody(table.ID, "2026-05-01", "19:00", "18:00", 2), http.StatusBadRequest},
		{"bad time", bookingBody(table.ID, "2026-05-01", "25:00", "26:00", 2), http.StatusBadRequest},
		{"bad date", bookingBody(table.ID, "01/05/2026", "18:00", "19:00", 2), http.StatusBadRequest},
		{"missing people", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 0), http.StatusBadRequest},
		{"over capacity", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 9), http.StatusBadRequest},
		{"unknown table", bookingBody(table.ID+100, "2026-05-01", "18:00", "19:00", 2), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/bookings", tc.body, token)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestCancelOthersBookingForbidden(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)
	bob := dbtest.SeedUser(t, s.db, "bob", domain.RoleUser)
	table := dbtest.SeedTable(t, s.db, "T1", 4)

	w := s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 2), tokenFor(t, alice))
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["booking"].(map[string]any)["booking_id"].(float64))

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), nil, tokenFor(t, bob))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/bookings/abc", nil, tokenFor(t, bob))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAvailability(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)
	table := dbtest.SeedTable(t, s.db, "T1", 4)
	w := s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 2), tokenFor(t, alice))
	require.Equal(t, http.StatusCreated, w.Code)

	query := func(start, end string) string {
		return fmt.Sprintf("/check-availability?table_id=%d&booking_date=2026-05-01&booking_time=%s&booking_end_time=%s", table.ID, start, end)
	}

	w = s.do(t, http.MethodGet, query("18:30", "19:30"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["available"])

	w = s.do(t, http.MethodGet, query("19:00", "20:00"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["available"])

	w = s.do(t, http.MethodGet, query("20:00", "19:00"), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/check-availability?table_id=x", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/check-availability?table_id=999&booking_date=2026-05-01&booking_time=18:00&booking_end_time=19:00", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTables(t *testing.T) {
	s := newTestServer(t, testConfig())
	dbtest.SeedTable(t, s.db, "T1", 4)
	dbtest.SeedTable(t, s.db, "T2", 6)

	w := s.do(t, http.MethodGet, "/tables", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["tables"].([]any), 2)
	assert.Equal(t, false, body["cached"])
}

func TestUpdatePaymentStatusForbiddenForUsers(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)

	// The booking does not exist, the answer is still 403
	w := s.do(t, http.MethodPut, "/update-payment-status", gin.H{"booking_id": 9999, "payment_status": "paid"}, tokenFor(t, alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/admin/bookings", nil, tokenFor(t, alice))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminGateReadsRoleFromDatabase(t *testing.T) {
	s := newTestServer(t, testConfig())
	demoted := dbtest.SeedUser(t, s.db, "former", domain.RoleUser)

	// A token still claiming admin is not enough once the stored role changed
	token, err := utils.GenerateJWT(demoted.ID, domain.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	w := s.do(t, http.MethodGet, "/admin/payment-history", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminPaymentFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := dbtest.SeedUser(t, s.db, "alice", domain.RoleUser)
	admin := dbtest.SeedUser(t, s.db, "boss", domain.RoleAdmin)
	table := dbtest.SeedTable(t, s.db, "T1", 4)
	adminToken := tokenFor(t, admin)

	w := s.do(t, http.MethodPost, "/bookings", bookingBody(table.ID, "2026-05-01", "18:00", "19:00", 3), tokenFor(t, alice))
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["booking"].(map[string]any)["booking_id"].(float64))

	w = s.do(t, http.MethodPut, "/update-payment-status", gin.H{"booking_id": id, "payment_status": "paid"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payment := decode(t, w)["payment"].(map[string]any)
	assert.Equal(t, "paid", payment["payment_status"])
	assert.EqualValues(t, 3*domain.UnitPrice, payment["amount"])

	w = s.do(t, http.MethodPut, "/update-payment-status", gin.H{"booking_id": id, "payment_status": "lost"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/update-payment-status", gin.H{"booking_id": id + 100, "payment_status": "paid"}, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/admin/payment-history", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)
	logs := history["logs"].([]any)
	require.Len(t, logs, 1)
	assert.Equal(t, fmt.Sprintf("Updated payment status for booking %d to paid", id), logs[0].(map[string]any)["action"])
	assert.EqualValues(t, 1, history["total"])
	assert.EqualValues(t, 1, history["page"])

	w = s.do(t, http.MethodGet, "/admin/bookings?page=1&page_size=10", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode(t, w)
	assert.EqualValues(t, 10, all["page_size"])
	assert.EqualValues(t, 1, all["total_pages"])
	rows := all["bookings"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "paid", rows[0].(map[string]any)["payment_status"])
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit = 0.001
	cfg.AuthRateBurst = 2
	s := newTestServer(t, cfg)

	creds := gin.H{"login_id": "nobody", "password": "password123"}
	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/login", creds, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := s.do(t, http.MethodPost, "/login", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestStaticPagesServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "booking.html"), []byte("<h1>book</h1>"), 0o644))
	cfg := testConfig()
	cfg.StaticDir = dir
	s := newTestServer(t, cfg)

	w := s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "home")

	w = s.do(t, http.MethodGet, "/booking.html", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "book")

	w = s.do(t, http.MethodGet, "/missing.html", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := s.do(t, http.MethodOptions, "/bookings", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
