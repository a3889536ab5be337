package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"table_booking/internal/config"
	"table_booking/internal/dbtest"
	"table_booking/internal/domain"
	"table_booking/internal/events"
	"table_booking/internal/repository"
	"table_booking/internal/service"
	"table_booking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     testSecret,
		JWTTTL:        time.Hour,
		CacheTTL:      time.Minute,
		CORSOrigin:    "*",
		AuthRateLimit: 1000,
		AuthRateBurst: 1000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	return newTestServerWithRedis(t, cfg, nil)
}

// newTestServerWithRedis builds the router with a cache client, nil disables caching
func newTestServerWithRedis(t *testing.T, cfg *config.Config, rdb *redis.Client) *testServer {
	t.Helper()
	gdb := dbtest.Open(t)
	users := repository.NewUserRepository(gdb)
	paymentRepo := repository.NewPaymentRepository()
	pub := events.NopPublisher{}

	router := NewRouter(Deps{
		Config: cfg,
		DB:     gdb,
		Redis:  rdb,
		Users:  users,
		Auth:   service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		Bookings: service.NewBookingService(
			repository.NewBookingRepository(gdb),
			repository.NewTableRepository(gdb),
			paymentRepo,
			pub,
		),
		Payments: service.NewPaymentService(gdb, paymentRepo, repository.NewAdminLogRepository(gdb), pub),
	})
	return &testServer{db: gdb, router: router}
}

// do sends a request with an optional JSON body and bearer token
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, u *domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(u.ID, u.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func bookingBody(tableID uint, date, start, end string, people int) gin.H {
	return gin.H{
		"table_id":         tableID,
		"booking_date":     date,
		"booking_time":     start,
		"booking_end_time": end,
		"people_count":     people,
	}
}

