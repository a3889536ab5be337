package api

import (
	"net/http"      // HTTP status codes
	"os"            // File checks
	"path"          // URL paths
	"path/filepath" // Static file paths
	"strings"       // String manipulation

	"table_booking/internal/config"     // Application configuration
	"table_booking/internal/middleware" // Custom middleware
	"table_booking/internal/repository" // User lookups for the admin gate
	"table_booking/internal/service"    // Business logic

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client // Optional, nil disables caching
	Users    repository.UserRepository
	Auth     service.AuthService
	Bookings service.BookingService
	Payments service.PaymentService
}

// NewRouter builds the gin engine with every route of the booking API
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New() // Gin router instance
	r.Use(
		gin.Recovery(),                            // Recover from panics
		middleware.RequestLogger(),                // Structured request logs
		middleware.SecurityHeaders(),              // Hardening headers
		middleware.CORSMiddleware(cfg.CORSOrigin), // Browser access
	)

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)  // JWT guard
	adminOnly := middleware.AdminOnlyMiddleware(d.Users) // Admin guard
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	// Health check
	r.GET("/healthz", HealthHandler(d.DB))

	// Auth routes (rate limited)
	r.POST("/register", limiter.Middleware(), RegisterHandler(d.Auth)) // Registration endpoint
	r.POST("/login", limiter.Middleware(), LoginHandler(d.Auth))       // Login endpoint

	// Public routes
	r.GET("/tables", ListTablesHandler(d.Bookings, d.Redis, cfg.CacheTTL)) // Table list
	r.GET("/check-availability", CheckAvailabilityHandler(d.Bookings))     // Availability query

	// Booking routes (protected by JWT)
	bookingGroup := r.Group("/bookings", auth)
	bookingGroup.POST("", CreateBookingHandler(d.Bookings, d.Redis))                  // Create booking
	bookingGroup.DELETE("/:id", CancelBookingHandler(d.Bookings, d.Redis))            // Cancel booking
	bookingGroup.GET("/user", UserBookingsHandler(d.Bookings, d.Redis, cfg.CacheTTL)) // Own bookings

	r.GET("/user/info", auth, UserInfoHandler(d.Auth)) // Profile

	// Admin routes (protected, admin only)
	r.PUT("/update-payment-status", auth, adminOnly, UpdatePaymentStatusHandler(d.Payments, d.Redis))
	adminGroup := r.Group("/admin", auth, adminOnly)
	adminGroup.GET("/payment-history", PaymentHistoryHandler(d.Payments, d.Redis, cfg.CacheTTL)) // Audit log
	adminGroup.GET("/bookings", ListBookingsHandler(d.Bookings, d.Redis, cfg.CacheTTL))          // All bookings

	// Web pages
	if cfg.StaticDir != "" {
		r.NoRoute(StaticHandler(cfg.StaticDir))
	}
	return r
}

// HealthHandler reports whether the database answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// StaticHandler serves files from dir for GET requests no route matched, index.html for "/"
func StaticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		name := path.Clean("/" + c.Request.URL.Path) // Rooted, no ".." segments
		if strings.HasSuffix(name, "/") {
			name += "index.html"
		}
		file := filepath.Join(dir, filepath.FromSlash(name))
		if stat, err := os.Stat(file); err != nil || stat.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(file)
	}
}
