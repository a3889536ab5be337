package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"table_booking/internal/domain"  // Booking types
	"table_booking/internal/service" // Business logic
	"table_booking/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	TableID        uint   `json:"table_id" binding:"required"`         // Table to book
	BookingDate    string `json:"booking_date" binding:"required"`     // YYYY-MM-DD
	BookingTime    string `json:"booking_time" binding:"required"`     // HH:MM start
	BookingEndTime string `json:"booking_end_time" binding:"required"` // HH:MM end, exclusive
	PeopleCount    int    `json:"people_count" binding:"required"`     // Party size
}

// slotRequest parses the table, date and time range shared by availability and booking
func slotRequest(tableID uint, date, start, end string) (domain.BookingRequest, error) {
	req := domain.BookingRequest{TableID: tableID, Date: date}
	var err error
	if req.Start, err = domain.ParseClock(start); err != nil {
		return req, err
	}
	if req.End, err = domain.ParseClock(end); err != nil {
		return req, err
	}
	return req, nil
}

// userBookingsKey is the cache key of one user's booking list
func userBookingsKey(userID uint) string {
	return utils.CachePrefixUserBookings + strconv.FormatUint(uint64(userID), 10)
}

// invalidateBookings drops cached listings that include the user's bookings
func invalidateBookings(ctx context.Context, rdb *redis.Client, userID uint) {
	if err := utils.DeleteCache(ctx, rdb, userBookingsKey(userID)); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate user bookings cache")
	}
	if err := utils.DeleteCachePrefix(ctx, rdb, utils.CachePrefixAdminBooking); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate admin bookings cache")
	}
}

// ListTablesHandler returns every table, served from Redis when cached
func ListTablesHandler(bookings service.BookingService, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.Table // Cached tables
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, utils.CacheKeyTables, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"tables": cached, "cached": true})
			return
		}
		tables, err := bookings.ListTables(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		// Cache the tables for future requests
		_ = utils.SetCache(ctx, rdb, utils.CacheKeyTables, tables, ttl)
		c.JSON(http.StatusOK, gin.H{"tables": tables, "cached": false})
	}
}

// CheckAvailabilityHandler reports whether a table is free for a time range
func CheckAvailabilityHandler(bookings service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID, err := strconv.ParseUint(c.Query("table_id"), 10, 64) // Parse table ID
		if err != nil || tableID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table_id must be a positive integer"})
			return
		}
		req, err := slotRequest(uint(tableID), c.Query("booking_date"), c.Query("booking_time"), c.Query("booking_end_time"))
		if err != nil {
			respondError(c, err)
			return
		}
		available, err := bookings.CheckAvailability(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": available})
	}
}

// CreateBookingHandler admits a booking for the authenticated user
func CreateBookingHandler(bookings service.BookingService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var body CreateBookingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&body); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "table_id, booking_date, booking_time, booking_end_time and people_count are required"})
			return
		}
		req, err := slotRequest(body.TableID, body.BookingDate, body.BookingTime, body.BookingEndTime)
		if err != nil {
			respondError(c, err)
			return
		}
		req.UserID = userID
		req.PeopleCount = body.PeopleCount

		booking, err := bookings.Admit(c.Request.Context(), req)
		if err != nil {
			respondError(c, err) // 409 when the slot is taken
			return
		}
		invalidateBookings(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": booking})
	}
}

// CancelBookingHandler deletes one of the caller's bookings together with its payment
func CancelBookingHandler(bookings service.BookingService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse booking ID
		if err != nil || bookingID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
			return
		}
		if err := bookings.Cancel(c.Request.Context(), uint(bookingID), userID); err != nil {
			respondError(c, err)
			return
		}
		invalidateBookings(c.Request.Context(), rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
	}
}

// UserBookingsHandler lists the caller's bookings with their payment status
func UserBookingsHandler(bookings service.BookingService, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := userBookingsKey(userID)
		var cached []domain.BookingView
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"bookings": cached})
			return
		}
		views, err := bookings.ListUserBookings(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, views, ttl)
		c.JSON(http.StatusOK, gin.H{"bookings": views})
	}
}
