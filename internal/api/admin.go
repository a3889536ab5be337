package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"table_booking/internal/domain"  // Booking and log types
	"table_booking/internal/service" // Business logic
	"table_booking/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// UpdatePaymentStatusRequest is the body of PUT /update-payment-status
type UpdatePaymentStatusRequest struct {
	BookingID     uint   `json:"booking_id"`     // Booking whose payment changes
	PaymentStatus string `json:"payment_status"` // paid, unpaid or refunded
}

// pageKey builds a cache key from pagination parameters
func pageKey(prefix string, page service.Page) string {
	return prefix + "page=" + strconv.Itoa(page.Number) + ":size=" + strconv.Itoa(page.Size)
}

// UpdatePaymentStatusHandler lets an admin change a booking's payment status
func UpdatePaymentStatusHandler(payments service.PaymentService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := currentUser(c) // Get userID and role from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdatePaymentStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		actor := service.Actor{UserID: userID, Role: role}
		payment, err := payments.UpdateStatus(c.Request.Context(), actor, req.BookingID, req.PaymentStatus)
		if err != nil {
			respondError(c, err)
			return
		}

		// Every listing that shows payment status is now stale
		ctx := c.Request.Context()
		for _, prefix := range []string{utils.CachePrefixUserBookings, utils.CachePrefixAdminBooking, utils.CachePrefixAdminHistory} {
			if err := utils.DeleteCachePrefix(ctx, rdb, prefix); err != nil {
				logrus.WithError(err).WithField("prefix", prefix).Warn("Failed to invalidate cache")
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully", "payment": payment})
	}
}

// PaymentHistoryHandler returns the admin log, newest first
func PaymentHistoryHandler(payments service.PaymentService, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := service.ParsePage(c.Query("page"), c.Query("page_size")) // Pagination parameters
		cacheKey := pageKey(utils.CachePrefixAdminHistory, page)
		// Try to get cached response
		var cached struct {
			Logs       []domain.AdminLog `json:"logs"`        // Log entries
			Page       int               `json:"page"`        // Current page
			PageSize   int               `json:"page_size"`   // Page size
			Total      int64             `json:"total"`       // Total number of entries
			TotalPages int               `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"logs":        cached.Logs,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Indicate response is from cache
			})
			return
		}
		logs, total, err := payments.History(ctx, page)
		if err != nil {
			respondError(c, err)
			return
		}
		respData := gin.H{
			"logs":        logs,                   // Log entries
			"page":        page.Number,            // Current page
			"page_size":   page.Size,              // Page size
			"total":       total,                  // Total number of entries
			"total_pages": page.TotalPages(total), // Total pages
			"cached":      false,                  // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, ttl)
		c.JSON(http.StatusOK, respData)
	}
}

// ListBookingsHandler returns every booking with its payment, paginated
func ListBookingsHandler(bookings service.BookingService, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := service.ParsePage(c.Query("page"), c.Query("page_size")) // Pagination parameters
		cacheKey := pageKey(utils.CachePrefixAdminBooking, page)
		var cached struct {
			Bookings   []domain.BookingView `json:"bookings"`    // Bookings on this page
			Page       int                  `json:"page"`        // Current page
			PageSize   int                  `json:"page_size"`   // Page size
			Total      int64                `json:"total"`       // Total number of bookings
			TotalPages int                  `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"bookings":    cached.Bookings,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		views, total, err := bookings.ListAllBookings(ctx, page)
		if err != nil {
			respondError(c, err)
			return
		}
		respData := gin.H{
			"bookings":    views,
			"page":        page.Number,
			"page_size":   page.Size,
			"total":       total,
			"total_pages": page.TotalPages(total),
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, ttl)
		c.JSON(http.StatusOK, respData)
	}
}
