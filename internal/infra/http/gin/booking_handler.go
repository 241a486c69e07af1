package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	bookingapp "erents/internal/app/handlers/booking"
	"erents/internal/app/queries"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	ListMine(c *gin.Context)
	ListForProperty(c *gin.Context)
}

// BookingHandler covers direct short stays on daily-rented properties.
// Lease-backed bookings are created by request approval, not through here.
type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	PropertyID string `json:"property_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Guests     int    `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, ok := parseFlexibleTime(req.Start)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339 or YYYY-MM-DD"})
		return
	}
	end, ok := parseFlexibleTime(req.End)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339 or YYYY-MM-DD"})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:       generateCommandID(),
		PropertyID:      req.PropertyID,
		TenantID:        user.ID,
		Start:           start,
		End:             end,
		Guests:          req.Guests,
		Now:             time.Now().UTC(),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CancelBookingCommand{
		BookingID: c.Param("id"),
		ActorID:   user.ID,
		Reason:    req.Reason,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := bookingapp.ListTenantBookingsQuery{TenantID: user.ID}
	result, err := queries.Ask[bookingapp.ListTenantBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListForProperty(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	query := bookingapp.ListPropertyBookingsQuery{PropertyID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[bookingapp.ListPropertyBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
