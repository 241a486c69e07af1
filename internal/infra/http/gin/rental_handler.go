package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	rentalapp "erents/internal/app/handlers/rental"
	"erents/internal/app/queries"
)

type RentalHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ListMine(c *gin.Context)
	ListForProperty(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
	Cancel(c *gin.Context)
}

// RentalHandler exposes the annual-lease proposal flow: a tenant proposes a
// lease, the landlord approves or rejects, either side can unwind.
type RentalHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createRentalRequest struct {
	PropertyID string `json:"property_id"`
	LeaseStart string `json:"lease_start"`
	LeaseEnd   string `json:"lease_end"`
	Guests     int    `json:"guests"`
	Message    string `json:"message"`
}

func (h RentalHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req createRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, ok := parseFlexibleTime(req.LeaseStart)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_start must be RFC3339 or YYYY-MM-DD"})
		return
	}
	end, ok := parseFlexibleTime(req.LeaseEnd)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_end must be RFC3339 or YYYY-MM-DD"})
		return
	}
	cmd := rentalapp.CreateRequestCommand{
		CommandID:       generateCommandID(),
		PropertyID:      req.PropertyID,
		TenantID:        user.ID,
		LeaseStart:      start,
		LeaseEnd:        end,
		Guests:          req.Guests,
		Message:         req.Message,
		Now:             time.Now().UTC(),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalapp.CreateRequestCommand, *rentalapp.CreateRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RentalHandler) Get(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := rentalapp.GetRequestQuery{RequestID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[rentalapp.GetRequestQuery, dto.RentalRequestSummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := rentalapp.ListTenantRequestsQuery{TenantID: user.ID}
	result, err := queries.Ask[rentalapp.ListTenantRequestsQuery, dto.RentalRequestCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) ListForProperty(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	query := rentalapp.ListPropertyRequestsQuery{PropertyID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[rentalapp.ListPropertyRequestsQuery, dto.RentalRequestCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateRentalRequest struct {
	LeaseStart string `json:"lease_start"`
	LeaseEnd   string `json:"lease_end"`
	Guests     int    `json:"guests"`
	Message    string `json:"message"`
}

func (h RentalHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req updateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, ok := parseFlexibleTime(req.LeaseStart)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_start must be RFC3339 or YYYY-MM-DD"})
		return
	}
	end, ok := parseFlexibleTime(req.LeaseEnd)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lease_end must be RFC3339 or YYYY-MM-DD"})
		return
	}
	cmd := rentalapp.UpdateRequestCommand{
		RequestID:  c.Param("id"),
		ActorID:    user.ID,
		LeaseStart: start,
		LeaseEnd:   end,
		Guests:     req.Guests,
		Message:    req.Message,
		Now:        time.Now().UTC(),
	}
	result, err := commands.Dispatch[rentalapp.UpdateRequestCommand, *rentalapp.UpdateRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Delete(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := rentalapp.DeleteRequestCommand{RequestID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[rentalapp.DeleteRequestCommand, *rentalapp.DeleteRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type respondRentalRequest struct {
	Reply string `json:"reply"`
}

func (h RentalHandler) Approve(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	var req respondRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rentalapp.ApproveRequestCommand{
		RequestID: c.Param("id"),
		ActorID:   user.ID,
		Reply:     req.Reply,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[rentalapp.ApproveRequestCommand, *rentalapp.ApproveRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) Reject(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	var req respondRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rentalapp.RejectRequestCommand{
		RequestID: c.Param("id"),
		ActorID:   user.ID,
		Reply:     req.Reply,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[rentalapp.RejectRequestCommand, *rentalapp.RejectRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

func (h RentalHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req cancelRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rentalapp.CancelRequestCommand{
		RequestID: c.Param("id"),
		ActorID:   user.ID,
		Reason:    req.Reason,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[rentalapp.CancelRequestCommand, *rentalapp.CancelRequestResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseFlexibleTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

var _ RentalHTTP = RentalHandler{}
