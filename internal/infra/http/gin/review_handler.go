package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	reviewapp "erents/internal/app/handlers/reviews"
	"erents/internal/app/queries"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	Update(c *gin.Context)
	ListForProperty(c *gin.Context)
}

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		BookingID: c.Param("id"),
		AuthorID:  user.ID,
		Rating:    req.Rating,
		Text:      req.Text,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *reviewapp.SubmitReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.UpdateReviewCommand{
		BookingID: c.Param("id"),
		AuthorID:  user.ID,
		Rating:    req.Rating,
		Text:      req.Text,
		Now:       time.Now().UTC(),
	}
	result, err := commands.Dispatch[reviewapp.UpdateReviewCommand, *reviewapp.UpdateReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReviewHandler) ListForProperty(c *gin.Context) {
	query := reviewapp.ListPropertyReviewsQuery{
		PropertyID: c.Param("id"),
		Limit:      parseInt(c.Query("limit")),
		Offset:     parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[reviewapp.ListPropertyReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
