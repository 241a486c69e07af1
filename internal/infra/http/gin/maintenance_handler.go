package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	maintapp "erents/internal/app/handlers/maintenance"
	"erents/internal/app/queries"
)

type MaintenanceHTTP interface {
	Open(c *gin.Context)
	Transition(c *gin.Context)
	ListForProperty(c *gin.Context)
	ListMine(c *gin.Context)
}

type MaintenanceHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type openTicketRequest struct {
	PropertyID  string `json:"property_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (h MaintenanceHandler) Open(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req openTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := maintapp.OpenTicketCommand{
		PropertyID:  req.PropertyID,
		ReporterID:  user.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Now:         time.Now().UTC(),
	}
	result, err := commands.Dispatch[maintapp.OpenTicketCommand, *maintapp.OpenTicketResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type transitionTicketRequest struct {
	Action     string `json:"action"`
	Resolution string `json:"resolution"`
}

func (h MaintenanceHandler) Transition(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req transitionTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := maintapp.TransitionTicketCommand{
		TicketID:   c.Param("id"),
		ActorID:    user.ID,
		Action:     maintapp.TicketAction(strings.ToUpper(strings.TrimSpace(req.Action))),
		Resolution: req.Resolution,
		Now:        time.Now().UTC(),
	}
	result, err := commands.Dispatch[maintapp.TransitionTicketCommand, *maintapp.TransitionTicketResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MaintenanceHandler) ListForProperty(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := maintapp.ListPropertyTicketsQuery{PropertyID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[maintapp.ListPropertyTicketsQuery, dto.TicketCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MaintenanceHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := maintapp.ListReporterTicketsQuery{ReporterID: user.ID}
	result, err := queries.Ask[maintapp.ListReporterTicketsQuery, dto.TicketCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MaintenanceHTTP = MaintenanceHandler{}
