package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	notificationapp "erents/internal/app/handlers/notifications"
	"erents/internal/app/queries"
)

type NotificationHTTP interface {
	List(c *gin.Context)
	MarkRead(c *gin.Context)
}

type NotificationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h NotificationHandler) List(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := notificationapp.ListNotificationsQuery{
		UserID:     user.ID,
		UnreadOnly: c.Query("unread_only") == "true",
	}
	result, err := queries.Ask[notificationapp.ListNotificationsQuery, dto.NotificationCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := notificationapp.MarkReadCommand{
		NotificationID: c.Param("id"),
		UserID:         user.ID,
		Now:            time.Now().UTC(),
	}
	result, err := commands.Dispatch[notificationapp.MarkReadCommand, *notificationapp.MarkReadResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ NotificationHTTP = NotificationHandler{}
