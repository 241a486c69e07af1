package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/commands"
	"erents/internal/app/dto"
	messagingapp "erents/internal/app/handlers/messaging"
	"erents/internal/app/queries"
)

type MessagingHTTP interface {
	StartConversation(c *gin.Context)
	ListConversations(c *gin.Context)
	SendMessage(c *gin.Context)
	ListMessages(c *gin.Context)
}

type MessagingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type startConversationRequest struct {
	PropertyID string `json:"property_id"`
	Text       string `json:"text"`
}

func (h MessagingHandler) StartConversation(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := messagingapp.StartConversationCommand{
		PropertyID: req.PropertyID,
		TenantID:   user.ID,
		Text:       req.Text,
		Now:        time.Now().UTC(),
	}
	result, err := commands.Dispatch[messagingapp.StartConversationCommand, *messagingapp.StartConversationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h MessagingHandler) ListConversations(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := messagingapp.ListConversationsQuery{UserID: user.ID}
	result, err := queries.Ask[messagingapp.ListConversationsQuery, dto.ConversationCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h MessagingHandler) SendMessage(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := messagingapp.SendMessageCommand{
		ConversationID: c.Param("id"),
		SenderID:       user.ID,
		Text:           req.Text,
		Now:            time.Now().UTC(),
	}
	result, err := commands.Dispatch[messagingapp.SendMessageCommand, *messagingapp.SendMessageResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h MessagingHandler) ListMessages(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := messagingapp.ListMessagesQuery{
		ConversationID: c.Param("id"),
		ActorID:        user.ID,
		Limit:          parseInt(c.Query("limit")),
		Offset:         parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[messagingapp.ListMessagesQuery, dto.MessageCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MessagingHTTP = MessagingHandler{}
