package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"erents/internal/app/dto"
	tenancyapp "erents/internal/app/handlers/tenancy"
	"erents/internal/app/queries"
)

type TenancyHTTP interface {
	ListMine(c *gin.Context)
	ActiveForProperty(c *gin.Context)
}

type TenancyHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h TenancyHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	query := tenancyapp.ListTenantTenanciesQuery{TenantID: user.ID}
	result, err := queries.Ask[tenancyapp.ListTenantTenanciesQuery, dto.TenancyCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TenancyHandler) ActiveForProperty(c *gin.Context) {
	user, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	query := tenancyapp.ActiveForPropertyQuery{PropertyID: c.Param("id"), ActorID: user.ID}
	result, err := queries.Ask[tenancyapp.ActiveForPropertyQuery, dto.TenancySummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ TenancyHTTP = TenancyHandler{}
