package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"erents/internal/infra/config"
	"erents/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Property       PropertyHTTP
	Rental         RentalHTTP
	Booking        BookingHTTP
	Tenancy        TenancyHTTP
	Review         ReviewHTTP
	Maintenance    MaintenanceHTTP
	Messaging      MessagingHTTP
	Notification   NotificationHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.POST("/auth/become-landlord", h.Auth.BecomeLandlord)
	}
	if h.Property != nil {
		api.GET("/properties", h.Property.Search)
		api.POST("/properties", h.Property.Create)
		api.GET("/properties/:id", h.Property.Get)
		api.PUT("/properties/:id", h.Property.Update)
		api.POST("/properties/:id/status", h.Property.ChangeStatus)
		api.POST("/properties/:id/photos", h.Property.UploadPhoto)
		api.GET("/my/properties", h.Property.ListMine)
	}
	if h.Rental != nil {
		api.POST("/rental-requests", h.Rental.Create)
		api.GET("/rental-requests/:id", h.Rental.Get)
		api.PUT("/rental-requests/:id", h.Rental.Update)
		api.DELETE("/rental-requests/:id", h.Rental.Delete)
		api.POST("/rental-requests/:id/approve", h.Rental.Approve)
		api.POST("/rental-requests/:id/reject", h.Rental.Reject)
		api.POST("/rental-requests/:id/cancel", h.Rental.Cancel)
		api.GET("/my/rental-requests", h.Rental.ListMine)
		api.GET("/properties/:id/rental-requests", h.Rental.ListForProperty)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/my/bookings", h.Booking.ListMine)
		api.GET("/properties/:id/bookings", h.Booking.ListForProperty)
	}
	if h.Tenancy != nil {
		api.GET("/my/tenancies", h.Tenancy.ListMine)
		api.GET("/properties/:id/tenancy", h.Tenancy.ActiveForProperty)
	}
	if h.Review != nil {
		api.POST("/bookings/:id/review", h.Review.Submit)
		api.PUT("/bookings/:id/review", h.Review.Update)
		api.GET("/properties/:id/reviews", h.Review.ListForProperty)
	}
	if h.Maintenance != nil {
		api.POST("/maintenance-tickets", h.Maintenance.Open)
		api.POST("/maintenance-tickets/:id/transition", h.Maintenance.Transition)
		api.GET("/my/maintenance-tickets", h.Maintenance.ListMine)
		api.GET("/properties/:id/maintenance-tickets", h.Maintenance.ListForProperty)
	}
	if h.Messaging != nil {
		api.POST("/conversations", h.Messaging.StartConversation)
		api.GET("/conversations", h.Messaging.ListConversations)
		api.POST("/conversations/:id/messages", h.Messaging.SendMessage)
		api.GET("/conversations/:id/messages", h.Messaging.ListMessages)
	}
	if h.Notification != nil {
		api.GET("/notifications", h.Notification.List)
		api.POST("/notifications/:id/read", h.Notification.MarkRead)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
