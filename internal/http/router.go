package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/med-repair-dash/backend/internal/auth"
	"github.com/med-repair-dash/backend/internal/config"
	"github.com/med-repair-dash/backend/internal/db"
	"github.com/med-repair-dash/backend/internal/events"
	"github.com/med-repair-dash/backend/internal/http/handlers"
	"github.com/med-repair-dash/backend/internal/http/middleware"
	"github.com/med-repair-dash/backend/internal/realtime"

	_ "github.com/med-repair-dash/backend/docs"
)

func Router(cfg config.Config, store *db.Store, tokens *auth.TokenService, hub *realtime.Hub, producer *events.Producer, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Tokens:    tokens,
		Hub:       hub,
		Events:    producer,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(tokens, store))
	{
		authed.GET("/auth/me", h.Me)

		authed.POST("/tickets", h.CreateTicket)
		authed.GET("/tickets", h.ListTickets)
		authed.GET("/tickets/:id", h.GetTicket)
		authed.POST("/tickets/:id/status", h.UpdateTicketStatus)
		authed.POST("/tickets/:id/assign", h.AssignTechnician)
		authed.POST("/tickets/:id/request-intervention", h.RequestIntervention)

		authed.GET("/tickets/:id/messages", h.ListMessages)
		authed.POST("/tickets/:id/messages", h.PostMessage)
		authed.GET("/tickets/:id/messages/stream", h.StreamMessages)

		authed.GET("/tickets/:id/files", h.ListFiles)
		authed.POST("/tickets/:id/files", h.RegisterFile)

		authed.POST("/tickets/:id/intervention", h.CreateIntervention)
		authed.GET("/tickets/:id/intervention", h.GetIntervention)

		authed.POST("/maintenance", h.CreateMaintenance)
		authed.GET("/maintenance", h.ListMaintenance)
		authed.GET("/maintenance/:id", h.GetMaintenance)
		authed.POST("/maintenance/:id/schedule", h.ScheduleMaintenance)
		authed.POST("/maintenance/:id/complete", h.CompleteMaintenance)
		authed.POST("/maintenance/:id/cancel", h.CancelMaintenance)

		authed.GET("/technicians", h.ListTechnicians)
		authed.POST("/technicians/:id/validate", h.ValidateTechnician)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
