package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/config"
	"github.com/msv-stihl/limpeza/internal/handlers"
	adminHandlers "github.com/msv-stihl/limpeza/internal/handlers/admin"
	authHandlers "github.com/msv-stihl/limpeza/internal/handlers/auth"
	shiftHandlers "github.com/msv-stihl/limpeza/internal/handlers/shift"
	"github.com/msv-stihl/limpeza/internal/lookup"
	"github.com/msv-stihl/limpeza/internal/middleware"
	"github.com/msv-stihl/limpeza/internal/pkg/response"
	authService "github.com/msv-stihl/limpeza/internal/services/auth"
	"github.com/msv-stihl/limpeza/internal/services/realtime"
	"github.com/msv-stihl/limpeza/internal/services/schedule"
)

// Services are the long-lived components the routes are served by.
// Readings may be nil when no database is configured.
type Services struct {
	Lookup    *lookup.Service
	Rebuilder adminHandlers.Rebuilder
	Readings  adminHandlers.ReadingsWriter
	Status    adminHandlers.StatusFunc
	Hub       *realtime.Hub
}

// Setup builds the router.
func Setup(cfg *config.Config, svc Services, logger *zap.Logger) *chi.Mux {
	jwtAuth := jwtauth.New("HS256", []byte(cfg.JwtSecret), nil)
	jwtService := authService.NewJWTService(cfg.JwtSecret)
	admin := authService.Admin{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}

	shiftHandler := shiftHandlers.NewHandler(svc.Lookup, schedule.ShiftNames(), logger)
	authHandler := authHandlers.NewAuthHandler(admin, jwtService, logger)
	adminHandler := adminHandlers.NewAdminHandler(svc.Rebuilder, svc.Readings, svc.Status, cfg.Location(), logger)

	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	// Публичные маршруты
	router.Get("/", shiftHandler.FormPage)
	router.Post("/", shiftHandler.Submit)
	router.Get("/api/missing/{shift}", shiftHandler.MissingJSON)
	router.Post("/api/auth/login", authHandler.LoginHandler)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if svc.Hub != nil {
		router.Get("/ws", handlers.WebSocketHandler(svc.Hub, logger))
	}

	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtAuth))
		r.Use(jwtauth.Authenticator(jwtAuth))
		r.Use(middleware.AdminOnly)

		r.Post("/api/admin/report/rebuild", adminHandler.RebuildHandler)
		r.Post("/api/admin/readings/upload", adminHandler.UploadReadingsHandler)
		r.Get("/api/admin/status", adminHandler.StatusHandler)
	})

	return router
}
