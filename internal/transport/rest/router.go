package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "mindpulse/docs"
	"mindpulse/internal/config"
	"mindpulse/internal/model"
	"mindpulse/internal/observability"
	"mindpulse/internal/service"
	"mindpulse/internal/transport/rest/handler"
	"mindpulse/internal/transport/rest/middleware"
	"mindpulse/internal/transport/rest/response"
	"mindpulse/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config         *config.Config
	AuthService    *service.AuthService
	UserService    *service.UserService
	CheckinService *service.CheckinService
	InsightService *service.InsightService
	AlertService   *service.AlertService
	WSHub          *ws.Hub
	Metrics        *observability.Metrics
	Log            *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.Use(middleware.AccessLog(c.Log, c.Metrics))

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(c.Config.App)
	authHandler := handler.NewAuthHandler(c.AuthService, c.Config.Auth, c.Log)
	userHandler := handler.NewUserHandler(c.UserService, c.Log)
	checkinHandler := handler.NewCheckinHandler(c.CheckinService, c.Log)
	insightHandler := handler.NewInsightHandler(c.InsightService, c.Log)
	alertHandler := handler.NewAlertHandler(c.AlertService, c.Log)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Config.CORS.Origins, c.Log)

	authMW := middleware.NewAuthMiddleware(c.AuthService, c.Log)

	r.HandleFunc("/", systemHandler.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", c.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods(http.MethodGet)

	// WebSocket route stays outside the compressed subrouter
	r.HandleFunc("/api/v1/ws", wsHandler.Serve).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(handlers.CompressHandler)

	// Public routes
	v1.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	v1.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	v1.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// User routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.Authenticate)

	userRoutes.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	userRoutes.HandleFunc("/checkins", checkinHandler.Create).Methods(http.MethodPost)
	userRoutes.HandleFunc("/checkins", checkinHandler.List).Methods(http.MethodGet)
	userRoutes.HandleFunc("/checkins/{id}", checkinHandler.Get).Methods(http.MethodGet)
	userRoutes.HandleFunc("/checkins/{id}/analysis", checkinHandler.Analysis).Methods(http.MethodGet)
	userRoutes.HandleFunc("/dashboard", insightHandler.Dashboard).Methods(http.MethodGet)
	userRoutes.HandleFunc("/insights/recent", insightHandler.Recent).Methods(http.MethodGet)
	userRoutes.HandleFunc("/insights/{id}", insightHandler.Get).Methods(http.MethodGet)
	userRoutes.HandleFunc("/alerts", alertHandler.List).Methods(http.MethodGet)
	userRoutes.HandleFunc("/alerts/{id}", alertHandler.Update).Methods(http.MethodPatch)
	userRoutes.HandleFunc("/users/profile", userHandler.Profile).Methods(http.MethodGet)
	userRoutes.HandleFunc("/users/profile", userHandler.UpdateProfile).Methods(http.MethodPut)
	userRoutes.HandleFunc("/users/settings", userHandler.Settings).Methods(http.MethodGet)
	userRoutes.HandleFunc("/users/settings", userHandler.UpdateSettings).Methods(http.MethodPut)

	// Admin routes
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.Authenticate, middleware.RequireRole(model.RoleAdmin))

	adminRoutes.HandleFunc("/users", userHandler.ListUsers).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users/{id}/role", userHandler.SetRole).Methods(http.MethodPatch)
	adminRoutes.HandleFunc("/users/{id}", userHandler.Deactivate).Methods(http.MethodDelete)

	return wrap(r, c)
}

// wrap applies the outer middleware: panic recovery first, then CORS
func wrap(r http.Handler, c *Container) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(c.Config.CORS.Origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(c.Log.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(r))
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusNotFound, service.KindNotFound, "route not found")
}
