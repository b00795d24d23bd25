package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"covid-dashboard-backend/internal/broadcaster"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/utils"
	"covid-dashboard-backend/internal/views"
)

// Config holds HTTP server configuration
type Config struct {
	Addr            string        `env:"SERVER_ADDR"`             // Listen address
	AllowedOrigins  []string      `env:"SERVER_ALLOWED_ORIGINS"`  // CORS origins
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"`     // Request read timeout
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"`    // Response write timeout
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"`     // Keep-alive idle timeout
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"` // Graceful shutdown deadline
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the dashboard API and the websocket endpoint
type Server struct {
	config      Config
	views       *views.Service
	broadcaster *broadcaster.Broadcaster
	data        *dataset.Service
}

// NewServer creates a new server
func NewServer(config Config, viewsService *views.Service, b *broadcaster.Broadcaster, data *dataset.Service) *Server {
	return &Server{
		config:      config,
		views:       viewsService,
		broadcaster: b,
		data:        data,
	}
}

// router assembles the route table and middleware chain
func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware)

	// The websocket route stays outside the logging middleware: its response
	// writer wrapper would hide the Hijacker the upgrade needs.
	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(LoggingMiddleware)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/summary", s.handleSummary).Methods("GET")
	api.HandleFunc("/states", s.handleStates).Methods("GET")
	api.HandleFunc("/daily-totals", s.handleDailyTotals).Methods("GET")
	api.HandleFunc("/state-series", s.handleStateSeries).Methods("GET")
	api.HandleFunc("/ranking", s.handleRanking).Methods("GET")
	api.HandleFunc("/state-demographics", s.handleStateDemographics).Methods("GET")
	api.HandleFunc("/district-zones", s.handleDistrictZones).Methods("GET")
	api.HandleFunc("/age-gender-rollup", s.handleAgeGenderRollup).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         86400,
	})
	return corsHandler.Handler(r)
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	utils.ServerLogger.Info("HTTP server listening on %s", s.config.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ServerLogger.Error("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.ServerLogger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
