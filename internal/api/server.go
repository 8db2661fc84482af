package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweets9/SOC-ThreatViz/internal/config"
	"github.com/sweets9/SOC-ThreatViz/internal/database"
	dbmodels "github.com/sweets9/SOC-ThreatViz/internal/database/models"
	"github.com/sweets9/SOC-ThreatViz/internal/metrics"
	"github.com/sweets9/SOC-ThreatViz/internal/middleware"
	"github.com/sweets9/SOC-ThreatViz/internal/store"
)

// Server wires the threat stores, the audit trail and the metrics into the
// HTTP handlers. Everything it needs comes in through the constructor.
type Server struct {
	cfg     *config.Cfg
	stores  map[string]*store.ThreatStore
	audit   *database.DataStore[dbmodels.IngestAudit] // nil when auditing is off
	metrics *metrics.Metrics                          // nil in tests
	hub     *Hub
}

// NewServer initializes the API server with the provided configuration and
// collaborators. audit and m may be nil.
func NewServer(cfg *config.Cfg, stores map[string]*store.ThreatStore, audit *database.DataStore[dbmodels.IngestAudit], m *metrics.Metrics) (*Server, *fiber.App) {
	s := &Server{
		cfg:     cfg,
		stores:  stores,
		audit:   audit,
		metrics: m,
		hub:     NewHub(),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	// Middleware
	app.Use(logger.New()) // Log every request
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST",
		AllowHeaders: "Content-Type, Authorization",
	}))

	skipAllowlisted := func(c *fiber.Ctx) bool {
		return middleware.IPAllowed(c.IP(), cfg.Security.AllowedIPs)
	}

	// General API rate limit; webhook endpoints get a stricter one of their
	// own in setupRoutes. Allowlisted producers skip both.
	app.Use("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
		Next:       skipAllowlisted,
	}))

	s.setupRoutes(app, skipAllowlisted)

	return s, app
}

func (s *Server) setupRoutes(app *fiber.App, skipAllowlisted func(*fiber.Ctx) bool) {
	sec := s.cfg.Security

	app.Get("/health", s.healthHandler)

	api := app.Group("/api")
	api.Get("/threats", s.threatsHandler)
	api.Get("/stats", s.statsHandler)
	api.Get("/info", s.infoHandler)
	api.Get("/health", s.healthHandler)

	authChain := middleware.Authenticate(sec)
	webhook := api.Group("/webhook", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		Next:       skipAllowlisted,
	}))
	webhook.Use(authChain[0], authChain[1])
	webhook.Post("/update", s.webhookUpdateHandler)
	webhook.Post("/bulk", s.webhookBulkHandler)

	// Exchange the static API token for a short-lived JWT
	if sec.JWTSecret != "" {
		api.Post("/auth/token", middleware.VerifyIP(sec), middleware.VerifyStaticToken(sec), s.authTokenHandler)
	}

	app.Get("/ws", websocket.New(s.hub.Handle))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// storeFor maps a dataset mode to its store, falling back to the default
// store for unknown modes.
func (s *Server) storeFor(mode string) *store.ThreatStore {
	if st, ok := s.stores[mode]; ok {
		return st
	}
	return s.stores[""]
}

// liveStore returns the store webhook writes always target
func (s *Server) liveStore() *store.ThreatStore {
	return s.storeFor(config.ModeLive)
}
