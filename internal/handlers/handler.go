package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"pool_monitor/internal/logger"
	"pool_monitor/internal/service"
)

// Options tunes the HTTP layer.
type Options struct {
	// DeviceKey must match the X-Device-Key header on ingest; empty disables the check.
	DeviceKey string
	// IngestRate and IngestBurst bound ingest requests per second; zero disables limiting.
	IngestRate  float64
	IngestBurst int
	// PingInterval is how often websocket clients are pinged.
	PingInterval time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	limiter  *rate.Limiter
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = pingPeriod
	}
	h := &Handler{services: services, log: log, opts: opts}
	if opts.IngestRate > 0 {
		burst := opts.IngestBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(opts.IngestRate), burst)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerIngestRoutes(router)
	h.registerAPIRoutes(router)

	// live readings, toasts and grouped alerts
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerIngestRoutes(r *gin.Engine) {
	ingest := r.Group("/ingest", h.rateLimitMiddleware, h.deviceKeyMiddleware)
	{
		ingest.POST("/readings", h.ingestReading)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/readings/latest", h.latestReading)
		h.registerAlertRoutes(api)
		h.registerThresholdRoutes(api)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.getAlerts)
		alerts.GET("/log", h.getAlertLog)
		alerts.DELETE("", requireRole(roleAdmin), h.clearAlerts)
	}
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	thresholds := api.Group("/thresholds")
	{
		thresholds.GET("", h.getThresholds)
		thresholds.PUT("", requireRole(rolePremium, roleAdmin), h.putThresholds)
	}
}
