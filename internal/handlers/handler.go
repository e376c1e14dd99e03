package handlers

import (
	"net/http"

	"sensoringest/internal/logger"
	"sensoringest/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// defaultMaxUploadBytes caps a request body when Options leaves it unset.
const defaultMaxUploadBytes = 64 << 20

// Options tunes the HTTP layer.
type Options struct {
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// MaxUploadBytes caps the body of upload requests.
	MaxUploadBytes int64
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	metrics   http.Handler
	maxUpload int64
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{services: services, log: log, metrics: opts.Metrics, maxUpload: opts.MaxUploadBytes}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live feed of certification runs, same port
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

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorIdMiddleware)
	{
		h.registerCertificationRoutes(api)
		api.GET("/runs", h.getRuns)
	}
}

func (h *Handler) registerCertificationRoutes(api *gin.RouterGroup) {
	uploads := api.Group("", h.limitUploads)
	{
		// multipart field "file"; ?format=xlsx returns the certified workbook
		uploads.POST("/certify", h.certify)
		// multipart fields "base" and "new"
		uploads.POST("/append", h.appendFiles)
		// multipart field "files", repeated
		uploads.POST("/batch", h.batch)
	}
}
