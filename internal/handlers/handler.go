package handlers

import (
	"car_chronicle/internal/logger"
	"car_chronicle/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Liveness endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live notification feed (HTTP upgrade), same port
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
	api := r.Group("/api/v1", h.callerIdentity)
	{
		h.registerCarRoutes(api)
		h.registerInsuranceRoutes(api)
		h.registerNotificationRoutes(api)
	}
}

func (h *Handler) registerCarRoutes(api *gin.RouterGroup) {
	cars := api.Group("/cars")
	{
		cars.POST("", h.registerVehicle)
		cars.GET("", h.listAllRecords)
		cars.GET("/:vin", h.getRecord)
		cars.GET("/:vin/logs", h.getLogs)
		cars.POST("/:vin/logs", h.appendLogs)
		cars.GET("/:vin/health", h.classify)
		cars.GET("/:vin/value", h.marketValue)
	}
	api.GET("/owners/:owner/cars", h.recordsByOwner)
}

func (h *Handler) registerInsuranceRoutes(api *gin.RouterGroup) {
	insurance := api.Group("/insurance")
	{
		insurance.GET("/status", h.insuranceStatus)
		insurance.POST("/purchase", h.purchaseInsurance)
		insurance.POST("/claim", h.fileClaim)
	}
}

func (h *Handler) registerNotificationRoutes(api *gin.RouterGroup) {
	api.GET("/notifications", h.listNotifications)
}
