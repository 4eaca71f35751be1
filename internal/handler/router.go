package handler

import (
	"time"

	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/platform/health"
	"github.com/adoptly/service-adoption/internal/platform/idempotency"
	"github.com/adoptly/service-adoption/internal/platform/metrics"
	"github.com/adoptly/service-adoption/internal/platform/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// RouterDeps are the collaborators the HTTP surface is built from.
// Pinger, Gatherer, Metrics and IdempotencyStore are optional.
type RouterDeps struct {
	Service          string
	Requests         *application.RequestService
	Pets             *application.PetService
	Offers           *application.OfferService
	Pinger           health.Pinger
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	IdempotencyStore idempotency.Store
	IdempotencyTTL   time.Duration
	Logger           *zap.Logger
}

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(deps.Metrics.Middleware())

	health.NewHandler(deps.Pinger, deps.Service).RegisterRoutes(router)
	if deps.Gatherer != nil {
		router.GET("/metrics", metrics.Handler(deps.Gatherer))
	}

	var writeMW []gin.HandlerFunc
	if deps.IdempotencyStore != nil {
		writeMW = append(writeMW, idempotency.Middleware(deps.IdempotencyStore, deps.IdempotencyTTL, deps.Logger))
	}

	api := &router.RouterGroup
	NewRequestHandler(deps.Requests).RegisterRoutes(api, writeMW...)
	NewAdminRequestHandler(deps.Requests).RegisterRoutes(api)
	NewPetHandler(deps.Pets).RegisterRoutes(api)
	NewOfferHandler(deps.Offers).RegisterRoutes(api)

	return router
}
