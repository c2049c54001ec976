package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/youcode/tricol-fournisseurs/internal/config"
	domainRepo "github.com/youcode/tricol-fournisseurs/internal/domain/repository"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/handler"
	"github.com/youcode/tricol-fournisseurs/internal/presentation/http/middleware"
	"github.com/youcode/tricol-fournisseurs/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Fournisseur *handler.FournisseurHandler
	Health      *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
// Metrics, RateLimiter and IdempotencyRepo are optional.
type Deps struct {
	Cfg             *config.Config
	JWTManager      *utils.JWTManager
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *middleware.HTTPMetrics
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerFournisseurRoutes(v1, h, deps)
	}

	return router
}

func registerFournisseurRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	fournisseurs := v1.Group("/fournisseurs")
	{
		fournisseurs.GET("", h.Fournisseur.List)
		fournisseurs.GET("/count", h.Fournisseur.Count)
		fournisseurs.GET("/recherche", h.Fournisseur.SearchByCompany)
		fournisseurs.GET("/existe", h.Fournisseur.Exists)
		fournisseurs.GET("/ice/:ice", h.Fournisseur.GetByTaxID)
		fournisseurs.GET("/societe/:societe", h.Fournisseur.GetByCompany)
		fournisseurs.GET("/ville/:ville", h.Fournisseur.ListByCity)
		fournisseurs.GET("/domaine/:domaine", h.Fournisseur.ListByEmailDomain)
		fournisseurs.GET("/:id", h.Fournisseur.Get)
	}

	// Write routes
	writes := fournisseurs.Group("")
	writes.Use(writeMiddleware(deps)...)
	{
		writes.POST("", h.Fournisseur.Create)
		writes.PUT("/:id", h.Fournisseur.Update)
		writes.DELETE("/:id", h.Fournisseur.Delete)
	}
}

// writeMiddleware guards mutating routes: the bearer token first when JWT is
// enabled, so idempotency keys are scoped to the token subject.
func writeMiddleware(deps *Deps) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if deps.Cfg.JWT.Enabled && deps.JWTManager != nil {
		chain = append(chain, middleware.AuthMiddleware(deps.JWTManager))
	}
	if deps.IdempotencyRepo != nil {
		chain = append(chain, middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  middleware.IdempotencyKeyTTL,
		}))
	}
	return chain
}
