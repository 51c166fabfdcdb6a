package router

import (
	"time"

	"github.com/frpatino6/parkingHub/internal/config"
	"github.com/frpatino6/parkingHub/internal/handler"
	"github.com/frpatino6/parkingHub/internal/middleware"
	"github.com/frpatino6/parkingHub/internal/repository"
	"github.com/frpatino6/parkingHub/internal/service"
	"github.com/frpatino6/parkingHub/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	cashCutRepo := repository.NewCashCutRepository(db)
	pricingRepo := repository.NewPricingConfigRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Audit dispatcher — services enqueue events, the worker pool persists them
	dispatcher := worker.NewDispatcher(rdb)
	engine := service.NewPricingEngine()
	clock := service.SystemClock()

	authSvc := service.NewAuthService(userRepo, cfg)
	ticketSvc := service.NewTicketService(db, ticketRepo, cashCutRepo, pricingRepo, engine, dispatcher, clock)
	cashCutSvc := service.NewCashCutService(db, cashCutRepo, dispatcher, clock)
	pricingSvc := service.NewPricingService(pricingRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ticketsH := handler.NewTicketsHandler(ticketSvc)
	cashCutsH := handler.NewCashCutsHandler(cashCutSvc)
	pricingH := handler.NewPricingHandler(pricingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("operator", "admin")
	admin := middleware.RequireRole("admin")
	branch := middleware.RequireBranch()

	v1 := r.Group("/v1", jwtMW)
	{
		tickets := v1.Group("/tickets", operador, branch)
		{
			tickets.POST("/check-in", ticketsH.CheckIn)
			tickets.POST("/check-out", ticketsH.CheckOut)
			tickets.POST("/:id/cancel", ticketsH.Cancel)
			tickets.GET("/qr/:code", ticketsH.GetByQr)
			tickets.GET("/active", ticketsH.ListActive)
			tickets.GET("/plate/:plate", ticketsH.HistoryByPlate)
		}

		cashCuts := v1.Group("/cash-cuts", operador, branch)
		{
			cashCuts.POST("/open", cashCutsH.Open)
			cashCuts.POST("/close", cashCutsH.Close)
			cashCuts.POST("/movements", cashCutsH.RegisterMovement)
			cashCuts.GET("/current", cashCutsH.GetCurrent)
			cashCuts.GET("/:id/movements", cashCutsH.ListMovements)
			cashCuts.GET("/history", cashCutsH.History)
			cashCuts.GET("/movements-report", middleware.RequireRole("admin"), cashCutsH.MovementsReport)
		}

		// Pricing — admin can write, operators can read the board tariffs
		v1.GET("/pricing", operador, branch, pricingH.List)
		pricing := v1.Group("/pricing", admin, branch)
		{
			pricing.POST("", pricingH.Create)
			pricing.PUT("/:id", pricingH.Update)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
