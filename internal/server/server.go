package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/api"
	"github.com/Omarzahran17/gym-flow-sub000/internal/attendance"
	"github.com/Omarzahran17/gym-flow-sub000/internal/auth"
	"github.com/Omarzahran17/gym-flow-sub000/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
	"github.com/Omarzahran17/gym-flow-sub000/internal/config"
	"github.com/Omarzahran17/gym-flow-sub000/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"
	"github.com/Omarzahran17/gym-flow-sub000/internal/wallet"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers of every domain package.
type Handlers struct {
	User         *user.Handler
	Class        *class.Handler
	Booking      *booking.Handler
	Subscription *subscription.Handler
	Wallet       *wallet.Handler
	Attendance   *attendance.Handler
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	limiter    *RateLimiter
}

func New(cfg *config.Config, h Handlers) *Server {
	api.SetupValidator()

	var limiter *RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.AllowedOrigins),
		RateLimitMiddleware(limiter),
	)

	registerRoutes(router, cfg.JWTSecret, h)

	return &Server{
		router:  router,
		config:  cfg,
		limiter: limiter,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, secret string, h Handlers) {
	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.User.Register)
		authGroup.POST("/login", h.User.Login)
		authGroup.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(secret)
	router.GET("/me", authMiddleware, h.User.GetMe)

	// Catalogue reads are public. The schedule marks the viewer's own
	// bookings when a valid token is sent.
	public := router.Group("/api")
	{
		public.GET("/classes", h.Class.ListClasses)
		public.GET("/classes/schedule", auth.OptionalAuth(secret), h.Booking.GetSchedule)
		public.GET("/classes/:classID", h.Class.GetClass)
		public.GET("/plans", h.Subscription.ListPlans)
		public.GET("/trainers", authMiddleware, h.User.ListTrainers)
	}

	member := router.Group("/api/member")
	member.Use(authMiddleware, auth.RequireRole(auth.RoleMember))
	{
		member.GET("/class-bookings", h.Booking.ListMine)
		member.POST("/class-bookings", h.Booking.Book)
		member.DELETE("/class-bookings", h.Booking.CancelMine)

		member.GET("/subscription-status", h.Subscription.GetStatus)
		member.POST("/subscriptions", h.Subscription.Purchase)
		member.DELETE("/subscriptions", h.Subscription.Cancel)

		member.GET("/wallet", h.Wallet.GetBalance)
		member.POST("/wallet/topup", h.Wallet.TopUp)
		member.GET("/wallet/transactions", h.Wallet.ListTransactions)

		member.POST("/check-in", h.Attendance.CheckIn)
		member.GET("/attendance", h.Attendance.ListMine)
	}

	trainer := router.Group("/api/trainer")
	trainer.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer, auth.RoleAdmin))
	{
		trainer.POST("/check-in", h.Attendance.CheckInByQR)
		trainer.GET("/schedules/:scheduleID/bookings", h.Booking.ListOccurrence)
		trainer.DELETE("/class-bookings/:bookingID", h.Booking.CancelAsStaff)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/classes", h.Class.CreateClass)
		admin.PUT("/classes/:classID", h.Class.UpdateClass)
		admin.DELETE("/classes/:classID", h.Class.DeleteClass)
		admin.POST("/classes/:classID/schedules", h.Class.AddSchedule)
		admin.POST("/classes/:classID/image", h.Class.RequestImageUpload)
		admin.DELETE("/schedules/:scheduleID", h.Class.DeleteSchedule)

		admin.POST("/trainers", h.User.CreateTrainer)
		admin.POST("/plans", h.Subscription.CreatePlan)
		admin.POST("/members/:memberID/subscription", h.Subscription.Assign)
		admin.GET("/reports/bookings", h.Booking.Report)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter sweep.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
