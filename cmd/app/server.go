package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/api/controllers"
	"amazonia/internal/config"
	"amazonia/internal/infra"
	"amazonia/pkg/assistant"
	"amazonia/pkg/logging"
	"amazonia/pkg/middleware"
	"amazonia/pkg/realtime"
	"amazonia/pkg/utils"
)

const limiterCleanupInterval = 10 * time.Minute

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logging.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Environment).Msg("starting HTTP server")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logging.Fatal().Err(err).Msg("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logging.Info().Msg("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	DB        *gorm.DB
	Tokens    *utils.TokenManager
	Hub       *realtime.Hub
	Assistant *assistant.Guarded

	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Events       *controllers.EventController
	Places       *controllers.PlaceController
	Quizzes      *controllers.QuizController
	Rewards      *controllers.RewardController
	Connectivity *controllers.ConnectivityController
	Emergency    *controllers.EmergencyController
	Chat         *controllers.ChatController
	Alerts       *controllers.AlertController
	Realtime     *controllers.RealtimeController
	Dashboard    *controllers.DashboardController
}

// newEngine builds a bare engine whose ClientIP only honors forwarding
// headers set by the given proxies.
func newEngine(trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return r, nil
}

func ProvideRouter(p routerParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r, err := newEngine(p.Config.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.AccessLogMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(p.Config.CORS.AllowedOrigins))

	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if rl := p.Config.RateLimit; rl.Enabled {
		global := middleware.NewRateLimiter("global", rl.Requests, rl.Window)
		auth := middleware.NewRateLimiter("auth", rl.AuthRequests, rl.AuthWindow)
		for _, limiter := range []*middleware.RateLimiter{global, auth} {
			limiter := limiter
			p.Lifecycle.Append(fx.Hook{
				OnStart: func(context.Context) error {
					limiter.StartCleanup(limiterCleanupInterval)
					return nil
				},
				OnStop: func(context.Context) error {
					limiter.Stop()
					return nil
				},
			})
		}
		r.Use(global.Middleware())
		authLimit = auth.Middleware()
	}

	r.GET("/health", healthHandler(p.DB, p.Hub, p.Assistant))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r, p, authLimit)
	return r, nil
}

func healthHandler(db *gorm.DB, hub *realtime.Hub, guard *assistant.Guarded) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := infra.Ping(ctx, db); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("health check failed")
			utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		status := runtimeStatus(hub, guard)
		status["database"] = "ok"
		utils.RespondSuccess(c, status, "healthy")
	}
}

// runtimeStatus reports live websocket users and whether the hosted
// assistant is being bypassed. An open breaker still serves offline replies.
func runtimeStatus(hub *realtime.Hub, guard *assistant.Guarded) gin.H {
	status := gin.H{}
	if hub != nil {
		status["websocket_users"] = hub.ConnectedUsers()
	}
	if guard != nil {
		status["assistant_breaker"] = guard.State().String()
	}
	return status
}

func RegisterRoutes(r *gin.Engine, p routerParams, authLimit gin.HandlerFunc) {
	requireAuth := middleware.JWTAuthMiddleware(p.Tokens)
	optionalAuth := middleware.OptionalJWTMiddleware(p.Tokens)
	requireAdmin := middleware.RoleMiddleware(middleware.RoleAdmin)

	authGroup := r.Group("/auth", authLimit)
	authGroup.POST("/register", p.Auth.Register)
	authGroup.POST("/login", p.Auth.Login)
	authGroup.POST("/refresh", p.Auth.Refresh)
	authGroup.POST("/logout", p.Auth.Logout)
	authGroup.POST("/forgot-password", p.Auth.ForgotPassword)
	authGroup.POST("/reset-password", p.Auth.ResetPassword)
	authGroup.POST("/change-password", requireAuth, p.Auth.ChangePassword)
	authGroup.GET("/me", requireAuth, p.Auth.Me)

	usersGroup := r.Group("/users", requireAuth)
	usersGroup.GET("", requireAdmin, p.Users.ListUsers)
	usersGroup.GET("/me", p.Users.GetProfile)
	usersGroup.PUT("/me", p.Users.UpdateProfile)
	usersGroup.GET("/me/wallet", p.Users.Wallet)
	usersGroup.GET("/me/visits", p.Users.Visits)
	usersGroup.GET("/me/redemptions", p.Users.Redemptions)
	usersGroup.GET("/me/quiz-attempts", p.Users.QuizAttempts)
	usersGroup.GET("/me/alerts", p.Alerts.ListAlerts)
	usersGroup.POST("/me/alerts/read-all", p.Alerts.MarkAllRead)
	usersGroup.POST("/me/alerts/:id/read", p.Alerts.MarkRead)
	usersGroup.DELETE("/me/alerts/:id", p.Alerts.DeleteAlert)

	eventsGroup := r.Group("/events")
	eventsGroup.GET("", p.Events.ListEvents)
	eventsGroup.GET("/:id", p.Events.GetEvent)
	eventsGroup.POST("/:id/check-in", requireAuth, p.Events.CheckIn)
	eventsGroup.POST("", requireAuth, requireAdmin, p.Events.CreateEvent)
	eventsGroup.PUT("/:id", requireAuth, requireAdmin, p.Events.UpdateEvent)
	eventsGroup.DELETE("/:id", requireAuth, requireAdmin, p.Events.DeleteEvent)

	placesGroup := r.Group("/places")
	placesGroup.GET("", p.Places.ListPlaces)
	placesGroup.GET("/:id", p.Places.GetPlace)
	placesGroup.POST("/:id/check-in", requireAuth, p.Places.CheckIn)
	placesGroup.POST("", requireAuth, requireAdmin, p.Places.CreatePlace)
	placesGroup.PUT("/:id", requireAuth, requireAdmin, p.Places.UpdatePlace)
	placesGroup.DELETE("/:id", requireAuth, requireAdmin, p.Places.DeletePlace)

	r.POST("/visits/:id/photos", requireAuth, p.Places.RequestPhotoUpload)

	quizGroup := r.Group("/quizzes")
	quizGroup.GET("", p.Quizzes.ListQuizzes)
	quizGroup.GET("/:id", optionalAuth, p.Quizzes.GetQuiz)
	quizGroup.POST("/:id/attempts", requireAuth, p.Quizzes.SubmitAttempt)
	quizGroup.POST("", requireAuth, requireAdmin, p.Quizzes.CreateQuiz)
	quizGroup.PUT("/:id", requireAuth, requireAdmin, p.Quizzes.UpdateQuiz)
	quizGroup.DELETE("/:id", requireAuth, requireAdmin, p.Quizzes.DeleteQuiz)

	rewardsGroup := r.Group("/rewards")
	rewardsGroup.GET("", optionalAuth, p.Rewards.ListRewards)
	rewardsGroup.GET("/:id", optionalAuth, p.Rewards.GetReward)
	rewardsGroup.POST("/:id/redeem", requireAuth, p.Rewards.Redeem)
	rewardsGroup.POST("", requireAuth, requireAdmin, p.Rewards.CreateReward)
	rewardsGroup.PUT("/:id", requireAuth, requireAdmin, p.Rewards.UpdateReward)
	rewardsGroup.DELETE("/:id", requireAuth, requireAdmin, p.Rewards.DeleteReward)
	rewardsGroup.POST("/redemptions/:id/claim", requireAuth, requireAdmin, p.Rewards.Claim)
	rewardsGroup.POST("/redemptions/:id/cancel", requireAuth, p.Rewards.Cancel)

	spotsGroup := r.Group("/connectivity/spots")
	spotsGroup.GET("", p.Connectivity.ListSpots)
	spotsGroup.GET("/:id", p.Connectivity.GetSpot)
	spotsGroup.POST("", requireAuth, p.Connectivity.CreateSpot)
	spotsGroup.POST("/:id/reports", requireAuth, p.Connectivity.ReportSpot)
	spotsGroup.DELETE("/:id", requireAuth, requireAdmin, p.Connectivity.DeleteSpot)

	emergencyGroup := r.Group("/emergency")
	emergencyGroup.GET("/services", p.Emergency.ListServices)
	emergencyGroup.GET("/services/:id", p.Emergency.GetService)
	emergencyGroup.GET("/nearest", p.Emergency.Nearest)
	emergencyGroup.GET("/numbers", p.Emergency.Numbers)
	emergencyGroup.POST("/services", requireAuth, requireAdmin, p.Emergency.CreateService)
	emergencyGroup.PUT("/services/:id", requireAuth, requireAdmin, p.Emergency.UpdateService)
	emergencyGroup.DELETE("/services/:id", requireAuth, requireAdmin, p.Emergency.DeleteService)

	chatGroup := r.Group("/chat", requireAuth)
	chatGroup.POST("/messages", p.Chat.SendMessage)
	chatGroup.GET("/history", p.Chat.History)
	chatGroup.GET("/sessions", p.Chat.Sessions)
	chatGroup.DELETE("/history", p.Chat.DeleteHistory)

	r.POST("/alerts/broadcast", requireAuth, requireAdmin, p.Alerts.Broadcast)
	r.GET("/dashboard/stats", requireAuth, requireAdmin, p.Dashboard.GetDashboard)
	r.GET("/ws/alerts", requireAuth, p.Realtime.Alerts)
}
