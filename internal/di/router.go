package di

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authmw "github.com/prohmpiriya/interview-qa/internal/middleware"
	"github.com/prohmpiriya/interview-qa/pkg/logger"
	"github.com/prohmpiriya/interview-qa/pkg/middleware"
	"github.com/prohmpiriya/interview-qa/pkg/response"
	"github.com/prohmpiriya/interview-qa/pkg/telemetry"
	"go.uber.org/zap"
)

// Router builds the gin engine with every route registered
func (c *Container) Router() *gin.Engine {
	router := gin.New()

	router.Use(gin.CustomRecovery(recovery(c.Logger)))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(c.Logger))
	if c.Config.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(c.Config.Server.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = c.Config.Server.AllowOrigins
	}
	router.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	requireAuth := authmw.Auth(&authmw.AuthConfig{
		Verifier:   c.Codec,
		CookieName: c.Config.Cookie.Name,
		Logger:     c.Logger,
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", c.AuthHandler.Register)
			auth.POST("/login", c.AuthHandler.Login)
			auth.POST("/logout", c.AuthHandler.Logout)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", c.UserHandler.Me)
		}

		api.GET("/questions", requireAuth, c.QuestionHandler.List)

		question := api.Group("/question", requireAuth)
		if c.Redis != nil {
			idem := middleware.DefaultIdempotencyConfig(c.Redis)
			idem.UserID = authmw.UserID
			question.Use(middleware.Idempotency(idem))
		}
		{
			question.POST("", c.QuestionHandler.Create)
			question.POST("/bulk", c.QuestionHandler.BulkCreate)
			question.GET("/:id", c.QuestionHandler.Get)
			question.PUT("/:id", c.QuestionHandler.Update)
			question.DELETE("/:id", c.QuestionHandler.Delete)
		}
	}

	router.NoRoute(response.EndpointNotFound)

	return router
}

func recovery(log *logger.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.WithContext(c.Request.Context()).Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
