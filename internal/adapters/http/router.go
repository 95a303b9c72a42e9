package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dcpatrol/patrol/internal/domain/models"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/dcpatrol/patrol/internal/metrics"
	"github.com/dcpatrol/patrol/internal/observability"
)

const accountContextKey = "patrol-account"

// ginLogger returns a gin.HandlerFunc (middleware) that logs requests using our observability logger
func ginLogger() gin.HandlerFunc {
	logger := observability.New("gin-http", "")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []interface{}{
			"status", statusCode,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency_ms", latency.Milliseconds(),
		}
		if query != "" {
			fields = append(fields, "query", query)
		}
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, "error", errorMessage)
		}

		if statusCode >= 500 {
			logger.Errorw("HTTP request error", fields...)
		} else if statusCode >= 400 {
			logger.Warnw("HTTP request warning", fields...)
		} else {
			logger.Infow("HTTP request", fields...)
		}
	}
}

// ginRecovery returns a gin.HandlerFunc (middleware) that recovers from panics and logs them
func ginRecovery() gin.HandlerFunc {
	logger := observability.New("gin-recovery", "")

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"ip", c.ClientIP(),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// authRequired resolves the bearer token to an account and stores it in
// the request context
func authRequired(auth ports.AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Title:  "Unauthorized",
				Status: http.StatusUnauthorized,
				Detail: "missing bearer token",
			})
			return
		}

		account, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Title:  "Unauthorized",
				Status: http.StatusUnauthorized,
				Detail: "invalid or expired token",
			})
			return
		}

		c.Set(accountContextKey, *account)
		c.Next()
	}
}

// adminOnly gates administrative operations on the account role
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if accountFromContext(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Title:  "Forbidden",
				Status: http.StatusForbidden,
				Detail: "admin role required",
			})
			return
		}
		c.Next()
	}
}

func accountFromContext(c *gin.Context) models.Account {
	if v, ok := c.Get(accountContextKey); ok {
		if account, ok := v.(models.Account); ok {
			return account
		}
	}
	return models.Account{}
}

// RouterConfig holds the optional router features
type RouterConfig struct {
	MetricsEnabled bool
	MetricsPath    string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(service ports.InspectionService, auth ports.AuthProvider, media ports.MediaStore, cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(ginRecovery())
	router.Use(ginLogger())

	handler := NewHandler(service, auth, media)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/register", handler.Register)

		api.GET("/rooms", handler.ListRooms)
		api.GET("/rooms/:id", handler.GetRoom)
		api.GET("/rooms/:id/history", handler.RoomHistory)
		api.GET("/history", handler.AllHistory)
		api.GET("/stats", handler.GetStats)
		api.GET("/activity", handler.RecentActivity)
		api.GET("/media/:ref", handler.GetMedia)

		authed := api.Group("")
		authed.Use(authRequired(auth))
		{
			authed.POST("/rooms/:id/inspections", handler.SubmitInspection)
			authed.POST("/media", handler.UploadMedia)
			authed.POST("/reset", adminOnly(), handler.TriggerReset)
		}
	}

	router.GET("/health", handler.HealthCheck)

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(metrics.MetricsHandler()))
	}

	return router
}
