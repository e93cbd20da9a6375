package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"peak-tracker/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	sessionH *SessionHandler,
	peakH *PeakHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/sign-up", sessionH.SignUp)
	r.POST("/login", sessionH.Login)
	r.POST("/refresh", sessionH.Refresh)

	auth := r.Group("/auth")
	auth.POST("/facebook", sessionH.FacebookLogin)

	peaks := r.Group("/peaks")
	peaks.Use(JWTAuthMiddleware(tokens))
	peaks.GET("", peakH.ListPeaks)
	peaks.POST("", peakH.CreatePeak)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
