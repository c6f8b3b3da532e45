package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/config"
	"github.com/rlondon3/jingwufoundationbackend/internal/http/api/admin/handlers"
	"github.com/rlondon3/jingwufoundationbackend/internal/security"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
)

// RegisterAdminRoutes registers the maintenance and reporting routes.
func RegisterAdminRoutes(r *gin.Engine, jwtCfg config.JWTConfig, cache *sifu.ResponseCache, warmer *sifu.Warmer, analytics *sifu.AnalyticsRecorder) {
	if r == nil {
		return
	}

	group := r.Group("/v1/admin/sifu")
	group.Use(adminAuthMiddleware(jwtCfg))

	maintenanceHandler := handlers.NewMaintenanceHandler(cache, warmer)
	group.POST("/cache/sweep", maintenanceHandler.Sweep)
	group.POST("/cache/warm", maintenanceHandler.Warm)

	reportsHandler := handlers.NewReportsHandler(analytics)
	group.GET("/reports/popular", reportsHandler.Popular)
	group.GET("/reports/daily", reportsHandler.Daily)
	group.GET("/reports/hit-rate", reportsHandler.HitRate)
}

// adminAuthMiddleware validates admin JWTs.
func adminAuthMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" || token == strings.TrimSpace(authHeader) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.AdminSecret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("adminID", claims.AdminID)
		c.Next()
	}
}
