package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/config"
	"github.com/rlondon3/jingwufoundationbackend/internal/http/api/front/handlers"
	"github.com/rlondon3/jingwufoundationbackend/internal/security"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
	"gorm.io/gorm"
)

// RegisterFrontRoutes registers the public auth routes and the authenticated
// member-facing AI Sifu routes.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, service *sifu.Service) {
	if r == nil || service == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	auth := r.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	group := r.Group("/v1/sifu")
	group.Use(userAuthMiddleware(jwtCfg))

	askHandler := handlers.NewAskHandler(service)
	group.POST("/ask", askHandler.Ask)

	usageHandler := handlers.NewUsageHandler(service)
	group.GET("/usage", usageHandler.Current)
}

// userAuthMiddleware validates user JWTs and stores the user ID in context.
func userAuthMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}
