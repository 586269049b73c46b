package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edesbois77/clubfeed/app/cfg"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	api.GET("/articles", handler.GetArticles)

	mutating := api.Group("")
	if apiAccessKey != "" {
		mutating.Use(authMiddleware(apiAccessKey))
	}
	mutating.POST("/ingest", handler.TriggerIngest)
	mutating.POST("/backfill-images", handler.BackfillImages)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "clubfeed",
			"version":     cfg.GetVersion(),
			"description": "Sports-news ingestion with team relevance scoring",
			"endpoints": map[string]string{
				"articles": "/api/articles?cursor=&take=&club=",
				"ingest":   "/api/ingest (POST)",
				"backfill": "/api/backfill-images (POST)",
				"health":   "/health",
			},
		})
	})

	// Return 204 to avoid 404 noise
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware guards mutating endpoints when an access key is configured.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  "error",
				Message: "API key required: provide X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  "error",
				Message: "invalid API key",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
