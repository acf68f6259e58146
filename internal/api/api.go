// Package api wires the HTTP surface: a plan-upload endpoint driven by the
// planning service plus the defaults endpoint the frontend seeds its form
// controls from.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/marketpo/internal/api/handlers"
	"github.com/andresuchdata/marketpo/internal/api/middleware"
	"github.com/andresuchdata/marketpo/internal/catalog"
	"github.com/andresuchdata/marketpo/internal/domain"
	"github.com/andresuchdata/marketpo/internal/service"
)

type Services struct {
	PlanService *service.PlanService
	Master      *catalog.Master
	Defaults    domain.PlanningParams
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.PlanService != nil {
		planHandler := handlers.NewPlanHandler(services.PlanService, services.Master, services.Defaults)
		planGroup := apiGroup.Group("/plan")
		{
			planGroup.GET("/defaults", planHandler.GetDefaults)
			planGroup.POST("/upload", planHandler.UploadPlan)
			planGroup.POST("/upload/export", planHandler.UploadPlanWorkbook)
			planGroup.POST("/lightweight", planHandler.LightweightPlan)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
