package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/api/handlers"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/api/middleware"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/service"
)

func NewRouter(decisions *service.DecisionService, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(cors.New(buildCORSConfig(cfg.Server.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	defaults := replenish.Params{
		WindowDays:     cfg.Decision.WindowDays,
		LeadTimeDays:   cfg.Decision.LeadTimeDays,
		StorageDays:    cfg.Decision.StorageDays,
		NearMarginDays: cfg.Decision.NearMarginDays,
	}
	decisionHandler := handlers.NewDecisionHandler(decisions, defaults)

	apiGroup := router.Group("/api/v1")
	fullGroup := apiGroup.Group("/full", middleware.RequireAuth(cfg.Auth.Token))
	{
		fullGroup.GET("/decisions", decisionHandler.GetDecisions)
		fullGroup.GET("/decisions/diagnostics", decisionHandler.GetDiagnostics)
		fullGroup.GET("/decisions/items/:item_id", decisionHandler.ProbeItem)
	}

	return router
}

func buildCORSConfig(allowedOrigins []string) cors.Config {
	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) > 0 {
		normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalized) > 0 {
			corsConfig.AllowOrigins = normalized
		}
	}

	return corsConfig
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
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
