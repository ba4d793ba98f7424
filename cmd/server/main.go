package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/api"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/cache"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/config"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/repository/postgres"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/service"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	decisionCache, err := cache.NewDecisionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("decision cache unavailable, continuing without it")
		decisionCache = cache.NewNoopDecisionCache()
	}

	engine := replenish.NewEngine(postgres.NewRecordRepository(db))
	decisions := service.NewDecisionService(engine, decisionCache)

	router := api.NewRouter(decisions, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
