package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/config"
	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/handler"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/middleware"
	"github.com/6045054-web/CHENGHUI/internal/report"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	defer logger.Init(cfg.Log).Close()

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("store init failed", "driver", cfg.Backend.Driver, "err", err)
		os.Exit(1)
	}

	loc := cfg.Location()
	ctx := context.Background()

	ws := service.NewWorkspace(store)
	ws.Refresh(ctx)

	ai := service.NewAIService(cfg.AI)
	editor := report.NewEditor(cfg.Field.DefaultProjectID, loc)
	authSvc := service.NewAuthService(store, ws)
	fieldSvc := service.NewFieldService(ws, store, editor, ai, cfg.Field.OrderedUploads)
	adminSvc := service.NewAdminService(ws, store, ai, loc)

	sched, err := service.NewScheduler(cfg.Schedule, ws, adminSvc, loc)
	if err != nil {
		logger.Error("scheduler init failed", "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.Deps{
		Tokens: middleware.NewAuth(cfg.Auth.JWTSecret, cfg.TokenTTL()),
		WS:     ws,
		Auth:   authSvc,
		Field:  fieldSvc,
		Admin:  adminSvc,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "driver", cfg.Backend.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}

func openStore(cfg *config.Config) (gateway.Store, error) {
	if cfg.Backend.Driver == config.DriverREST {
		return gateway.NewRest(cfg.Backend.REST.BaseURL, cfg.Backend.REST.APIKey, cfg.RESTTimeout()), nil
	}
	db, err := cfg.OpenGormDB()
	if err != nil {
		return nil, err
	}
	if err := gateway.Migrate(db); err != nil {
		return nil, err
	}
	return gateway.NewSQLStore(db), nil
}
