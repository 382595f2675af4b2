package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/db"
	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/config"
	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/logger"
	"github.com/inkwell-dev/inkwell/internal/realtime"
	"github.com/inkwell-dev/inkwell/internal/router"
	"github.com/inkwell-dev/inkwell/internal/scheduler"
	"github.com/inkwell-dev/inkwell/internal/storage"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger.Get()); err != nil {
		logger.Get().Fatal("Server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL, logLevel)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.MigrateDatabase(gdb); err != nil {
		return err
	}

	s := store.New(gdb)

	sentinel, err := leaver.Resolve(ctx, s, cfg.LeaverUsername)
	if err != nil {
		return err
	}
	zl.Info("Leaver account ready", zap.Uint("user_id", sentinel.ID), zap.String("username", sentinel.Username))

	disk, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(cfg.AllowedOrigins, zl.Named("realtime"))
	svc := community.NewService(community.Options{
		Store:    s,
		Sentinel: sentinel,
		Files:    disk,
		Tokens:   issuer,
		Notifier: hub,
		Logger:   zl.Named("community"),
	})

	h := handlers.New(svc, hub, handlers.CookieConfig{
		Domain: cfg.CookieDomain,
		Secure: cfg.IsProduction(),
	}, zl.Named("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(h, svc, cfg.AllowedOrigins, zl.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched := scheduler.NewScheduler(zl.Named("scheduler"),
		scheduler.TokenSweep(s, cfg.TokenSweepInterval, zl.Named("sweeper")),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zl.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		zl.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
