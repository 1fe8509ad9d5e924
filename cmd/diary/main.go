package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diary/internal/auth"
	"diary/internal/config"
	"diary/internal/db"
	"diary/internal/diary"
	"diary/internal/entry"
	httpx "diary/internal/http"
	"diary/internal/identity"
	"diary/internal/logging"
	"diary/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	sessions := session.NewRegistry(cfg.JWTTTL)
	store := entry.NewCachedStore(entry.NewGormStore(gdb), cfg.EntryCacheTTL)
	idSvc := &identity.Service{
		Provider:       identity.NewGormProvider(gdb),
		Sessions:       sessions,
		Log:            logger.With("component", "identity"),
		VerifyPassword: cfg.VerifyPassword,
	}
	app := diary.New(store, sessions, logger.With("component", "diary"), cfg.Location)

	r := httpx.NewRouter(httpx.Deps{
		Config:   cfg,
		Identity: idSvc,
		JWT:      auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL),
		Sessions: sessions,
		App:      app,
		Log:      logger.With("component", "http"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "listening", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "shutdown", "err", err)
	}
}
