package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cuentas-server/internal/config"
	"cuentas-server/internal/core/auth"
	"cuentas-server/internal/core/user"
	"cuentas-server/internal/logger"
	"cuentas-server/internal/storage/postgres"
	"cuentas-server/internal/transport/rest"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for Server!")
	}

	dbPool, err := postgres.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to init DB", "error", err)
		return
	}
	defer dbPool.Close()

	userRepo := postgres.NewUserRepository(dbPool)

	userService := user.NewService(userRepo)
	authService := auth.NewService(userService, cfg.JWTSecret, cfg.JWTExpiry)

	authHandler := rest.NewAuthHandler(authService, log)
	userHandler := rest.NewUserHandler(userService, log)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Auth: authHandler,
		User: userHandler,

		AuthService: authService,
	})

	srv := rest.NewServer(router, cfg.Address)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("http: server error", "error", err)
	}

	log.Info("server stopped")
}
