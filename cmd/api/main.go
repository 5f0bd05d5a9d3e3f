package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cityhub/internal/config"
	"cityhub/internal/database"
	"cityhub/internal/middleware"
	"cityhub/internal/modules/bus"
	"cityhub/internal/modules/logs"
	"cityhub/internal/modules/todo"
	"cityhub/internal/modules/user"
	jwtsvc "cityhub/internal/pkg/jwt"
	"cityhub/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	logRepo := repository.NewLogRepository(db)

	accessJWT := jwtsvc.New(cfg.AccessSecret, cfg.AccessTTL)
	refreshJWT := jwtsvc.New(cfg.RefreshSecret, cfg.RefreshTTL)

	userService := user.NewService(userRepo, tokenRepo, accessJWT, refreshJWT, cfg.RefreshTTL)
	userHandler := user.NewHandler(userService, user.CookieOptions{
		MaxAge:   cfg.CookieMaxAge,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})

	todoService := todo.NewService(todoRepo)
	todoHandler := todo.NewHandler(todoService)

	logService := logs.NewService(logRepo, cfg.AppEnv)
	logHandler := logs.NewHandler(logService)

	busClient := bus.NewClient(cfg.BusBaseURL, cfg.BusAppKey)
	busService := bus.NewService(busClient)
	busLive := bus.NewLiveFeed(busService, cfg.BusPollInterval)
	busHandler := bus.NewHandler(busService, busLive)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepExpiredTokens(ctx, tokenRepo, time.Hour)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.CORS(),
		middleware.RequestLogger(logService),
		middleware.ErrorLogger(cfg.IsProd()),
	)

	v1 := r.Group("/api/v1")
	{
		// public
		userHandler.RegisterPublicRoutes(v1)
		logHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(accessJWT, userRepo))
		{
			userHandler.RegisterProtectedRoutes(protected)
			todoHandler.RegisterRoutes(protected)
			busHandler.RegisterRoutes(protected)
		}

		// admin
		admin := protected.Group("/")
		admin.Use(middleware.AdminOnly())
		{
			userHandler.RegisterAdminRoutes(admin)
			logHandler.RegisterAdminRoutes(admin)
		}
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

type tokenSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// sweepExpiredTokens keeps the refresh-token ledger from growing without
// bound until ctx is cancelled on shutdown. Revoked rows stay until their
// natural expiry so audits can still see them.
func sweepExpiredTokens(ctx context.Context, tokens tokenSweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			deleted, err := tokens.DeleteExpired(opCtx)
			cancel()
			if err != nil {
				log.Printf("token sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("token sweep removed %d expired rows", deleted)
			}
		}
	}
}
