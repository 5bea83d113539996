package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/taskhive-api/internal/config"
	"github.com/dimitrije/taskhive-api/internal/database"
	"github.com/dimitrije/taskhive-api/internal/handlers"
	appmw "github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/oauth"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogger(cfg)

	proxies, err := appmw.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse TRUSTED_PROXIES")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	rdb, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()

	table := permissions.DefaultTable()
	if n, err := services.NewRoleService(db, table).Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed roles")
	} else if n > 0 {
		log.Info().Int("count", n).Msg("Seeded roles")
	}

	hasher := services.NewPasswordHasher()
	sessionService := services.NewSessionService(rdb.Client, services.NewJWTService(cfg.SessionSecret), cfg.SessionExpiry)
	authService := services.NewAuthService(db, hasher)
	userService := services.NewUserService(db, hasher)
	workspaceService := services.NewWorkspaceService(db)
	memberService := services.NewMemberService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db)

	var google oauth.Provider
	if cfg.Google.ClientID != "" {
		google = oauth.NewGoogleProvider(cfg.Google)
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, Google login disabled")
	}

	authHandler := handlers.NewAuthHandler(cfg, authService, sessionService, google)
	userHandler := handlers.NewUserHandler(userService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, memberService, table)
	memberHandler := handlers.NewMemberHandler(memberService, table)
	projectHandler := handlers.NewProjectHandler(projectService, memberService, table)
	taskHandler := handlers.NewTaskHandler(taskService, memberService, table)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"postgres": db,
		"redis":    rdb,
	})

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(appmw.AllowCredentials(cfg.FrontendOrigin))
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendOrigin},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       86400,
	}))
	app.Use(appmw.RequestLogger(proxies))

	api := app.Group(cfg.BasePath)
	api.Get("/health", healthHandler.Check)

	credentials := api.Group("/auth")
	credentials.Use(appmw.RateLimit(appmw.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst), proxies))
	credentials.Post("/register", authHandler.Register)
	credentials.Post("/login", authHandler.Login)

	auth := api.Group("/auth")
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/google", authHandler.GoogleLogin)
	auth.Get("/google/callback", authHandler.GoogleCallback)

	protected := api.Group("")
	protected.Use(appmw.Auth(sessionService))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)
	protected.Put("/users/me/password", userHandler.ChangePassword)
	protected.Put("/users/me/current-workspace", userHandler.SwitchWorkspace)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Patch("/workspaces/:workspaceId", workspaceHandler.Update)
	protected.Delete("/workspaces/:workspaceId", workspaceHandler.Delete)
	protected.Get("/workspaces/:workspaceId/members", workspaceHandler.GetMembers)
	protected.Patch("/workspaces/:workspaceId/members/:userId/role", workspaceHandler.ChangeMemberRole)
	protected.Delete("/workspaces/:workspaceId/members/:userId", memberHandler.Remove)
	protected.Get("/workspaces/:workspaceId/analytics", workspaceHandler.Analytics)

	protected.Post("/invites/:inviteCode/join", memberHandler.Join)

	protected.Get("/workspaces/:workspaceId/projects", projectHandler.List)
	protected.Post("/workspaces/:workspaceId/projects", projectHandler.Create)
	protected.Get("/workspaces/:workspaceId/projects/:projectId", projectHandler.Get)
	protected.Patch("/workspaces/:workspaceId/projects/:projectId", projectHandler.Update)
	protected.Delete("/workspaces/:workspaceId/projects/:projectId", projectHandler.Delete)
	protected.Get("/workspaces/:workspaceId/projects/:projectId/analytics", projectHandler.Analytics)

	protected.Post("/workspaces/:workspaceId/projects/:projectId/tasks", taskHandler.Create)
	protected.Get("/workspaces/:workspaceId/projects/:projectId/tasks/:taskId", taskHandler.Get)
	protected.Patch("/workspaces/:workspaceId/projects/:projectId/tasks/:taskId", taskHandler.Update)
	protected.Get("/workspaces/:workspaceId/tasks", taskHandler.List)
	protected.Delete("/workspaces/:workspaceId/tasks/:taskId", taskHandler.Delete)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.BasePath).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
