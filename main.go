package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/config"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/container"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/handler"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/middleware"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"community":   cfg.Community,
	}).Info("Starting with-api server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Seed the default prompts on first boot; a populated table makes this a
	// no-op.
	if err := c.Services.Question.InitializeDefaults(ctx); err != nil {
		log.WithError(err).Warn("Failed to initialize default questions")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server")
	}

	if err := c.Close(); err != nil {
		log.WithError(err).Error("Failed to close container resources")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger
	services := c.Services

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))

	healthHandler := handler.NewHealthHandler(c)
	authHandler := handler.NewAuthHandler(services.Auth)
	profileHandler := handler.NewProfileHandler(services.Profile)
	questionHandler := handler.NewQuestionHandler(services.Question)
	votingHandler := handler.NewVotingHandler(services.Voting)
	notificationHandler := handler.NewNotificationHandler(services.Notification)
	boardHandler := handler.NewBoardHandler(services.Board)
	eventsHandler := handler.NewEventsHandler(services.Realtime, log)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Authentication (no session required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))
			r.Use(chiMiddleware.Timeout(60 * time.Second))

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", profileHandler.List)
				r.Get("/me", profileHandler.GetMe)
				r.Get("/candidates", profileHandler.Candidates)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Get("/", questionHandler.List)
				r.Get("/active", questionHandler.GetActive)

				// Prompt mutations are admin-only
				r.Group(func(r chi.Router) {
					r.Use(middleware.Admin(log))

					r.Post("/", questionHandler.Create)
					r.Post("/initialize", questionHandler.InitializeDefaults)
					r.Put("/{id}", questionHandler.Update)
					r.Post("/{id}/activate", questionHandler.Activate)
					r.Post("/{id}/reorder", questionHandler.Reorder)
					r.Delete("/{id}", questionHandler.Delete)
				})
			})

			r.Route("/votes", func(r chi.Router) {
				r.Post("/", votingHandler.SubmitVote)
				r.Get("/me/today", votingHandler.MyStatusToday)
				r.Get("/user/{id}", votingHandler.VotesForUser)

				r.Group(func(r chi.Router) {
					r.Use(middleware.Admin(log))
					r.Get("/today", votingHandler.TodayVotes)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			r.Route("/board", func(r chi.Router) {
				r.Get("/", boardHandler.List)
				r.Post("/", boardHandler.Create)
			})
		})

		// SSE change feed; no per-request timeout, the stream lives as long
		// as the client does.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))
			r.Get("/events", eventsHandler.Stream)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
