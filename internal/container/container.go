package container

import (
	"context"
	"fmt"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/config"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/database"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/logger"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: without it caching is skipped and change signals
	// stay process-local.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		Account:      repository.NewAccountRepository(db),
		Profile:      repository.NewProfileRepository(db),
		Question:     repository.NewQuestionRepository(db),
		Vote:         repository.NewVoteRepository(db),
		Notification: repository.NewNotificationRepository(db),
		Board:        repository.NewBoardRepository(db),
	}

	realtime := service.NewRealtimeService(redisClient, log)

	services := &service.Services{
		Auth:         service.NewAuthService(repos.Account, repos.Profile, realtime, cfg, log),
		Profile:      service.NewProfileService(repos.Profile, cfg),
		Question:     service.NewQuestionService(repos.Question, redisClient, realtime, log),
		Voting:       service.NewVotingService(repos.Vote, repos.Profile, repos.Notification, redisClient, realtime, log),
		Notification: service.NewNotificationService(repos.Notification, redisClient, realtime, log),
		Board:        service.NewBoardService(repos.Board, repos.Profile, realtime),
		Realtime:     realtime,
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Services:     services,
	}, nil
}

// Close releases the container's connections
func (c *Container) Close() error {
	var firstErr error

	if c.Services != nil && c.Services.Realtime != nil {
		c.Services.Realtime.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	return firstErr
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
