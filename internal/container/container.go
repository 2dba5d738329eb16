package container

import (
	"context"
	"fmt"
	"log"

	"golime/adapters/postgres"
	"golime/adapters/scaling"
	"golime/app"
	"golime/domain/core"
	"golime/internal"
	"golime/internal/api"
	"golime/internal/config"
	"golime/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Scaling
	Scaler ports.Scaler

	// Repositories (data access layer), nil without a database
	ExplanationRepo ports.ExplanationRepository

	// Services
	Normalizer *app.ReverseNormalizer
}

// New creates a new dependency injection container and loads the configured scaler
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Normalizer: app.NewReverseNormalizer(logger),
	}

	if err := c.initScaler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scaler: %w", err)
	}

	return c, nil
}

// initScaler loads the scaler explanations are de-normalized with
func (c *Container) initScaler() error {
	path := c.Config.Scaling.ScalerFile
	if path == "" {
		return fmt.Errorf("SCALER_FILE is required")
	}
	scaler, err := scaling.LoadFile(path)
	if err != nil {
		return err
	}

	columns := c.Config.Scaling.Columns
	if len(columns) > 0 && len(columns) != scaler.NFeatures() {
		return core.NewDimensionError(scaler.NFeatures(), len(columns))
	}

	c.Scaler = scaler
	c.Logger.Info("loaded %s scaler %s (%d features)", scaler.Kind(), core.Hash(scaler.Fingerprint()).Short(), scaler.NFeatures())
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()

	log.Printf("Container initialized successfully with database connection")
	return nil
}

// initRepositories initializes data access repositories
func (c *Container) initRepositories() {
	c.ExplanationRepo = postgres.NewExplanationRepository(c.DB)
}

// Server builds the HTTP server over the container's services
func (c *Container) Server() *api.Server {
	handler := api.NewExplanationHandler(
		c.Normalizer,
		c.Scaler,
		c.Config.Scaling.Columns,
		c.Config.Scaling.SequenceSteps,
		c.ExplanationRepo,
		c.Logger,
	)
	return api.NewServer(handler, c.Config.Server.GinMode)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
