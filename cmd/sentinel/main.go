package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coveragewatch/coverage-sentinel/api"
	"github.com/coveragewatch/coverage-sentinel/internal/auth"
	"github.com/coveragewatch/coverage-sentinel/internal/feed"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/internal/orchestrator"
	"github.com/coveragewatch/coverage-sentinel/pkg/config"
	"github.com/coveragewatch/coverage-sentinel/pkg/database"
	"github.com/coveragewatch/coverage-sentinel/pkg/database/queries"
	"github.com/coveragewatch/coverage-sentinel/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations")
	feedPath := flag.String("feed", "", "evaluate a snapshot feed file and exit")
	demo := flag.Bool("demo", false, "evaluate a generated demo feed and exit")
	createUser := flag.String("create-user", "", "create an API user (username:password) and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(cfg.Database.ToDBConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("Database connection established")
	}

	if *migrate {
		if db == nil {
			return fmt.Errorf("migrations require database.enabled")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		logger.Info("Running database migrations")
		migrator := database.NewMigrator(db)
		if err := migrator.Run(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Migrations completed successfully")
		return nil
	}

	if *createUser != "" {
		return provisionUser(db, *createUser)
	}

	orch, err := orchestrator.New(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}
	defer orch.Stop()

	if *feedPath != "" || *demo {
		return evaluateOnce(orch, *feedPath, *demo)
	}

	server := api.NewServer(cfg, orch, db)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func evaluateOnce(orch *orchestrator.Orchestrator, feedPath string, demo bool) error {
	var loader feed.Loader
	var source string

	switch {
	case feedPath != "":
		loader = feed.NewFileLoader(feedPath)
		source = feedPath
	case demo:
		loader = demoGenerator()
		source = "demo-generator"
	}

	f, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	roster, err := orch.EvaluateFeed(f, source)
	if err != nil {
		return err
	}

	logger.Infof("Roster built: %d units evaluated, %d under-served", roster.UnitsEvaluated, roster.Count)
	for _, u := range roster.Units {
		logger.WithUnit(u.Unit).Infof("state=%s last_ratio=%.3f", u.State, u.LastRatio)
	}
	return nil
}

func provisionUser(db *database.DB, spec string) error {
	if db == nil {
		return fmt.Errorf("creating users requires database.enabled")
	}

	username, password, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("expected username:password")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := queries.NewUserRepository(db.DB).Create(ctx, validation.SanitizeString(username), hash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Infof("User %s created (id %d)", user.Username, user.ID)
	return nil
}

func demoGenerator() *feed.Generator {
	return &feed.Generator{
		Snapshots: 12,
		Interval:  time.Hour,
		Seed:      42,
		Units: []feed.GeneratedUnit{
			{Name: "billing-core", BaseRatio: 0.78, Pattern: feed.PatternSteady, Variance: 0.03},
			{Name: "checkout-flow", BaseRatio: 0.72, Pattern: feed.PatternDecline, Variance: 0.02},
			{Name: "auth-gateway", BaseRatio: 0.45, Pattern: feed.PatternRecovery, Variance: 0.02},
			{Name: "search-index", BaseRatio: 0.57, Pattern: feed.PatternOscillate, Variance: 0.01},
		},
	}
}
