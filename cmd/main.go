package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/hutbot/internal/commands"
	"github.com/latoulicious/hutbot/internal/config"
	"github.com/latoulicious/hutbot/internal/handlers"
	"github.com/latoulicious/hutbot/internal/health"
	"github.com/latoulicious/hutbot/internal/prompt"
	"github.com/latoulicious/hutbot/internal/version"
	"github.com/latoulicious/hutbot/pkg/database"
	"github.com/latoulicious/hutbot/pkg/database/repository"
	"github.com/latoulicious/hutbot/pkg/logging"
	"github.com/latoulicious/hutbot/pkg/metrics"
	"github.com/latoulicious/hutbot/pkg/minehut"
	"github.com/latoulicious/hutbot/pkg/reporting"
	"go.uber.org/zap"
)

func main() {
	// Initialize application with proper error handling
	if err := initializeApplication(); err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}
}

// initializeApplication wires every component, runs until a termination signal
// arrives and then shuts down in reverse order
func initializeApplication() error {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	base, err := logging.NewZap(logging.Options{
		Level:       cfg.Logger.Level,
		Development: cfg.Development(),
		File:        cfg.Logger.File,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = base.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Persist logs only when a database is configured
	sqlDB, retention, err := initializeCentralizedLogging(cfg, base)
	if err != nil {
		return fmt.Errorf("failed to initialize centralized logging: %w", err)
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	systemLogger := logging.GetGlobalLoggerFactory().CreateLogger("system")
	systemLogger.Info("Starting hutbot", map[string]interface{}{
		"version":     version.Get().String(),
		"environment": cfg.Environment,
		"persistence": sqlDB != nil,
	})

	botMetrics := metrics.New()

	var reporter commands.ErrorReporter
	sentryReporter, err := reporting.New(reporting.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "hutbot@" + version.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize error reporting: %w", err)
	}
	if sentryReporter != nil {
		reporter = sentryReporter
		defer sentryReporter.Flush(2 * time.Second)
	}

	client := minehut.NewClient(cfg.Minehut.APIURL,
		minehut.WithTimeout(cfg.Minehut.Timeout),
		minehut.WithUserAgent("hutbot/"+version.Version),
		minehut.WithMetrics(botMetrics),
	)
	prompter := prompt.NewPrompter(cfg.PromptTimeout)

	registry := commands.NewRegistry()
	registry.MustRegister(
		commands.NewServerInfoCommand(commands.ServerInfoOptions{
			Lookup:       client,
			Prompter:     prompter,
			LoadingEmoji: cfg.Emoji.Loading,
			CrossEmoji:   cfg.Emoji.Cross,
			Development:  cfg.Development(),
			Metrics:      botMetrics,
			Reporter:     reporter,
		}),
		commands.NewAboutCommand(started),
		commands.NewVersionCommand(),
	)
	registry.MustRegister(commands.NewHelpCommand(registry))

	// Create a new Discord session using the provided token
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	messageHandler := handlers.NewMessageHandler(handlers.Options{
		Context:  ctx,
		Registry: registry,
		Prefix:   cfg.Discord.Prefix,
		Prompts:  prompter,
		Metrics:  botMetrics,
	})
	dg.AddHandler(messageHandler.Handle)

	healthServer := health.NewServer(cfg.HealthAddr,
		health.WithStartTime(started),
		health.WithMetrics(botMetrics.Handler()),
		health.WithLogger(logging.GetGlobalLoggerFactory().CreateLogger("health")),
	)
	healthServer.AddCheck("discord", func(context.Context) error {
		if !dg.DataReady {
			return errors.New("gateway session not ready")
		}
		return nil
	})
	if sqlDB != nil {
		healthServer.AddCheck("database", sqlDB.PingContext)
	}
	healthServer.Start()

	// Open a websocket connection to Discord and begin listening.
	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	if retention != nil {
		retention.Start()
	}

	systemLogger.Info("Bot is running. Press CTRL-C to exit.", map[string]interface{}{
		"prefix":      cfg.Discord.Prefix,
		"health_addr": cfg.HealthAddr,
	})

	<-ctx.Done()

	systemLogger.Info("Shutting down gracefully...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("Health server shutdown error", err, nil)
	}
	if retention != nil {
		select {
		case <-retention.Stop().Done():
		case <-shutdownCtx.Done():
			systemLogger.Warn("Log retention job did not stop in time", nil)
		}
	}

	// Cleanly close down the Discord session.
	if err := dg.Close(); err != nil {
		systemLogger.Error("Failed to close Discord session", err, nil)
	}

	systemLogger.Info("Application shutdown complete", nil)
	return nil
}

// initializeCentralizedLogging installs the global logger factory. With a
// database configured, entries are also persisted and pruned on a schedule.
func initializeCentralizedLogging(cfg *config.Config, base *zap.Logger) (*sql.DB, *database.RetentionJob, error) {
	if cfg.Database.URL == "" {
		logging.SetGlobalLoggerFactory(logging.NewLoggerFactory(base))
		return nil, nil, nil
	}

	db, err := database.NewGormDB(cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Get the underlying *sql.DB for Close() and health checks
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	logRepo := repository.NewLogRepository(db)
	loggerFactory := logging.NewDatabaseLoggerFactory(base, logRepo)
	logging.SetGlobalLoggerFactory(loggerFactory)

	retention, err := database.NewRetentionJob(logRepo, cfg.Database.PruneSchedule, cfg.Database.Retention,
		loggerFactory.CreateLogger("retention"))
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	loggerFactory.CreateLogger("system").Info("Centralized logging system initialized successfully", map[string]interface{}{
		"database_connected": true,
		"logger_type":        "database",
	})

	return sqlDB, retention, nil
}
