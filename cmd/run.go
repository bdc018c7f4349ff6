package cmd

import (
	"context"
	"fmt"
	"time"

	"clover/application"
	"clover/config"
	"clover/database"
	"clover/debugapi"
	"clover/domain/entities"
	"clover/domain/services"
	"clover/infrastructure"
	"clover/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}
	log.WithField("environment", cfg.Environment).Info("Starting clover economy...")

	// Metrics
	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to shut down metrics provider")
		}
	}()

	// Database
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), database.WithMaxConns(cfg.DatabaseMaxConns))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Events
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers, infrastructure.WithStreamMaxAge(cfg.NATSStreamMaxAge))
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Failed to close NATS connection")
			}
		}()
	} else {
		log.Info("NATS_SERVERS not set, domain events stay in-process")
	}

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	metricsProvider.RegisterEventHandlers(eventPublisher)

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Services
	economy := cfg.Economy
	rng := services.NewRandomSource()
	ledger := services.NewLedgerService(uowFactory)
	gambling := services.NewGamblingService(ledger, eventPublisher, rng, economy.SlotsWinChance)
	blackjack := services.NewBlackjackService(ledger, eventPublisher, services.NewShoe(rng), services.BlackjackConfig{
		TurnTimeout: economy.BlackjackTurnTimeout,
		Cooldown:    economy.BlackjackCooldown,
		OnSettled:   logBlackjackSettlement,
	})
	claims := services.NewClaimService(uowFactory, economy.DailyIncome, economy.WeeklyTierIncome)
	leaderboard := services.NewLeaderboardService(uowFactory, economy.LeaderboardSize, economy.LeaderboardWindow)
	voice := services.NewVoiceTracker(ledger)

	// Leaderboard pusher
	if cfg.DiscordToken != "" {
		session, err := infrastructure.NewDiscordSession(cfg.DiscordToken)
		if err != nil {
			return err
		}
		leaderboard.OnRefresh(infrastructure.NewDiscordLeaderboardPublisher(session).OnRefresh)
		log.Info("Discord leaderboard pusher enabled")
	}

	worker := application.NewLeaderboardWorker(leaderboard, economy.LeaderboardInterval)
	stopWorker := worker.Start(ctx)

	// Debug API
	var debugServer *debugapi.Server
	if cfg.DebugAPIAddr != "" {
		checks := map[string]debugapi.HealthCheck{"database": db.Healthy}
		if natsClient != nil {
			checks["nats"] = natsClient.Healthy
		}
		debugServer = debugapi.NewServer(cfg.DebugAPIAddr, debugapi.Dependencies{
			Health:      checks,
			Ledger:      ledger,
			Leaderboard: leaderboard,
			Voice:       voice,
			Gambling:    gambling,
			Blackjack:   blackjack,
			Claims:      claims,
		})
		debugServer.Start()
	}

	log.Info("Clover economy is running")
	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if debugServer != nil {
		if err := debugServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Debug API shutdown failed")
		}
	}
	stopWorker()
	blackjack.Shutdown()
	voice.LeaveAll(shutdownCtx)

	log.Info("Shutdown complete")
	return nil
}

func logBlackjackSettlement(view *entities.BlackjackView) {
	log.WithFields(log.Fields{
		"accountID": view.AccountID,
		"channelID": view.ChannelID,
		"sessionID": view.SessionID,
		"outcome":   view.Outcome,
		"payout":    view.Payout,
		"timedOut":  view.TimedOut,
	}).Debug("Blackjack settlement delivered")
}
