package cmd

import (
	"context"
	"fmt"
	"time"

	"sincroni/bot"
	"sincroni/config"
	"sincroni/database"
	"sincroni/domain/events"
	"sincroni/domain/registry"
	"sincroni/domain/sanitizer"
	"sincroni/domain/services"
	"sincroni/infrastructure"
	"sincroni/infrastructure/observability"
	"sincroni/repository"

	log "github.com/sirupsen/logrus"
)

// EventStreamName is the JetStream stream holding published domain events
const EventStreamName = "SINCRONI_EVENTS"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	SetupLogging(cfg)

	log.Info("Starting sincroni bot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()

	// Load the registry before the gateway delivers the first message
	reg := registry.New(repository.NewStore(db), eventBus)
	if err := reg.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	contentSanitizer, err := sanitizer.NewFromFile(cfg.WordListPath)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer shutdownMetrics(metrics)

	if cfg.NATSEnabled() {
		natsClient, err := connectEventStream(ctx, cfg, eventBus, metrics)
		if err != nil {
			return err
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Error("Error closing NATS connection")
			}
		}()
	} else {
		log.Info("NATS_SERVERS is not set, event streaming disabled")
	}

	relayConfig := services.DefaultRelayConfig()
	relayConfig.DefaultColor = cfg.DefaultEmbedColor
	relayConfig.DefaultGuildIconURL = cfg.DefaultGuildIconURL

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:            cfg.DiscordToken,
		ModWebhookURL:    cfg.ModWebhookURL,
		BlockedAvatarURL: cfg.BlockedAvatarURL,
		SourceURL:        cfg.SourceURL,
		Relay:            relayConfig,
	}, bot.Dependencies{
		Registry:  reg,
		Sanitizer: contentSanitizer,
		Publisher: eventBus,
		Metrics:   metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	log.Info("Shutdown completed")
	return nil
}

func connectEventStream(ctx context.Context, cfg *config.Config, bus *events.Bus, metrics *observability.MetricsProvider) (*infrastructure.NATSClient, error) {
	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(client, cfg.NATSSubjectPrefix, metrics)
	if err := client.EnsureStream(EventStreamName, publisher.Subjects()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}
	publisher.Attach(bus)

	log.WithFields(log.Fields{
		"stream":  EventStreamName,
		"subject": cfg.NATSSubjectPrefix,
	}).Info("Event streaming enabled")
	return client, nil
}

func shutdownMetrics(metrics *observability.MetricsProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}
}
