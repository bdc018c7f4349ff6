package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clover/config"
	"clover/domain/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the economy
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	balanceTransactionsCounter metric.Int64Counter
	balanceVolumeCounter       metric.Int64Counter
	wagersSettledCounter       metric.Int64Counter
	wagerBetsCounter           metric.Int64Counter
	wagerPayoutsCounter        metric.Int64Counter
	accountsCreatedCounter     metric.Int64Counter
	accountsRemovedCounter     metric.Int64Counter
	leaderboardRefreshCounter  metric.Int64Counter
	leaderboardFallbackCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		// Schemaless so the SDK default schema URL is kept on merge
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)

	if err := mp.createInstruments(mp.meterProvider.Meter("clover")); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments on meter
func (mp *MetricsProvider) createInstruments(meter metric.Meter) error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of balance changes"},
		{&mp.balanceVolumeCounter, BalanceVolumeTotal, "Absolute cash moved by balance changes"},
		{&mp.wagersSettledCounter, WagersSettledTotal, "Total number of settled games"},
		{&mp.wagerBetsCounter, WagerBetsTotal, "Cash staked on settled games"},
		{&mp.wagerPayoutsCounter, WagerPayoutsTotal, "Cash paid out by settled games"},
		{&mp.accountsCreatedCounter, AccountsCreatedTotal, "Accounts provisioned"},
		{&mp.accountsRemovedCounter, AccountsRemovedTotal, "Accounts removed"},
		{&mp.leaderboardRefreshCounter, LeaderboardRefreshesTotal, "Completed leaderboard refreshes"},
		{&mp.leaderboardFallbackCounter, LeaderboardFallbacksTotal, "Windowed rankings that fell back to all-time"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	mp.meter = meter
	return nil
}

// Shutdown flushes and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordBalanceTransaction records a balance change
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string, amount int64) {
	if !mp.isEnabled() {
		return
	}

	if amount < 0 {
		amount = -amount
	}
	attrs := metric.WithAttributes(attribute.String(LabelType, transactionType))
	mp.balanceTransactionsCounter.Add(context.Background(), 1, attrs)
	mp.balanceVolumeCounter.Add(context.Background(), amount, attrs)
}

// RecordWagerSettled records the stake and payout of a finished game
func (mp *MetricsProvider) RecordWagerSettled(game, outcome string, bet, payout int64) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelGame, game),
		attribute.String(LabelOutcome, outcome),
	)
	mp.wagersSettledCounter.Add(context.Background(), 1, attrs)
	mp.wagerBetsCounter.Add(context.Background(), bet, attrs)
	mp.wagerPayoutsCounter.Add(context.Background(), payout, attrs)
}

// RecordAccountCreated records a provisioned account
func (mp *MetricsProvider) RecordAccountCreated(source string) {
	if !mp.isEnabled() {
		return
	}

	mp.accountsCreatedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelSource, source)),
	)
}

// RecordAccountRemoved records a deleted account
func (mp *MetricsProvider) RecordAccountRemoved() {
	if !mp.isEnabled() {
		return
	}
	mp.accountsRemovedCounter.Add(context.Background(), 1)
}

// RecordLeaderboardRefresh records a refresh and the metrics that fell back
func (mp *MetricsProvider) RecordLeaderboardRefresh(fallbacks []string) {
	if !mp.isEnabled() {
		return
	}

	mp.leaderboardRefreshCounter.Add(context.Background(), 1)
	for _, m := range fallbacks {
		mp.leaderboardFallbackCounter.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String(LabelMetric, m)),
		)
	}
}

// isEnabled checks that instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

// HandlerRegistrar accepts in-process event handlers
type HandlerRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// RegisterEventHandlers feeds committed domain events into the instruments
func (mp *MetricsProvider) RegisterEventHandlers(registrar HandlerRegistrar) {
	registrar.RegisterLocalHandler(events.EventTypeBalanceChange, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			mp.RecordBalanceTransaction(string(e.TransactionType), e.ChangeAmount)
		}
		return nil
	})
	registrar.RegisterLocalHandler(events.EventTypeWagerSettled, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.WagerSettledEvent); ok {
			mp.RecordWagerSettled(string(e.Game), e.Outcome, e.Bet, e.Payout)
		}
		return nil
	})
	registrar.RegisterLocalHandler(events.EventTypeAccountCreated, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.AccountCreatedEvent); ok {
			mp.RecordAccountCreated(e.Source)
		}
		return nil
	})
	registrar.RegisterLocalHandler(events.EventTypeAccountRemoved, func(_ context.Context, event events.Event) error {
		mp.RecordAccountRemoved()
		return nil
	})
	registrar.RegisterLocalHandler(events.EventTypeLeaderboardRefreshed, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.LeaderboardRefreshedEvent); ok {
			fallbacks := make([]string, 0, len(e.Fallbacks))
			for _, m := range e.Fallbacks {
				fallbacks = append(fallbacks, string(m))
			}
			mp.RecordLeaderboardRefresh(fallbacks)
		}
		return nil
	})
}
