package di

import (
	"context"
	"fmt"
	"time"

	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/handler/api"
	"RetailPulse/internal/handler/tcp"
	internalrepo "RetailPulse/internal/repository"
	"RetailPulse/internal/store"
	"RetailPulse/internal/usecase"
	pkgch "RetailPulse/pkg/clickhouse"
	"RetailPulse/pkg/config"
	pkgkafka "RetailPulse/pkg/kafka"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/metrics"
	"RetailPulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client and bootstraps the
// snapshot tables.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates the outbound Kafka producer. Hash-by-key keeps
// one outlet's signals ordered on one partition.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates the inbound Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the outlet state store.
func ProvideStore() *store.Store {
	return store.New()
}

// ProvideSnapshotSource creates the ClickHouse snapshot source.
func ProvideSnapshotSource(chClient *pkgch.Client, cfg *config.Config, log *applogger.Logger) repository.SnapshotSource {
	src := internalrepo.NewClickHouseSnapshotSource(chClient.DB(), cfg.ClickHouse.Database)
	src.SetLogger(log)
	return src
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideRefresher creates the snapshot refresher.
func ProvideRefresher(src repository.SnapshotSource, cfg *config.Config, log *applogger.Logger, m repository.Metrics) *usecase.Refresher {
	return usecase.NewRefresher(src, cfg, log, m)
}

// ProvideEngine creates the indicator engine.
func ProvideEngine(st *store.Store, refresher *usecase.Refresher, pub repository.SignalPublisher, log *applogger.Logger, m repository.Metrics) *usecase.Engine {
	return usecase.NewEngine(st, refresher, pub, log, m)
}

// ProvideKafkaEventsHandler binds the engine to the events topic.
func ProvideKafkaEventsHandler(engine *usecase.Engine, cfg *config.Config, log *applogger.Logger, m repository.Metrics) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.EventsTopic, engine, log, m)
}

// ProvideAPIHandler creates the HTTP events handler.
func ProvideAPIHandler(engine *usecase.Engine, log *applogger.Logger, m repository.Metrics) *api.EventsHandler {
	return api.NewEventsHandler(log, engine, m)
}

// ProvideTCPListener creates the TCP events listener.
func ProvideTCPListener(engine *usecase.Engine, cfg *config.Config, log *applogger.Logger, m repository.Metrics) *tcp.Listener {
	addr := fmt.Sprintf(":%d", cfg.TCP.Port)
	return tcp.NewListener(addr, engine, log, m)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.Engine,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaEventsHandler,
	apiHandler *api.EventsHandler,
	tcpListener *tcp.Listener,
	chClient *pkgch.Client,
	pub repository.SignalPublisher,
) *server.App {
	app := server.New(cfg, log, engine, consumer, kh, apiHandler, tcpListener, chClient)
	app.SetPublisher(pub)
	return app
}
