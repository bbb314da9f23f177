package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"RetailPulse/internal/handler/api"
	"RetailPulse/internal/handler/tcp"
	"RetailPulse/internal/usecase"
	pkgch "RetailPulse/pkg/clickhouse"
	"RetailPulse/pkg/config"
	xhttp "RetailPulse/pkg/http"
	pkgkafka "RetailPulse/pkg/kafka"
	applogger "RetailPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle: the Kafka consumer, the
// TCP listener and the HTTP server all feed the same engine; shutdown stops
// the inbound adapters first, then the outbound and infrastructure clients.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	engine      *usecase.Engine
	consumer    *pkgkafka.Consumer
	eventsKH    *usecase.KafkaEventsHandler
	apiHandler  *api.EventsHandler
	tcpListener *tcp.Listener
	chClient    *pkgch.Client
	publisher   interface{ Close() error }
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.Engine,
	consumer *pkgkafka.Consumer,
	eventsKH *usecase.KafkaEventsHandler,
	apiHandler *api.EventsHandler,
	tcpListener *tcp.Listener,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		engine:      engine,
		consumer:    consumer,
		eventsKH:    eventsKH,
		apiHandler:  apiHandler,
		tcpListener: tcpListener,
		chClient:    chClient,
	}
}

// SetPublisher hands the App the outbound publisher so shutdown can close it.
func (a *App) SetPublisher(p interface{ Close() error }) { a.publisher = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.apiHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if a.consumer != nil && a.eventsKH != nil {
		a.consumer.RegisterHandler(a.eventsKH)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer start: %w", err)
		}
		a.log.Info("kafka consumer started", applogger.String("topic", a.eventsKH.Topic()))
	}

	if a.cfg.TCP.Enabled && a.tcpListener != nil {
		if err := a.tcpListener.Start(); err != nil {
			return fmt.Errorf("tcp listener start: %w", err)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services, inbound adapters first.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.cfg.TCP.Enabled && a.tcpListener != nil {
		if err := a.tcpListener.Stop(ctx); err != nil {
			a.log.Warn("tcp listener stop error", applogger.Error(err))
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
