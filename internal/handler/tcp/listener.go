package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/usecase"
	applogger "RetailPulse/pkg/logger"
)

// Listener accepts newline-delimited JSON event frames over TCP, one frame
// per event, and acks each with a JSON reply. Malformed frames are rejected
// at the adapter and never reach the engine.
type Listener struct {
	addr    string
	engine  *usecase.Engine
	log     *applogger.Logger
	metrics repository.Metrics

	ln       net.Listener
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

type reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewListener creates a TCP listener on addr (host:port).
func NewListener(addr string, engine *usecase.Engine, log *applogger.Logger, metrics repository.Metrics) *Listener {
	return &Listener{
		addr:    addr,
		engine:  engine,
		log:     log,
		metrics: metrics,
		stopped: make(chan struct{}),
	}
}

// Start binds the listener and begins accepting connections.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("tcp listen on %s: %w", l.addr, err)
	}
	l.ln = ln
	l.log.Info("tcp listener started", applogger.String("addr", l.addr))

	l.wg.Add(1)
	go l.acceptLoop()
	return nil
}

// Addr returns the bound listen address, valid after Start.
func (l *Listener) Addr() net.Addr {
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Stop closes the listener and waits for in-flight connections.
func (l *Listener) Stop(ctx context.Context) error {
	l.stopOnce.Do(func() {
		close(l.stopped)
		if l.ln != nil {
			_ = l.ln.Close()
		}
	})

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for tcp listener to stop: %w", ctx.Err())
	case <-done:
		l.log.Info("tcp listener stopped")
		return nil
	}
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.stopped:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.log.Warn("tcp accept error", applogger.Error(err))
			continue
		}

		l.wg.Add(1)
		go l.handleConn(conn)
	}
}

func (l *Listener) handleConn(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	l.log.Debug("tcp connection opened", applogger.String("remote", conn.RemoteAddr().String()))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		select {
		case <-l.stopped:
			return
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		res := l.handleFrame(line)
		if err := enc.Encode(res); err != nil {
			l.log.Warn("tcp write error", applogger.Error(err))
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		l.log.Debug("tcp connection closed", applogger.Error(err))
	}
}

func (l *Listener) handleFrame(frame []byte) reply {
	var ev models.Event
	if err := json.Unmarshal(frame, &ev); err != nil || ev.OutletID <= 0 {
		if l.metrics != nil {
			l.metrics.RecordError("malformed_input")
		}
		return reply{OK: false, Error: "malformed event"}
	}
	ev.Normalize()

	if l.metrics != nil {
		l.metrics.RecordEvent(string(ev.Kind), "tcp")
	}

	if err := l.engine.HandleEvent(context.Background(), ev); err != nil {
		return reply{OK: false, Error: err.Error()}
	}
	return reply{OK: true}
}
