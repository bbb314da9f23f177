package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/store"
	"RetailPulse/internal/usecase"
	"RetailPulse/pkg/config"
	applogger "RetailPulse/pkg/logger"
)

type nullSource struct{}

func (nullSource) QueryBackOrders(ctx context.Context, outletID int64, company string) ([]repository.BackOrderRow, error) {
	return nil, nil
}

func (nullSource) QuerySalesTargetHistory(ctx context.Context, outletID int64, company string) ([]repository.SalesTargetRow, error) {
	return nil, nil
}

func (nullSource) QueryRevenueHistory(ctx context.Context, outletID int64, company string) ([]models.HistoryBucket, error) {
	return nil, nil
}

func startTestListener(t *testing.T) *Listener {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := &config.Config{}
	refresher := usecase.NewRefresher(nullSource{}, cfg, log, nil)
	engine := usecase.NewEngine(store.New(), refresher, nil, log, nil)

	l := NewListener("127.0.0.1:0", engine, log, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("start listener: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	})
	return l
}

func TestListenerAcksWellFormedFrame(t *testing.T) {
	l := startTestListener(t)

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	frame := `{"outlet_id":891,"company":"Fac_Tena","kind":"sale","lines":[{"item_key":"189","quantity":1,"amount":0.85}]}` + "\n"
	if _, err := conn.Write([]byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var res reply
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&res); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if !res.OK {
		t.Errorf("reply = %+v, want ok", res)
	}
}

func TestListenerRejectsMalformedFrame(t *testing.T) {
	l := startTestListener(t)

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	dec := json.NewDecoder(r)

	// Broken JSON, then an envelope without an outlet id. Neither reaches
	// the engine; both get a rejection reply and the connection stays open.
	for _, frame := range []string{`{not json`, `{"company":"Fac_Tena"}`} {
		if _, err := conn.Write([]byte(frame + "\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
		var res reply
		if err := dec.Decode(&res); err != nil {
			t.Fatalf("read reply: %v", err)
		}
		if res.OK {
			t.Errorf("frame %q accepted, want rejection", frame)
		}
	}

	// Connection still usable after rejections.
	good := `{"outlet_id":1,"company":"Fac_Tena"}` + "\n"
	if _, err := conn.Write([]byte(good)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var res reply
	if err := dec.Decode(&res); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if !res.OK {
		t.Errorf("reply = %+v, want ok", res)
	}
}
