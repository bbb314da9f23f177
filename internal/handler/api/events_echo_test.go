package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/store"
	"RetailPulse/internal/usecase"
	"RetailPulse/pkg/config"
	applogger "RetailPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	err error
}

func (s stubSource) QueryBackOrders(ctx context.Context, outletID int64, company string) ([]repository.BackOrderRow, error) {
	return nil, s.err
}

func (s stubSource) QuerySalesTargetHistory(ctx context.Context, outletID int64, company string) ([]repository.SalesTargetRow, error) {
	return nil, s.err
}

func (s stubSource) QueryRevenueHistory(ctx context.Context, outletID int64, company string) ([]models.HistoryBucket, error) {
	return nil, s.err
}

func newTestHandler(t *testing.T, srcErr error) *EventsHandler {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := &config.Config{}
	refresher := usecase.NewRefresher(stubSource{err: srcErr}, cfg, log, nil)
	engine := usecase.NewEngine(store.New(), refresher, nil, log, nil)
	return NewEventsHandler(log, engine, nil)
}

func postEvent(h *EventsHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostEventAccepted(t *testing.T) {
	h := newTestHandler(t, nil)
	body := `{"outlet_id":891,"company":"Fac_Tena","kind":"sale","lines":[{"item_key":"189","quantity":1,"amount":0.85}]}`

	rec := postEvent(h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":202`) {
		t.Errorf("body %q missing accepted status", rec.Body.String())
	}
}

func TestPostEventValidation(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing outlet id", body: `{"company":"Fac_Tena"}`, want: "ERR_REQUIRED"},
		{name: "missing company", body: `{"outlet_id":1}`, want: "ERR_REQUIRED"},
		{name: "unknown kind", body: `{"outlet_id":1,"company":"x","kind":"refund"}`, want: "ERR_ONEOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEvent(h, tt.body)
			if !strings.Contains(rec.Body.String(), `"status":400`) {
				t.Fatalf("body %q missing 400 status", rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body %q missing code %s", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestPostEventBadStartTime(t *testing.T) {
	h := newTestHandler(t, nil)
	body := `{"outlet_id":1,"company":"x","kind":"register_open","start_time":"yesterday"}`

	rec := postEvent(h, body)
	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Errorf("body %q missing 400 status", rec.Body.String())
	}
}

func TestPostEventSnapshotUnavailable(t *testing.T) {
	h := newTestHandler(t, errors.New("connection refused"))
	body := `{"outlet_id":1,"company":"x"}`

	rec := postEvent(h, body)

	if !strings.Contains(rec.Body.String(), `"status":503`) {
		t.Fatalf("body %q missing 503 status", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ERR_UNAVAILABLE") {
		t.Errorf("body %q missing unavailable code", rec.Body.String())
	}
}
