package api

import (
	"errors"
	"net/http"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/usecase"
	xhttp "RetailPulse/pkg/http"
	applogger "RetailPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EventsHandler exposes the synchronous test-entry interface: a validated
// POST endpoint and a WebSocket stream, both feeding the engine with the
// same envelope the other transports use.
type EventsHandler struct {
	log     *applogger.Logger
	engine  *usecase.Engine
	metrics repository.Metrics
	ws      *wsUpgrader
}

// NewEventsHandler creates the HTTP events handler.
func NewEventsHandler(log *applogger.Logger, engine *usecase.Engine, metrics repository.Metrics) *EventsHandler {
	return &EventsHandler{
		log:     log,
		engine:  engine,
		metrics: metrics,
		ws:      newWSUpgrader(log, engine, metrics),
	}
}

// RegisterRoutes registers the events endpoints on Echo.
func (h *EventsHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/events", h.postEvent)
	e.GET("/api/events/stream", h.ws.serve)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

type eventLineRequest struct {
	ItemKey  string  `json:"item_key" validate:"required"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

type eventRequest struct {
	OutletID  int64              `json:"outlet_id" validate:"required,gt=0"`
	Company   string             `json:"company" validate:"required"`
	Kind      string             `json:"kind" default:"sale" validate:"oneof=sale order register_open"`
	StartTime string             `json:"start_time"`
	Lines     []eventLineRequest `json:"lines" validate:"dive"`
}

func (req *eventRequest) toEvent() (models.Event, error) {
	ev := models.Event{
		OutletID: req.OutletID,
		Company:  req.Company,
		Kind:     models.EventKind(req.Kind),
	}
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return ev, err
		}
		ev.StartTime = &t
	}
	for _, line := range req.Lines {
		ev.Lines = append(ev.Lines, models.EventLine{
			ItemKey:  line.ItemKey,
			Quantity: line.Quantity,
			Amount:   line.Amount,
		})
	}
	return ev, nil
}

// postEvent runs one event through the engine synchronously, surfacing the
// engine error so snapshot outages are observable from the test entry point.
func (h *EventsHandler) postEvent(c echo.Context) error {
	req := new(eventRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	ev, err := req.toEvent()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid start_time: %v", err))
	}

	if h.metrics != nil {
		h.metrics.RecordEvent(string(ev.Kind), "http")
	}

	if err := h.engine.HandleEvent(c.Request().Context(), ev); err != nil {
		if errors.Is(err, models.ErrSnapshotUnavailable) {
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("snapshot source unavailable").WithError(err))
		}
		h.log.Error("event handling failed", applogger.Int64("outlet", ev.OutletID), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("event handling failed").WithError(err))
	}

	return xhttp.AcceptedResponse(c, map[string]interface{}{
		"outlet_id": ev.OutletID,
		"kind":      ev.Kind,
		"accepted":  true,
	})
}
