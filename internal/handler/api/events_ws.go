package api

import (
	"encoding/json"
	"net/http"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/usecase"
	applogger "RetailPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// wsUpgrader serves long-lived POS terminal connections. Each frame carries
// one event envelope; the reply acks it or reports the rejection reason.
type wsUpgrader struct {
	log      *applogger.Logger
	engine   *usecase.Engine
	metrics  repository.Metrics
	upgrader websocket.Upgrader
}

type wsAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func newWSUpgrader(log *applogger.Logger, engine *usecase.Engine, metrics repository.Metrics) *wsUpgrader {
	return &wsUpgrader{
		log:     log,
		engine:  engine,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (w *wsUpgrader) serve(c echo.Context) error {
	conn, err := w.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	w.log.Info("pos terminal connected", applogger.String("remote", conn.RemoteAddr().String()))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Warn("pos terminal read error", applogger.Error(err))
			}
			return nil
		}

		ack := wsAck{OK: true}
		var ev models.Event
		if uerr := json.Unmarshal(data, &ev); uerr != nil || ev.OutletID <= 0 {
			ack = wsAck{OK: false, Error: "malformed event"}
			if w.metrics != nil {
				w.metrics.RecordError("malformed_input")
			}
		} else {
			ev.Normalize()
			if w.metrics != nil {
				w.metrics.RecordEvent(string(ev.Kind), "websocket")
			}
			if herr := w.engine.HandleEvent(c.Request().Context(), ev); herr != nil {
				ack = wsAck{OK: false, Error: herr.Error()}
			}
		}

		if werr := conn.WriteJSON(ack); werr != nil {
			w.log.Warn("pos terminal write error", applogger.Error(werr))
			return nil
		}
	}
}
