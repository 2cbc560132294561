package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pool_monitor/internal/metrics"
	"pool_monitor/internal/service"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// per-topic subscription buffers; a slow client only ever loses older items
	wsReadingBuffer = 4
	wsToastBuffer   = 16
	wsLogBuffer     = 4
)

// Envelope types sent to websocket clients.
const (
	wsTypeReading = "reading"
	wsTypeAlerts  = "alerts"
	wsTypeToast   = "toast"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict to the dashboard origin once it is configurable
}

// @Summary      Live feed
// @Description  Websocket stream of envelopes: "reading" on every accepted reading, "toast" on every emitted alert, "alerts" with the regrouped view whenever the alert log changes. Accepts show_suspicious and limit like GET /api/v1/alerts.
// @Tags         live
// @Param        show_suspicious  query  bool  false  "Include implausible sensor readings"
// @Param        limit            query  int   false  "How many log entries to group"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	opts, msg := parseFeedOptions(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.WSClients.Inc()
	defer metrics.WSClients.Dec()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	// Subscribe before the initial send so nothing published in between is lost.
	feeds := h.services.Feeds
	readings := feeds.Readings.Subscribe(wsReadingBuffer)
	toasts := feeds.Toasts.Subscribe(wsToastBuffer)
	changes := feeds.AlertLog.Subscribe(wsLogBuffer)
	defer func() {
		readings.Close()
		toasts.Close()
		changes.Close()
	}()

	ping := time.NewTicker(h.opts.PingInterval)
	defer ping.Stop()

	ctx := c.Request.Context()
	if err := h.sendInitial(ctx, conn, opts); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case snap, ok := <-readings.C():
			if !ok {
				return
			}
			if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeReading, Data: snap}); err != nil {
				h.log.Infow("ws_write_failed", "type", wsTypeReading, "err", err)
				return
			}
		case toast, ok := <-toasts.C():
			if !ok {
				return
			}
			if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeToast, Data: toast}); err != nil {
				h.log.Infow("ws_write_failed", "type", wsTypeToast, "err", err)
				return
			}
		case _, ok := <-changes.C():
			if !ok {
				return
			}
			if err := h.sendAlerts(ctx, conn, opts); err != nil {
				h.log.Infow("ws_write_failed", "type", wsTypeAlerts, "err", err)
				return
			}
		}
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Infow("ws_read_closed", "err", err)
			return
		}
	}
}

// sendInitial writes the latest reading (when one exists) and the current grouped alerts.
func (h *Handler) sendInitial(ctx context.Context, conn *websocket.Conn, opts service.FeedOptions) error {
	snap, err := h.services.Telemetry.Latest(ctx)
	if err != nil {
		h.log.Errorw("ws_latest_failed", "err", err)
		return err
	}
	if !snap.Reading.IsEmpty() {
		if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeReading, Data: snap}); err != nil {
			return err
		}
	}
	return h.sendAlerts(ctx, conn, opts)
}

// sendAlerts recomputes the grouped view and writes it. A view failure is
// reported to the client in the envelope rather than closing the stream.
func (h *Handler) sendAlerts(ctx context.Context, conn *websocket.Conn, opts service.FeedOptions) error {
	groups, err := h.services.AlertFeed.View(ctx, opts)
	if err != nil {
		h.log.Errorw("ws_alerts_view_failed", "err", err)
		return writeEnvelope(conn, wsEnvelope{Type: wsTypeAlerts, Error: errViewFailed})
	}
	return writeEnvelope(conn, wsEnvelope{Type: wsTypeAlerts, Data: groups})
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
