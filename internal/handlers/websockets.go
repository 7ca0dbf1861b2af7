package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"car_chronicle/internal/models"
	"car_chronicle/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// wsConnect streams the insurance notification feed: each tick pushes the
// audit events that appeared since the previous push.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send the current feed immediately, then only the delta per tick.
	cursor := &feedCursor{sent: map[string]struct{}{}}
	if err := h.sendFeed(c.Request.Context(), conn, cursor); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendFeed(c.Request.Context(), conn, cursor); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// feedCursor tracks how far the feed has been pushed. The [from, ...]
// filter is inclusive and stored timestamps have second precision, so an
// exact timestamp watermark alone would either re-send or skip events that
// share the last pushed second; the sent set disambiguates them by id.
type feedCursor struct {
	since time.Time
	sent  map[string]struct{} // event ids already pushed at the since timestamp
}

// delta drops events already pushed at the cursor's timestamp.
func (cur *feedCursor) delta(notifications []models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		if _, dup := cur.sent[n.EventID]; dup && n.OccurredAt.Equal(cur.since) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// advance moves the cursor past a pushed, non-empty delta.
func (cur *feedCursor) advance(delta []models.Notification) {
	last := delta[len(delta)-1].OccurredAt
	if !last.Equal(cur.since) {
		cur.since = last
		cur.sent = map[string]struct{}{}
	}
	for _, n := range delta {
		if n.OccurredAt.Equal(cur.since) {
			cur.sent[n.EventID] = struct{}{}
		}
	}
}

// Helper: sendFeed pushes notifications the cursor has not seen yet and
// advances it. The empty delta is not sent.
func (h *Handler) sendFeed(ctx context.Context, conn *websocket.Conn, cursor *feedCursor) error {
	notifications, err := h.services.Notifications.List(ctx, service.NotificationFilter{From: cursor.since})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_notifications_failed", "err", err)
		}
		return err
	}
	delta := cursor.delta(notifications)
	if len(delta) == 0 {
		return nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "notifications", Data: delta}); err != nil {
		return err
	}
	cursor.advance(delta)
	return nil
}
