package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sensoringest"
	"sensoringest/internal/service"

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
	defaultLookback  = time.Hour
	maxLookback      = 7 * 24 * time.Hour
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// runCursor remembers what the feed already sent. Runs are listed from the newest
// timestamp seen, so ids at that instant are kept to avoid sending them twice.
type runCursor struct {
	since time.Time
	seen  map[string]bool
}

// next filters runs down to the unsent ones and advances the cursor.
func (rc *runCursor) next(runs []sensoringest.CertificationRun) []sensoringest.CertificationRun {
	fresh := make([]sensoringest.CertificationRun, 0, len(runs))
	for _, r := range runs {
		if r.OccurredAt.Before(rc.since) || rc.seen[r.RunID] {
			continue
		}
		fresh = append(fresh, r)
	}
	for _, r := range fresh {
		switch {
		case r.OccurredAt.After(rc.since):
			rc.since = r.OccurredAt
			rc.seen = map[string]bool{r.RunID: true}
		case r.OccurredAt.Equal(rc.since):
			rc.seen[r.RunID] = true
		}
	}
	return fresh
}

// @Summary      Certification run feed
// @Description  WebSocket upgrade. Sends {"type":"runs","data":[...]} on connect with the runs of the last 'since' (default 1h), then every interval with the runs recorded since the previous message.
// @Tags         runs
// @Param        interval     query  string  false  "Push interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Param        since        query  string  false  "Initial lookback, e.g. 24h"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	cursor := &runCursor{since: time.Now().UTC().Add(-h.parseLookback(c)), seen: map[string]bool{}}

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

	// Prepare periodic writers: run updates and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send the recent history immediately.
	if err := h.sendRuns(c.Request.Context(), conn, cursor); err != nil {
		// If initial send fails, log and close the connection.
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	// Writer/select loop.
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
			if err := h.sendRuns(c.Request.Context(), conn, cursor); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
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

// parseLookback reads ?since=24h, bounded to a week.
func (h *Handler) parseLookback(c *gin.Context) time.Duration {
	if s := c.Query("since"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxLookback {
			return d
		}
	}
	return defaultLookback
}

// startReader drains incoming messages to handle control frames and detect closure.
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

// sendRuns lists runs since the cursor and writes the unsent ones with a write deadline.
func (h *Handler) sendRuns(ctx context.Context, conn *websocket.Conn, cursor *runCursor) error {
	runs, err := h.services.RunLog.List(ctx, service.RunFilter{From: cursor.since})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_runs_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "runs", Data: cursor.next(runs)})
}
