package connectivity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"service-rider-web/internal/logx"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Hub streams monitor status to browsers over websocket.
type Hub struct {
	monitor  *Monitor
	upgrader websocket.Upgrader
	logger   logx.Logger
}

// NewHub creates a Hub for monitor.
func NewHub(monitor *Monitor, logger logx.Logger) *Hub {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Hub{
		monitor: monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
		},
		logger: logger.With(logx.String("component", "connectivity_hub")),
	}
}

// ServeHTTP upgrades the request and sends the current status followed by every change.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logx.Err(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.monitor.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go readPump(conn, closed)

	if err := writeStatus(conn, h.monitor.Status()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case st := <-updates:
			if err := writeStatus(conn, st); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and signals when the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeStatus(conn *websocket.Conn, st Status) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
