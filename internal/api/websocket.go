package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fleetsight/fleetsight/internal/database"
)

// AlertHub broadcasts newly created predictive alerts to connected
// websocket clients
type AlertHub struct {
	logger    *zap.Logger
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan *database.PredictiveAlert
	done      chan struct{}
	stopOnce  sync.Once
}

// NewAlertHub creates an alert hub
func NewAlertHub(logger *zap.Logger) *AlertHub {
	return &AlertHub{
		logger:    logger,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan *database.PredictiveAlert, 64),
		done:      make(chan struct{}),
	}
}

// Publish queues an alert for broadcast. Drops when the buffer is full so
// the sweep never blocks on slow clients.
func (h *AlertHub) Publish(alert *database.PredictiveAlert) {
	select {
	case h.broadcast <- alert:
	default:
		h.logger.Warn("Alert broadcast buffer full, dropping",
			zap.String("alert_id", alert.ID))
	}
}

// Run delivers queued alerts until Stop is called
func (h *AlertHub) Run() {
	for {
		select {
		case alert := <-h.broadcast:
			h.deliver(alert)
		case <-h.done:
			return
		}
	}
}

// Stop shuts the hub down and closes all client connections
func (h *AlertHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.clientsMu.Lock()
		for conn := range h.clients {
			conn.Close()
		}
		h.clients = make(map[*websocket.Conn]bool)
		h.clientsMu.Unlock()
	})
}

func (h *AlertHub) deliver(alert *database.PredictiveAlert) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(alert); err != nil {
			h.logger.Debug("Dropping websocket client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *AlertHub) register(conn *websocket.Conn) {
	h.clientsMu.Lock()
	h.clients[conn] = true
	h.clientsMu.Unlock()
}

func (h *AlertHub) unregister(conn *websocket.Conn) {
	h.clientsMu.Lock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()
}

func (s *Server) handleAlertStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(s.config.AllowOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range s.config.AllowOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	s.hub.register(conn)
	s.logger.Debug("Websocket client connected", zap.String("remote", r.RemoteAddr))

	// Reader loop only detects disconnects; the stream is one-way.
	go func() {
		defer s.hub.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
