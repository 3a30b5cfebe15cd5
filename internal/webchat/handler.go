package webchat

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/reservation-assistant/internal/conversation"
	"github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// Handler serves reservation turns over a WebSocket. Each connection keeps
// its own draft, so the widget only sends text.
type Handler struct {
	service conversation.Service
	logger  *logging.Logger

	mu    sync.Mutex
	conns map[string]int // owner id -> open connections
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type               string             `json:"type"` // "message", "ping", "reset"
	Text               string             `json:"text"`
	CurrentReservation *reservation.Draft `json:"current_reservation,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type    string                 `json:"type"` // "session", "reply", "pong", "reset", "error"
	OwnerID string                 `json:"owner_id,omitempty"`
	Reply   *conversation.Response `json:"reply,omitempty"`
	Text    string                 `json:"text,omitempty"`
}

// NewHandler creates a web chat handler.
func NewHandler(service conversation.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
		conns:   make(map[string]int),
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	if ownerID == "" {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "missing owner"})
		return
	}

	h.track(ownerID, 1)
	defer h.track(ownerID, -1)

	session := conversation.NewSession(h.service, ownerID, conversation.ChannelWebChat)
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", OwnerID: ownerID})
	h.logger.Info("webchat: connection opened", "owner_id", ownerID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "owner_id", ownerID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "reset":
			session.Reset()
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "reset"})
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			if msg.CurrentReservation != nil {
				session.Replace(msg.CurrentReservation)
			}
			_ = websocket.JSON.Send(conn, h.turn(r.Context(), session, msg.Text))
		}
	}
}

func (h *Handler) turn(ctx context.Context, session *conversation.Session, text string) OutboundMessage {
	resp, err := session.Send(ctx, text)
	if err != nil {
		h.logger.Error("webchat: failed to process message", "error", err, "owner_id", session.OwnerID())
	}
	return replyFrame(resp, err)
}

// Connections returns the number of open sockets for ownerID.
func (h *Handler) Connections(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[ownerID]
}

func (h *Handler) track(ownerID string, delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[ownerID] += delta
	if h.conns[ownerID] <= 0 {
		delete(h.conns, ownerID)
	}
}
