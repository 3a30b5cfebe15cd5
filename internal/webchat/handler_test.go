package webchat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/reservation-assistant/internal/conversation"
	"github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// mockService records turns and answers from a queue of responses.
type mockService struct {
	mu        sync.Mutex
	requests  []conversation.MessageRequest
	responses []*conversation.Response
	err       error
}

func (m *mockService) ProcessMessage(_ context.Context, req conversation.MessageRequest) (*conversation.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockService) ListReservations(context.Context, string) []reservation.BookedInterval {
	return []reservation.BookedInterval{}
}

func (m *mockService) request(i int) conversation.MessageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[i]
}

func dial(t *testing.T, handler http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func asking(title string) *conversation.Response {
	return &conversation.Response{
		Reservation:  reservation.Draft{Title: title, Description: reservation.DefaultDescription},
		Messages:     []string{reservation.PromptDate},
		NeedsInfo:    true,
		MissingField: reservation.FieldStart,
		Success:      true,
	}
}

func TestWebSocketSessionAndPing(t *testing.T) {
	h := NewHandler(&mockService{}, logging.Discard())
	conn := dial(t, middleware.Owner("")(http.HandlerFunc(h.HandleWebSocket)))

	session := receive(t, conn)
	assert.Equal(t, "session", session.Type)
	assert.NotEmpty(t, session.OwnerID)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	assert.Equal(t, "pong", receive(t, conn).Type)
}

func TestWebSocketCarriesDraftBetweenTurns(t *testing.T) {
	svc := &mockService{responses: []*conversation.Response{
		asking("Ann Appointment"),
		{Reservation: reservation.Draft{Title: "Ann Appointment"}, Messages: []string{"booked"}, ReservationComplete: true, Success: true},
		asking(""),
	}}
	h := NewHandler(svc, logging.Discard())
	conn := dial(t, middleware.Owner("")(http.HandlerFunc(h.HandleWebSocket)))
	owner := receive(t, conn).OwnerID

	for _, text := range []string{"for Ann", "tomorrow at 3pm", "another one"} {
		require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: text}))
		frame := receive(t, conn)
		require.Equal(t, "reply", frame.Type)
		require.NotNil(t, frame.Reply)
		assert.True(t, frame.Reply.Success)
	}

	first, second, third := svc.request(0), svc.request(1), svc.request(2)
	assert.Equal(t, owner, first.OwnerID)
	assert.Equal(t, conversation.ChannelWebChat, first.Channel)
	assert.Nil(t, first.CurrentReservation)
	require.NotNil(t, second.CurrentReservation)
	assert.Equal(t, "Ann Appointment", second.CurrentReservation.Title)
	assert.Nil(t, third.CurrentReservation, "draft is cleared after a commit")
}

func TestWebSocketResetAndClientDraft(t *testing.T) {
	svc := &mockService{responses: []*conversation.Response{asking("Ann Appointment"), asking(""), asking("")}}
	h := NewHandler(svc, logging.Discard())
	conn := dial(t, middleware.Owner("")(http.HandlerFunc(h.HandleWebSocket)))
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "for Ann"}))
	receive(t, conn)
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "reset"}))
	assert.Equal(t, "reset", receive(t, conn).Type)
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hello"}))
	receive(t, conn)

	client := &reservation.Draft{Title: "Bob Appointment"}
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "tomorrow", CurrentReservation: client}))
	receive(t, conn)

	assert.Nil(t, svc.request(1).CurrentReservation)
	require.NotNil(t, svc.request(2).CurrentReservation)
	assert.Equal(t, "Bob Appointment", svc.request(2).CurrentReservation.Title)
}

func TestWebSocketServiceFailure(t *testing.T) {
	h := NewHandler(&mockService{err: errors.New("store down")}, logging.Discard())
	conn := dial(t, middleware.Owner("")(http.HandlerFunc(h.HandleWebSocket)))
	receive(t, conn)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "Book John tomorrow at 3pm"}))
	frame := receive(t, conn)

	require.Equal(t, "reply", frame.Type)
	assert.False(t, frame.Reply.Success)
	assert.Equal(t, []string{conversation.ErrorMessage}, frame.Reply.Messages)
}

func TestWebSocketRequiresOwner(t *testing.T) {
	h := NewHandler(&mockService{}, logging.Discard())
	conn := dial(t, http.HandlerFunc(h.HandleWebSocket))

	frame := receive(t, conn)
	assert.Equal(t, "error", frame.Type)
	assert.Equal(t, "missing owner", frame.Text)
}

func TestConnectionsTracking(t *testing.T) {
	h := NewHandler(&mockService{}, logging.Discard())
	h.track("owner-1", 1)
	h.track("owner-1", 1)
	assert.Equal(t, 2, h.Connections("owner-1"))
	h.track("owner-1", -1)
	h.track("owner-1", -1)
	assert.Zero(t, h.Connections("owner-1"))
}
