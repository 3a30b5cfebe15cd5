package conversation

import (
	"context"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

// Session carries the in-progress draft between turns for transports that
// keep state on the server side, such as the web socket and the CLI.
type Session struct {
	service Service
	ownerID string
	channel Channel
	draft   *reservation.Draft
}

// NewSession starts an empty session for ownerID.
func NewSession(service Service, ownerID string, channel Channel) *Session {
	return &Session{service: service, ownerID: ownerID, channel: channel}
}

// OwnerID returns the owner the session books for.
func (s *Session) OwnerID() string { return s.ownerID }

// Draft returns a copy of the current draft, or nil before the first turn
// and after a commit.
func (s *Session) Draft() *reservation.Draft {
	if s.draft == nil {
		return nil
	}
	d := *s.draft
	return &d
}

// Send runs one turn with text. The draft advances with every successful
// turn and is cleared once a reservation is committed.
func (s *Session) Send(ctx context.Context, text string) (*Response, error) {
	resp, err := s.service.ProcessMessage(ctx, MessageRequest{
		OwnerID:            s.ownerID,
		Channel:            s.channel,
		Message:            text,
		CurrentReservation: s.Draft(),
	})
	if err != nil {
		return nil, err
	}
	switch d := resp.Reservation.(type) {
	case reservation.Draft:
		s.draft = &d
	case *reservation.Draft:
		s.draft = d
	}
	if resp.ReservationComplete {
		s.draft = nil
	}
	return resp, nil
}

// Replace swaps in a draft supplied by the client.
func (s *Session) Replace(d *reservation.Draft) {
	if d == nil {
		s.draft = nil
		return
	}
	cp := reservation.Normalize(d)
	s.draft = &cp
}

// Reset drops the in-progress draft.
func (s *Session) Reset() { s.draft = nil }
