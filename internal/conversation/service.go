// Package conversation runs reservation turns for a conversation owner:
// engine extraction, validation against the owner's booked list and commit.
package conversation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

var conversationTracer = otel.Tracer("reservation.internal.conversation")

// ErrorMessage is shown whenever a turn cannot be answered normally.
const ErrorMessage = "Sorry, there was an error processing your request. Please try again."

// Service describes how the reservation conversation should behave.
type Service interface {
	ProcessMessage(ctx context.Context, req MessageRequest) (*Response, error)
	ListReservations(ctx context.Context, ownerID string) []reservation.BookedInterval
}

// Channel identifies which transport the conversation is happening on.
type Channel string

const (
	ChannelUnknown Channel = ""
	ChannelHTTP    Channel = "http"
	ChannelWebChat Channel = "webchat"
	ChannelCLI     Channel = "cli"
)

// MessageRequest represents a single turn in the conversation.
type MessageRequest struct {
	OwnerID            string             `json:"-"`
	Channel            Channel            `json:"-"`
	Message            string             `json:"message"`
	CurrentReservation *reservation.Draft `json:"current_reservation"`
}

// Response is the payload returned to the client after a turn.
type Response struct {
	Reservation         any               `json:"reservation"`
	Messages            []string          `json:"messages"`
	NeedsInfo           bool              `json:"needs_info"`
	MissingField        string            `json:"missing_field,omitempty"`
	ReservationComplete bool              `json:"reservation_complete,omitempty"`
	Success             bool              `json:"success"`
	State               reservation.State `json:"state,omitempty"`
}

// ErrorResponse is the generic failure payload: success false, an empty
// reservation object and the apology message.
func ErrorResponse() *Response {
	return &Response{
		Reservation: map[string]any{},
		Messages:    []string{ErrorMessage},
		Success:     false,
	}
}

// Ledger reads and appends an owner's booked intervals.
type Ledger interface {
	List(ctx context.Context, ownerID string) ([]reservation.BookedInterval, error)
	Confirm(ctx context.Context, ownerID string, interval reservation.BookedInterval) (reservation.BookedInterval, error)
}

// Observer records turn outcomes.
type Observer interface {
	ObserveTurn(channel, state string)
	ObserveCommit(channel string)
	ObserveRejection(reason string)
}

// TurnService implements Service on top of the reservation engine.
type TurnService struct {
	engine   *reservation.Engine
	ledger   Ledger
	logger   *logging.Logger
	observer Observer
	locks    *ownerLocks
}

// NewTurnService wires the engine to the owner's ledger. observer may be nil.
func NewTurnService(engine *reservation.Engine, ledger Ledger, logger *logging.Logger, observer Observer) *TurnService {
	if engine == nil {
		panic("conversation: engine required")
	}
	if ledger == nil {
		panic("conversation: ledger required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TurnService{
		engine:   engine,
		ledger:   ledger,
		logger:   logger,
		observer: observer,
		locks:    newOwnerLocks(),
	}
}

// ProcessMessage runs one turn. Turns for the same owner are serialized so
// the overlap check and the append see a consistent booked list. The only
// error returned is a failed append of a committed reservation.
func (s *TurnService) ProcessMessage(ctx context.Context, req MessageRequest) (*Response, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("conversation: process message: owner id required")
	}
	unlock := s.locks.lock(req.OwnerID)
	defer unlock()

	ctx, span := conversationTracer.Start(ctx, "conversation.process_message")
	defer span.End()
	span.SetAttributes(
		attribute.String("reservation.owner_id", req.OwnerID),
		attribute.String("reservation.channel", string(req.Channel)),
	)

	draft := s.engine.ExtractAndMerge(ctx, req.Message, req.CurrentReservation)

	// The booked list only matters once nothing but the conflict check remains.
	var booked []reservation.BookedInterval
	if s.engine.Check(draft, nil).State == reservation.StateReadyToCommit {
		list, err := s.ledger.List(ctx, req.OwnerID)
		if err != nil {
			s.logger.Warn("failed to load booked intervals; checking against empty list",
				"owner_id", req.OwnerID, "error", err)
		}
		booked = list
	}

	turn := s.engine.Advance(draft, booked)
	span.SetAttributes(attribute.String("reservation.state", string(turn.State)))

	if turn.Committed {
		if _, err := s.ledger.Confirm(ctx, req.OwnerID, *turn.Interval); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "confirm failed")
			s.observeTurn(req.Channel, "ERROR")
			return nil, fmt.Errorf("conversation: confirm reservation: %w", err)
		}
	}

	s.observe(req.Channel, turn)
	s.logger.Debug("reservation turn processed",
		"owner_id", req.OwnerID,
		"channel", req.Channel,
		"state", turn.State,
		"missing_field", turn.MissingField,
		"committed", turn.Committed,
	)
	return responseFromTurn(turn), nil
}

// ListReservations returns the owner's booked intervals, or an empty list
// when none exist or the store is unavailable.
func (s *TurnService) ListReservations(ctx context.Context, ownerID string) []reservation.BookedInterval {
	list, err := s.ledger.List(ctx, ownerID)
	if err != nil {
		s.logger.Warn("failed to list reservations", "owner_id", ownerID, "error", err)
		return []reservation.BookedInterval{}
	}
	if list == nil {
		return []reservation.BookedInterval{}
	}
	return list
}

func responseFromTurn(turn reservation.Turn) *Response {
	return &Response{
		Reservation:         turn.Draft,
		Messages:            append([]string{}, turn.Prompts...),
		NeedsInfo:           turn.NeedsInfo(),
		MissingField:        turn.MissingField,
		ReservationComplete: turn.Committed,
		Success:             true,
		State:               turn.State,
	}
}

func (s *TurnService) observe(channel Channel, turn reservation.Turn) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveTurn(string(channel), string(turn.State))
	if turn.Rejection != "" {
		s.observer.ObserveRejection(turn.Rejection)
	}
	if turn.Committed {
		s.observer.ObserveCommit(string(channel))
	}
}

func (s *TurnService) observeTurn(channel Channel, state string) {
	if s.observer != nil {
		s.observer.ObserveTurn(string(channel), state)
	}
}
