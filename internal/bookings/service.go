package bookings

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

var bookingsTracer = otel.Tracer("reservation.internal.bookings")

// OpObserver receives one observation per store operation.
type OpObserver interface {
	ObserveStoreOp(operation string, err error)
}

// Service fronts a Store with tracing, logging and metrics.
type Service struct {
	store    Store
	logger   *logging.Logger
	observer OpObserver
}

// NewService constructs a bookings service.
func NewService(store Store, logger *logging.Logger, observer OpObserver) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, logger: logger, observer: observer}
}

// List returns the owner's booked list.
func (s *Service) List(ctx context.Context, owner string) ([]reservation.BookedInterval, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.list")
	defer span.End()
	span.SetAttributes(attribute.String("reservation.owner_id", owner))

	list, err := s.store.List(ctx, owner)
	s.observe("list", err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("reservation.booked_count", len(list)))
	return list, nil
}

// Confirm appends a committed interval to the owner's list, assigning an id
// when it has none, and returns the stored record.
func (s *Service) Confirm(ctx context.Context, owner string, interval reservation.BookedInterval) (reservation.BookedInterval, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("reservation.owner_id", owner))

	if interval.ID == "" {
		interval.ID = uuid.NewString()
	}
	err := s.store.Append(ctx, owner, interval)
	s.observe("append", err)
	if err != nil {
		span.RecordError(err)
		return reservation.BookedInterval{}, err
	}
	s.logger.Info("booking confirmed", "owner_id", owner, "booking_id", interval.ID, "start", interval.Start, "end", interval.End)
	return interval, nil
}

func (s *Service) observe(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveStoreOp(op, err)
	}
}
