package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/reservation-assistant/internal/bookings"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

var wednesday = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

const bookJohn = "Book John tomorrow at 3pm"

// scripted recognises a fixed set of utterances and nothing else.
var scripted = reservation.RecognizerFunc(func(_ context.Context, text string) ([]reservation.Entity, error) {
	switch text {
	case bookJohn:
		return []reservation.Entity{
			{Label: reservation.LabelPerson, Text: "John"},
			{Label: reservation.LabelDate, Text: "tomorrow"},
			{Label: reservation.LabelTime, Text: "3pm"},
		}, nil
	case "John tomorrow at 6pm":
		return []reservation.Entity{
			{Label: reservation.LabelPerson, Text: "John"},
			{Label: reservation.LabelDate, Text: "tomorrow"},
			{Label: reservation.LabelTime, Text: "6pm"},
		}, nil
	}
	return nil, nil
})

func newTestEngine() *reservation.Engine {
	return reservation.NewEngine(scripted,
		reservation.WithClock(func() time.Time { return wednesday }),
		reservation.WithLocation(time.UTC),
		reservation.WithLogger(logging.Discard()),
	)
}

func newMemoryLedger() *bookings.Service {
	return bookings.NewService(bookings.NewMemoryStore(), logging.Discard(), nil)
}

type recordingObserver struct {
	mu         sync.Mutex
	turns      []string
	commits    []string
	rejections []string
}

func (o *recordingObserver) ObserveTurn(channel, state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.turns = append(o.turns, channel+":"+state)
}

func (o *recordingObserver) ObserveCommit(channel string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.commits = append(o.commits, channel)
}

func (o *recordingObserver) ObserveRejection(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejections = append(o.rejections, reason)
}

var errStoreDown = errors.New("store down")

// brokenLedger fails the operations it is told to fail.
type brokenLedger struct {
	failList    bool
	failConfirm bool
	confirmed   []reservation.BookedInterval
}

func (l *brokenLedger) List(context.Context, string) ([]reservation.BookedInterval, error) {
	if l.failList {
		return nil, errStoreDown
	}
	return nil, nil
}

func (l *brokenLedger) Confirm(_ context.Context, _ string, interval reservation.BookedInterval) (reservation.BookedInterval, error) {
	if l.failConfirm {
		return reservation.BookedInterval{}, errStoreDown
	}
	l.confirmed = append(l.confirmed, interval)
	return interval, nil
}
