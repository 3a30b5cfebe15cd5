// Package bookings persists each owner's committed reservations and serves
// them back for overlap checks and listing.
package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

// ErrOwnerRequired is returned when a store call has no owner to scope to.
var ErrOwnerRequired = errors.New("bookings: owner id required")

// Store holds the ordered booked list of every owner.
type Store interface {
	// List returns the owner's intervals in commit order. An unknown owner
	// has an empty list.
	List(ctx context.Context, owner string) ([]reservation.BookedInterval, error)
	// Append adds one interval to the end of the owner's list.
	Append(ctx context.Context, owner string, interval reservation.BookedInterval) error
}

func checkOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return ErrOwnerRequired
	}
	return nil
}
