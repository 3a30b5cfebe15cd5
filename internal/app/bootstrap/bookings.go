package bootstrap

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/wolfman30/reservation-assistant/internal/bookings"
	appconfig "github.com/wolfman30/reservation-assistant/internal/config"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// Booking store kinds accepted in BOOKING_STORE.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// BuildBookingStore selects the booked-list store named by cfg.BookingStore.
// The returned cleanup releases its connections.
func BuildBookingStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (bookings.Store, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch cfg.BookingStore {
	case "", StoreMemory:
		logger.Info("using in-memory booking store")
		return bookings.NewMemoryStore(), noop, nil
	case StoreRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, noop, fmt.Errorf("bootstrap: redis booking store unavailable at %q", cfg.RedisAddr)
		}
		logger.Info("using redis booking store", "addr", cfg.RedisAddr, "ttl", cfg.BookingTTL)
		store := bookings.NewRedisStore(client, cfg.BookingTTL, otel.Tracer("reservation.internal.bookings.redis"))
		return store, func() { _ = client.Close() }, nil
	case StorePostgres:
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, noop, err
		}
		if pool == nil {
			return nil, noop, fmt.Errorf("bootstrap: DATABASE_URL required for postgres booking store")
		}
		logger.Info("using postgres booking store")
		return bookings.NewRepository(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown booking store %q", cfg.BookingStore)
	}
}
