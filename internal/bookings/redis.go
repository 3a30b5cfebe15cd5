package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

// DefaultTTL is how long an owner's booked list survives without new commits.
const DefaultTTL = 30 * 24 * time.Hour

// RedisStore keeps each owner's booked list as a Redis list of JSON records.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed store. A zero ttl keeps lists forever.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("bookings: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("reservation.internal.bookings.redis")
	}
	return &RedisStore{redis: client, ttl: ttl, tracer: tracer}
}

func (s *RedisStore) List(ctx context.Context, owner string) ([]reservation.BookedInterval, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "bookings.redis.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, bookingsKey(owner), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: failed to load booked list: %w", err)
	}

	out := make([]reservation.BookedInterval, 0, len(raw))
	for _, item := range raw {
		var interval reservation.BookedInterval
		if err := json.Unmarshal([]byte(item), &interval); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("bookings: failed to decode booked interval: %w", err)
		}
		out = append(out, interval)
	}
	return out, nil
}

func (s *RedisStore) Append(ctx context.Context, owner string, interval reservation.BookedInterval) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	ctx, span := s.tracer.Start(ctx, "bookings.redis.append")
	defer span.End()

	data, err := json.Marshal(interval)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookings: failed to marshal booked interval: %w", err)
	}

	key := bookingsKey(owner)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookings: failed to persist booked interval: %w", err)
	}
	return nil
}

func bookingsKey(owner string) string {
	return fmt.Sprintf("bookings:%s", owner)
}

var _ Store = (*RedisStore)(nil)
