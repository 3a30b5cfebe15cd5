package bootstrap

import (
	"context"
	"fmt"
	"io"

	appconfig "github.com/wolfman30/reservation-assistant/internal/config"
	"github.com/wolfman30/reservation-assistant/internal/nlp"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// BuildPolicy reads the working-hours window from configuration.
func BuildPolicy(cfg *appconfig.Config) (reservation.Policy, error) {
	start, err := reservation.ParseClockValue(cfg.WorkdayStart)
	if err != nil {
		return reservation.Policy{}, fmt.Errorf("bootstrap: WORKDAY_START: %w", err)
	}
	end, err := reservation.ParseClockValue(cfg.WorkdayEnd)
	if err != nil {
		return reservation.Policy{}, fmt.Errorf("bootstrap: WORKDAY_END: %w", err)
	}
	if end <= start {
		return reservation.Policy{}, fmt.Errorf("bootstrap: working hours %s-%s are empty", start, end)
	}
	return reservation.Policy{WorkdayStart: start, WorkdayEnd: end}, nil
}

// BuildEngine wires the configured recognizer into a reservation engine.
// Extra options are applied last, so callers can pin the clock in tests.
// The returned closer releases the recognizer's model client.
func BuildEngine(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, observer nlp.RecognitionObserver, extra ...reservation.Option) (*reservation.Engine, io.Closer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	policy, err := BuildPolicy(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AppointmentDuration <= 0 {
		return nil, nil, fmt.Errorf("bootstrap: APPOINTMENT_DURATION must be positive, got %s", cfg.AppointmentDuration)
	}

	recognizer, closer, err := nlp.New(ctx, nlp.Options{
		Kind:          cfg.Recognizer,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModelID: cfg.GeminiModelID,
		Logger:        logger,
		Observer:      observer,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("entity recognizer ready", "recognizer", cfg.Recognizer)

	opts := []reservation.Option{
		reservation.WithPolicy(policy),
		reservation.WithDuration(cfg.AppointmentDuration),
		reservation.WithTitleSuffix(cfg.TitleSuffix),
		reservation.WithLogger(logger),
	}
	opts = append(opts, extra...)
	return reservation.NewEngine(recognizer, opts...), closer, nil
}
