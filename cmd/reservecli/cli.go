package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/wolfman30/reservation-assistant/internal/app/bootstrap"
	"github.com/wolfman30/reservation-assistant/internal/bookings"
	appconfig "github.com/wolfman30/reservation-assistant/internal/config"
	"github.com/wolfman30/reservation-assistant/internal/conversation"
	"github.com/wolfman30/reservation-assistant/internal/nlp"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

const defaultOwner = "cli"

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *appconfig.Config, logger *logging.Logger) *cli.App {
	app := &cli.App{
		Name:    "reservecli",
		Usage:   "Book appointments from free-form text",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "recognizer", Aliases: []string{"r"}, Value: cfg.Recognizer, Usage: "Entity recognizer: rules|prose|gemini"},
			&cli.StringFlag{Name: "now", Usage: "Reference instant for relative dates (RFC 3339)"},
		},
		Commands: []*cli.Command{
			extractCmd(cfg, logger),
			chatCmd(cfg, logger),
			listCmd(cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// extractCmd creates the extract command.
func extractCmd(cfg *appconfig.Config, logger *logging.Logger) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Print the entities and draft extracted from one message",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				line, err := readLine(c.App.Reader)
				if err != nil {
					return cli.Exit("reservation details are required", 1)
				}
				text = line
			}

			local := withRecognizer(cfg, c.String("recognizer"))
			recognizer, closer, err := nlp.New(c.Context, nlp.Options{
				Kind:          local.Recognizer,
				GeminiAPIKey:  local.GeminiAPIKey,
				GeminiModelID: local.GeminiModelID,
				Logger:        logger,
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer closer.Close()

			entities, err := recognizer.Recognize(c.Context, text)
			if err != nil {
				logger.Warn("entity recognition failed", "error", err)
			}

			engine, engineCloser, err := buildEngine(c, local, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer engineCloser.Close()

			return outputJSON(c.App.Writer, extractOutput{
				Name:        lastSpan(entities, reservation.LabelPerson),
				Date:        lastSpan(entities, reservation.LabelDate),
				Time:        lastSpan(entities, reservation.LabelTime),
				Reservation: engine.ExtractAndMerge(c.Context, text, nil),
			})
		},
	}
}

// chatCmd creates the interactive chat command.
func chatCmd(cfg *appconfig.Config, logger *logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Hold a multi-turn booking conversation (type quit to leave)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: defaultOwner, Usage: "Owner whose calendar is booked"},
		},
		Action: func(c *cli.Context) error {
			local := withRecognizer(cfg, c.String("recognizer"))
			engine, closer, err := buildEngine(c, local, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer closer.Close()

			store, cleanup, err := bootstrap.BuildBookingStore(c.Context, local, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer cleanup()

			service := conversation.NewTurnService(engine, bookings.NewService(store, logger, nil), logger, nil)
			session := conversation.NewSession(service, c.String("owner"), conversation.ChannelCLI)
			return runChat(c, session)
		},
	}
}

// listCmd creates the list command.
func listCmd(cfg *appconfig.Config, logger *logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print an owner's booked reservations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: defaultOwner, Usage: "Owner whose calendar is listed"},
		},
		Action: func(c *cli.Context) error {
			store, cleanup, err := bootstrap.BuildBookingStore(c.Context, cfg, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer cleanup()

			list, err := bookings.NewService(store, logger, nil).List(c.Context, c.String("owner"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if list == nil {
				list = []reservation.BookedInterval{}
			}
			return outputJSON(c.App.Writer, list)
		},
	}
}

type extractOutput struct {
	Name        *string           `json:"name"`
	Date        *string           `json:"date"`
	Time        *string           `json:"time"`
	Reservation reservation.Draft `json:"reservation"`
}

func runChat(c *cli.Context, session *conversation.Session) error {
	out := c.App.Writer
	fmt.Fprintln(out, "Bot: Hi! Tell me who the appointment is for and when.")

	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "":
			continue
		case "quit", "exit":
			fmt.Fprintln(out, "Bot: Goodbye!")
			return nil
		case "reset":
			session.Reset()
			fmt.Fprintln(out, "Bot: Starting over.")
			continue
		}

		resp, err := session.Send(c.Context, text)
		if err != nil {
			resp = conversation.ErrorResponse()
		}
		for _, msg := range resp.Messages {
			fmt.Fprintf(out, "Bot: %s\n", msg)
		}
	}
}

func buildEngine(c *cli.Context, cfg *appconfig.Config, logger *logging.Logger) (*reservation.Engine, io.Closer, error) {
	var extra []reservation.Option
	if raw := c.String("now"); raw != "" {
		now, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --now %q: %w", raw, err)
		}
		extra = append(extra,
			reservation.WithClock(func() time.Time { return now }),
			reservation.WithLocation(now.Location()),
		)
	}
	return bootstrap.BuildEngine(c.Context, cfg, logger, nil, extra...)
}

func withRecognizer(cfg *appconfig.Config, kind string) *appconfig.Config {
	local := *cfg
	if kind != "" {
		local.Recognizer = strings.ToLower(strings.TrimSpace(kind))
	}
	return &local
}

func lastSpan(entities []reservation.Entity, label reservation.Label) *string {
	var out *string
	for _, e := range entities {
		if e.Label == label {
			text := e.Text
			out = &text
		}
	}
	return out
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return "", io.EOF
	}
	return line, nil
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
