// Command reservecli drives the reservation engine from a terminal.
package main

import (
	"fmt"
	"os"

	appconfig "github.com/wolfman30/reservation-assistant/internal/config"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

// Version is set at build time.
var Version = "dev"

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)

	app := newCLIApp(cfg, logger)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
