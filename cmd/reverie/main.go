package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/reveriehq/reverie/internal/client/cli"
	"github.com/reveriehq/reverie/internal/client/config"
	"github.com/reveriehq/reverie/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
