package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/liftledger/liftledger/internal/cli"
	"github.com/liftledger/liftledger/internal/cliconfig"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (defaults to "+cliconfig.DefaultPath()+")")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	app := &cli.App{
		ConfigPath: *configPath,
		Out:        os.Stdout,
		Err:        os.Stderr,
		Logger:     logger,
	}

	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "liftledger: %v\n", err)
		return 1
	}
	return 0
}
