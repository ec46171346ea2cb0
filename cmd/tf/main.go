package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskflow/internal/cli"
	"taskflow/internal/config"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Cancel in-flight store calls and the watch view on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cfg, OpenAPI)
	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
