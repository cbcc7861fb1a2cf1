// Package main is the entry point for pulsectl.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"country-pulse-service/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Stderr)
	stop()
	os.Exit(code)
}
