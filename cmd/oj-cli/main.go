package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"judgetools/cmd/oj-cli/commands"
	"judgetools/lib/telemetry"
)

func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func main() {
	ctx := signalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "oj-cli")
	if err != nil {
		slog.Warn("failed to set up telemetry", "err", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
