package main

import (
	"context"

	"github.com/adanyl0v/smart-task/internal/app"
)

func main() {
	logger := app.NewDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustInitApplicationLogger(logger, cfg)

	ctx := context.Background()
	shutdownTracing := app.SetupTracing(ctx, logger, cfg.Tracing)
	defer func() { _ = shutdownTracing(context.Background()) }()

	store := app.MustOpenStorage(ctx, logger, cfg)
	defer app.CloseStorage(logger, store)

	app.MustListenAndServeHTTP(logger, cfg, store)
}
