package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/usaidgithub/QuickShare/internal/infrastructure/configs"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/env"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/jobs"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/ratelimiter"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/registry"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/storage"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/tracing"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/ws"
	"github.com/usaidgithub/QuickShare/internal/presentation/api"
	"github.com/usaidgithub/QuickShare/internal/presentation/handler/files"
	"github.com/usaidgithub/QuickShare/internal/presentation/handler/health"
	"github.com/usaidgithub/QuickShare/internal/presentation/handler/rooms"
	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Environment: env.GetString("ENVIRONMENT", "development"),
			Endpoint:    cfg.Tracing.Endpoint,
		})
		if err != nil {
			logger.Fatalw("failed to init tracing", "error", err)
		}
		defer shutdownTracer(context.Background())
	}

	store, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxFileSize, cfg.Upload.Retention, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	reg := registry.New()
	roomMgr := ws.NewRoomManager(cfg.HTTP.AllowedOrigins, logger)
	core := ws.NewCore(reg, roomMgr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go core.Run(ctx)

	sweep := jobs.NewArtifactSweepJob(store, logger, cfg.Upload.CleanupInterval)
	go sweep.Start(ctx)

	roomHandler := rooms.NewHandler(core, roomMgr)
	filesHandler := files.NewHandler(store, core, cfg.HTTP.PublicURL, cfg.Upload.MaxFileSize, logger)
	healthHandler := health.NewHandler()

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, *roomHandler, *filesHandler, *healthHandler, logger, rateLimiter)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
