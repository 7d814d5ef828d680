package main

import (
	"context"

	"github.com/roomiapp/roomi-engine/internal/app"
	"github.com/roomiapp/roomi-engine/internal/cache"
	"github.com/roomiapp/roomi-engine/internal/config"
	"github.com/roomiapp/roomi-engine/internal/db"
	"github.com/roomiapp/roomi-engine/internal/logger"
	"github.com/roomiapp/roomi-engine/internal/server"
	"github.com/roomiapp/roomi-engine/internal/service/discovery"
	"github.com/roomiapp/roomi-engine/internal/service/match"
	"github.com/roomiapp/roomi-engine/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject shared deps into app context
	appCtx := app.New(cfg, database, redisCache, log)

	registrars := []server.Registrar{
		profile.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
