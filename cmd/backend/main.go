package main

import (
	"log"
	"time"

	"github.com/chesscoach/cpu-engine-backend/internal/api"
	"github.com/chesscoach/cpu-engine-backend/internal/coach"
	"github.com/chesscoach/cpu-engine-backend/internal/config"
	"github.com/chesscoach/cpu-engine-backend/internal/dao"
	"github.com/chesscoach/cpu-engine-backend/internal/db"
	"github.com/chesscoach/cpu-engine-backend/pkg/engine"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}

	var telemetryRepo dao.TelemetryRepository
	if cfg.Database.Address != "" {
		dbClient, err := db.NewDbClient(cfg)
		if err != nil {
			panic(err)
		}
		defer dbClient.Close()
		telemetryRepo = dao.NewTelemetryRepository(dbClient)
	} else {
		log.Println("no mongo address configured, telemetry persistence disabled")
	}

	var provider engine.Provider
	switch {
	case cfg.RemoteEngine.URL != "":
		provider = engine.NewRemoteEngineClient(
			cfg.RemoteEngine.URL,
			cfg.RemoteEngine.Token,
			time.Duration(cfg.RemoteEngine.TimeoutMs)*time.Millisecond,
			cfg.RemoteEngine.Retries,
		)
		log.Println("using remote engine at", cfg.RemoteEngine.URL)
	case cfg.Stockfish.Path != "":
		uciProvider, err := engine.NewUCIEngineProvider(cfg.Stockfish.Path, cfg.Stockfish.Args...)
		if err != nil {
			panic(err)
		}
		defer uciProvider.Close()
		provider = uciProvider
		log.Println("using local UCI engine at", cfg.Stockfish.Path)
	default:
		log.Println("no engine provider configured, serving local search only")
	}

	var sink coach.TelemetrySink
	if telemetryRepo != nil {
		sink = telemetryRepo
	}
	service := coach.NewMoveService(provider, sink, cfg.Engine.Seed)
	moveApi := api.NewMoveApi(service, telemetryRepo)

	router := api.NewRouter(moveApi)
	if err := router.Run(cfg.Server.Host + ":" + cfg.Server.Port); err != nil {
		panic(err)
	}
}
