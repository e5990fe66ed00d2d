package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Configuration struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	Database struct {
		Address      string `envconfig:"MONGO_ADDRESS"`
		DatabaseName string `envconfig:"MONGO_DATABASE"`
		Collection   string `envconfig:"MONGO_COLLECTION"`
	}
	RemoteEngine struct {
		URL       string `envconfig:"REMOTE_ENGINE_URL"`
		Token     string `envconfig:"REMOTE_ENGINE_TOKEN"`
		TimeoutMs int    `envconfig:"REMOTE_ENGINE_TIMEOUT_MS" default:"3000"`
		Retries   int    `envconfig:"REMOTE_ENGINE_RETRIES" default:"2"`
	}
	Stockfish struct {
		Path string   `envconfig:"STOCKFISH_PATH"`
		Args []string `envconfig:"STOCKFISH_ARGS"`
	}
	Engine struct {
		Seed                int64 `envconfig:"ENGINE_SEED" default:"1"`
		DefaultTimeBudgetMs int   `envconfig:"ENGINE_DEFAULT_TIME_BUDGET_MS" default:"2000"`
	}
}

func InitConfig() (*Configuration, error) {
	var cfg Configuration
	err := envconfig.Process("", &cfg)
	return &cfg, err
}
