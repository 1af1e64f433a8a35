// Command keepalive pings a deployed Luna server so its host does not put it
// to sleep.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"luna_chat/src/keepalive"
	"luna_chat/src/logger"
	"luna_chat/src/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type config struct {
	Log       model.LogConfig       `envconfig:""`
	KeepAlive model.KeepAliveConfig `envconfig:""`
	AppURL    string                `envconfig:"APP_URL" default:"http://localhost:3000"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	if cfg.KeepAlive.URL == "" {
		cfg.KeepAlive.URL = cfg.AppURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keepalive.NewPinger(cfg.KeepAlive).Run(ctx, 0)
}
