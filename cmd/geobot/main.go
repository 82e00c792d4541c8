package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"geobot/internal/bot"
	"geobot/internal/config"
	"geobot/internal/geocode"
	"geobot/internal/logger"
	"geobot/internal/session"
	"geobot/internal/storage"
	"log/slog"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}

	client, err := storage.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	sessions := session.NewRedisStore(client)
	geo := geocode.NewClient(cfg.Nominatim)

	b, err := bot.New(cfg, sessions, geo)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.L.Info("geobot ready",
		slog.String("event", "ready"),
		slog.String("run_mode", cfg.Telegram.RunMode),
	)
	return b.Run(ctx)
}
