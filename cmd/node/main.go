package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rodneyosodo/fedmean/node"
	"github.com/rodneyosodo/fedmean/pkg/mqtt"
)

const (
	svcName = "node"
	pathEnv = ".env"
)

type envConfig struct {
	LogLevel         string        `env:"NODE_LOG_LEVEL"         envDefault:"info"`
	MQTTAddress      string        `env:"NODE_MQTT_ADDRESS"      envDefault:"tcp://localhost:1883"`
	MQTTQoS          uint8         `env:"NODE_MQTT_QOS"          envDefault:"2"`
	MQTTTimeout      time.Duration `env:"NODE_MQTT_TIMEOUT"      envDefault:"30s"`
	ClientID         string        `env:"NODE_CLIENT_ID"`
	ClientKey        string        `env:"NODE_CLIENT_KEY"`
	ChannelID        string        `env:"NODE_CHANNEL_ID"`
	OrgID            string        `env:"NODE_ORG_ID"`
	OrgName          string        `env:"NODE_ORG_NAME"`
	DatasetPath      string        `env:"NODE_DATASET_PATH"      envDefault:"dataset.csv"`
	LivenessInterval time.Duration `env:"NODE_LIVENESS_INTERVAL" envDefault:"10s"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.OrgID == "" {
		cfg.OrgID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	if _, err := os.Stat(cfg.DatasetPath); err != nil {
		logger.Error("failed to find dataset file", slog.String("path", cfg.DatasetPath), slog.String("error", err.Error()))

		return
	}

	mqttPubSub, err := mqtt.NewPubSub(cfg.MQTTAddress, cfg.MQTTQoS, cfg.OrgID, cfg.ClientID, cfg.ClientKey, cfg.ChannelID, cfg.MQTTTimeout, logger)
	if err != nil {
		logger.Error("failed to initialize mqtt pubsub", slog.String("error", err.Error()))

		return
	}

	svc, err := node.NewService(ctx, cfg.ChannelID, cfg.OrgID, cfg.OrgName, cfg.LivenessInterval, mqttPubSub, node.NewCSVSource(cfg.DatasetPath), logger)
	if err != nil {
		logger.Error("failed to initialize node service", slog.String("error", err.Error()))

		return
	}

	g.Go(func() error {
		return svc.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}
