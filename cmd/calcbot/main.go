package main

import (
	"context"
	"log"

	"github.com/m3rciful/calcbot/bot"
	"github.com/m3rciful/calcbot/core/bootstrap"
	corecmd "github.com/m3rciful/calcbot/core/cmd"
	coreconfig "github.com/m3rciful/calcbot/core/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return coreconfig.Load(path)
		},
		Bootstrap: func(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.CoreConfig()
			infra, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			app, err := bot.New(cfg, infra)
			if err != nil {
				_ = infra.Close()
				return nil, err
			}
			return app, nil
		},
	})
	if err != nil {
		log.Fatalf("calcbot: %v", err)
	}
}
