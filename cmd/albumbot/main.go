package main

import (
	"fmt"
	"log"

	"albumbot/core/cmd"
	"albumbot/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// Local development keeps the token in a .env file; missing file is fine.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("albumbot: %v", err)
	}
}
