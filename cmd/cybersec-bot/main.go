package main

import (
	"telegram-cybersec-bot/internal/app"
	"telegram-cybersec-bot/internal/logging"
)

func main() {
	application, err := app.New()
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("startup failed")
	}
	if err := application.Run(); err != nil {
		logging.Log.Fatal().Err(err).Msg("run failed")
	}
}
