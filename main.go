package main

import (
	"os"
	"time"

	"vouchbot/internal/bot"
	"vouchbot/internal/common"
	"vouchbot/internal/config"
	"vouchbot/internal/ledger"
	"vouchbot/internal/render"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Configuration: a missing token stops the process here
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration is not valid")
	}

	// Ledger: a corrupt file stops startup instead of silently
	// discarding the records
	store, err := ledger.Load(cfg.LedgerFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load the vouch ledger")
	}

	// Renderer, with a gentle limit on avatar fetches
	proxy := common.NewProxy(nil, []common.Restriction{
		{Requests: 20, Duration: 10 * time.Second},
	})
	renderer := render.NewRenderer(&proxy)

	// Run bot
	if err := bot.New(cfg, store, renderer).Run(); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped with an error")
	}
}
