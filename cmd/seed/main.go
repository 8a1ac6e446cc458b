package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/config"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/seed"
	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	days := flag.Int("days", 7, "number of trailing days to generate, ending today (UTC)")
	leads := flag.Int("leads", 200, "leads per day")
	reset := flag.Bool("reset", false, "truncate the tables before writing")
	seedValue := flag.Int64("seed", 0, "random seed, 0 for time based")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	registry, err := hours.Load(cfg.HoursConfig, cfg.WallClock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load operating hours")
	}

	dynamoCfg := storage.LoadDynamoConfig()
	if dynamoCfg.Mode == storage.DynamoModeMemory {
		log.Fatal().Msg("DYNAMO_MODE=memory keeps nothing after exit, set DYNAMO_MODE=local")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := storage.NewStore(ctx, dynamoCfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store")
	}

	genCfg := seed.DefaultConfig()
	genCfg.LeadsPerDay = *leads
	genCfg.Seed = *seedValue

	today := time.Now().UTC()
	rng, err := types.NewDayRange(today.AddDate(0, 0, -(*days-1)), today)
	if err != nil {
		log.Fatal().Err(err).Int("days", *days).Msg("invalid day count")
	}

	seeder := seed.NewSeeder(store, seed.NewGenerator(registry, genCfg), log.Logger)
	if _, err := seeder.Seed(ctx, rng, *reset); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
