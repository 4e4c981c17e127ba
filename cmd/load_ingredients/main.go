// Command load_ingredients fills the ingredient reference from a CSV
// (name,measurement_unit per row) or JSON file. Rows that already exist
// are skipped, so the command can be re-run safely.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/repository"
)

func main() {
	file := flag.String("file", "data/ingredients.csv", "path to .csv or .json file")
	batch := flag.Int("batch", 500, "insert batch size")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("", "info", os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel, os.Stdout)

	items, err := ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read ingredients")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	inserted, err := repository.NewIngredientRepository(db).BulkInsertIgnore(ctx, items, *batch)
	if err != nil {
		log.Fatal().Err(err).Msg("insert ingredients")
	}
	log.Info().
		Int("read", len(items)).
		Int64("inserted", inserted).
		Int("skipped", len(items)-int(inserted)).
		Msg("Successfully loaded ingredients")
}
