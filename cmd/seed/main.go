package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/FinalGun/foodgram/config"
	"github.com/FinalGun/foodgram/internal/database"
	"github.com/FinalGun/foodgram/internal/models"
)

type tagSeed struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ingredientSeed struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Loads reference data (tags and ingredients) from JSON files. Existing
// rows are left untouched, so the command is safe to re-run.
func main() {
	tagsPath := flag.String("tags", "", "path to a JSON file of tags")
	ingredientsPath := flag.String("ingredients", "", "path to a JSON file of ingredients")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if *tagsPath == "" && *ingredientsPath == "" {
		log.Fatal().Msg("nothing to seed: pass -tags and/or -ingredients")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if *tagsPath != "" {
		var tags []tagSeed
		if err := readJSON(*tagsPath, &tags); err != nil {
			log.Fatal().Err(err).Str("path", *tagsPath).Msg("failed to read tags")
		}
		created := 0
		for _, t := range tags {
			res := db.Where(models.Tag{Slug: t.Slug}).
				FirstOrCreate(&models.Tag{Name: t.Name, Slug: t.Slug})
			if res.Error != nil {
				log.Fatal().Err(res.Error).Str("slug", t.Slug).Msg("failed to seed tag")
			}
			created += int(res.RowsAffected)
		}
		log.Info().Int("total", len(tags)).Int("created", created).Msg("tags seeded")
	}

	if *ingredientsPath != "" {
		var ingredients []ingredientSeed
		if err := readJSON(*ingredientsPath, &ingredients); err != nil {
			log.Fatal().Err(err).Str("path", *ingredientsPath).Msg("failed to read ingredients")
		}
		created := 0
		for _, ing := range ingredients {
			res := db.Where(models.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}).
				FirstOrCreate(&models.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit})
			if res.Error != nil {
				log.Fatal().Err(res.Error).Str("name", ing.Name).Msg("failed to seed ingredient")
			}
			created += int(res.RowsAffected)
		}
		log.Info().Int("total", len(ingredients)).Int("created", created).Msg("ingredients seeded")
	}
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
