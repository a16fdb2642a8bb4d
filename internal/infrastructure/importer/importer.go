package importer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"charmi-backend/pkg/database"
)

const (
	upsertCountrySQL = `
		INSERT INTO countries (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	upsertCitySQL = `
		INSERT INTO cities (id, name, country_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, country_id = EXCLUDED.country_id`

	upsertDistrictSQL = `
		INSERT INTO districts (id, district_name, city_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET district_name = EXCLUDED.district_name, city_id = EXCLUDED.city_id`

	// Ids come from the workbook, so the serial sequences have to catch up.
	resetSequencesSQL = `
		SELECT setval(pg_get_serial_sequence('countries', 'id'), COALESCE((SELECT MAX(id) FROM countries), 1));
		SELECT setval(pg_get_serial_sequence('cities', 'id'), COALESCE((SELECT MAX(id) FROM cities), 1));
		SELECT setval(pg_get_serial_sequence('districts', 'id'), COALESCE((SELECT MAX(id) FROM districts), 1));`
)

type Counts struct {
	Countries int `json:"countries"`
	Cities    int `json:"cities"`
	Districts int `json:"districts"`
}

// Import upserts the whole dataset in one transaction. Nothing is written if any row fails.
func Import(ctx context.Context, db database.DBTX, ds *Dataset) (Counts, error) {
	counts := Counts{
		Countries: len(ds.Countries),
		Cities:    len(ds.Cities),
		Districts: len(ds.Districts),
	}

	err := database.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range ds.Countries {
			batch.Queue(upsertCountrySQL, c.ID, c.Name)
		}
		for _, c := range ds.Cities {
			batch.Queue(upsertCitySQL, c.ID, c.Name, c.CountryID)
		}
		for _, d := range ds.Districts {
			batch.Queue(upsertDistrictSQL, d.ID, d.DistrictName, d.CityID)
		}

		if err := execBatch(ctx, tx, batch, counts); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, resetSequencesSQL); err != nil {
			return fmt.Errorf("reset location sequences: %w", err)
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}

	log.Info().
		Int("countries", counts.Countries).
		Int("cities", counts.Cities).
		Int("districts", counts.Districts).
		Msg("location data imported")
	return counts, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, counts Counts) error {
	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert %s: %w", describe(i, counts), err)
		}
	}
	return nil
}

// describe maps a batch position back to the sheet row it came from.
func describe(i int, counts Counts) string {
	switch {
	case i < counts.Countries:
		return fmt.Sprintf("country %d", i+1)
	case i < counts.Countries+counts.Cities:
		return fmt.Sprintf("city %d", i-counts.Countries+1)
	default:
		return fmt.Sprintf("district %d", i-counts.Countries-counts.Cities+1)
	}
}
