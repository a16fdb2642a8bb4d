package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"charmi-backend/internal/domains/location/model"
	"charmi-backend/pkg/database"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) RepositoryInterface {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	query := `SELECT id, name FROM countries WHERE id = $1`

	var c model.Country
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get country %d: %w", id, err)
	}
	return &c, nil
}

func (r *postgresRepository) GetCity(ctx context.Context, id int64) (*model.City, error) {
	query := `SELECT id, name, country_id FROM cities WHERE id = $1`

	var c model.City
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CountryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get city %d: %w", id, err)
	}
	return &c, nil
}

func (r *postgresRepository) GetDistrict(ctx context.Context, id int64) (*model.District, error) {
	query := `SELECT id, district_name, city_id FROM districts WHERE id = $1`

	var d model.District
	err := r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.DistrictName, &d.CityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get district %d: %w", id, err)
	}
	return &d, nil
}

func (r *postgresRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM countries ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	if err != nil {
		return nil, fmt.Errorf("scan countries: %w", err)
	}
	return countries, nil
}

func (r *postgresRepository) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, country_id FROM cities ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	cities, err := pgx.CollectRows(rows, scanCity)
	if err != nil {
		return nil, fmt.Errorf("scan cities: %w", err)
	}
	return cities, nil
}

func (r *postgresRepository) ListCitiesByCountry(ctx context.Context, countryID int64) ([]model.City, error) {
	query := `
		SELECT id, name, country_id
		FROM cities
		WHERE country_id = $1
		ORDER BY name, id
	`
	rows, err := r.db.Query(ctx, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("list cities of country %d: %w", countryID, err)
	}
	cities, err := pgx.CollectRows(rows, scanCity)
	if err != nil {
		return nil, fmt.Errorf("scan cities: %w", err)
	}
	return cities, nil
}

func (r *postgresRepository) ListDistrictsByCity(ctx context.Context, cityID int64) ([]model.District, error) {
	query := `
		SELECT id, district_name, city_id
		FROM districts
		WHERE city_id = $1
		ORDER BY district_name, id
	`
	rows, err := r.db.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("list districts of city %d: %w", cityID, err)
	}
	districts, err := pgx.CollectRows(rows, scanDistrict)
	if err != nil {
		return nil, fmt.Errorf("scan districts: %w", err)
	}
	return districts, nil
}

func scanCountry(row pgx.CollectableRow) (model.Country, error) {
	var c model.Country
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

func scanCity(row pgx.CollectableRow) (model.City, error) {
	var c model.City
	err := row.Scan(&c.ID, &c.Name, &c.CountryID)
	return c, err
}

func scanDistrict(row pgx.CollectableRow) (model.District, error) {
	var d model.District
	err := row.Scan(&d.ID, &d.DistrictName, &d.CityID)
	return d, err
}

// resolveQuery joins every requested triple against the three tables at once.
// LEFT JOINs keep a row per input so missing ids come back as NULLs.
const resolveQuery = `
	SELECT q.ord,
	       co.id, co.name,
	       ci.id, ci.name, ci.country_id,
	       d.id, d.district_name, d.city_id
	FROM unnest($1::bigint[], $2::bigint[], $3::bigint[]) WITH ORDINALITY AS q(country_id, city_id, district_id, ord)
	LEFT JOIN countries co ON co.id = q.country_id
	LEFT JOIN cities ci ON ci.id = q.city_id
	LEFT JOIN districts d ON d.id = q.district_id
	ORDER BY q.ord
`

func (r *postgresRepository) Resolve(ctx context.Context, triples []model.Triple) ([]model.Resolution, error) {
	if len(triples) == 0 {
		return []model.Resolution{}, nil
	}

	countryIDs := make([]int64, len(triples))
	cityIDs := make([]int64, len(triples))
	districtIDs := make([]int64, len(triples))
	for i, t := range triples {
		countryIDs[i] = t.CountryID
		cityIDs[i] = t.CityID
		districtIDs[i] = t.DistrictID
	}

	rows, err := r.db.Query(ctx, resolveQuery, countryIDs, cityIDs, districtIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve locations: %w", err)
	}
	defer rows.Close()

	out := make([]model.Resolution, 0, len(triples))
	for rows.Next() {
		var ord int64
		var countryID, cityID, distID, cityCountryID, distCityID *int64
		var countryName, cityName, distName *string
		if err := rows.Scan(&ord,
			&countryID, &countryName,
			&cityID, &cityName, &cityCountryID,
			&distID, &distName, &distCityID,
		); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		if ord < 1 || int(ord) > len(triples) {
			return nil, fmt.Errorf("resolve locations: unexpected ordinal %d", ord)
		}

		res := model.Resolution{Triple: triples[ord-1]}
		if countryID != nil {
			res.Country = &model.Country{ID: *countryID, Name: *countryName}
		}
		if cityID != nil {
			res.City = &model.City{ID: *cityID, Name: *cityName, CountryID: *cityCountryID}
		}
		if distID != nil {
			res.District = &model.District{ID: *distID, DistrictName: *distName, CityID: *distCityID}
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolution: %w", err)
	}

	return out, nil
}
