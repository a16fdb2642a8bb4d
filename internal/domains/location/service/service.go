package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"charmi-backend/internal/domains/location/model"
	"charmi-backend/internal/domains/location/repository"
	"charmi-backend/internal/shared/metrics"
	"charmi-backend/pkg/cache"
)

const cachePrefix = "location:"

type locationService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	ttl   time.Duration
}

func NewLocationService(repo repository.RepositoryInterface, c cache.Cache, ttl time.Duration) ServiceInterface {
	if c == nil {
		c = cache.Noop{}
	}
	return &locationService{repo: repo, cache: c, ttl: ttl}
}

// cached is a read-through helper. Cache failures are logged and fall back to load;
// nil results are never cached so that missing ids keep reporting NotFound.
func cached[T any](ctx context.Context, s *locationService, key string, load func() (T, error)) (T, error) {
	var v T
	found, err := s.cache.Get(ctx, cachePrefix+key, &v)
	switch {
	case err != nil:
		metrics.LocationCacheLookups.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("location cache read failed")
	case found:
		metrics.LocationCacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	default:
		metrics.LocationCacheLookups.WithLabelValues("miss").Inc()
	}

	v, err = load()
	if err != nil {
		return v, err
	}

	if !isNil(v) {
		if err := s.cache.Set(ctx, cachePrefix+key, v, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("location cache write failed")
		}
	}
	return v, nil
}

func isNil(v any) bool {
	switch x := v.(type) {
	case *model.Country:
		return x == nil
	case *model.City:
		return x == nil
	case *model.District:
		return x == nil
	}
	return v == nil
}

func (s *locationService) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	c, err := cached(ctx, s, fmt.Sprintf("country:%d", id), func() (*model.Country, error) {
		return s.repo.GetCountry(ctx, id)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	if c == nil {
		return nil, model.NewCountryNotFound(id)
	}
	return c, nil
}

func (s *locationService) GetCity(ctx context.Context, id int64) (*model.City, error) {
	c, err := cached(ctx, s, fmt.Sprintf("city:%d", id), func() (*model.City, error) {
		return s.repo.GetCity(ctx, id)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	if c == nil {
		return nil, model.NewCityNotFound(id)
	}
	return c, nil
}

func (s *locationService) GetDistrict(ctx context.Context, id int64) (*model.District, error) {
	d, err := cached(ctx, s, fmt.Sprintf("district:%d", id), func() (*model.District, error) {
		return s.repo.GetDistrict(ctx, id)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	if d == nil {
		return nil, model.NewDistrictNotFound(id)
	}
	return d, nil
}

func (s *locationService) ListCountries(ctx context.Context) ([]model.Country, error) {
	countries, err := cached(ctx, s, "countries", func() ([]model.Country, error) {
		return s.repo.ListCountries(ctx)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	return nonNil(countries), nil
}

func (s *locationService) ListCities(ctx context.Context) ([]model.City, error) {
	cities, err := cached(ctx, s, "cities", func() ([]model.City, error) {
		return s.repo.ListCities(ctx)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	return nonNil(cities), nil
}

func (s *locationService) ListCitiesByCountry(ctx context.Context, countryID int64) ([]model.City, error) {
	cities, err := cached(ctx, s, fmt.Sprintf("cities:country:%d", countryID), func() ([]model.City, error) {
		return s.repo.ListCitiesByCountry(ctx, countryID)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}

	// An empty list is ambiguous: tell an unknown country apart from one without cities.
	if len(cities) == 0 {
		if _, err := s.GetCountry(ctx, countryID); err != nil {
			return nil, err
		}
	}
	return nonNil(cities), nil
}

func (s *locationService) ListDistrictsByCity(ctx context.Context, cityID int64) ([]model.District, error) {
	districts, err := cached(ctx, s, fmt.Sprintf("districts:city:%d", cityID), func() ([]model.District, error) {
		return s.repo.ListDistrictsByCity(ctx, cityID)
	})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}

	if len(districts) == 0 {
		if _, err := s.GetCity(ctx, cityID); err != nil {
			return nil, err
		}
	}
	return nonNil(districts), nil
}

func (s *locationService) ResolveNames(ctx context.Context, t model.Triple) (*model.LocationNames, error) {
	res, err := s.resolveOne(ctx, t)
	if err != nil {
		return nil, err
	}
	names := res.Names()
	return &names, nil
}

func (s *locationService) ValidateTriple(ctx context.Context, t model.Triple) error {
	_, err := s.resolveOne(ctx, t)
	return err
}

func (s *locationService) resolveOne(ctx context.Context, t model.Triple) (*model.Resolution, error) {
	if err := t.Validate(); err != nil {
		return nil, model.NewInvalidTriple(err)
	}

	results, err := s.repo.Resolve(ctx, []model.Triple{t})
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}
	if len(results) != 1 {
		return nil, model.NewLookupFailed(fmt.Errorf("expected 1 resolution, got %d", len(results)))
	}

	res := &results[0]
	if len(res.Missing()) > 0 {
		return nil, model.NewNotFoundFor(res)
	}
	if !res.Consistent() {
		return nil, model.ErrInconsistent
	}
	return res, nil
}

func (s *locationService) ResolveMany(ctx context.Context, triples []model.Triple) ([]model.LocationNames, error) {
	results, err := s.repo.Resolve(ctx, triples)
	if err != nil {
		return nil, model.NewLookupFailed(err)
	}

	names := make([]model.LocationNames, len(results))
	for i := range results {
		names[i] = results[i].Names()
	}
	return names, nil
}

func (s *locationService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, cachePrefix+"*"); err != nil {
		return fmt.Errorf("invalidate location cache: %w", err)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
