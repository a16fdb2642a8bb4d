package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"charmi-backend/internal/domains/location/model"
	"charmi-backend/internal/shared/apperror"
)

type mockLocationRepository struct {
	mock.Mock
}

func (m *mockLocationRepository) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *mockLocationRepository) GetCity(ctx context.Context, id int64) (*model.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *mockLocationRepository) GetDistrict(ctx context.Context, id int64) (*model.District, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.District), args.Error(1)
}

func (m *mockLocationRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Country), args.Error(1)
}

func (m *mockLocationRepository) ListCities(ctx context.Context) ([]model.City, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *mockLocationRepository) ListCitiesByCountry(ctx context.Context, countryID int64) ([]model.City, error) {
	args := m.Called(ctx, countryID)
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *mockLocationRepository) ListDistrictsByCity(ctx context.Context, cityID int64) ([]model.District, error) {
	args := m.Called(ctx, cityID)
	return args.Get(0).([]model.District), args.Error(1)
}

func (m *mockLocationRepository) Resolve(ctx context.Context, triples []model.Triple) ([]model.Resolution, error) {
	args := m.Called(ctx, triples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resolution), args.Error(1)
}

// memoryCache is a JSON round-tripping map, close enough to Redis for service tests.
type memoryCache struct {
	data    map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.failGet {
		return false, errors.New("redis down")
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }

func istanbulResolution() model.Resolution {
	return model.Resolution{
		Triple:   model.Triple{CountryID: 1, CityID: 10, DistrictID: 100},
		Country:  &model.Country{ID: 1, Name: "Turkey"},
		City:     &model.City{ID: 10, Name: "Istanbul", CountryID: 1},
		District: &model.District{ID: 100, DistrictName: "Kadikoy", CityID: 10},
	}
}

func newService(repo *mockLocationRepository, c *memoryCache) ServiceInterface {
	return NewLocationService(repo, c, time.Hour)
}

// ---- Get ----

func TestGetCountry_CachesAfterFirstLoad(t *testing.T) {
	repo := new(mockLocationRepository)
	c := newMemoryCache()
	svc := newService(repo, c)
	ctx := context.Background()

	repo.On("GetCountry", ctx, int64(1)).Return(&model.Country{ID: 1, Name: "Turkey"}, nil).Once()

	first, err := svc.GetCountry(ctx, 1)
	require.NoError(t, err)
	second, err := svc.GetCountry(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Turkey", first.Name)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestGetCity_NotFoundIsNotCached(t *testing.T) {
	repo := new(mockLocationRepository)
	c := newMemoryCache()
	svc := newService(repo, c)
	ctx := context.Background()

	repo.On("GetCity", ctx, int64(42)).Return(nil, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := svc.GetCity(ctx, 42)
		assert.True(t, errors.Is(err, model.ErrCityNotFound))
		assert.True(t, apperror.IsNotFound(err))
	}
	assert.Empty(t, c.data)
	repo.AssertExpectations(t)
}

func TestGetDistrict_CacheFailureFallsBackToRepository(t *testing.T) {
	repo := new(mockLocationRepository)
	c := newMemoryCache()
	c.failGet = true
	svc := newService(repo, c)
	ctx := context.Background()

	repo.On("GetDistrict", ctx, int64(100)).Return(&model.District{ID: 100, DistrictName: "Kadikoy", CityID: 10}, nil)

	d, err := svc.GetDistrict(ctx, 100)

	require.NoError(t, err)
	assert.Equal(t, "Kadikoy", d.DistrictName)
}

func TestGetCountry_RepositoryErrorIsInternal(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	repo.On("GetCountry", ctx, int64(1)).Return(nil, errors.New("connection refused"))

	_, err := svc.GetCountry(ctx, 1)

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

// ---- List ----

func TestListDistrictsByCity_UnknownCity(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	repo.On("ListDistrictsByCity", ctx, int64(77)).Return([]model.District{}, nil)
	repo.On("GetCity", ctx, int64(77)).Return(nil, nil)

	_, err := svc.ListDistrictsByCity(ctx, 77)

	assert.True(t, errors.Is(err, model.ErrCityNotFound))
}

func TestListDistrictsByCity_CityWithoutDistricts(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	repo.On("ListDistrictsByCity", ctx, int64(10)).Return([]model.District{}, nil)
	repo.On("GetCity", ctx, int64(10)).Return(&model.City{ID: 10, Name: "Istanbul", CountryID: 1}, nil)

	got, err := svc.ListDistrictsByCity(ctx, 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListCitiesByCountry_ReturnsOrderedFromRepository(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	cities := []model.City{{ID: 11, Name: "Ankara", CountryID: 1}, {ID: 10, Name: "Istanbul", CountryID: 1}}
	repo.On("ListCitiesByCountry", ctx, int64(1)).Return(cities, nil).Once()

	got, err := svc.ListCitiesByCountry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cities, got)

	// served from cache the second time
	got, err = svc.ListCitiesByCountry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cities, got)
	repo.AssertExpectations(t)
}

func TestListCountries_AndInvalidate(t *testing.T) {
	repo := new(mockLocationRepository)
	c := newMemoryCache()
	svc := newService(repo, c)
	ctx := context.Background()

	repo.On("ListCountries", ctx).Return([]model.Country{{ID: 1, Name: "Turkey"}}, nil).Twice()

	_, err := svc.ListCountries(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCache(ctx))
	assert.Empty(t, c.data)

	_, err = svc.ListCountries(ctx)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// ---- Resolve ----

func TestResolveNames_Success(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	triple := model.Triple{CountryID: 1, CityID: 10, DistrictID: 100}
	repo.On("Resolve", ctx, []model.Triple{triple}).Return([]model.Resolution{istanbulResolution()}, nil).Once()

	names, err := svc.ResolveNames(ctx, triple)

	require.NoError(t, err)
	assert.Equal(t, "Turkey", names.Country)
	assert.Equal(t, "Istanbul", names.City)
	assert.Equal(t, "Kadikoy", names.District)
	repo.AssertExpectations(t)
}

func TestResolveNames_MissingDistrict(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	res := istanbulResolution()
	res.District = nil
	repo.On("Resolve", ctx, mock.Anything).Return([]model.Resolution{res}, nil)

	_, err := svc.ResolveNames(ctx, res.Triple)

	assert.True(t, errors.Is(err, model.ErrDistrictNotFound))
}

func TestValidateTriple_CityInOtherCountry(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	res := istanbulResolution()
	res.Triple.CountryID = 2
	res.Country = &model.Country{ID: 2, Name: "Germany"}
	repo.On("Resolve", ctx, mock.Anything).Return([]model.Resolution{res}, nil)

	err := svc.ValidateTriple(ctx, res.Triple)

	assert.True(t, errors.Is(err, model.ErrInconsistent))
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateTriple_MissingIDsSkipsRepository(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())

	err := svc.ValidateTriple(context.Background(), model.Triple{CountryID: 1})

	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestResolveMany_KeepsOrderAndBlanksMissing(t *testing.T) {
	repo := new(mockLocationRepository)
	svc := newService(repo, newMemoryCache())
	ctx := context.Background()

	gone := model.Resolution{Triple: model.Triple{CountryID: 9, CityID: 90, DistrictID: 900}}
	triples := []model.Triple{istanbulResolution().Triple, gone.Triple}
	repo.On("Resolve", ctx, triples).Return([]model.Resolution{istanbulResolution(), gone}, nil)

	names, err := svc.ResolveMany(ctx, triples)

	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "Kadikoy", names[0].District)
	assert.Equal(t, int64(900), names[1].DistrictID)
	assert.Empty(t, names[1].District)
}
