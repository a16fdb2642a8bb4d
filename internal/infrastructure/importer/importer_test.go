package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmi-backend/internal/domains/location/model"
)

func sampleDataset() *Dataset {
	return &Dataset{
		Countries: []model.Country{{ID: 1, Name: "Turkey"}},
		Cities:    []model.City{{ID: 34, Name: "Istanbul", CountryID: 1}},
		Districts: []model.District{
			{ID: 340, DistrictName: "Kadikoy", CityID: 34},
			{ID: 341, DistrictName: "Besiktas", CityID: 34},
		},
	}
}

func TestImport(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO countries").WithArgs(int64(1), "Turkey").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("INSERT INTO cities").WithArgs(int64(34), "Istanbul", int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("INSERT INTO districts").WithArgs(int64(340), "Kadikoy", int64(34)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("INSERT INTO districts").WithArgs(int64(341), "Besiktas", int64(34)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectCommit()

	counts, err := Import(context.Background(), mock, sampleDataset())

	require.NoError(t, err)
	assert.Equal(t, Counts{Countries: 1, Cities: 1, Districts: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_RowFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO countries").WithArgs(int64(1), "Turkey").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec("INSERT INTO cities").WithArgs(int64(34), "Istanbul", int64(1)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = Import(context.Background(), mock, sampleDataset())

	assert.ErrorContains(t, err, "upsert city 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescribe(t *testing.T) {
	counts := Counts{Countries: 2, Cities: 3, Districts: 4}

	assert.Equal(t, "country 2", describe(1, counts))
	assert.Equal(t, "city 1", describe(2, counts))
	assert.Equal(t, "district 4", describe(8, counts))
}
