package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmi-backend/internal/domains/address/model"
	"charmi-backend/internal/shared/apperror"
)

var (
	testUserID = uuid.MustParse("6f1c2a9e-0d5b-4c4e-9a43-1b2c3d4e5f60")
	addrA      = uuid.MustParse("0a0a0a0a-0000-4000-8000-00000000000a")
	addrB      = uuid.MustParse("0b0b0b0b-0000-4000-8000-00000000000b")
	fixedTime  = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
)

func newAddressTestFixture(t *testing.T) (RepositoryInterface, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func sampleAddress(id uuid.UUID, isDefault bool) *model.Address {
	return &model.Address{
		ID:              id,
		UserID:          testUserID,
		StreetName:      "Bagdat Caddesi",
		BuildingNumber:  "12",
		ApartmentNumber: "4",
		CountryID:       1,
		CityID:          10,
		DistrictID:      100,
		IsDefault:       isDefault,
		CreatedAt:       fixedTime,
		UpdatedAt:       fixedTime,
	}
}

func addressColumnNames() []string {
	return []string{
		"id", "user_id", "street_name", "building_number", "apartment_number",
		"country_id", "city_id", "district_id", "is_default", "created_at", "updated_at",
	}
}

func addressRows(addrs ...*model.Address) *pgxmock.Rows {
	rows := pgxmock.NewRows(addressColumnNames())
	for _, a := range addrs {
		rows.AddRow(
			a.ID, a.UserID, a.StreetName, a.BuildingNumber, a.ApartmentNumber,
			a.CountryID, a.CityID, a.DistrictID, a.IsDefault, a.CreatedAt, a.UpdatedAt,
		)
	}
	return rows
}

const lockUserSQL = "SELECT id FROM users WHERE id = $1 AND deleted_at IS NULL FOR UPDATE"

func expectLockUser(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(regexp.QuoteMeta(lockUserSQL)).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(testUserID))
}

// ---- Create ----

func TestAddressRepository_Create_FirstAddressBecomesDefault(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	in := sampleAddress(uuid.Nil, false)
	out := sampleAddress(addrA, true)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(testUserID, in.StreetName, in.BuildingNumber, in.ApartmentNumber,
			in.CountryID, in.CityID, in.DistrictID, true).
		WillReturnRows(addressRows(out))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_DefaultReplacesPrevious(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	in := sampleAddress(uuid.Nil, true)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(testUserID, in.StreetName, in.BuildingNumber, in.ApartmentNumber,
			in.CountryID, in.CityID, in.DistrictID, true).
		WillReturnRows(addressRows(sampleAddress(addrB, true)))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_KeepsExistingDefault(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	in := sampleAddress(uuid.Nil, false)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(testUserID, in.StreetName, in.BuildingNumber, in.ApartmentNumber,
			in.CountryID, in.CityID, in.DistrictID, false).
		WillReturnRows(addressRows(sampleAddress(addrB, false)))
	mock.ExpectCommit()

	got, err := repo.Create(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_UnknownUser(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserSQL)).
		WithArgs(testUserID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), sampleAddress(uuid.Nil, false))

	assert.True(t, errors.Is(err, model.ErrUserNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_ConcurrentDefaultIsConflict(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	in := sampleAddress(uuid.Nil, false)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO addresses").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "addresses_one_default_per_user"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), in)

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.True(t, errors.Is(err, model.ErrDefaultConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Create_UnknownLocationIsValidation(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO addresses").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "addresses_district_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), sampleAddress(uuid.Nil, false))

	assert.True(t, apperror.IsValidation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- Read ----

func TestAddressRepository_GetByID_Success(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	a := sampleAddress(addrA, true)

	mock.ExpectQuery("SELECT .+ FROM addresses WHERE id =").
		WithArgs(addrA).
		WillReturnRows(addressRows(a))

	got, err := repo.GetByID(context.Background(), addrA)

	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectQuery("SELECT .+ FROM addresses WHERE id =").
		WithArgs(addrA).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), addrA)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAddressRepository_ListByUserID(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	a := sampleAddress(addrA, true)
	b := sampleAddress(addrB, false)

	mock.ExpectQuery("ORDER BY is_default DESC, created_at DESC").
		WithArgs(testUserID).
		WillReturnRows(addressRows(a, b))

	got, err := repo.ListByUserID(context.Background(), testUserID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, addrA, got[0].ID)
	assert.Equal(t, addrB, got[1].ID)
}

func TestAddressRepository_ListByUserID_Empty(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectQuery("FROM addresses").
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows(addressColumnNames()))

	got, err := repo.ListByUserID(context.Background(), testUserID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAddressRepository_GetDefaultByUserID_None(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectQuery("WHERE user_id = .+ AND is_default").
		WithArgs(testUserID).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetDefaultByUserID(context.Background(), testUserID)

	require.NoError(t, err)
	assert.Nil(t, got)
}

// ---- Update / Delete ----

func TestAddressRepository_Update_NotOwned(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	a := sampleAddress(addrA, false)

	mock.ExpectQuery("UPDATE addresses").
		WithArgs(addrA, testUserID, a.StreetName, a.BuildingNumber, a.ApartmentNumber,
			a.CountryID, a.CityID, a.DistrictID).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.Update(context.Background(), testUserID, addrA, a)

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_Update_Success(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	a := sampleAddress(addrA, true)
	a.StreetName = "Istiklal Caddesi"

	mock.ExpectQuery("UPDATE addresses").
		WithArgs(addrA, testUserID, a.StreetName, a.BuildingNumber, a.ApartmentNumber,
			a.CountryID, a.CityID, a.DistrictID).
		WillReturnRows(addressRows(a))

	got, err := repo.Update(context.Background(), testUserID, addrA, a)

	require.NoError(t, err)
	assert.Equal(t, "Istiklal Caddesi", got.StreetName)
	assert.True(t, got.IsDefault)
}

func TestAddressRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		result  pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "deleted", result: pgxmock.NewResult("DELETE", 1)},
		{name: "not found", result: pgxmock.NewResult("DELETE", 0), wantErr: model.ErrAddressNotFound},
		{name: "used by orders", execErr: &pgconn.PgError{Code: "23503"}, wantErr: model.ErrAddressInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newAddressTestFixture(t)

			exp := mock.ExpectExec("DELETE FROM addresses").WithArgs(addrA, testUserID)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Delete(context.Background(), testUserID, addrA)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ---- SetDefault ----

func TestAddressRepository_SetDefault_Success(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID, addrB).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SET is_default = true").
		WithArgs(addrB, testUserID).
		WillReturnRows(addressRows(sampleAddress(addrB, true)))
	mock.ExpectCommit()

	got, err := repo.SetDefault(context.Background(), testUserID, addrB)

	require.NoError(t, err)
	assert.Equal(t, addrB, got.ID)
	assert.True(t, got.IsDefault)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Step 2 finds no row: step 1 must be rolled back, never committed.
func TestAddressRepository_SetDefault_SecondStepNotFoundRollsBack(t *testing.T) {
	repo, mock := newAddressTestFixture(t)
	foreign := uuid.New()

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID, foreign).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SET is_default = true").
		WithArgs(foreign, testUserID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	got, err := repo.SetDefault(context.Background(), testUserID, foreign)

	assert.Nil(t, got)
	assert.True(t, errors.Is(err, model.ErrAddressNotFound))
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_SetDefault_SecondStepFailureRollsBack(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID, addrB).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SET is_default = true").
		WithArgs(addrB, testUserID).
		WillReturnError(errors.New("server closed the connection unexpectedly"))
	mock.ExpectRollback()

	_, err := repo.SetDefault(context.Background(), testUserID, addrB)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set default address")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_SetDefault_FirstStepFailureRollsBack(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID, addrB).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.SetDefault(context.Background(), testUserID, addrB)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear default address")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_SetDefault_UniqueViolationIsConflict(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin()
	expectLockUser(mock)
	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID, addrB).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SET is_default = true").
		WithArgs(addrB, testUserID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "addresses_one_default_per_user"})
	mock.ExpectRollback()

	_, err := repo.SetDefault(context.Background(), testUserID, addrB)

	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepository_SetDefault_BeginError(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	_, err := repo.SetDefault(context.Background(), testUserID, addrB)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---- ClearDefault ----

func TestAddressRepository_ClearDefault(t *testing.T) {
	repo, mock := newAddressTestFixture(t)

	mock.ExpectExec("UPDATE addresses SET is_default = false").
		WithArgs(testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ClearDefault(context.Background(), testUserID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
