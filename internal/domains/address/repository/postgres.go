package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"charmi-backend/internal/domains/address/model"
	"charmi-backend/pkg/database"
)

const defaultIndexName = "addresses_one_default_per_user"

const addressColumns = `id, user_id, street_name, building_number, apartment_number,
	country_id, city_id, district_id, is_default, created_at, updated_at`

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) RepositoryInterface {
	return &postgresRepository{db: db}
}

func scanAddress(row pgx.Row) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.StreetName,
		&a.BuildingNumber,
		&a.ApartmentNumber,
		&a.CountryID,
		&a.CityID,
		&a.DistrictID,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// lockUser takes the user's row lock for the rest of the transaction. Concurrent default
// changes for the same user queue up behind it and the last one to commit wins.
func lockUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT id FROM users WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	return nil
}

// mapWriteError turns constraint violations into domain errors.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case database.IsUniqueViolation(err, defaultIndexName):
		return model.ErrDefaultConflict.WithErr(err)
	case database.IsForeignKeyViolation(err):
		return model.NewInvalidLocation(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Address) (*model.Address, error) {
	created, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Address, error) {
		if err := lockUser(ctx, tx, a.UserID); err != nil {
			return nil, err
		}

		var hasDefault bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM addresses WHERE user_id = $1 AND is_default)`,
			a.UserID,
		).Scan(&hasDefault)
		if err != nil {
			return nil, fmt.Errorf("check default address: %w", err)
		}

		makeDefault := a.IsDefault || !hasDefault
		if makeDefault && hasDefault {
			_, err := tx.Exec(ctx,
				`UPDATE addresses SET is_default = false, updated_at = NOW() WHERE user_id = $1 AND is_default`,
				a.UserID,
			)
			if err != nil {
				return nil, fmt.Errorf("clear default address: %w", err)
			}
		}

		query := `
			INSERT INTO addresses (
				user_id, street_name, building_number, apartment_number,
				country_id, city_id, district_id, is_default
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING ` + addressColumns

		row := tx.QueryRow(ctx, query,
			a.UserID,
			a.StreetName,
			a.BuildingNumber,
			a.ApartmentNumber,
			a.CountryID,
			a.CityID,
			a.DistrictID,
			makeDefault,
		)
		created, err := scanAddress(row)
		if err != nil {
			return nil, fmt.Errorf("insert address: %w", err)
		}
		return created, nil
	})
	if err != nil {
		return nil, mapWriteError("create address", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	a, err := scanAddress(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return addresses, nil
}

func (r *postgresRepository) GetDefaultByUserID(ctx context.Context, userID uuid.UUID) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND is_default`

	a, err := scanAddress(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get default address: %w", err)
	}
	return a, nil
}

func (r *postgresRepository) Update(ctx context.Context, userID, id uuid.UUID, a *model.Address) (*model.Address, error) {
	query := `
		UPDATE addresses
		SET street_name = $3,
			building_number = $4,
			apartment_number = $5,
			country_id = $6,
			city_id = $7,
			district_id = $8,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	updated, err := scanAddress(r.db.QueryRow(ctx, query,
		id,
		userID,
		a.StreetName,
		a.BuildingNumber,
		a.ApartmentNumber,
		a.CountryID,
		a.CityID,
		a.DistrictID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapWriteError("update address", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrAddressInUse.WithErr(err)
		}
		return fmt.Errorf("delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	updated, err := database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Address, error) {
		if err := lockUser(ctx, tx, userID); err != nil {
			return nil, err
		}

		// Step 1: clear the current default.
		_, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = false, updated_at = NOW() WHERE user_id = $1 AND is_default AND id <> $2`,
			userID, addressID,
		)
		if err != nil {
			return nil, fmt.Errorf("clear default address: %w", err)
		}

		// Step 2: flag the target. No row means it is not this user's address and step 1 is rolled back.
		query := `
			UPDATE addresses
			SET is_default = true, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING ` + addressColumns

		a, err := scanAddress(tx.QueryRow(ctx, query, addressID, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("set default address: %w", err)
		}
		return a, nil
	})
	if err != nil {
		return nil, mapWriteError("set default address", err)
	}
	return updated, nil
}

func (r *postgresRepository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE addresses SET is_default = false, updated_at = NOW() WHERE user_id = $1 AND is_default`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}
