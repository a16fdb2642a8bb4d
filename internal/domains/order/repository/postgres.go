package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"charmi-backend/internal/domains/order/model"
	"charmi-backend/pkg/database"
)

type postgresOrderRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) RepositoryInterface {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	return database.WithTransactionResult(ctx, r.db, func(tx pgx.Tx) (*model.Order, error) {
		created := &model.Order{
			UserID:    o.UserID,
			AddressID: o.AddressID,
			Total:     o.Total,
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (user_id, address_id, total) VALUES ($1, $2, $3) RETURNING id, created_at`,
			o.UserID, o.AddressID, o.Total,
		).Scan(&created.ID, &created.CreatedAt)
		if database.IsForeignKeyViolation(err) {
			return nil, model.ErrAddressGone.WithErr(err)
		}
		if database.IsValueViolation(err) {
			return nil, model.ErrValueRejected.WithErr(err)
		}
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}

		items, err := createItemsWithTx(ctx, tx, created.ID, o.Items)
		if err != nil {
			return nil, err
		}
		created.Items = items
		return created, nil
	})
}

// createItemsWithTx sends every item insert in a single batch on tx.
func createItemsWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, items []model.OrderItem) ([]model.OrderItem, error) {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	created := make([]model.OrderItem, len(items))
	batch := &pgx.Batch{}
	for i, item := range items {
		item.ID = uuid.New()
		item.OrderID = orderID
		created[i] = item
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range created {
		if _, err := results.Exec(); err != nil {
			err = fmt.Errorf("insert order item %d: %w", i, err)
			if database.IsValueViolation(err) {
				return nil, model.ErrValueRejected.WithErr(err)
			}
			return nil, err
		}
	}
	return created, nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, address_id, total, created_at FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.UserID, &o.AddressID, &o.Total, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	byOrder, err := r.itemsFor(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = byOrder[o.ID]
	return &o, nil
}

func (r *postgresOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, address_id, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Order, error) {
		var o model.Order
		err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Total, &o.CreatedAt)
		return &o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	if len(orders) == 0 {
		return []*model.Order{}, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	byOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = byOrder[o.ID]
	}
	return orders, nil
}

// itemsFor loads the items of several orders in one query.
func (r *postgresOrderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.OrderItem, error) {
		var item model.OrderItem
		err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}

	byOrder := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

func (r *postgresOrderRepository) GetCustomer(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRow(ctx,
		`SELECT id, email, full_name FROM users WHERE id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&c.ID, &c.Email, &c.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
