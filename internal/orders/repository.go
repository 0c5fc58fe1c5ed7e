package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

const orderColumns = `id, order_number, status, first_name, last_name, email, phone,
		address, city, state, zip_code, country, payment_method, card_last4,
		subtotal, shipping_cost, tax, total, items, created_at, updated_at`

// Repository persists orders in Postgres. Line items live in a JSONB blob on
// the order row: the snapshot must survive later catalog changes untouched.
type Repository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewRepository(db *sql.DB, logger *logrus.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			order_number VARCHAR(64) NOT NULL,
			status VARCHAR(32) NOT NULL,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(64) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(255) NOT NULL DEFAULT '',
			state VARCHAR(255) NOT NULL DEFAULT '',
			zip_code VARCHAR(32) NOT NULL DEFAULT '',
			country VARCHAR(255) NOT NULL DEFAULT '',
			payment_method VARCHAR(64) NOT NULL DEFAULT '',
			card_last4 VARCHAR(4) NOT NULL DEFAULT '',
			subtotal DECIMAL(10,2) NOT NULL DEFAULT 0,
			shipping_cost DECIMAL(10,2) NOT NULL DEFAULT 0,
			tax DECIMAL(10,2) NOT NULL DEFAULT 0,
			total DECIMAL(10,2) NOT NULL DEFAULT 0,
			items JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create orders schema: %w", err)
		}
	}
	return nil
}

// Create inserts the order and fills in the server-assigned id and
// timestamps. A collision on order_number comes back as ErrDuplicateNumber.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	query := `
		INSERT INTO orders (order_number, status, first_name, last_name, email, phone,
			address, city, state, zip_code, country, payment_method, card_last4,
			subtotal, shipping_cost, tax, total, items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		order.OrderNumber, order.Status,
		order.Customer.FirstName, order.Customer.LastName, order.Customer.Email, order.Customer.Phone,
		order.Shipping.Address, order.Shipping.City, order.Shipping.State, order.Shipping.ZipCode, order.Shipping.Country,
		order.PaymentMethod, order.CardLast4,
		order.Totals.Subtotal, order.Totals.Shipping, order.Totals.Tax, order.Totals.Total,
		itemsJSON,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, orderNumber))
}

// ListSince returns orders with id greater than sinceID, ascending, at most
// limit rows. This is the polling change feed.
func (r *Repository) ListSince(ctx context.Context, sinceID int64, limit int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id > $1 ORDER BY id ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Update rewrites the mutable columns and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET status = $1, first_name = $2, last_name = $3, email = $4, phone = $5,
			address = $6, city = $7, state = $8, zip_code = $9, country = $10,
			payment_method = $11, updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		order.Status,
		order.Customer.FirstName, order.Customer.LastName, order.Customer.Email, order.Customer.Phone,
		order.Shipping.Address, order.Shipping.City, order.Shipping.State, order.Shipping.ZipCode, order.Shipping.Country,
		order.PaymentMethod,
		order.ID,
	).Scan(&order.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanOne(row *sql.Row) (*models.Order, error) {
	order, err := r.scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var itemsJSON []byte

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.Status,
		&order.Customer.FirstName, &order.Customer.LastName, &order.Customer.Email, &order.Customer.Phone,
		&order.Shipping.Address, &order.Shipping.City, &order.Shipping.State, &order.Shipping.ZipCode, &order.Shipping.Country,
		&order.PaymentMethod, &order.CardLast4,
		&order.Totals.Subtotal, &order.Totals.Shipping, &order.Totals.Tax, &order.Totals.Total,
		&itemsJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to unmarshal line item snapshot")
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	return order, nil
}
