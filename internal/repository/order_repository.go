package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fivemhub/backend/internal/database"
	"github.com/fivemhub/backend/internal/models"
)

type OrderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create records a newly created PayPal order
func (r *OrderRepository) Create(o *models.AdOrder) error {
	query := `
		INSERT INTO ad_orders (id, ad_id, order_id, payer_id, amount_cents, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		o.ID,
		o.AdID,
		o.OrderID,
		o.PayerID,
		o.AmountCents,
		o.Currency,
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ad order: %w", err)
	}

	return nil
}

// GetByOrderID retrieves an order by its PayPal order id
func (r *OrderRepository) GetByOrderID(orderID string) (*models.AdOrder, error) {
	query := `
		SELECT id, ad_id, order_id, payer_id, amount_cents, currency, status, created_at, updated_at
		FROM ad_orders
		WHERE order_id = $1
	`

	o := &models.AdOrder{}
	err := r.db.QueryRow(query, orderID).Scan(
		&o.ID,
		&o.AdID,
		&o.OrderID,
		&o.PayerID,
		&o.AmountCents,
		&o.Currency,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad order: %w", err)
	}

	return o, nil
}

// UpdateStatus sets an order's status (created, completed, failed)
func (r *OrderRepository) UpdateStatus(orderID, status string) error {
	query := `
		UPDATE ad_orders
		SET status = $1, updated_at = NOW()
		WHERE order_id = $2
	`

	result, err := r.db.Exec(query, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListByAd returns all orders for an ad
func (r *OrderRepository) ListByAd(adID uuid.UUID) ([]models.AdOrder, error) {
	query := `
		SELECT id, ad_id, order_id, payer_id, amount_cents, currency, status, created_at, updated_at
		FROM ad_orders
		WHERE ad_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, adID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ad orders: %w", err)
	}
	defer rows.Close()

	orders := []models.AdOrder{}
	for rows.Next() {
		var o models.AdOrder
		err := rows.Scan(
			&o.ID,
			&o.AdID,
			&o.OrderID,
			&o.PayerID,
			&o.AmountCents,
			&o.Currency,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ad order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, nil
}
