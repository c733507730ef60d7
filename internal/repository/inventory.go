package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pos-terminal/internal/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) StockOnHand(ctx context.Context, itemID string) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock_on_hand FROM inventory WHERE item_id = $1`, itemID,
	).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("inventory for %s: %w", itemID, domain.ErrItemUnknown)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock for %s: %w", itemID, err)
	}
	return stock, nil
}

// Decrement is a single conditional update: it refuses to take stock below
// zero instead of checking and writing in two round trips.
func (r *InventoryRepository) Decrement(ctx context.Context, itemID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET stock_on_hand = stock_on_hand - $2, updated_at = NOW()
		WHERE item_id = $1 AND stock_on_hand >= $2
	`, itemID, qty)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", itemID, domain.ErrInsufficientStock)
	}
	return nil
}

func (r *InventoryRepository) SetStock(ctx context.Context, itemID string, stock int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (item_id, stock_on_hand, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (item_id) DO UPDATE
		SET stock_on_hand = EXCLUDED.stock_on_hand, updated_at = NOW()
	`, itemID, stock)
	if err != nil {
		return fmt.Errorf("failed to set stock for %s: %w", itemID, err)
	}
	return nil
}

func (r *InventoryRepository) List(ctx context.Context) ([]domain.InventoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, stock_on_hand, updated_at FROM inventory ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var records []domain.InventoryRecord
	for rows.Next() {
		var rec domain.InventoryRecord
		if err := rows.Scan(&rec.ItemID, &rec.StockOnHand, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
