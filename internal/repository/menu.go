package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pos-terminal/internal/domain"
)

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository { return &MenuRepository{db: db} }

func (r *MenuRepository) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	var (
		item   domain.MenuItem
		sauces string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, category, sauce_options FROM menu_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Category, &sauces)
	if err == sql.ErrNoRows {
		return domain.MenuItem{}, fmt.Errorf("menu item %s: %w", id, domain.ErrItemUnknown)
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to load menu item %s: %w", id, err)
	}
	item.SauceOptions = splitSauces(sauces)
	return item, nil
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, category, sauce_options FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var (
			item   domain.MenuItem
			sauces string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &sauces); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.SauceOptions = splitSauces(sauces)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuRepository) Upsert(ctx context.Context, item domain.MenuItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (id, name, price, category, sauce_options)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price,
		    category = EXCLUDED.category, sauce_options = EXCLUDED.sauce_options
	`, item.ID, item.Name, item.Price, item.Category, joinSauces(item.SauceOptions))
	if err != nil {
		return fmt.Errorf("failed to upsert menu item %s: %w", item.ID, err)
	}
	return nil
}
