package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    price         DOUBLE PRECISION NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    sauce_options TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS inventory (
    item_id       TEXT PRIMARY KEY REFERENCES menu_items(id),
    stock_on_hand INTEGER NOT NULL DEFAULT 0,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS customers (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    phone      TEXT NOT NULL,
    points     INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS customers_phone ON customers (phone);

CREATE TABLE IF NOT EXISTS employees (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    phone           TEXT NOT NULL,
    meal_credits    DOUBLE PRECISION NOT NULL DEFAULT 0,
    default_credits DOUBLE PRECISION NOT NULL DEFAULT 0,
    clocked_in      BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS employees_phone ON employees (phone);

CREATE TABLE IF NOT EXISTS kots (
    id             TEXT PRIMARY KEY,
    settled_at     TIMESTAMPTZ NOT NULL,
    amount         DOUBLE PRECISION NOT NULL,
    patron_id      TEXT NOT NULL DEFAULT '',
    patron_kind    TEXT NOT NULL DEFAULT '',
    earned_points  INTEGER NOT NULL DEFAULT 0,
    credits_used   DOUBLE PRECISION NOT NULL DEFAULT 0,
    cash_paid      DOUBLE PRECISION NOT NULL DEFAULT 0,
    card_paid      DOUBLE PRECISION NOT NULL DEFAULT 0,
    change_due     DOUBLE PRECISION NOT NULL DEFAULT 0,
    order_type     TEXT NOT NULL DEFAULT 'dine_in',
    payment_method TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS kots_settled_at ON kots (settled_at);

CREATE TABLE IF NOT EXISTS kot_lines (
    id       BIGSERIAL PRIMARY KEY,
    kot_id   TEXT NOT NULL REFERENCES kots(id) ON DELETE CASCADE,
    item_id  TEXT NOT NULL,
    name     TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    price    DOUBLE PRECISION NOT NULL,
    sauces   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS kot_lines_kot ON kot_lines (kot_id);

CREATE TABLE IF NOT EXISTS kot_counters (
    day     DATE PRIMARY KEY,
    counter INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cash_sessions (
    id              BIGSERIAL PRIMARY KEY,
    opened_by       TEXT NOT NULL,
    opened_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    opening_balance DOUBLE PRECISION NOT NULL DEFAULT 0,
    paused          BOOLEAN NOT NULL DEFAULT FALSE,
    closed          BOOLEAN NOT NULL DEFAULT FALSE,
    closed_by       TEXT NOT NULL DEFAULT '',
    closed_at       TIMESTAMPTZ
);
-- at most one open session per till
CREATE UNIQUE INDEX IF NOT EXISTS cash_sessions_one_open
    ON cash_sessions ((TRUE)) WHERE NOT closed;

CREATE TABLE IF NOT EXISTS cash_transactions (
    id         BIGSERIAL PRIMARY KEY,
    session_id BIGINT NOT NULL REFERENCES cash_sessions(id),
    type       TEXT NOT NULL,
    amount     DOUBLE PRECISION NOT NULL,
    by_name    TEXT NOT NULL DEFAULT '',
    at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    note       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS loyalty_history (
    id          BIGSERIAL PRIMARY KEY,
    customer_id TEXT NOT NULL,
    type        TEXT NOT NULL,
    points      INTEGER NOT NULL,
    kot_id      TEXT NOT NULL DEFAULT '',
    at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stored_orders (
    id         UUID PRIMARY KEY,
    payload    JSONB NOT NULL,
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS stored_orders_status ON stored_orders (status, expires_at);
`

// EnsureSchema creates all tables and indexes; safe to run on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
