package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"pos-terminal/internal/domain"
)

type CashRepository struct {
	db *sql.DB
}

func NewCashRepository(db *sql.DB) *CashRepository { return &CashRepository{db: db} }

// OpenSession starts a new drawer session. The partial unique index on open
// sessions turns a second open attempt into a conflict.
func (r *CashRepository) OpenSession(ctx context.Context, openedBy string, openingBalance float64) (domain.CashSession, error) {
	s := domain.CashSession{OpenedBy: openedBy, OpeningBalance: openingBalance}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cash_sessions (opened_by, opening_balance)
		VALUES ($1, $2)
		RETURNING id, opened_at
	`, openedBy, openingBalance).Scan(&s.ID, &s.OpenedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.CashSession{}, domain.ErrSessionAlreadyOpen
		}
		return domain.CashSession{}, fmt.Errorf("failed to open cash session: %w", err)
	}
	return s, nil
}

// GetOpenSession returns the current open session with its transactions, or
// ErrNoOpenCashSession.
func (r *CashRepository) GetOpenSession(ctx context.Context) (domain.CashSession, error) {
	var s domain.CashSession
	err := r.db.QueryRowContext(ctx, `
		SELECT id, opened_by, opened_at, opening_balance, paused
		FROM cash_sessions WHERE NOT closed
	`).Scan(&s.ID, &s.OpenedBy, &s.OpenedAt, &s.OpeningBalance, &s.Paused)
	if err == sql.ErrNoRows {
		return domain.CashSession{}, domain.ErrNoOpenCashSession
	}
	if err != nil {
		return domain.CashSession{}, fmt.Errorf("failed to load open cash session: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT type, amount, by_name, at, note
		FROM cash_transactions WHERE session_id = $1 ORDER BY id
	`, s.ID)
	if err != nil {
		return domain.CashSession{}, fmt.Errorf("failed to load cash transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.CashTxn
		if err := rows.Scan(&t.Type, &t.Amount, &t.By, &t.At, &t.Note); err != nil {
			return domain.CashSession{}, fmt.Errorf("failed to scan cash transaction: %w", err)
		}
		s.Transactions = append(s.Transactions, t)
	}
	return s, rows.Err()
}

// AppendTransaction records a manual drawer movement against the open,
// unpaused session.
func (r *CashRepository) AppendTransaction(ctx context.Context, txn domain.CashTxn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		sessionID int64
		paused    bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, paused FROM cash_sessions WHERE NOT closed FOR UPDATE`,
	).Scan(&sessionID, &paused)
	if err == sql.ErrNoRows {
		return domain.ErrNoOpenCashSession
	}
	if err != nil {
		return fmt.Errorf("failed to lock open cash session: %w", err)
	}
	if paused {
		return domain.ErrCashSessionPaused
	}

	at := txn.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cash_transactions (session_id, type, amount, by_name, at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, txn.Type, txn.Amount, txn.By, at, txn.Note); err != nil {
		return fmt.Errorf("failed to append cash transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cash transaction: %w", err)
	}
	return nil
}

func (r *CashRepository) SetPaused(ctx context.Context, paused bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cash_sessions SET paused = $1 WHERE NOT closed`, paused)
	if err != nil {
		return fmt.Errorf("failed to update cash session pause state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNoOpenCashSession
	}
	return nil
}

func (r *CashRepository) CloseSession(ctx context.Context, closedBy string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cash_sessions SET closed = TRUE, closed_by = $1, closed_at = NOW()
		WHERE NOT closed
	`, closedBy)
	if err != nil {
		return fmt.Errorf("failed to close cash session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNoOpenCashSession
	}
	return nil
}
