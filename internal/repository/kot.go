package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/sequencer"
)

type KOTRepository struct {
	db *sql.DB
}

func NewKOTRepository(db *sql.DB) *KOTRepository { return &KOTRepository{db: db} }

// CountForDay counts settled KOTs within the calendar day; used for
// reporting. Id allocation goes through the atomic counter instead.
func (r *KOTRepository) CountForDay(ctx context.Context, date time.Time) (int, error) {
	start, end := sequencer.DayBounds(date)
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kots WHERE settled_at >= $1 AND settled_at < $2`,
		start, end,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count KOTs for day: %w", err)
	}
	return count, nil
}

func (r *KOTRepository) Get(ctx context.Context, id string) (domain.KOT, error) {
	var k domain.KOT
	err := r.db.QueryRowContext(ctx, `
		SELECT id, settled_at, amount, patron_id, patron_kind, earned_points,
		       credits_used, cash_paid, card_paid, change_due, order_type, payment_method
		FROM kots WHERE id = $1
	`, id).Scan(&k.ID, &k.SettledAt, &k.Amount, &k.PatronID, &k.PatronKind,
		&k.EarnedPoints, &k.CreditsUsed, &k.CashPaid, &k.CardPaid, &k.ChangeDue, &k.OrderType, &k.PaymentMethod)
	if err == sql.ErrNoRows {
		return domain.KOT{}, fmt.Errorf("KOT %s: %w", id, domain.ErrKOTNotFound)
	}
	if err != nil {
		return domain.KOT{}, fmt.Errorf("failed to load KOT %s: %w", id, err)
	}

	lines, err := r.lines(ctx, id)
	if err != nil {
		return domain.KOT{}, err
	}
	k.Lines = lines
	return k, nil
}

func (r *KOTRepository) ListForDay(ctx context.Context, date time.Time) ([]domain.KOT, error) {
	start, end := sequencer.DayBounds(date)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, settled_at, amount, patron_id, patron_kind, earned_points,
		       credits_used, cash_paid, card_paid, change_due, order_type, payment_method
		FROM kots WHERE settled_at >= $1 AND settled_at < $2 ORDER BY id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list KOTs: %w", err)
	}
	defer rows.Close()

	var kots []domain.KOT
	for rows.Next() {
		var k domain.KOT
		if err := rows.Scan(&k.ID, &k.SettledAt, &k.Amount, &k.PatronID, &k.PatronKind,
			&k.EarnedPoints, &k.CreditsUsed, &k.CashPaid, &k.CardPaid, &k.ChangeDue, &k.OrderType, &k.PaymentMethod); err != nil {
			return nil, fmt.Errorf("failed to scan KOT: %w", err)
		}
		kots = append(kots, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range kots {
		lines, err := r.lines(ctx, kots[i].ID)
		if err != nil {
			return nil, err
		}
		kots[i].Lines = lines
	}
	return kots, nil
}

// Void deletes the sale record entirely. Manager-gated at the handler.
func (r *KOTRepository) Void(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to void KOT %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("KOT %s: %w", id, domain.ErrKOTNotFound)
	}
	return nil
}

// RefundLine removes every line for the item from the KOT and reduces the
// stored amount accordingly. When the last line goes, the KOT is deleted.
func (r *KOTRepository) RefundLine(ctx context.Context, kotID, itemID string) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var amount float64
	err = tx.QueryRowContext(ctx,
		`SELECT amount FROM kots WHERE id = $1 FOR UPDATE`, kotID,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("KOT %s: %w", kotID, domain.ErrKOTNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock KOT %s: %w", kotID, err)
	}

	var refund sql.NullFloat64
	if err := tx.QueryRowContext(ctx,
		`SELECT SUM(price * quantity) FROM kot_lines WHERE kot_id = $1 AND item_id = $2`,
		kotID, itemID,
	).Scan(&refund); err != nil {
		return 0, fmt.Errorf("failed to total refund lines: %w", err)
	}
	if !refund.Valid {
		return 0, fmt.Errorf("KOT %s has no line for item %s", kotID, itemID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM kot_lines WHERE kot_id = $1 AND item_id = $2`, kotID, itemID,
	); err != nil {
		return 0, fmt.Errorf("failed to remove refunded lines: %w", err)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kot_lines WHERE kot_id = $1`, kotID,
	).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("failed to count remaining lines: %w", err)
	}

	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kots WHERE id = $1`, kotID); err != nil {
			return 0, fmt.Errorf("failed to delete emptied KOT %s: %w", kotID, err)
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE kots SET amount = amount - $2 WHERE id = $1`, kotID, refund.Float64,
		); err != nil {
			return 0, fmt.Errorf("failed to adjust KOT amount: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit refund: %w", err)
	}
	return refund.Float64, nil
}

func (r *KOTRepository) lines(ctx context.Context, kotID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, name, quantity, price, sauces
		FROM kot_lines WHERE kot_id = $1 ORDER BY id
	`, kotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load KOT lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var (
			l      domain.OrderLine
			sauces string
		)
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Quantity, &l.Price, &sauces); err != nil {
			return nil, fmt.Errorf("failed to scan KOT line: %w", err)
		}
		l.Sauces = splitSauces(sauces)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
