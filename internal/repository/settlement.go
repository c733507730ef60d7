package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/sequencer"
)

// Sale is the fully resolved input to the settlement commit: totals,
// payment breakdown and point movements are decided by the engine before
// anything is written.
type Sale struct {
	Lines         []domain.OrderLine
	Totals        domain.Totals
	Patron        *domain.Patron
	OrderType     domain.OrderType
	PaymentMethod domain.PaymentKind
	CreditsUsed   float64
	CashPaid      float64
	CardPaid      float64
	ChangeDue     float64
	SpentPoints   int
	EarnedPoints  int
	Operator      string
	StoredOrderID string
	SettledAt     time.Time
}

type SettlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// CommitSale runs the whole settlement as one transaction: stock is locked
// and checked for every line before any decrement, the day counter is
// bumped atomically for the KOT id, the sale and its lines are inserted,
// cash lands in the open drawer session, loyalty points and meal credits
// move, and the originating stored order is completed. Any failure rolls
// everything back, leaving the backing store exactly as it was.
func (r *SettlementRepository) CommitSale(ctx context.Context, sale Sale) (domain.KOT, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.KOT{}, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkAndDecrementStock(ctx, tx, sale.Lines); err != nil {
		return domain.KOT{}, err
	}

	kotID, err := nextKOTID(ctx, tx, sale.SettledAt)
	if err != nil {
		return domain.KOT{}, err
	}

	kot := domain.KOT{
		ID:            kotID,
		SettledAt:     sale.SettledAt,
		Lines:         sale.Lines,
		Amount:        sale.Totals.Total,
		EarnedPoints:  sale.EarnedPoints,
		CreditsUsed:   sale.CreditsUsed,
		CashPaid:      sale.CashPaid,
		CardPaid:      sale.CardPaid,
		ChangeDue:     sale.ChangeDue,
		OrderType:     sale.OrderType,
		PaymentMethod: sale.PaymentMethod,
	}
	if sale.Patron != nil {
		kot.PatronID = sale.Patron.ID
		kot.PatronKind = sale.Patron.Kind
	}
	if err := insertKOT(ctx, tx, kot); err != nil {
		return domain.KOT{}, err
	}

	// Employee cash is exact change against meal credits and never enters
	// the drawer session.
	payingCash := sale.CashPaid > 0 &&
		(sale.Patron == nil || sale.Patron.Kind != domain.PatronEmployee)
	if payingCash {
		if err := appendCashIn(ctx, tx, sale, kotID); err != nil {
			return domain.KOT{}, err
		}
	}

	if sale.Patron != nil {
		switch sale.Patron.Kind {
		case domain.PatronCustomer:
			if err := settleLoyalty(ctx, tx, sale, kotID); err != nil {
				return domain.KOT{}, err
			}
		case domain.PatronEmployee:
			if err := settleMealCredits(ctx, tx, sale); err != nil {
				return domain.KOT{}, err
			}
		}
	}

	if sale.StoredOrderID != "" {
		if err := completeStoredOrder(ctx, tx, sale.StoredOrderID); err != nil {
			return domain.KOT{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.KOT{}, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return kot, nil
}

// checkAndDecrementStock locks every inventory row first and verifies the
// full order fits before applying a single decrement.
func checkAndDecrementStock(ctx context.Context, tx *sql.Tx, lines []domain.OrderLine) error {
	for _, l := range lines {
		var onHand int
		err := tx.QueryRowContext(ctx,
			`SELECT stock_on_hand FROM inventory WHERE item_id = $1 FOR UPDATE`, l.ItemID,
		).Scan(&onHand)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%s: %w", l.Name, domain.ErrItemUnknown)
		}
		if err != nil {
			return fmt.Errorf("failed to lock stock for %s: %w", l.ItemID, err)
		}
		if onHand < l.Quantity {
			return fmt.Errorf("%s (have %d, need %d): %w",
				l.Name, onHand, l.Quantity, domain.ErrInsufficientStock)
		}
	}
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx, `
			UPDATE inventory SET stock_on_hand = stock_on_hand - $2, updated_at = NOW()
			WHERE item_id = $1
		`, l.ItemID, l.Quantity); err != nil {
			return fmt.Errorf("failed to decrement stock for %s: %w", l.ItemID, err)
		}
	}
	return nil
}

// nextKOTID bumps the per-day counter in one atomic statement; concurrent
// settlements serialize on the counter row so ids never collide.
func nextKOTID(ctx context.Context, tx *sql.Tx, at time.Time) (string, error) {
	day, _ := sequencer.DayBounds(at)
	var seq int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO kot_counters (day, counter) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = kot_counters.counter + 1
		RETURNING counter
	`, day).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("failed to allocate KOT sequence: %w", err)
	}
	return sequencer.FormatID(at, seq), nil
}

func insertKOT(ctx context.Context, tx *sql.Tx, k domain.KOT) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kots
		    (id, settled_at, amount, patron_id, patron_kind, earned_points,
		     credits_used, cash_paid, card_paid, change_due, order_type, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, k.ID, k.SettledAt, k.Amount, k.PatronID, k.PatronKind, k.EarnedPoints,
		k.CreditsUsed, k.CashPaid, k.CardPaid, k.ChangeDue, k.OrderType, k.PaymentMethod); err != nil {
		return fmt.Errorf("failed to insert KOT: %w", err)
	}
	for _, l := range k.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kot_lines (kot_id, item_id, name, quantity, price, sauces)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, k.ID, l.ItemID, l.Name, l.Quantity, l.Price, joinSauces(l.Sauces)); err != nil {
			return fmt.Errorf("failed to insert KOT line %s: %w", l.Name, err)
		}
	}
	return nil
}

func appendCashIn(ctx context.Context, tx *sql.Tx, sale Sale, kotID string) error {
	var (
		sessionID int64
		paused    bool
	)
	err := tx.QueryRowContext(ctx,
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

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cash_transactions (session_id, type, amount, by_name, at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, domain.CashIn, sale.CashPaid, sale.Operator, sale.SettledAt,
		fmt.Sprintf("Sale KOT #%s", kotID)); err != nil {
		return fmt.Errorf("failed to record cash sale: %w", err)
	}
	return nil
}

// settleLoyalty deducts the spent points and credits the earned ones in a
// single guarded update, with a history row per movement.
func settleLoyalty(ctx context.Context, tx *sql.Tx, sale Sale, kotID string) error {
	delta := sale.EarnedPoints - sale.SpentPoints
	res, err := tx.ExecContext(ctx, `
		UPDATE customers SET points = points + $2, updated_at = NOW()
		WHERE id = $1 AND points + $2 >= 0 AND points >= $3
	`, sale.Patron.ID, delta, sale.SpentPoints)
	if err != nil {
		return fmt.Errorf("failed to update loyalty points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", sale.Patron.ID, domain.ErrLoyaltyConflict)
	}

	if sale.SpentPoints > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO loyalty_history (customer_id, type, points, kot_id, at)
			VALUES ($1, 'redeem', $2, $3, $4)
		`, sale.Patron.ID, sale.SpentPoints, kotID, sale.SettledAt); err != nil {
			return fmt.Errorf("failed to record loyalty redemption: %w", err)
		}
	}
	if sale.EarnedPoints > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO loyalty_history (customer_id, type, points, kot_id, at)
			VALUES ($1, 'earn', $2, $3, $4)
		`, sale.Patron.ID, sale.EarnedPoints, kotID, sale.SettledAt); err != nil {
			return fmt.Errorf("failed to record loyalty accrual: %w", err)
		}
	}
	return nil
}

func settleMealCredits(ctx context.Context, tx *sql.Tx, sale Sale) error {
	if sale.CreditsUsed <= 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE employees SET meal_credits = meal_credits - $2
		WHERE id = $1 AND meal_credits >= $2
	`, sale.Patron.ID, sale.CreditsUsed)
	if err != nil {
		return fmt.Errorf("failed to deduct meal credits: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("employee %s: %w", sale.Patron.ID, domain.ErrCreditsConflict)
	}
	return nil
}

func completeStoredOrder(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE stored_orders SET status = $2 WHERE id = $1 AND status = $3
	`, id, domain.StoredCompleted, domain.StoredPending)
	if err != nil {
		return fmt.Errorf("failed to complete stored order %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status domain.StoredOrderStatus
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM stored_orders WHERE id = $1`, id,
		).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("stored order %s: %w", id, domain.ErrStoredNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check stored order %s: %w", id, err)
		}
		return fmt.Errorf("stored order %s: %w", id, storedStatusConflict(status))
	}
	return nil
}
