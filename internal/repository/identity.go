package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"pos-terminal/internal/domain"
)

type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// FindByPhoneOrID searches customers and employees for the term, running
// both lookups concurrently and joining before returning. Employees come
// back annotated with their clock-in status.
func (r *IdentityRepository) FindByPhoneOrID(ctx context.Context, term string) ([]domain.Patron, error) {
	var customers, employees []domain.Patron

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = r.findCustomers(gctx, term)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = r.findEmployees(gctx, term)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var results []domain.Patron
	for _, p := range append(customers, employees...) {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		results = append(results, p)
	}
	return results, nil
}

func (r *IdentityRepository) findCustomers(ctx context.Context, term string) ([]domain.Patron, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, points FROM customers WHERE phone = $1 OR id = $1`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Patron
	for rows.Next() {
		p := domain.Patron{Kind: domain.PatronCustomer}
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Points); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *IdentityRepository) findEmployees(ctx context.Context, term string) ([]domain.Patron, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, meal_credits, clocked_in FROM employees WHERE phone = $1 OR id = $1`, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Patron
	for rows.Next() {
		p := domain.Patron{Kind: domain.PatronEmployee}
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.MealCredits, &p.ClockedIn); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *IdentityRepository) GetCustomer(ctx context.Context, id string) (domain.Patron, error) {
	p := domain.Patron{Kind: domain.PatronCustomer}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, points FROM customers WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.Points)
	if err == sql.ErrNoRows {
		return domain.Patron{}, fmt.Errorf("customer %s not found", id)
	}
	if err != nil {
		return domain.Patron{}, fmt.Errorf("failed to load customer %s: %w", id, err)
	}
	return p, nil
}

func (r *IdentityRepository) GetEmployee(ctx context.Context, id string) (domain.Patron, error) {
	p := domain.Patron{Kind: domain.PatronEmployee}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, meal_credits, clocked_in FROM employees WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.MealCredits, &p.ClockedIn)
	if err == sql.ErrNoRows {
		return domain.Patron{}, fmt.Errorf("employee %s not found", id)
	}
	if err != nil {
		return domain.Patron{}, fmt.Errorf("failed to load employee %s: %w", id, err)
	}
	return p, nil
}

func (r *IdentityRepository) IsClockedIn(ctx context.Context, employeeID string) (bool, error) {
	var clockedIn bool
	err := r.db.QueryRowContext(ctx,
		`SELECT clocked_in FROM employees WHERE id = $1`, employeeID,
	).Scan(&clockedIn)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check clock-in for %s: %w", employeeID, err)
	}
	return clockedIn, nil
}

// CreateCustomer allocates the next sequential cusNN id and inserts the
// customer with a zero point balance. The returned patron is flagged New so
// the onboarding credit can apply to this checkout.
func (r *IdentityRepository) CreateCustomer(ctx context.Context, name, phone string) (domain.Patron, error) {
	if name == "" || phone == "" {
		return domain.Patron{}, fmt.Errorf("customer name and phone are required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Patron{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastID sql.NullString
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM customers ORDER BY id DESC LIMIT 1 FOR UPDATE`,
	).Scan(&lastID); err != nil && err != sql.ErrNoRows {
		return domain.Patron{}, fmt.Errorf("failed to read last customer id: %w", err)
	}

	next := 1
	if lastID.Valid {
		if n, err := strconv.Atoi(strings.TrimPrefix(lastID.String, "cus")); err == nil {
			next = n + 1
		}
	}
	id := fmt.Sprintf("cus%02d", next)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO customers (id, name, phone, points) VALUES ($1, $2, $3, 0)`,
		id, name, phone,
	); err != nil {
		return domain.Patron{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Patron{}, fmt.Errorf("failed to commit customer insert: %w", err)
	}

	return domain.Patron{
		Kind:  domain.PatronCustomer,
		ID:    id,
		Name:  name,
		Phone: phone,
		New:   true,
	}, nil
}

func (r *IdentityRepository) AdjustPoints(ctx context.Context, customerID string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET points = points + $2, updated_at = NOW()
		WHERE id = $1 AND points + $2 >= 0
	`, customerID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust points for %s: %w", customerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s: %w", customerID, domain.ErrLoyaltyConflict)
	}
	return nil
}

func (r *IdentityRepository) AdjustMealCredits(ctx context.Context, employeeID string, delta float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET meal_credits = meal_credits + $2
		WHERE id = $1 AND meal_credits + $2 >= 0
	`, employeeID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust meal credits for %s: %w", employeeID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("employee %s: %w", employeeID, domain.ErrCreditsConflict)
	}
	return nil
}

// ResetMealCredits restores every employee's balance to their default
// allowance; the daily job runs this at midnight.
func (r *IdentityRepository) ResetMealCredits(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET meal_credits = default_credits WHERE meal_credits <> default_credits`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset meal credits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to reset meal credits: %w", err)
	}
	return n, nil
}
