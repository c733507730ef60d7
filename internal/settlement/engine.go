// Package settlement drives the payment state machine and the exactly-once
// commit of a cart into an immutable KOT.
package settlement

import (
	"context"
	"fmt"
	"math"
	"time"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
	"pos-terminal/internal/repository"
)

type Committer interface {
	CommitSale(ctx context.Context, sale repository.Sale) (domain.KOT, error)
}

type TicketPublisher interface {
	PublishTicket(ctx context.Context, kot domain.KOT) error
}

type Engine struct {
	repo     Committer
	tickets  TicketPublisher
	lg       *logger.Logger
	operator string
	now      func() time.Time
}

func NewEngine(repo Committer, tickets TicketPublisher, lg *logger.Logger, operator string) *Engine {
	return &Engine{
		repo:     repo,
		tickets:  tickets,
		lg:       lg,
		operator: operator,
		now:      time.Now,
	}
}

type Result struct {
	KOT          domain.KOT
	CreditsUsed  float64
	CashDue      float64
	ChangeDue    float64
	EarnedPoints int
	Warnings     []string
}

// Settle walks the checkout states for the cart and commits the sale. On
// any failure the cart is left untouched so the operator can retry or
// cancel; on success the cart is cleared and the kitchen ticket published.
func (e *Engine) Settle(ctx context.Context, c *cart.Cart, orderType domain.OrderType, pay domain.Payment) (*Result, error) {
	co := NewCheckout()
	if err := co.Begin(c.Len()); err != nil {
		return nil, err
	}
	co.ChooseOrderType()
	co.ChoosePatron()

	lines, patron, policy, finalType, totals, storedID := c.Snapshot()
	// The requested type applies to this settlement only; the live cart is
	// not mutated, so a rejected payment leaves it exactly as it was.
	if orderType != "" {
		finalType = orderType
	}

	sale, result, err := resolvePayment(totals, patron, policy, pay)
	if err != nil {
		co.fail()
		return nil, err
	}
	sale.Lines = lines
	sale.Totals = totals
	sale.Patron = patron
	sale.OrderType = finalType
	sale.Operator = e.operator
	sale.StoredOrderID = storedID
	sale.SettledAt = e.now()

	co.beginProcessing()
	kot, err := e.repo.CommitSale(ctx, sale)
	if err != nil {
		co.fail()
		e.lg.Error("settlement_failed", err, map[string]any{
			"total": totals.Total, "method": string(sale.PaymentMethod),
		})
		return nil, err
	}
	co.settle()

	result.KOT = kot
	c.Clear()

	if e.tickets != nil {
		if err := e.tickets.PublishTicket(ctx, kot); err != nil {
			// The sale is committed; a broker outage must not unwind it.
			e.lg.Error("kitchen_ticket_publish_failed", err, map[string]any{"kot_id": kot.ID})
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("kitchen ticket for %s not delivered: %v", kot.ID, err))
		}
	}

	e.lg.Info("sale_settled", map[string]any{
		"kot_id": kot.ID, "amount": kot.Amount, "method": string(kot.PaymentMethod),
	})
	return result, nil
}

// resolvePayment turns the operator's payment choice into the exact cash,
// card, credit and point movements, validating before anything is written.
func resolvePayment(totals domain.Totals, patron *domain.Patron, policy domain.DiscountPolicy, pay domain.Payment) (repository.Sale, *Result, error) {
	var (
		sale   repository.Sale
		result Result
	)
	total := totals.Total

	if patron != nil && patron.Kind == domain.PatronEmployee {
		// Employee path: payment method selection is skipped; meal credits
		// cover what they can and the remainder is exact-change cash.
		creditsToUse := math.Min(patron.MealCredits, total)
		cashDue := math.Max(total-creditsToUse, 0)

		if cashDue > 0 && !approxEqual(pay.Tendered, cashDue) {
			return sale, nil, fmt.Errorf("cash due £%.2f: %w", cashDue, domain.ErrInexactTender)
		}

		sale.PaymentMethod = domain.PayEmployeeCredits
		sale.CreditsUsed = creditsToUse
		sale.CashPaid = cashDue
		result.CreditsUsed = creditsToUse
		result.CashDue = cashDue
		return sale, &result, nil
	}

	switch pay.Kind {
	case domain.PayCash:
		change := math.Max(0, pay.Tendered-total)
		if pay.Tendered < total && !approxEqual(pay.Tendered, total) && !pay.AllowUnderTender {
			return sale, nil, fmt.Errorf("tendered £%.2f of £%.2f: %w",
				pay.Tendered, total, domain.ErrUnderTender)
		}
		sale.PaymentMethod = domain.PayCash
		sale.CashPaid = math.Min(pay.Tendered, total)
		sale.ChangeDue = change
		result.ChangeDue = change
	case domain.PayCard:
		sale.PaymentMethod = domain.PayCard
		sale.CardPaid = total
	case domain.PaySplit:
		if pay.CashPortion <= 0 || pay.CashPortion >= total {
			return sale, nil, domain.ErrBadSplitAmount
		}
		sale.PaymentMethod = domain.PaySplit
		sale.CashPaid = pay.CashPortion
		sale.CardPaid = total - pay.CashPortion
	case "":
		return sale, nil, domain.ErrNoPaymentMethod
	default:
		return sale, nil, fmt.Errorf("payment method %q: %w", pay.Kind, domain.ErrNoPaymentMethod)
	}

	if patron != nil && patron.Kind == domain.PatronCustomer {
		// Points move at commit time only; earnings come off the
		// post-discount total.
		sale.SpentPoints = pricing.SpentPoints(patron, policy, totals.Discount)
		sale.EarnedPoints = pricing.EarnedPoints(total)
		result.EarnedPoints = sale.EarnedPoints
	}
	return sale, &result, nil
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 0.005 }
