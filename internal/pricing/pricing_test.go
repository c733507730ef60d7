package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-terminal/internal/domain"
)

func lines(amounts ...float64) []domain.OrderLine {
	var out []domain.OrderLine
	for _, a := range amounts {
		out = append(out, domain.OrderLine{Price: a, Quantity: 1})
	}
	return out
}

func TestRecomputeIsPure(t *testing.T) {
	patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 5}
	ls := lines(10, 30)

	first := Recompute(ls, patron, domain.DiscountCreditRedemption, DefaultOnboardingCredit)
	second := Recompute(ls, patron, domain.DiscountCreditRedemption, DefaultOnboardingCredit)

	assert.Equal(t, first, second)
	assert.Equal(t, 40.0, first.Subtotal)
}

func TestCreditRedemption(t *testing.T) {
	t.Run("points below subtotal", func(t *testing.T) {
		patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 5}
		totals := Recompute(lines(40), patron, domain.DiscountCreditRedemption, DefaultOnboardingCredit)
		assert.Equal(t, 5.0, totals.Discount)
		assert.Equal(t, 35.0, totals.Total)
	})
	t.Run("points capped at subtotal", func(t *testing.T) {
		patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 100}
		totals := Recompute(lines(12), patron, domain.DiscountCreditRedemption, DefaultOnboardingCredit)
		assert.Equal(t, 12.0, totals.Discount)
		assert.Equal(t, 0.0, totals.Total)
	})
}

func TestOnboardingCredit(t *testing.T) {
	patron := &domain.Patron{Kind: domain.PatronCustomer, New: true}

	t.Run("small order fully covered", func(t *testing.T) {
		totals := Recompute(lines(12), patron, domain.DiscountOnboardingCredit, DefaultOnboardingCredit)
		assert.Equal(t, 12.0, totals.Discount)
		assert.Equal(t, 0.0, totals.Total)
	})
	t.Run("large order capped at credit", func(t *testing.T) {
		totals := Recompute(lines(50), patron, domain.DiscountOnboardingCredit, DefaultOnboardingCredit)
		assert.Equal(t, 20.0, totals.Discount)
		assert.Equal(t, 30.0, totals.Total)
	})
	t.Run("configured credit is honoured", func(t *testing.T) {
		totals := Recompute(lines(50), patron, domain.DiscountOnboardingCredit, 5)
		assert.Equal(t, 5.0, totals.Discount)
		assert.Equal(t, 45.0, totals.Total)
	})
	t.Run("returning customer gets nothing", func(t *testing.T) {
		returning := &domain.Patron{Kind: domain.PatronCustomer}
		totals := Recompute(lines(50), returning, domain.DiscountOnboardingCredit, DefaultOnboardingCredit)
		assert.Equal(t, 0.0, totals.Discount)
	})
}

func TestLoyaltyPercent(t *testing.T) {
	t.Run("two points or more", func(t *testing.T) {
		patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 2}
		totals := Recompute(lines(30), patron, domain.DiscountLoyaltyPercent, DefaultOnboardingCredit)
		assert.Equal(t, 3.0, totals.Discount)
	})
	t.Run("below threshold", func(t *testing.T) {
		patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 1}
		totals := Recompute(lines(30), patron, domain.DiscountLoyaltyPercent, DefaultOnboardingCredit)
		assert.Equal(t, 0.0, totals.Discount)
	})
}

func TestEmployeesNeverDiscounted(t *testing.T) {
	emp := &domain.Patron{Kind: domain.PatronEmployee, MealCredits: 10, ClockedIn: true}
	assert.Equal(t, domain.DiscountNone, PolicyFor(emp))

	totals := Recompute(lines(25), emp, domain.DiscountCreditRedemption, DefaultOnboardingCredit)
	assert.Equal(t, 0.0, totals.Discount)
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, domain.DiscountNone, PolicyFor(nil))
	assert.Equal(t, domain.DiscountOnboardingCredit,
		PolicyFor(&domain.Patron{Kind: domain.PatronCustomer, New: true}))
	assert.Equal(t, domain.DiscountCreditRedemption,
		PolicyFor(&domain.Patron{Kind: domain.PatronCustomer, Points: 3}))
}

func TestSpentPoints(t *testing.T) {
	patron := &domain.Patron{Kind: domain.PatronCustomer, Points: 5}

	assert.Equal(t, 5, SpentPoints(patron, domain.DiscountCreditRedemption, 5))
	assert.Equal(t, 0, SpentPoints(patron, domain.DiscountLoyaltyPercent, 4))
	assert.Equal(t, 0, SpentPoints(patron, domain.DiscountOnboardingCredit, 20))
	assert.Equal(t, 0, SpentPoints(nil, domain.DiscountCreditRedemption, 5))
}

func TestEarnedPoints(t *testing.T) {
	assert.Equal(t, 3, EarnedPoints(35))
	assert.Equal(t, 0, EarnedPoints(9.99))
	assert.Equal(t, 10, EarnedPoints(100))
	assert.Equal(t, 0, EarnedPoints(0))
}
