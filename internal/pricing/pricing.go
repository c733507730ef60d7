// Package pricing computes cart totals and applies at most one incentive
// source per checkout.
package pricing

import (
	"math"

	"pos-terminal/internal/domain"
)

// DefaultOnboardingCredit is the flat credit a newly created customer may
// redeem on their first order, unless the terminal is configured otherwise.
const DefaultOnboardingCredit = 20.0

// EarnRate is the fraction of the post-discount total returned to a loyalty
// customer as points.
const EarnRate = 0.1

// PolicyFor selects the discount policy for the bound patron. Employees
// never receive a discount here; they redeem meal credits at settlement.
func PolicyFor(patron *domain.Patron) domain.DiscountPolicy {
	switch {
	case patron == nil:
		return domain.DiscountNone
	case patron.Kind == domain.PatronEmployee:
		return domain.DiscountNone
	case patron.New:
		return domain.DiscountOnboardingCredit
	default:
		return domain.DiscountCreditRedemption
	}
}

// Recompute derives subtotal, discount and total from scratch. It is pure:
// the same inputs always produce the same totals, and Total is never
// negative. onboardingCredit is the configured first-order credit.
func Recompute(lines []domain.OrderLine, patron *domain.Patron, policy domain.DiscountPolicy, onboardingCredit float64) domain.Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Amount()
	}

	discount := discountFor(subtotal, patron, policy, onboardingCredit)
	if discount > subtotal {
		discount = subtotal
	}

	return domain.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}

func discountFor(subtotal float64, patron *domain.Patron, policy domain.DiscountPolicy, onboardingCredit float64) float64 {
	if patron == nil || patron.Kind != domain.PatronCustomer {
		return 0
	}
	switch policy {
	case domain.DiscountCreditRedemption:
		return math.Min(float64(patron.Points), subtotal)
	case domain.DiscountLoyaltyPercent:
		// Legacy rule: flat 10% once the customer holds at least 2 points.
		if patron.Points >= 2 {
			return subtotal * 0.1
		}
		return 0
	case domain.DiscountOnboardingCredit:
		if patron.New {
			return math.Min(onboardingCredit, subtotal)
		}
		return 0
	default:
		return 0
	}
}

// SpentPoints is how many points a customer redeems under the given policy.
// Only credit redemption consumes the balance; the percentage and
// onboarding variants leave points untouched.
func SpentPoints(patron *domain.Patron, policy domain.DiscountPolicy, discount float64) int {
	if patron == nil || patron.Kind != domain.PatronCustomer {
		return 0
	}
	if policy == domain.DiscountCreditRedemption {
		return int(discount)
	}
	return 0
}

// EarnedPoints is computed on the post-discount total, rounded down.
func EarnedPoints(total float64) int {
	return int(math.Floor(total * EarnRate))
}
