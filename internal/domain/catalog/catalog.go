// Package catalog describes the OptionScope subscription plans sold through Stripe.
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Interval is a billing period.
type Interval string

// Billing periods.
const (
	Monthly Interval = "month"
	Yearly  Interval = "year"
)

// DefaultCurrency is the ISO currency all plans are priced in.
const DefaultCurrency = "usd"

// minorUnitExp is the exponent of the currency's smallest unit (cents for usd).
const minorUnitExp = 2

// Price is one recurring price of a plan.
type Price struct {
	Interval Interval
	Amount   decimal.Decimal
	Currency string
}

// UnitAmount converts Amount to integer minor units, e.g. 29.99 -> 2999.
func (p Price) UnitAmount() (int64, error) {
	if p.Amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, p.Amount)
	}
	minor := p.Amount.Shift(minorUnitExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has fractions of a cent", ErrInvalidAmount, p.Amount)
	}
	return minor.IntPart(), nil
}

// Plan is a Stripe product together with its prices.
type Plan struct {
	// Key is the short upper-case tag used in env var names, e.g. "PRO".
	Key         string
	Name        string
	Description string
	Prices      []Price
}

// EnvName returns the env var that carries the Stripe price ID, e.g. STRIPE_PRO_MONTHLY.
func (p Plan) EnvName(i Interval) string {
	suffix := "MONTHLY"
	if i == Yearly {
		suffix = "YEARLY"
	}
	return fmt.Sprintf("STRIPE_%s_%s", strings.ToUpper(p.Key), suffix)
}

// Default returns the Pro and Enterprise plans.
func Default() []Plan {
	return []Plan{
		{
			Key:         "PRO",
			Name:        "OptionScope Pro",
			Description: "Advanced options trading analytics for serious traders",
			Prices: []Price{
				{Interval: Monthly, Amount: decimal.RequireFromString("29.99"), Currency: DefaultCurrency},
				{Interval: Yearly, Amount: decimal.RequireFromString("299.99"), Currency: DefaultCurrency},
			},
		},
		{
			Key:         "ENTERPRISE",
			Name:        "OptionScope Enterprise",
			Description: "Full-featured solution for institutions",
			Prices: []Price{
				{Interval: Monthly, Amount: decimal.RequireFromString("99.99"), Currency: DefaultCurrency},
				{Interval: Yearly, Amount: decimal.RequireFromString("999.99"), Currency: DefaultCurrency},
			},
		},
	}
}
