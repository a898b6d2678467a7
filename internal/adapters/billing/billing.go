// Package billing provisions the OptionScope plan catalog in Stripe.
package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/catalog"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/types"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
)

const defaultRatePerSecond = 20

// ProductCreator is the subset of the Stripe product client used here.
type ProductCreator interface {
	New(params *stripe.ProductParams) (*stripe.Product, error)
}

// PriceCreator is the subset of the Stripe price client used here.
type PriceCreator interface {
	New(params *stripe.PriceParams) (*stripe.Price, error)
}

// ClientFactory builds Stripe clients bound to a secret key.
type ClientFactory func(secretKey string) (ProductCreator, PriceCreator)

// StripeClients is the ClientFactory backed by stripe-go.
func StripeClients(secretKey string) (ProductCreator, PriceCreator) {
	sc := client.New(secretKey, nil)
	return sc.Products, sc.Prices
}

// Provisioner creates products and prices.
type Provisioner struct {
	clients ClientFactory
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewProvisioner creates a provisioner with configuration options.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{
		clients: StripeClients,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Named("billing")
	}
	return p
}

// Provision creates every plan and its prices. Plans are created concurrently;
// the returned entries follow plan and price order.
func (p *Provisioner) Provision(ctx context.Context, secretKey string, plans []catalog.Plan) ([]types.PriceEntry, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, ErrNoSecretKey
	}
	products, prices := p.clients(secretKey)

	results := make([][]types.PriceEntry, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			entries, err := p.provisionPlan(gctx, products, prices, plan)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]types.PriceEntry, 0, len(plans)*2)
	for _, entries := range results {
		out = append(out, entries...)
	}
	return out, nil
}

func (p *Provisioner) provisionPlan(ctx context.Context, products ProductCreator, prices PriceCreator, plan catalog.Plan) ([]types.PriceEntry, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	productParams := &stripe.ProductParams{
		Name:        stripe.String(plan.Name),
		Description: stripe.String(plan.Description),
	}
	productParams.Context = ctx
	product, err := products.New(productParams)
	if err != nil {
		metrics.RecordStripeError()
		return nil, fmt.Errorf("%w: create product %q: %w", ErrStripe, plan.Name, err)
	}
	metrics.RecordStripeObject("product")
	p.logger.Info(ctx, "stripe product created", logger.String("product", product.ID), logger.String("name", plan.Name))

	entries := make([]types.PriceEntry, 0, len(plan.Prices))
	for _, price := range plan.Prices {
		amount, err := price.UnitAmount()
		if err != nil {
			return nil, err
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		priceParams := &stripe.PriceParams{
			Product:    stripe.String(product.ID),
			UnitAmount: stripe.Int64(amount),
			Currency:   stripe.String(price.Currency),
			Recurring: &stripe.PriceRecurringParams{
				Interval: stripe.String(string(price.Interval)),
			},
		}
		priceParams.Context = ctx
		created, err := prices.New(priceParams)
		if err != nil {
			metrics.RecordStripeError()
			return nil, fmt.Errorf("%w: create %s price for %q: %w", ErrStripe, price.Interval, plan.Name, err)
		}
		metrics.RecordStripeObject("price")
		entries = append(entries, types.PriceEntry{EnvName: plan.EnvName(price.Interval), PriceID: created.ID})
	}
	return entries, nil
}
