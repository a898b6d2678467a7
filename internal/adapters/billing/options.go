package billing

import (
	"golang.org/x/time/rate"

	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

// Option applies a configuration option to the Provisioner.
type Option func(*Provisioner)

// WithClientFactory replaces the Stripe client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(p *Provisioner) {
		if f != nil {
			p.clients = f
		}
	}
}

// WithRatePerSecond caps Stripe calls per second.
func WithRatePerSecond(perSecond float64) Option {
	return func(p *Provisioner) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.logger = l
		}
	}
}
