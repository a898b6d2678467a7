package envvars

import (
	"context"
	"fmt"
)

// Asker is the slice of the interactive prompter Collect needs.
type Asker interface {
	Ask(ctx context.Context, label string) (string, error)
	Say(format string, args ...any)
}

// Known holds values already supplied through configuration; they are used without prompting.
type Known struct {
	StripePublishableKey string
	StripeSecretKey      string
	StripeWebhookSecret  string
	AlphaVantageAPIKey   string
	IEXAPIKey            string
}

// Collect assembles the production environment, prompting for anything not in known.
// Optional market-data keys are only included when a value is given.
func Collect(ctx context.Context, asker Asker, known Known) (*Set, error) {
	secret, err := GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	asker.Say("\nSetting up monetization (Stripe)...\n")
	asker.Say("Get your Stripe keys from: https://dashboard.stripe.com/apikeys\n")

	publishable, err := askUnlessKnown(ctx, asker, known.StripePublishableKey, "Stripe Publishable Key (pk_live_...): ")
	if err != nil {
		return nil, err
	}
	secretKey, err := askUnlessKnown(ctx, asker, known.StripeSecretKey, "Stripe Secret Key (sk_live_...): ")
	if err != nil {
		return nil, err
	}
	webhook, err := askUnlessKnown(ctx, asker, known.StripeWebhookSecret, "Stripe Webhook Secret (whsec_...): ")
	if err != nil {
		return nil, err
	}

	set := NewSet()
	set.Set(FlaskEnv, ProductionFlaskEnv)
	set.Set(SecretKey, secret)
	set.Set(StripePublishableKey, publishable)
	set.Set(StripeSecretKey, secretKey)
	set.Set(StripeWebhookSecret, webhook)

	asker.Say("\nOptional: Market Data API Keys (press Enter to skip)\n")
	alpha, err := askUnlessKnown(ctx, asker, known.AlphaVantageAPIKey, "Alpha Vantage API Key: ")
	if err != nil {
		return nil, err
	}
	iex, err := askUnlessKnown(ctx, asker, known.IEXAPIKey, "IEX Cloud API Key: ")
	if err != nil {
		return nil, err
	}
	if alpha != "" {
		set.Set(AlphaVantageAPIKey, alpha)
	}
	if iex != "" {
		set.Set(IEXAPIKey, iex)
	}

	return set, nil
}

func askUnlessKnown(ctx context.Context, asker Asker, known, label string) (string, error) {
	if known != "" {
		return known, nil
	}
	v, err := asker.Ask(ctx, label)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", label, err)
	}
	return v, nil
}
