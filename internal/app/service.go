// Package service ties the platform drivers, billing and history together
// into the deploy workflow driven by the CLI.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/billing"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/platforms"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/prompt"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/repository"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/catalog"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/types"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
)

const (
	defaultHistoryLimit = 20
	rule                = "=================================================="
)

// Deployers resolves a platform to its driver. *platforms.Registry implements it.
type Deployers interface {
	Get(name platform.Name) (platforms.Deployer, error)
}

// Provisioner creates the billing catalog. *billing.Provisioner implements it.
type Provisioner interface {
	Provision(ctx context.Context, secretKey string, plans []catalog.Plan) ([]types.PriceEntry, error)
}

// Service runs the deploy workflow.
type Service struct {
	prompter  prompt.Prompter
	deployers Deployers
	store     repository.Store
	billing   Provisioner
	plans     []catalog.Plan
	known     envvars.Known

	historyLimit int
	now          func() time.Time

	logger logger.Logger
}

// New constructs a Service. Without WithDeployers, Deploy fails with ErrNoDeployers.
func New(opts ...Option) *Service {
	s := &Service{
		plans:        catalog.Default(),
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.prompter == nil {
		s.prompter = prompt.Stdio()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.billing == nil {
		s.billing = billing.NewProvisioner()
	}
	return s
}

// ChoosePlatform shows the platform menu and reads the operator's choice.
// Unrecognized answers select platform.Default.
func (s *Service) ChoosePlatform(ctx context.Context) (platform.Name, error) {
	s.prompter.Say("OptionScope Deployment\n")
	s.prompter.Say("Choose deployment platform:\n")
	for i, n := range platform.All() {
		s.prompter.Say("%d. %s\n", i+1, platform.Describe(n))
	}
	choice, err := s.prompter.Ask(ctx, "Enter choice (1-4): ")
	if err != nil {
		return "", err
	}
	return platform.FromMenuChoice(choice), nil
}

// Deploy runs the full workflow for the named platform and returns the driver's result.
func (s *Service) Deploy(ctx context.Context, name string) (model.Result, error) {
	requested := platform.Name(strings.ToLower(strings.TrimSpace(name)))
	s.prompter.Say("OptionScope Deployment to %s\n%s\n", requested.Title(), rule)

	n, err := platform.Parse(name)
	if err != nil {
		s.prompter.Say("Unsupported platform: %s\nSupported platforms: %s\n", name, platform.SupportedList())
		return model.Result{}, err
	}
	if s.deployers == nil {
		return model.Result{}, ErrNoDeployers
	}
	driver, err := s.deployers.Get(n)
	if err != nil {
		return model.Result{}, err
	}

	known := s.known
	setup, err := s.prompter.Confirm(ctx, "Set up Stripe products? (y/N): ")
	if err != nil {
		return model.Result{}, err
	}
	if setup {
		key, _, err := s.setupBilling(ctx)
		if err != nil && !errors.Is(err, billing.ErrNoSecretKey) {
			s.logger.Warn(ctx, "stripe setup failed; continuing with deployment", logger.Error(err))
		}
		if known.StripeSecretKey == "" {
			known.StripeSecretKey = key
		}
	}

	dep := model.NewDeployment(string(n), s.now())
	s.logger.Info(ctx, "deployment started", logger.String("platform", string(n)), logger.String("id", dep.ID))

	// Tooling is checked before any secret is asked for.
	var (
		res       model.Result
		deployErr = driver.Preflight(ctx)
	)
	if deployErr == nil {
		var env *envvars.Set
		if n.PushesEnv() {
			env, err = envvars.Collect(ctx, s.prompter, known)
			if err != nil {
				return model.Result{}, err
			}
		}
		res, deployErr = driver.Deploy(ctx, env)
	}

	status := res.Status
	message := res.Note
	if deployErr != nil {
		status = model.StatusFailed
		message = deployErr.Error()
	} else if status == "" {
		status = model.StatusSucceeded
	}
	res.Status = status
	dep.Finish(status, res.URL, message, s.now())

	metrics.RecordDeployment(string(n), string(status), dep.Duration().Seconds())
	if err := s.store.Record(ctx, dep); err != nil {
		s.logger.Error(ctx, "failed to record deployment", logger.String("id", dep.ID), logger.Error(err))
	}

	if deployErr != nil {
		s.logger.Error(ctx, "deployment failed", logger.String("platform", string(n)), logger.Error(deployErr))
		s.prompter.Say("Deployment failed: %v\n", deployErr)
		return res, deployErr
	}
	s.logger.Info(ctx, "deployment finished",
		logger.String("platform", string(n)),
		logger.String("status", string(status)),
		logger.Duration("duration", dep.Duration()))

	s.printResult(res)
	return res, nil
}

// SetupBilling provisions the plan catalog and prints the resulting price IDs.
// The secret key comes from configuration or is prompted for.
func (s *Service) SetupBilling(ctx context.Context) ([]types.PriceEntry, error) {
	_, entries, err := s.setupBilling(ctx)
	return entries, err
}

// setupBilling also returns the secret key that was used.
func (s *Service) setupBilling(ctx context.Context) (string, []types.PriceEntry, error) {
	s.prompter.Say("\nSetting up Stripe products...\n")

	key := s.known.StripeSecretKey
	if key == "" {
		var err error
		key, err = s.prompter.Ask(ctx, "Enter your Stripe Secret Key: ")
		if err != nil {
			return "", nil, err
		}
	}

	entries, err := s.billing.Provision(ctx, key, s.plans)
	switch {
	case errors.Is(err, billing.ErrNoSecretKey):
		s.prompter.Say("Skipping Stripe setup. You can do this later in Stripe Dashboard.\n")
		return "", nil, err
	case err != nil:
		s.prompter.Say("Error setting up Stripe: %v\n", err)
		return key, nil, err
	}

	s.prompter.Say("Stripe products created successfully!\n")
	s.prompter.Say("Add these to your environment variables:\n")
	for _, e := range entries {
		s.prompter.Say("%s=%s\n", e.EnvName, e.PriceID)
	}
	return key, entries, nil
}

// History returns recorded deployments, newest first. limit 0 means the configured default.
func (s *Service) History(ctx context.Context, limit int) ([]model.Deployment, error) {
	if limit == 0 {
		limit = s.historyLimit
	}
	return s.store.List(ctx, limit)
}

// Close releases the history store.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) printResult(res model.Result) {
	p := s.prompter
	if res.Status == model.StatusSucceeded {
		p.Say("Deployment successful!\n")
	}
	if !res.HasURL() {
		if res.Note != "" {
			p.Say("%s\n", res.Note)
		}
		return
	}

	p.Say("\nDeployment Complete!\n%s\n", rule)
	p.Say("Live URL: %s\n", res.URL)
	p.Say("Pricing Page: %s\n", res.Link(model.PricingPath))
	p.Say("Dashboard: %s\n", res.Link(model.DashboardPath))
	p.Say("Admin: %s\n", res.Link(model.AdminPath))
	if res.WebhookURL != "" {
		p.Say("Stripe webhook endpoint: %s\n", res.WebhookURL)
	}

	p.Say("\nNext Steps:\n")
	for i, step := range nextSteps {
		p.Say("%d. %s\n", i+1, step)
	}
	p.Say("\nMonetization Tips:\n")
	for _, tip := range monetizationTips {
		p.Say("- %s\n", tip)
	}
}

var nextSteps = []string{
	"Set up your Stripe webhook endpoint",
	"Configure your domain (optional)",
	"Set up monitoring and analytics",
	"Test the payment flow",
	"Launch your marketing campaign!",
}

var monetizationTips = []string{
	"Start with freemium model to build user base",
	"Offer 14-day free trial for paid plans",
	"Add usage-based pricing for API calls",
	"Create enterprise features for institutions",
	"Consider affiliate/referral program",
}

// Verify interface compliance.
var (
	_ Deployers   = (*platforms.Registry)(nil)
	_ Provisioner = (*billing.Provisioner)(nil)
)
