package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/manifest"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/shell"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
)

// Vercel deploys with the vercel CLI, installing it through npm when missing.
type Vercel struct {
	deps  Deps
	ready bool
}

// NewVercel creates the Vercel driver.
func NewVercel(deps Deps) *Vercel { return &Vercel{deps: deps} }

// Name implements Deployer.
func (v *Vercel) Name() platform.Name { return platform.Vercel }

// Preflight implements Deployer.
func (v *Vercel) Preflight(ctx context.Context) error {
	if v.ready {
		return nil
	}
	v.deps.Prompter.Say("Deploying OptionScope to Vercel...\n")
	if err := v.deps.ensureCLI(ctx, "vercel", []string{"npm", "install", "-g", "vercel"}); err != nil {
		return err
	}
	v.ready = true
	return nil
}

// Deploy implements Deployer.
func (v *Vercel) Deploy(ctx context.Context, env *envvars.Set) (model.Result, error) {
	d := v.deps
	if err := v.Preflight(ctx); err != nil {
		return failed(err)
	}

	if err := manifest.CopyFile(d.path(d.RequirementsSource), d.path(d.RequirementsTarget)); err != nil {
		return failed(fmt.Errorf("prepare requirements: %w", err))
	}

	d.Prompter.Say("Setting up environment variables...\n")
	err := d.exportEach(ctx, platform.Vercel, env, func(kv envvars.Var) error {
		_, err := d.Runner.Run(ctx, shell.Command{
			Name:  "vercel",
			Args:  []string{"env", "add", kv.Key, "production"},
			Stdin: kv.Value,
			Dir:   d.ProjectRoot,
		})
		return err
	})
	if err != nil {
		return failed(err)
	}

	d.Prompter.Say("Deploying to Vercel...\n")
	res, err := d.run(ctx, "vercel", "--prod")
	if err != nil {
		return failed(fmt.Errorf("%w: vercel --prod: %w", ErrDeployFailed, err))
	}

	url := ExtractVercelURL(res.Stdout)
	if url == "" {
		return model.Result{
			Status: model.StatusSucceeded,
			Note:   "Deployment finished; the URL is listed in the Vercel dashboard",
		}, nil
	}
	return model.Result{
		Status:     model.StatusSucceeded,
		URL:        url,
		WebhookURL: strings.TrimRight(url, "/") + model.StripeWebhookPath,
	}, nil
}

// ExtractVercelURL returns the https:// vercel.app URL from the first output
// line mentioning both, without any surrounding text.
func ExtractVercelURL(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "https://") || !strings.Contains(line, "vercel.app") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if i := strings.Index(field, "https://"); i >= 0 && strings.Contains(field[i:], "vercel.app") {
				return strings.TrimRight(field[i:], ".,;)]")
			}
		}
	}
	return ""
}
