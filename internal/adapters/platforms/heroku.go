package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

// Heroku addon provisioned with every app.
const herokuPostgresPlan = "heroku-postgresql:hobby-dev"

// Heroku deploys with the heroku CLI and a git push. The CLI is never auto-installed.
type Heroku struct {
	deps  Deps
	ready bool
}

// NewHeroku creates the Heroku driver.
func NewHeroku(deps Deps) *Heroku { return &Heroku{deps: deps} }

// Name implements Deployer.
func (h *Heroku) Name() platform.Name { return platform.Heroku }

// Preflight implements Deployer.
func (h *Heroku) Preflight(ctx context.Context) error {
	if h.ready {
		return nil
	}
	h.deps.Prompter.Say("Deploying OptionScope to Heroku...\n")
	if err := h.deps.ensureCLI(ctx, "heroku", nil); err != nil {
		h.deps.Prompter.Say("Heroku CLI not found. Please install it first.\n")
		return err
	}
	h.ready = true
	return nil
}

// Deploy implements Deployer.
func (h *Heroku) Deploy(ctx context.Context, env *envvars.Set) (model.Result, error) {
	d := h.deps
	if err := h.Preflight(ctx); err != nil {
		return failed(err)
	}

	appName, err := d.Prompter.Ask(ctx, "Enter Heroku app name (or press Enter for auto-generated): ")
	if err != nil {
		return failed(err)
	}
	createArgs := []string{"create"}
	if appName != "" {
		createArgs = append(createArgs, appName)
	}

	steps := [][]string{
		createArgs,
		{"addons:create", herokuPostgresPlan},
	}
	for _, args := range steps {
		if err := d.runInteractive(ctx, "heroku", args...); err != nil {
			return failed(fmt.Errorf("%w: heroku %s: %w", ErrDeployFailed, args[0], err))
		}
	}

	err = d.exportEach(ctx, platform.Heroku, env, func(kv envvars.Var) error {
		_, err := d.run(ctx, "heroku", "config:set", kv.Key+"="+kv.Value)
		return err
	})
	if err != nil {
		return failed(err)
	}

	gitSteps := [][]string{
		{"add", "."},
		{"commit", "-m", "Deploy OptionScope"},
		{"push", "heroku", "main"},
	}
	for _, args := range gitSteps {
		if err := d.runInteractive(ctx, "git", args...); err != nil {
			return failed(fmt.Errorf("%w: git %s: %w", ErrDeployFailed, args[0], err))
		}
	}

	info, err := d.run(ctx, "heroku", "info")
	if err != nil {
		d.logger().Warn(ctx, "heroku info failed; URL unknown", logger.Error(err))
	}
	url := ExtractHerokuURL(info.Stdout)
	if url == "" {
		return model.Result{Status: model.StatusSucceeded, Note: "Deployed; run `heroku open` to find the app URL"}, nil
	}
	return model.Result{Status: model.StatusSucceeded, URL: url}, nil
}

// ExtractHerokuURL returns the value of the "Web URL:" line of `heroku info`.
func ExtractHerokuURL(output string) string {
	const marker = "Web URL:"
	for _, line := range strings.Split(output, "\n") {
		if i := strings.Index(line, marker); i >= 0 {
			return strings.TrimSpace(line[i+len(marker):])
		}
	}
	return ""
}
