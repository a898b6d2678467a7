package platforms

import (
	"context"
	"fmt"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
)

// RailwayNote is reported instead of a URL; the Railway CLI does not print one.
const RailwayNote = "Check Railway dashboard"

// Railway deploys with the railway CLI, installing it through npm when missing.
type Railway struct {
	deps  Deps
	ready bool
}

// NewRailway creates the Railway driver.
func NewRailway(deps Deps) *Railway { return &Railway{deps: deps} }

// Name implements Deployer.
func (r *Railway) Name() platform.Name { return platform.Railway }

// Preflight implements Deployer.
func (r *Railway) Preflight(ctx context.Context) error {
	if r.ready {
		return nil
	}
	r.deps.Prompter.Say("Deploying OptionScope to Railway...\n")
	if err := r.deps.ensureCLI(ctx, "railway", []string{"npm", "install", "-g", "@railway/cli"}); err != nil {
		return err
	}
	r.ready = true
	return nil
}

// Deploy implements Deployer.
func (r *Railway) Deploy(ctx context.Context, env *envvars.Set) (model.Result, error) {
	d := r.deps
	if err := r.Preflight(ctx); err != nil {
		return failed(err)
	}

	for _, step := range []string{"login", "init"} {
		if err := d.runInteractive(ctx, "railway", step); err != nil {
			return failed(fmt.Errorf("%w: railway %s: %w", ErrDeployFailed, step, err))
		}
	}

	err := d.exportEach(ctx, platform.Railway, env, func(kv envvars.Var) error {
		_, err := d.run(ctx, "railway", "variables", "set", kv.Key+"="+kv.Value)
		return err
	})
	if err != nil {
		return failed(err)
	}

	if err := d.runInteractive(ctx, "railway", "up"); err != nil {
		return failed(fmt.Errorf("%w: railway up: %w", ErrDeployFailed, err))
	}

	return model.Result{Status: model.StatusSucceeded, Note: RailwayNote}, nil
}
