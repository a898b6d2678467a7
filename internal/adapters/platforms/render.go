package platforms

import (
	"context"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/manifest"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
)

// RenderNote is reported instead of a URL; Render deploys from the dashboard.
const RenderNote = "Manual setup required"

// Render writes a render.yaml blueprint. Nothing is pushed: secrets are
// generated by Render and the repo is connected in its dashboard.
type Render struct {
	deps Deps
}

// NewRender creates the Render driver.
func NewRender(deps Deps) *Render { return &Render{deps: deps} }

// Name implements Deployer.
func (r *Render) Name() platform.Name { return platform.Render }

// Preflight implements Deployer. Render needs no local tooling.
func (r *Render) Preflight(context.Context) error { return nil }

// Deploy implements Deployer.
func (r *Render) Deploy(ctx context.Context, _ *envvars.Set) (model.Result, error) {
	d := r.deps
	d.Prompter.Say("Setting up Render deployment...\n")

	path, err := r.WriteBlueprint(ctx)
	if err != nil {
		return failed(err)
	}

	d.Prompter.Say("%s created!\n", path)
	d.Prompter.Say("Connect your GitHub repo to Render dashboard to deploy\n")
	return model.Result{Status: model.StatusManual, Note: RenderNote}, nil
}

// WriteBlueprint writes render.yaml and returns its path.
func (r *Render) WriteBlueprint(ctx context.Context) (string, error) {
	path := r.deps.path(r.deps.RenderFile)
	if err := manifest.Write(path, manifest.WebBlueprint(r.deps.AppName)); err != nil {
		return "", err
	}
	r.deps.logger().Info(ctx, "render blueprint written", logger.String("path", path))
	return path, nil
}
