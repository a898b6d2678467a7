// Package platforms holds one deployment driver per hosting platform.
package platforms

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/prompt"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/shell"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
)

// Deployer ships the app to one platform.
type Deployer interface {
	Name() platform.Name
	// Preflight checks the platform tooling before any secret is collected.
	// Deploy runs it too when it has not succeeded yet.
	Preflight(ctx context.Context) error
	// Deploy pushes env to the platform and deploys. The returned Result is
	// meaningful even when err is non-nil (Status is then StatusFailed).
	Deploy(ctx context.Context, env *envvars.Set) (model.Result, error)
}

// Deps are shared by every driver.
type Deps struct {
	Runner   shell.Runner
	Prompter prompt.Prompter
	Logger   logger.Logger

	// ProjectRoot is the working directory of every command.
	ProjectRoot string
	AppName     string
	// Placeholder values are never exported.
	Placeholder string

	RequirementsSource string
	RequirementsTarget string
	RenderFile         string
}

// path resolves p against the project root.
func (d Deps) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.ProjectRoot, p)
}

func (d Deps) logger() logger.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logger.Named("platforms")
}

// run executes name args in the project root.
func (d Deps) run(ctx context.Context, name string, args ...string) (shell.Result, error) {
	return d.Runner.Run(ctx, shell.Command{Name: name, Args: args, Dir: d.ProjectRoot})
}

// runInteractive executes name args attached to the terminal.
func (d Deps) runInteractive(ctx context.Context, name string, args ...string) error {
	_, err := d.Runner.Run(ctx, shell.Command{Name: name, Args: args, Dir: d.ProjectRoot, Interactive: true})
	return err
}

// ensureCLI checks that name is on PATH and answers `name --version`. When it
// does not and install is non-empty the CLI is installed, otherwise
// ErrCLIMissing is returned.
func (d Deps) ensureCLI(ctx context.Context, name string, install []string) error {
	if d.Runner.LookPath(name) == nil {
		if _, err := d.run(ctx, name, "--version"); err == nil {
			return nil
		}
	}
	if len(install) == 0 {
		return fmt.Errorf("%w: %s", ErrCLIMissing, name)
	}
	d.Prompter.Say("%s CLI not found. Installing...\n", platform.Name(name).Title())
	if err := d.runInteractive(ctx, install[0], install[1:]...); err != nil {
		return fmt.Errorf("install %s CLI: %w", name, err)
	}
	return nil
}

// exportEach calls set for every exportable variable, stopping at the first failure.
func (d Deps) exportEach(ctx context.Context, name platform.Name, env *envvars.Set, set func(envvars.Var) error) error {
	exported := 0
	defer func() { metrics.AddEnvVarsExported(string(name), exported) }()

	for _, v := range env.Exportable(d.Placeholder) {
		if err := set(v); err != nil {
			return fmt.Errorf("set %s on %s: %w", v.Key, name, err)
		}
		exported++
	}
	d.logger().Info(ctx, "environment exported", logger.String("platform", string(name)), logger.Int("vars", exported))
	return nil
}

// failed wraps err into a failed result.
func failed(err error) (model.Result, error) {
	return model.Result{Status: model.StatusFailed}, err
}

// Registry resolves platform names to drivers.
type Registry struct {
	deployers map[platform.Name]Deployer
}

// NewRegistry builds the four drivers sharing deps.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{deployers: make(map[platform.Name]Deployer)}
	for _, d := range []Deployer{
		NewVercel(deps),
		NewHeroku(deps),
		NewRailway(deps),
		NewRender(deps),
	} {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a driver.
func (r *Registry) Register(d Deployer) {
	r.deployers[d.Name()] = d
}

// Get returns the driver for name.
func (r *Registry) Get(name platform.Name) (Deployer, error) {
	d, ok := r.deployers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported platforms: %s)", platform.ErrUnsupported, name, platform.SupportedList())
	}
	return d, nil
}
