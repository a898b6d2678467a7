package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/billing"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/platforms"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/prompt"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/repository"
	"github.com/carlfriend1995-alt/OptionScope/internal/adapters/shell"
	service "github.com/carlfriend1995-alt/OptionScope/internal/app"
	"github.com/carlfriend1995-alt/OptionScope/internal/config"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/envvars"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/platform"
	"github.com/carlfriend1995-alt/OptionScope/internal/domain/types"
	"github.com/carlfriend1995-alt/OptionScope/pkg/logger"
	"github.com/carlfriend1995-alt/OptionScope/pkg/metrics"
)

// cli holds the state shared by every sub-command.
type cli struct {
	in  io.Reader
	out io.Writer

	configPath string
	logLevel   string

	cfg      *config.Config
	prompter *prompt.Terminal
	logger   logger.Logger
}

func newCLI(in io.Reader, out io.Writer) *cli {
	return &cli{
		in:       in,
		out:      out,
		prompter: prompt.NewTerminal(in, out),
		logger:   logger.Named("cli"),
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "optionscope-deploy",
		Short: "Deploy OptionScope and set up its Stripe billing",
		Long: `optionscope-deploy ships the OptionScope web app to Vercel, Heroku, Railway or Render.
It collects the production environment (Stripe keys, a generated SECRET_KEY and
optional market-data keys), runs the platform CLI, and can create the Pro and
Enterprise products in Stripe.

Any secret set in the config file or through OPTIONSCOPE_* environment variables
is used instead of prompting.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		c.deployCommand(),
		c.stripeCommand(),
		c.renderConfigCommand(),
		c.platformsCommand(),
		c.historyCommand(),
	)
	return root
}

// loadConfig runs before every sub-command.
func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.logger.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	c.cfg = cfg
	return nil
}

func (c *cli) deployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy [platform]",
		Short: "Deploy to vercel, heroku, railway or render (menu when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				n, err := svc.ChoosePlatform(ctx)
				if err != nil {
					return err
				}
				name = string(n)
			}

			_, err = svc.Deploy(ctx, name)
			return err
		},
	}
}

func (c *cli) stripeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stripe",
		Short: "Create the Stripe products and prices only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			_, err = svc.SetupBilling(ctx)
			if errors.Is(err, billing.ErrNoSecretKey) {
				return nil
			}
			return err
		},
	}
}

func (c *cli) renderConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render-config",
		Short: "Write the Render blueprint without deploying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := platforms.NewRender(c.deps(nil)).WriteBlueprint(cmd.Context())
			if err != nil {
				return err
			}
			c.prompter.Say("%s created!\n", path)
			return nil
		},
	}
}

func (c *cli) platformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, n := range platform.All() {
				c.prompter.Say("%-8s %s\n", n, platform.Describe(n))
			}
			return nil
		},
	}
}

func (c *cli) historyCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past deployments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			rows, err := svc.History(ctx, limit)
			if err != nil {
				return err
			}

			entries := make([]types.HistoryEntry, len(rows))
			for i, d := range rows {
				entries[i] = types.FromDeployment(d)
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			return writeHistoryTable(c.out, entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of deployments to show (default history_limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeHistoryTable(w io.Writer, entries []types.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No deployments recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tPLATFORM\tSTATUS\tDURATION\tURL / NOTE")
	for _, e := range entries {
		detail := e.URL
		if detail == "" {
			detail = e.Message
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.Platform,
			e.Status,
			(time.Duration(e.DurationMS) * time.Millisecond).String(),
			detail)
	}
	return tw.Flush()
}

// service wires the deploy workflow from configuration.
func (c *cli) service(ctx context.Context) (*service.Service, error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	runner := shell.NewExecRunner(
		shell.WithDir(c.cfg.ProjectRoot),
		shell.WithTimeout(c.cfg.CommandTimeout),
		shell.WithTerminal(c.in, c.out, os.Stderr),
	)

	return service.New(
		service.WithLogger(logger.Named("service")),
		service.WithPrompter(c.prompter),
		service.WithDeployers(platforms.NewRegistry(c.deps(runner))),
		service.WithStore(store),
		service.WithProvisioner(billing.NewProvisioner(billing.WithRatePerSecond(c.cfg.StripeRatePerSecond))),
		service.WithKnown(envvars.Known{
			StripePublishableKey: c.cfg.Secret(c.cfg.StripePublishableKey),
			StripeSecretKey:      c.cfg.Secret(c.cfg.StripeSecretKey),
			StripeWebhookSecret:  c.cfg.Secret(c.cfg.StripeWebhookSecret),
			AlphaVantageAPIKey:   c.cfg.Secret(c.cfg.AlphaVantageAPIKey),
			IEXAPIKey:            c.cfg.Secret(c.cfg.IEXAPIKey),
		}),
		service.WithHistoryLimit(c.cfg.HistoryLimit),
	), nil
}

func (c *cli) deps(runner shell.Runner) platforms.Deps {
	return platforms.Deps{
		Runner:             runner,
		Prompter:           c.prompter,
		Logger:             logger.Named("platforms"),
		ProjectRoot:        c.cfg.ProjectRoot,
		AppName:            c.cfg.AppName,
		Placeholder:        c.cfg.Placeholder,
		RequirementsSource: c.cfg.RequirementsSource,
		RequirementsTarget: c.cfg.RequirementsTarget,
		RenderFile:         c.cfg.RenderFile,
	}
}

// openStore opens the SQLite history, or keeps it in memory when history_path is empty.
func (c *cli) openStore(ctx context.Context) (repository.Store, error) {
	path := c.cfg.HistoryPath
	if path == "" {
		return repository.NewMemoryStore(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.cfg.ProjectRoot, path)
	}
	return repository.OpenSQLite(ctx, path)
}

func (c *cli) writeMetrics(ctx context.Context) {
	if c.cfg == nil || c.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
		c.logger.Warn(ctx, "failed to write metrics snapshot", logger.String("path", c.cfg.MetricsFile), logger.Error(err))
	}
}
