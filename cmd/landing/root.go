package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-landing/internal/config"
	"github.com/goliatone/go-landing/internal/logging"
)

// rootOptions carries the persistent flags and the lazily built app.
type rootOptions struct {
	configFile string
	logLevel   string
	app        *app
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "landing",
		Short: "Compose landing pages from template specs and generated copy",
		Long: `landing renders landing pages from declarative template specs.

Configuration is read, in order of precedence, from flags, LANDING_*
environment variables and a config file (--config, LANDING_CONFIG_FILE
or ./.landing.yml).

Examples:
  landing templates
  landing compose saas-lead-gen --overrides copy.json -o page.html
  landing generate local-service --interactive
  landing build --out dist`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.app != nil {
				_ = opts.app.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is .landing.yml, can also use LANDING_CONFIG_FILE)")
	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newTemplatesCmd(opts),
		newValidateCmd(opts),
		newInspectCmd(opts),
		newComposeCmd(opts),
		newGenerateCmd(opts),
		newBuildCmd(opts),
		newCreditsCmd(opts),
		newPreviewCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	v := config.New(o.configFile)
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return fmt.Errorf("bind log-level: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Using config file", zap.String("path", used))
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}
