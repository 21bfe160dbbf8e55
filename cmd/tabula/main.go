// Command tabula inspects, converts and summarizes tabular data files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/paveg/tabula"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "tabula",
		Short:              "Inspect, convert and summarize tabular data files",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: report,
	}
	root.PersistentFlags().String("config", "", "configuration file (JSON or YAML)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log bulk operations to stderr")
	root.PersistentFlags().Bool("metrics", false, "print operation metrics after the command")
	addCommands(root)
	return root
}

// setup installs the configuration: TABULA_* variables, then the config
// file, then flags.
func setup(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadFromEnv()
	if path := getString(cmd, "config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return errors.Wrap(err, "loading configuration")
		}
	}
	if getBool(cmd, "verbose") {
		cfg.VerboseLogging = true
		config.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if getBool(cmd, "metrics") {
		cfg.MetricsCollection = true
	}

	cfg, warnings, err := config.NewConfigValidator().Validate(cfg.WithDefaults())
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	for _, w := range warnings {
		cfg.Logger().Debug(w)
	}
	return tabula.Configure(cfg)
}

func report(cmd *cobra.Command, _ []string) error {
	if !getBool(cmd, "metrics") {
		return nil
	}
	return monitoring.GetGlobalSummary().WriteSummary(cmd.ErrOrStderr())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
