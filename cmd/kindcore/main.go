// Command kindcore generates checker programs for books, runs them and
// renders the diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ezachrisen/kindcore"
	"github.com/ezachrisen/kindcore/cel"
	"github.com/ezachrisen/kindcore/internal/config"
)

// app is the state shared by every command.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kindcore",
		Short: "Type check books on an external evaluator",
		Long: `kindcore compiles books of the core language into a rewrite-rule
program, runs it together with the checker prelude on an evaluator
and renders the errors it reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newGenCmd(a),
		newCheckCmd(a),
		newDecodeCmd(a),
		newRangeCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// flags that override configuration values when given.
type engineFlags struct {
	coverage bool
	selector string
	strict   bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.coverage, "coverage", false, "generate pattern coverage obligations")
	cmd.Flags().StringVar(&f.selector, "select", "", "CEL expression selecting the entries to check")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on diagnostics that cannot be decoded")
}

// options merges the configuration with the flags the user set.
func (a *app) options(cmd *cobra.Command, f *engineFlags) ([]kindcore.EngineOption, error) {
	coverage := a.cfg.Coverage
	if cmd.Flags().Changed("coverage") {
		coverage = f.coverage
	}
	strict := a.cfg.StrictDecoding
	if cmd.Flags().Changed("strict") {
		strict = f.strict
	}
	expr := a.cfg.Select
	if cmd.Flags().Changed("select") {
		expr = f.selector
	}

	opts := []kindcore.EngineOption{
		kindcore.WithLogger(a.logger),
		kindcore.WithCoverage(coverage),
		kindcore.StrictDecoding(strict),
	}
	if expr != "" {
		sel, err := cel.NewSelector(expr)
		if err != nil {
			return nil, errors.Wrap(err, "--select")
		}
		opts = append(opts, kindcore.WithSelector(sel))
	}
	return opts, nil
}
