package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tvd/internal/batch"
	"github.com/cwbudde/algo-tvd/internal/config"
	"github.com/cwbudde/algo-tvd/internal/logging"
	"github.com/cwbudde/algo-tvd/internal/sigio"
)

// app holds state shared by all subcommands. PersistentPreRunE fills cfg
// and logger before any subcommand runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tvdip",
		Short: "Total variation denoising with a primal-dual interior-point solver",
		Long: `tvdip removes noise from piecewise-constant signals by minimizing
½‖y - x‖² + λ‖Dx‖₁ for one or more regularization values λ.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		newSolveCmd(a),
		newLambdaMaxCmd(a),
		newGenerateCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	logger, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Service: "tvdip",
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.With("command", cmd.Name())
	return nil
}

// inputFlags selects where traces come from.
type inputFlags struct {
	path   string
	format string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVarP(&f.format, "format", "f", sigio.FormatLines, "input format: lines, column, json")
}

func (f *inputFlags) read(cmd *cobra.Command) ([]batch.Trace, error) {
	var r io.Reader = cmd.InOrStdin()
	if f.path != "-" && f.path != "" {
		file, err := os.Open(f.path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		r = file
	}
	return sigio.Read(r, f.format)
}
