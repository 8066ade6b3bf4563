package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rpgo/swiss-tax-calculator/internal/calculation"
	"github.com/rpgo/swiss-tax-calculator/internal/config"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/logging"
	"github.com/rpgo/swiss-tax-calculator/internal/refdata"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions holds the persistent flags. Flags that were set explicitly
// override the settings file and environment.
type globalOptions struct {
	configPath string
	refData    string
	logLevel   string
	logJSON    bool
	format     string
	outputDir  string
	noColor    bool
}

// app is the state shared by subcommands once settings are resolved.
type app struct {
	settings   *config.Settings
	logger     *zap.Logger
	reference  *domain.ReferenceData
	calculator *calculation.Calculator
	out        io.Writer
	color      bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "chtax",
		Short: "Swiss income tax calculator",
		Long: `chtax computes Swiss personal income tax for a tax year: federal tax,
cantonal tax, municipal tax and church tax, from a taxpayer profile and the
canton's reference tables.

The St. Gallen 2025 tables are built in; point --refdata at a YAML file to use
other tables. Profiles are read from YAML files (see "chtax calc --help").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Settings file (default: ./chtax.yaml or the user config directory)")
	pf.StringVar(&opts.refData, "refdata", "", "Reference tables YAML file (default: built-in "+refdata.EmbeddedName+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	pf.StringVarP(&opts.format, "format", "f", "", "Report format: console, console-lite, csv, detailed-csv, json, html")
	pf.StringVarP(&opts.outputDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	pf.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(newCalcCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newSavingsCmd(a))
	root.AddCommand(newCommunesCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, opts *globalOptions) error {
	s, err := config.LoadSettings(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("refdata") {
		s.ReferenceData = opts.refData
	}
	if flags.Changed("log-level") {
		s.Log.Level = opts.logLevel
	}
	if flags.Changed("log-json") {
		s.Log.JSON = opts.logJSON
	}
	if flags.Changed("format") {
		s.Output.Format = opts.format
	}
	if flags.Changed("output-dir") {
		s.Output.Dir = opts.outputDir
	}
	if err := s.Validate(); err != nil {
		return err
	}

	a.out = cmd.OutOrStdout()
	a.color = !opts.noColor && !color.NoColor && a.out == io.Writer(os.Stdout)

	logger, err := logging.New(logging.Config{Level: s.Log.Level, EnableJSON: s.Log.JSON, EnableColor: !opts.noColor && !color.NoColor})
	if err != nil {
		return err
	}

	ref, err := refdata.Load(s.ReferenceData)
	if err != nil {
		return fmt.Errorf("loading reference data: %w", err)
	}
	source := s.ReferenceData
	if source == "" {
		source = refdata.EmbeddedName
	}
	logger.Debug("reference data loaded",
		zap.String("source", source),
		zap.String("canton", ref.Canton()),
		zap.Int("tax_year", ref.TaxYear()),
		zap.Int("communes", len(ref.Multipliers().Rows())))

	calc := calculation.NewCalculator(ref)
	calc.SetLogger(logger.Sugar())

	a.settings = s
	a.logger = logger
	a.reference = ref
	a.calculator = calc
	return nil
}
