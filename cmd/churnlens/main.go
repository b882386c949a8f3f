package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"churnlens/internal/analytics"
	"churnlens/internal/app"
	"churnlens/internal/config"
	"churnlens/internal/exporter"
	"churnlens/internal/infrastructure"
	"churnlens/internal/services"
	"churnlens/pkg/contracts"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand
type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "churnlens",
		Short:         "Customer churn analysis for retail banking",
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = infrastructure.CloseLogFile()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(contracts.GetVersionInfo().String() + "\n")

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.runCmd(),
		c.serveCmd(),
		c.describeCmd(),
		c.segmentsCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Logs go to stderr so
// reports printed on stdout stay clean.
func (c *cli) setup() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(c.logLevel)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", c.logLevel, err)
		}
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, c.stderr)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger.With(slog.String("service", config.AppName))
	return nil
}

func (c *cli) runCmd() *cobra.Command {
	var opts app.RunOptions
	var formats string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyse the dataset and write the churn report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formats != "" {
				opts.Formats = strings.Split(formats, ",")
			}
			opts.Console = c.stdout

			result, err := app.RunReport(cmd.Context(), c.cfg, c.logger, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.stdout, "\nReport files (%d):\n", len(result.Files))
			for _, f := range result.Files {
				fmt.Fprintf(c.stdout, "  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.DataPath, "data", "", "dataset path (.csv or .xlsx), overrides dataset.path")
	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "report output directory, overrides report.output_dir")
	cmd.Flags().StringVar(&formats, "formats", "", "comma separated report formats (csv,json,xlsx,txt,pdf)")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only churn dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataPath != "" {
				c.cfg.Dataset.Path = dataPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApplication(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset path (.csv or .xlsx), overrides dataset.path")
	return cmd
}

func (c *cli) describeCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print descriptive statistics of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context(), dataPath)
			if err != nil {
				return err
			}
			desc, err := svc.Describe(cmd.Context())
			if err != nil {
				return err
			}
			return exporter.WriteDescription(c.stdout, desc)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset path (.csv or .xlsx), overrides dataset.path")
	return cmd
}

func (c *cli) segmentsCmd() *cobra.Command {
	var dataPath, dimension string

	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Print the churn breakdown of one dimension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd.Context(), dataPath)
			if err != nil {
				return err
			}
			breakdown, err := svc.Segments(cmd.Context(), dimension, analytics.Filter{})
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(svc.DimensionNames(), ", "))
			}
			return exporter.WriteBreakdown(c.stdout, breakdown)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "dataset path (.csv or .xlsx), overrides dataset.path")
	cmd.Flags().StringVar(&dimension, "by", "geography", "dimension to break churn down by")
	return cmd
}

// service loads the dataset and wraps it for one-shot queries
func (c *cli) service(ctx context.Context, dataPath string) (*services.ChurnService, error) {
	data, err := app.LoadDataset(ctx, c.cfg, c.logger, dataPath)
	if err != nil {
		return nil, err
	}
	return services.NewChurnService(data, c.cfg.Analysis, c.logger, nil), nil
}
