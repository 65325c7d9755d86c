package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/ampere-ops/payplan/internal/calculation"
	"github.com/ampere-ops/payplan/internal/config"
	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/ampere-ops/payplan/internal/logging"
	"github.com/ampere-ops/payplan/internal/output"
	"github.com/ampere-ops/payplan/internal/recommend"
	"github.com/ampere-ops/payplan/internal/reverse"
	"github.com/ampere-ops/payplan/internal/server"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:          "payplan",
	Short:        "Commercial conditions simulator",
	Long:         "Builds, scores and recommends payment plans for a sale from its cost, margin and financing index",
	SilenceUsage: true,
}

// engineLogger returns a debug logger on stderr when --debug is set
func engineLogger(cmd *cobra.Command) calculation.Logger {
	debugMode, _ := cmd.Flags().GetBool("debug")
	if !debugMode {
		return calculation.NopLogger{}
	}
	logger, _ := logging.New(cmd.ErrOrStderr(), "debug", true)
	return logging.EngineLogger{Logger: logger}
}

// emit renders the report with the selected formatter, to stdout or to a
// timestamped file when --save is set
func emit(cmd *cobra.Command, report *output.Report) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", format,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}

	save, _ := cmd.Flags().GetBool("save")
	if save {
		filename, err := output.WriteFormatted(f, report, output.Extension(f))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func loadInput(path string) (*domain.SimulationInput, error) {
	return config.NewInputParser().LoadFromFile(path)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [input-file]",
	Short: "Generate every commercial condition for a sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}

		engine := calculation.NewEngine()
		engine.SetLogger(engineLogger(cmd))
		plans, err := engine.Simulate(cmd.Context(), *in)
		if err != nil {
			return err
		}
		return emit(cmd, output.NewReport(output.ModeSimulate, plans))
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse [input-file]",
	Short: "Find the plans whose installment fits the client's payment capacity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}

		opts := reverse.DefaultOptions()
		opts.MaxResults, _ = cmd.Flags().GetInt("max-results")
		opts.MaxTermMonths, _ = cmd.Flags().GetInt("max-term")

		plans, err := reverse.NewSolver(engineLogger(cmd), opts).Solve(cmd.Context(), *in)
		if err != nil {
			return err
		}
		return emit(cmd, output.NewReport(output.ModeReverse, plans))
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend [input-file]",
	Short: "Pick the condition that best matches the client's preferences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(args[0])
		if err != nil {
			return err
		}

		engine := calculation.NewEngine()
		engine.SetLogger(engineLogger(cmd))
		plans, err := engine.Simulate(cmd.Context(), *in)
		if err != nil {
			return err
		}

		rec := recommend.FindIdealCondition(plans, recommend.PreferencesFromInput(*in))
		if rec == nil {
			return fmt.Errorf("no condition meets the %s%% minimum margin", in.MinMarginPct.String())
		}

		report := output.NewReport(output.ModeRecommend, append([]domain.Condition{rec.Best}, rec.Alternatives...))
		report.Recommendation = rec
		return emit(cmd, report)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a simulation input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadInput(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid\n", args[0])
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available output formats",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation API over HTTP",
	Long:  "Serve the simulation API over HTTP. Settings come from PAYPLAN_* environment variables or a .env file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServerConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, true)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server.Version = version
		return server.New(cfg, logger).Run(ctx)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{simulateCmd, reverseCmd, recommendCmd} {
		cmd.Flags().StringP("format", "f", "console", "Output format (console, console-verbose, csv, detailed-csv, json, xlsx)")
		cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
		cmd.Flags().Bool("debug", false, "Enable debug logging on stderr")
	}

	defaults := reverse.DefaultOptions()
	reverseCmd.Flags().Int("max-results", defaults.MaxResults, "Maximum number of plans to return")
	reverseCmd.Flags().Int("max-term", defaults.MaxTermMonths, "Longest term in months to search")

	serveCmd.Flags().String("addr", "", "Listen address, overrides PAYPLAN_ADDR")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
