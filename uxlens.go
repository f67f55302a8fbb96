package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	AppVersion = "1.0.0"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()

	logo = `
 _   ___  __ _
| | | \ \/ /| |    ___ _ __  ___
| | | |\  / | |   / _ \ '_ \/ __|
| |_| |/  \ | |__|  __/ | | \__ \
 \___//_/\_\|_____\___|_| |_|___/
                      By github.com/Sla0ui
`
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uxlens [flags] URL_FILE",
		Short: "AI-assisted UX analysis of websites",
		Long: logo + `
uxlens loads a website in a headless browser, gathers accessibility, performance and
structure facts, captures desktop and mobile screenshots, and asks an Azure OpenAI
deployment for a structured UX report. Without model credentials it returns a clearly
labelled demonstration report.

Examples:
  uxlens analyze https://example.com
  uxlens urls.txt --format html,md
  uxlens serve --listen :8080
  uxlens screenshot --profiles desktop,tablet https://example.com`,
		Version:       AppVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBatch(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.BoolP("no-color", "n", false, "Disable colorized output")
	pf.BoolP("quiet", "q", false, "Quiet mode - only output to files")
	pf.String("engine", "", "Browser engine (chromedp, rod)")
	pf.String("remote-url", "", "Connect to a running browser instead of launching one")
	pf.Bool("stealth", false, "Hide headless automation markers (rod engine)")
	pf.String("user-agent", "", "User agent string")
	pf.DurationP("timeout", "t", 0, "Navigation timeout")
	pf.Duration("settle", 0, "Wait after load before reading the page")
	pf.Bool("no-screenshots", false, "Skip screenshot capture")
	pf.String("screenshot-dir", "", "Write screenshots to this directory instead of embedding them")
	pf.StringP("output-dir", "o", "", "Directory for output files")
	pf.StringP("format", "f", "", "Report format(s) - comma separated (json,csv,html,md)")

	batchFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntP("concurrency", "c", 0, "Maximum number of concurrent analyses")
		cmd.Flags().Bool("no-progress", false, "Disable progress bar")
		cmd.Flags().String("export", "", "Export path for the report file(s)")
	}
	batchFlags(rootCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze URL",
		Short: "Analyze a single website",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Bool("json", false, "Print the result as JSON")
	analyzeCmd.Flags().String("export", "", "Export path for the report file(s)")

	batchCmd := &cobra.Command{
		Use:   "batch URL_FILE",
		Short: "Analyze every URL listed in a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchFlags(batchCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().String("listen", "", "HTTP listen address")

	screenshotCmd := &cobra.Command{
		Use:   "screenshot URL",
		Short: "Capture full-page screenshots of a website",
		Args:  cobra.ExactArgs(1),
		RunE:  runScreenshot,
	}
	screenshotCmd.Flags().StringSlice("profiles", nil, "Viewport profiles (desktop, tablet, mobile)")

	techCmd := &cobra.Command{
		Use:   "tech URL",
		Short: "Detect technologies used by a website",
		Args:  cobra.ExactArgs(1),
		RunE:  runTechDetection,
	}

	configStatusCmd := &cobra.Command{
		Use:   "config-status",
		Short: "Show whether the AI model is configured",
		Args:  cobra.NoArgs,
		RunE:  runConfigStatus,
	}
	configStatusCmd.Flags().Bool("json", false, "Print the status as JSON")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports from saved results",
		Long: `Generate reports from a results file written by a previous run.

Examples:
  uxlens report --input results/analysis_results.json --format html
  uxlens report -i results/analysis_results.json --export out/report -f md,csv`,
		Args: cobra.NoArgs,
		RunE: runReportGeneration,
	}
	reportCmd.Flags().StringP("input", "i", "", "Input results file (JSON format)")
	reportCmd.Flags().String("export", "", "Output file prefix")

	rootCmd.AddCommand(analyzeCmd, batchCmd, serveCmd, screenshotCmd, techCmd, configStatusCmd, reportCmd)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
		// A second signal now terminates immediately.
		time.AfterFunc(30*time.Second, func() { os.Exit(1) })
	}()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("ERROR:"), exit.err)
		}
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red("ERROR:"), err)
	os.Exit(1)
}
