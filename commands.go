package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/Sla0ui/uxlens/internal/orchestrator"
	"github.com/Sla0ui/uxlens/internal/reporter"
	"github.com/Sla0ui/uxlens/internal/scanner"
	"github.com/Sla0ui/uxlens/internal/server"
)

// exitError carries the process exit status for an error
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	switch models.KindOf(err) {
	case "":
		return 0
	case models.KindInvalidInput:
		return 2
	case models.KindUnreachableSite:
		return 3
	case models.KindContentPolicy:
		return 4
	}
	return 1
}

func printInfo(config *models.Config, format string, args ...any) {
	if !config.Quiet {
		fmt.Printf("%s %s\n", blue("INFO:"), fmt.Sprintf(format, args...))
	}
}

func printSuccess(config *models.Config, format string, args ...any) {
	if !config.Quiet {
		fmt.Printf("%s %s\n", green("SUCCESS:"), fmt.Sprintf(format, args...))
	}
}

func printWarning(config *models.Config, format string, args ...any) {
	if !config.Quiet {
		fmt.Printf("%s %s\n", yellow("WARNING:"), fmt.Sprintf(format, args...))
	}
}

func printBanner(config *models.Config) {
	if !config.Quiet {
		fmt.Println(logo)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupOutput(config)
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		config.Quiet = true
	}

	orch, err := orchestrator.NewFromConfig(config, logger)
	if err != nil {
		return err
	}

	printBanner(config)
	if !config.Model.Configured() {
		printWarning(config, "AI model not configured, a demonstration report will be returned")
	}
	printInfo(config, "Analyzing %s", magenta(args[0]))

	result, err := orch.Analyze(cmd.Context(), args[0])
	if err != nil {
		return &exitError{code: exitCode(err), err: err}
	}

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if !config.Quiet {
		displayResult(result)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		rep := reporter.New([]reporter.Entry{{URL: args[0], Result: &result}}, config.OutputDir)
		if err := rep.GenerateReport(exportPath, config.OutputFormat); err != nil {
			return err
		}
		printSuccess(config, "Report written to %s", exportPath)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupOutput(config)

	urls, err := readURLsFromFile(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return &exitError{code: 2, err: fmt.Errorf("no URLs found in %s", args[0])}
	}

	if config.TakeScreenshots && config.ScreenshotDir == "" {
		config.ScreenshotDir = filepath.Join(config.OutputDir, "screenshots")
	}

	orch, err := orchestrator.NewFromConfig(config, logger)
	if err != nil {
		return err
	}

	printBanner(config)
	printInfo(config, "Starting analysis of %s websites", magenta(len(urls)))
	if !config.Model.Configured() {
		printWarning(config, "AI model not configured, demonstration reports will be returned")
	}
	if config.TakeScreenshots {
		printInfo(config, "Screenshots will be saved to: %s", config.ScreenshotDir)
	}

	opts := scanner.PoolOptions{
		Workers:      config.MaxConcurrentChecks,
		ShowProgress: !config.NoProgress && !config.Quiet,
	}
	entries := scanner.RunPool(cmd.Context(), urls, opts, analyzeEntry(orch))

	rep := reporter.New(entries, config.OutputDir)
	if err := rep.WriteResultsToFiles(); err != nil {
		return err
	}
	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := rep.GenerateReport(exportPath, config.OutputFormat); err != nil {
			return err
		}
	}

	analyzed, fallback, failed := rep.GetStats()
	if !config.Quiet {
		fmt.Println()
		fmt.Printf("Analyzed: %s  Fallback: %s  Failed: %s  Total: %s\n",
			green(analyzed), yellow(fallback), red(failed), magenta(len(entries)))
	}

	if err := cmd.Context().Err(); err != nil {
		return &exitError{code: 130, err: errors.New("analysis interrupted")}
	}
	printSuccess(config, "Results written to %s", config.OutputDir)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupOutput(config)

	orch, err := orchestrator.NewFromConfig(config, logger)
	if err != nil {
		return err
	}

	printBanner(config)
	if !config.Model.Configured() {
		printWarning(config, "AI model not configured, demonstration reports will be returned")
	}
	printInfo(config, "Listening on %s", cyan(config.ListenAddr))

	return server.New(orch, logger).ListenAndServe(cmd.Context(), config.ListenAddr)
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupOutput(config)

	url, err := orchestrator.ValidateURL(args[0])
	if err != nil {
		return &exitError{code: exitCode(err), err: err}
	}

	if config.ScreenshotDir == "" {
		config.ScreenshotDir = filepath.Join(config.OutputDir, "screenshots")
	}
	if err := os.MkdirAll(config.ScreenshotDir, 0755); err != nil {
		return fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	launcher, err := browser.NewLauncher(config, logger)
	if err != nil {
		return err
	}
	capturer, err := scanner.NewCapturer(launcher, config, logger)
	if err != nil {
		return err
	}

	printBanner(config)
	printInfo(config, "Capturing %s for %s", capturer.Profiles(), magenta(url))

	shots := capturer.Capture(cmd.Context(), url, "")
	if len(shots) == 0 {
		return &exitError{code: 3, err: fmt.Errorf("no screenshot could be captured for %s", url)}
	}

	for _, profile := range shots.Profiles() {
		printSuccess(config, "%s screenshot saved to %s", profile, shots[profile])
	}
	for _, profile := range capturer.Profiles() {
		if !shots.Has(profile) {
			printWarning(config, "%s screenshot failed", profile)
		}
	}
	return nil
}

func runTechDetection(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupOutput(config)

	url, err := orchestrator.ValidateURL(args[0])
	if err != nil {
		return &exitError{code: exitCode(err), err: err}
	}

	launcher, err := browser.NewLauncher(config, logger)
	if err != nil {
		return err
	}
	extractor, err := scanner.NewExtractor(launcher, config, logger)
	if err != nil {
		return err
	}

	printInfo(config, "Detecting technologies for %s", magenta(url))
	snapshot, err := extractor.Extract(cmd.Context(), url)
	if err != nil {
		err = &models.UnreachableSiteError{URL: url, Err: err}
		return &exitError{code: exitCode(err), err: err}
	}

	displayTechnologies(snapshot)
	return nil
}

func runConfigStatus(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupOutput(config)

	status := config.Model.Status()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	displayConfigStatus(status, config.Model.Missing())
	return nil
}

func runReportGeneration(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupOutput(config)

	inputFile, _ := cmd.Flags().GetString("input")
	if inputFile == "" {
		inputFile = filepath.Join(config.OutputDir, "analysis_results.json")
	}
	exportPath, _ := cmd.Flags().GetString("export")
	if exportPath == "" {
		exportPath = filepath.Join(config.OutputDir, "report")
	}
	format := config.OutputFormat
	if !cmd.Flags().Changed("format") {
		format = "html"
	}

	entries, err := reporter.Load(inputFile)
	if err != nil {
		return err
	}

	printInfo(config, "Generating %s report from %d results", format, len(entries))
	if err := reporter.New(entries, config.OutputDir).GenerateReport(exportPath, format); err != nil {
		return err
	}
	printSuccess(config, "Report generated: %s", exportPath)
	return nil
}

func analyzeEntry(orch *orchestrator.Orchestrator) func(ctx context.Context, url string) reporter.Entry {
	return func(ctx context.Context, url string) reporter.Entry {
		result, err := orch.Analyze(ctx, url)
		if err != nil {
			return reporter.Entry{URL: url, Err: err}
		}
		return reporter.Entry{URL: url, Result: &result}
	}
}
