// Package reporter writes analysis results to files.
package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sla0ui/uxlens/internal/models"
)

// Entry statuses
const (
	StatusAnalyzed = "analyzed"
	StatusFallback = "fallback"
	StatusFailed   = "failed"
)

// Entry is the outcome of analysing one URL: a result or an error
type Entry struct {
	URL    string
	Result *models.AnalysisResult
	Err    error
}

// Status reports whether the entry holds a real, fallback or failed analysis
func (e Entry) Status() string {
	switch {
	case e.Err != nil || e.Result == nil:
		return StatusFailed
	case e.Result.IsFallback():
		return StatusFallback
	}
	return StatusAnalyzed
}

// Reporter handles generating analysis reports in various formats
type Reporter struct {
	entries   []Entry
	outputDir string
}

// New creates a new Reporter instance
func New(entries []Entry, outputDir string) *Reporter {
	return &Reporter{
		entries:   entries,
		outputDir: outputDir,
	}
}

// WriteResultsToFiles writes the standard outputs into the output directory:
// the JSON results, a CSV log and the list of URLs that could not be analysed
func (r *Reporter) WriteResultsToFiles() error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := r.GenerateJSON(filepath.Join(r.outputDir, "analysis_results.json")); err != nil {
		return err
	}
	if err := r.GenerateCSV(filepath.Join(r.outputDir, "analysis_log.csv")); err != nil {
		return err
	}

	var failed []string
	for _, e := range r.entries {
		if e.Status() == StatusFailed {
			failed = append(failed, fmt.Sprintf("%s\t%s\t%v", e.URL, models.KindOf(e.Err), e.Err))
		}
	}
	failedFile := filepath.Join(r.outputDir, "failed_urls.txt")
	if len(failed) == 0 {
		return nil
	}
	if err := os.WriteFile(failedFile, []byte(strings.Join(failed, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", failedFile, err)
	}
	return nil
}

// GenerateReport creates a report in each of the comma separated formats
func (r *Reporter) GenerateReport(outputPath, format string) error {
	formats := strings.Split(format, ",")
	outputBase := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	if dir := filepath.Dir(outputBase); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "json":
			if err := r.GenerateJSON(outputBase + ".json"); err != nil {
				return err
			}
		case "csv":
			if err := r.GenerateCSV(outputBase + ".csv"); err != nil {
				return err
			}
		case "html":
			if err := r.GenerateHTML(outputBase + ".html"); err != nil {
				return err
			}
		case "markdown", "md":
			if err := r.GenerateMarkdown(outputBase + ".md"); err != nil {
				return err
			}
		case "":
		default:
			return fmt.Errorf("unknown report format %q", f)
		}
	}

	return nil
}

// GetStats counts entries by status
func (r *Reporter) GetStats() (analyzed, fallback, failed int) {
	for _, e := range r.entries {
		switch e.Status() {
		case StatusAnalyzed:
			analyzed++
		case StatusFallback:
			fallback++
		default:
			failed++
		}
	}
	return
}

// severityCounts tallies the issues of a result per severity
func severityCounts(result *models.AnalysisResult) map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, issue := range result.Issues() {
		counts[issue.Severity]++
	}
	return counts
}

// sortedIssues lists the issues of a result, most severe first
func sortedIssues(result *models.AnalysisResult) []models.Issue {
	rank := make(map[models.Severity]int, len(models.Severities))
	for i, s := range models.Severities {
		rank[s] = i
	}
	issues := result.Issues()
	sort.SliceStable(issues, func(i, j int) bool {
		return rank[issues[i].Severity] > rank[issues[j].Severity]
	})
	return issues
}
