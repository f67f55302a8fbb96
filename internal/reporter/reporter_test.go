package reporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sla0ui/uxlens/internal/models"
)

func sampleEntries() []Entry {
	analysed := &models.AnalysisResult{
		URL:       "https://example.com",
		Score:     82,
		Strengths: []string{"Clear navigation"},
		Details: models.Details{
			Accessibility: models.CategoryScore{Score: 71, Issues: []models.Issue{
				{ID: "issue-1", Title: "Missing <alt> text", Severity: models.SeverityLow, Category: models.CategoryAccessibility},
				{ID: "issue-2", Title: "Contrast | too low", Severity: models.SeverityCritical, Category: models.CategoryAccessibility},
			}},
			Performance: models.CategoryScore{Score: 90, Issues: []models.Issue{}},
			Usability:   models.CategoryScore{Score: 80, Issues: []models.Issue{}},
			Design:      models.CategoryScore{Score: 85, Issues: []models.Issue{}},
		},
		Metadata: models.ResultMetadata{
			PageTitle:    "Example",
			LoadTime:     1200,
			PageSize:     42,
			Technologies: []string{"React", "Nginx"},
		},
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Screenshots: models.ScreenshotSet{"desktop": "data:image/png;base64,iVBO"},
	}
	fallback := &models.AnalysisResult{
		URL:            "https://fallback.example",
		Score:          64,
		FallbackReason: "not configured",
	}
	return []Entry{
		{URL: analysed.URL, Result: analysed},
		{URL: fallback.URL, Result: fallback},
		{URL: "https://down.example", Err: &models.UnreachableSiteError{URL: "https://down.example"}},
	}
}

func TestEntryStatus(t *testing.T) {
	entries := sampleEntries()
	assert.Equal(t, StatusAnalyzed, entries[0].Status())
	assert.Equal(t, StatusFallback, entries[1].Status())
	assert.Equal(t, StatusFailed, entries[2].Status())
	assert.Equal(t, StatusFailed, Entry{URL: "https://x"}.Status())
}

func TestGetStats(t *testing.T) {
	analyzed, fallback, failed := New(sampleEntries(), "").GetStats()
	assert.Equal(t, 1, analyzed)
	assert.Equal(t, 1, fallback)
	assert.Equal(t, 1, failed)
}

func TestGenerateReport(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		validate func(*testing.T, string)
	}{
		{
			name:   "json",
			format: "json",
			validate: func(t *testing.T, base string) {
				data, err := os.ReadFile(base + ".json")
				require.NoError(t, err)
				var out []map[string]any
				require.NoError(t, json.Unmarshal(data, &out))
				require.Len(t, out, 3)
				assert.Equal(t, "analyzed", out[0]["status"])
				assert.NotNil(t, out[0]["result"])
				assert.Nil(t, out[2]["result"])
				errObj := out[2]["error"].(map[string]any)
				assert.Equal(t, string(models.KindUnreachableSite), errObj["kind"])
			},
		},
		{
			name:   "csv",
			format: "csv",
			validate: func(t *testing.T, base string) {
				f, err := os.Open(base + ".csv")
				require.NoError(t, err)
				defer f.Close()
				rows, err := csv.NewReader(f).ReadAll()
				require.NoError(t, err)
				require.Len(t, rows, 4)
				assert.Equal(t, csvHeader, rows[0])
				assert.Equal(t, []string{"https://example.com", "analyzed", "82", "71", "90", "80", "85",
					"2", "1", "0", "Example", "1200ms", "React|Nginx", "", ""}, rows[1])
				assert.Equal(t, "not configured", rows[2][13])
				assert.Equal(t, "failed", rows[3][1])
				assert.NotEmpty(t, rows[3][14])
			},
		},
		{
			name:   "html escapes page content",
			format: "html",
			validate: func(t *testing.T, base string) {
				data, err := os.ReadFile(base + ".html")
				require.NoError(t, err)
				html := string(data)
				assert.Contains(t, html, "Missing &lt;alt&gt; text")
				assert.NotContains(t, html, "Missing <alt> text")
				assert.Contains(t, html, "Overall score: 82/100")
				assert.Contains(t, html, `src="data:image/png;base64,iVBO"`)
				assert.Contains(t, html, "not configured")
				assert.Contains(t, html, string(models.KindUnreachableSite))
				// most severe issue first
				assert.Less(t, strings.Index(html, "Contrast"), strings.Index(html, "Missing &lt;alt"))
			},
		},
		{
			name:   "markdown",
			format: "md",
			validate: func(t *testing.T, base string) {
				data, err := os.ReadFile(base + ".md")
				require.NoError(t, err)
				md := string(data)
				assert.Contains(t, md, "## https://example.com")
				assert.Contains(t, md, "| 1 | 1 | 1 | 3 |")
				assert.Contains(t, md, "Contrast \\| too low")
				assert.Contains(t, md, "- **JavaScript**: React")
				assert.Contains(t, md, "- **Server**: Nginx")
				assert.Contains(t, md, "desktop: embedded image")
				assert.Contains(t, md, "**Could not analyze** (`unreachable_site`)")
			},
		},
		{
			name:   "several formats",
			format: "json, csv,markdown",
			validate: func(t *testing.T, base string) {
				for _, ext := range []string{".json", ".csv", ".md"} {
					assert.FileExists(t, base+ext)
				}
				assert.NoFileExists(t, base+".html")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "reports", "report")
			r := New(sampleEntries(), "")
			require.NoError(t, r.GenerateReport(base+".out", tt.format))
			tt.validate(t, base)
		})
	}
}

func TestGenerateReportUnknownFormat(t *testing.T) {
	r := New(sampleEntries(), "")
	err := r.GenerateReport(filepath.Join(t.TempDir(), "report"), "pdf")
	assert.ErrorContains(t, err, "pdf")
}

func TestWriteResultsToFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	require.NoError(t, New(sampleEntries(), dir).WriteResultsToFiles())

	assert.FileExists(t, filepath.Join(dir, "analysis_results.json"))
	assert.FileExists(t, filepath.Join(dir, "analysis_log.csv"))
	failed, err := os.ReadFile(filepath.Join(dir, "failed_urls.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(failed), "https://down.example\tunreachable_site\t"))
}

func TestWriteResultsToFilesNoFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(sampleEntries()[:2], dir).WriteResultsToFiles())
	assert.NoFileExists(t, filepath.Join(dir, "failed_urls.txt"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, New(sampleEntries(), "").GenerateJSON(path))

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, StatusAnalyzed, entries[0].Status())
	assert.Equal(t, 82, entries[0].Result.Score)
	assert.Len(t, entries[0].Result.Issues(), 2)
	assert.Equal(t, StatusFallback, entries[1].Status())
	assert.Equal(t, StatusFailed, entries[2].Status())
	assert.Equal(t, models.KindUnreachableSite, models.KindOf(entries[2].Err))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
