package reporter

import (
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
)

type htmlRow struct {
	Entry
	State  string
	Kind   models.ErrorKind
	Issues []models.Issue
}

type htmlPage struct {
	Generated string
	Analyzed  int
	Fallback  int
	Failed    int
	Total     int
	Rows      []htmlRow
}

var htmlFuncs = template.FuncMap{
	"join":       strings.Join,
	"categories": func() []models.Category { return models.Categories },
	"section": func(r *models.AnalysisResult, c models.Category) *models.CategoryScore {
		return r.Details.For(c)
	},
	// Only file paths and data URIs of png images are rendered as image sources.
	"imgsrc": func(ref string) template.URL {
		if strings.HasPrefix(ref, "data:") && !strings.HasPrefix(ref, "data:image/png;base64,") {
			return ""
		}
		return template.URL(ref)
	},
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>uxlens UX Analysis Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        h1, h2, h3 { color: #2c3e50; }
        .container { max-width: 1200px; margin: 0 auto; }
        .summary { background-color: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .stats { display: flex; gap: 20px; margin: 20px 0; }
        .stat-box { flex: 1; padding: 15px; border-radius: 5px; text-align: center; }
        .analyzed { background-color: #d4edda; color: #155724; }
        .fallback { background-color: #fff3cd; color: #856404; }
        .failed { background-color: #f8d7da; color: #721c24; }
        .total { background-color: #e2e3e5; color: #383d41; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #f2f2f2; }
        tr:hover { background-color: #f5f5f5; }
        .badge { display: inline-block; padding: 3px 7px; border-radius: 3px; font-size: 12px; margin-right: 5px; }
        .badge-critical, .badge-high { background-color: #f8d7da; color: #721c24; }
        .badge-medium { background-color: #fff3cd; color: #856404; }
        .badge-low { background-color: #d4edda; color: #155724; }
        .badge-tech { background-color: #cce5ff; color: #004085; }
        .shot { max-width: 360px; border: 1px solid #ddd; margin-right: 10px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>uxlens UX Analysis Report</h1>
        <div class="summary">
            <p>Report generated on: {{.Generated}}</p>
            <p>Total URLs analyzed: {{.Total}}</p>
        </div>

        <div class="stats">
            <div class="stat-box analyzed"><h3>Analyzed</h3><p>{{.Analyzed}}</p></div>
            <div class="stat-box fallback"><h3>Fallback</h3><p>{{.Fallback}}</p></div>
            <div class="stat-box failed"><h3>Failed</h3><p>{{.Failed}}</p></div>
            <div class="stat-box total"><h3>Total</h3><p>{{.Total}}</p></div>
        </div>
{{range .Rows}}
        <h2>{{.URL}}</h2>
{{- if eq .State "failed"}}
        <p class="failed">Could not analyze ({{.Kind}}): {{if .Err}}{{.Err.Error}}{{end}}</p>
{{- else}}
{{- with .Result}}
        {{if .FallbackReason}}<p class="fallback">{{.FallbackReason}}</p>{{end}}
        <p><strong>Overall score: {{.Score}}/100</strong></p>
        <table>
            <tr><th>Category</th><th>Score</th><th>Issues</th></tr>
{{- $r := .}}
{{- range categories}}{{$s := section $r .}}
            <tr><td>{{.}}</td><td>{{$s.Score}}</td><td>{{len $s.Issues}}</td></tr>
{{- end}}
        </table>
        {{if .Metadata.Technologies}}<p>{{range .Metadata.Technologies}}<span class="badge badge-tech">{{.}}</span>{{end}}</p>{{end}}
        {{if .Strengths}}<h3>Strengths</h3><ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .Recommendations}}<h3>Recommendations</h3><ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- end}}
        {{if .Issues}}
        <table>
            <tr><th>Severity</th><th>Category</th><th>Title</th><th>Recommendation</th></tr>
            {{- range .Issues}}
            <tr><td><span class="badge badge-{{.Severity}}">{{.Severity}}</span></td><td>{{.Category}}</td><td>{{.Title}}</td><td>{{.Recommendation}}</td></tr>
            {{- end}}
        </table>
        {{end}}
        {{with .Result.Screenshots}}<p>{{range $profile, $ref := .}}<img class="shot" alt="{{$profile}}" src="{{imgsrc $ref}}">{{end}}</p>{{end}}
{{- end}}
{{end}}
    </div>
</body>
</html>
`))

// GenerateHTML creates an HTML report
func (r *Reporter) GenerateHTML(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	page := htmlPage{
		Generated: time.Now().Format("January 2, 2006 15:04:05"),
		Total:     len(r.entries),
		Rows:      make([]htmlRow, 0, len(r.entries)),
	}
	page.Analyzed, page.Fallback, page.Failed = r.GetStats()

	for _, e := range r.entries {
		row := htmlRow{Entry: e, State: e.Status()}
		if row.State == StatusFailed {
			row.Kind = models.KindOf(e.Err)
		} else {
			row.Issues = sortedIssues(e.Result)
		}
		page.Rows = append(page.Rows, row)
	}

	if err := htmlTemplate.Execute(file, page); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
