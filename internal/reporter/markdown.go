package reporter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sla0ui/uxlens/internal/detector"
	"github.com/Sla0ui/uxlens/internal/models"
)

var categoryOrder = []string{
	"CMS", "Framework", "JavaScript", "CSS Framework", "Server", "Hosting",
	"Analytics", "Payment", "Security", "Programming", "Miscellaneous",
}

// GenerateMarkdown creates a Markdown report
func (r *Reporter) GenerateMarkdown(outputPath string) error {
	var b strings.Builder
	analyzed, fallback, failed := r.GetStats()

	b.WriteString("# uxlens UX Analysis Report\n\n")
	fmt.Fprintf(&b, "Report generated on: %s\n\n", time.Now().Format("January 2, 2006 15:04:05"))
	b.WriteString("| Analyzed | Fallback | Failed | Total |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n\n", analyzed, fallback, failed, len(r.entries))

	for _, e := range r.entries {
		fmt.Fprintf(&b, "## %s\n\n", e.URL)

		if e.Status() == StatusFailed {
			fmt.Fprintf(&b, "**Could not analyze** (`%s`): %s\n\n", models.KindOf(e.Err), errText(e.Err))
			continue
		}

		res := e.Result
		if res.IsFallback() {
			fmt.Fprintf(&b, "> %s\n\n", res.FallbackReason)
		}

		fmt.Fprintf(&b, "**Overall score: %d/100**\n\n", res.Score)
		b.WriteString("| Category | Score | Issues |\n|---|---|---|\n")
		for _, c := range models.Categories {
			section := res.Details.For(c)
			fmt.Fprintf(&b, "| %s | %d | %d |\n", c, section.Score, len(section.Issues))
		}
		b.WriteString("\n")

		writeList(&b, "Strengths", res.Strengths)
		writeList(&b, "Improvements", res.Improvements)
		writeList(&b, "Recommendations", res.Recommendations)

		if issues := sortedIssues(res); len(issues) > 0 {
			b.WriteString("### Issues\n\n")
			b.WriteString("| Severity | Category | Title | Recommendation |\n|---|---|---|---|\n")
			for _, issue := range issues {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
					issue.Severity, issue.Category, cell(issue.Title), cell(issue.Recommendation))
			}
			b.WriteString("\n")
		}

		if len(res.Metadata.Technologies) > 0 {
			b.WriteString("### Technologies\n\n")
			categories := detector.GetTechnologyCategories(res.Metadata.Technologies)
			for _, name := range categoryOrder {
				if techs := categories[name]; len(techs) > 0 {
					fmt.Fprintf(&b, "- **%s**: %s\n", name, strings.Join(techs, ", "))
				}
			}
			b.WriteString("\n")
		}

		if len(res.Screenshots) > 0 {
			b.WriteString("### Screenshots\n\n")
			for _, profile := range res.Screenshots.Profiles() {
				ref := res.Screenshots[profile]
				if strings.HasPrefix(ref, "data:") {
					fmt.Fprintf(&b, "- %s: embedded image\n", profile)
					continue
				}
				fmt.Fprintf(&b, "- %s: ![%s](%s)\n", profile, profile, ref)
			}
			b.WriteString("\n")
		}
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// cell makes text safe inside a table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
