// Package prompt builds the instructions sent to the language model.
package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Sla0ui/uxlens/internal/analyzer"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// Excerpt sizes, in characters
const (
	TextExcerptLength    = 25000
	HTMLExcerptLength    = 50000
	headingExcerptLength = 50
)

var (
	markupPolicy     *bluemonday.Policy
	markupPolicyOnce sync.Once
)

// initMarkupPolicy keeps the structure and accessibility attributes of the
// page and drops scripts, styles and event handlers
func initMarkupPolicy() {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"header", "nav", "main", "footer", "section", "article", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6", "p", "div", "span", "figure", "figcaption",
		"form", "fieldset", "legend", "label", "input", "button", "select", "option", "textarea",
		"strong", "em", "b", "i", "small", "br", "hr", "blockquote",
	)
	p.AllowLists()
	p.AllowTables()
	p.AllowImages()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs(
		"id", "role", "lang", "title", "tabindex",
		"aria-label", "aria-labelledby", "aria-describedby", "aria-hidden", "aria-expanded",
		"type", "name", "for", "placeholder", "value", "alt",
	).Globally()
	markupPolicy = p
}

// Compose turns a snapshot into the system and user instructions.
// The result depends only on the snapshot.
func Compose(s models.PageSnapshot) (system, user string) {
	return systemInstruction, userInstruction(s)
}

// SanitizeMarkup reduces page HTML to the structure the model needs
func SanitizeMarkup(html string) string {
	markupPolicyOnce.Do(initMarkupPolicy)
	return markupPolicy.Sanitize(html)
}

func userInstruction(s models.PageSnapshot) string {
	var b strings.Builder
	a := s.Accessibility
	perf := s.Performance

	fmt.Fprintf(&b, "Please analyze the following website content for: %s\n\n", s.URL)

	b.WriteString("WEBSITE CONTENT:\n")
	fmt.Fprintf(&b, "Title: %s\n", s.Metadata.Title)
	fmt.Fprintf(&b, "Description: %s\n", s.Metadata.Description)
	fmt.Fprintf(&b, "Keywords: %s\n", s.Metadata.Keywords)
	fmt.Fprintf(&b, "Language: %s\n", s.Metadata.Language)
	fmt.Fprintf(&b, "Viewport meta: %s\n", s.Metadata.Viewport)
	fmt.Fprintf(&b, "Canonical: %s\n", s.Metadata.Canonical)
	fmt.Fprintf(&b, "Detected technologies: %s\n\n", strings.Join(s.Technologies, ", "))

	fmt.Fprintf(&b, "VISIBLE TEXT CONTENT (first %d characters):\n", TextExcerptLength)
	b.WriteString(analyzer.Truncate(s.VisibleText, TextExcerptLength))
	b.WriteString("\n\n")

	b.WriteString("ACCESSIBILITY DATA:\n")
	fmt.Fprintf(&b, "- Images without alt text: %d/%d\n", a.ImagesWithoutAlt, a.TotalImages)
	fmt.Fprintf(&b, "- Links without text: %d/%d\n", a.LinksWithoutText, a.TotalLinks)
	fmt.Fprintf(&b, "- Buttons without text: %d/%d\n", a.ButtonsWithoutText, a.TotalButtons)
	fmt.Fprintf(&b, "- Forms without labels: %d/%d\n", a.FormsWithoutLabels, a.TotalForms)
	fmt.Fprintf(&b, "- Total tables: %d\n", a.TotalTables)
	fmt.Fprintf(&b, "- Total lists: %d\n", a.TotalLists)
	fmt.Fprintf(&b, "- Heading structure: %s\n\n", headingOutline(a.Headings))

	b.WriteString("DETAILED ACCESSIBILITY ANALYSIS:\n")
	fmt.Fprintf(&b, "- Images needing alt text: %s\n", strings.Join(baseNames(a.ImagesMissingAlt), ", "))
	fmt.Fprintf(&b, "- Links needing text: %s\n", strings.Join(a.LinksMissingText, ", "))
	fmt.Fprintf(&b, "- Buttons needing text: %s\n", strings.Join(a.ButtonsMissingText, ", "))
	fmt.Fprintf(&b, "- Inputs without labels: %s\n\n", strings.Join(a.InputsMissingLabel, ", "))

	b.WriteString("PERFORMANCE DATA:\n")
	fmt.Fprintf(&b, "- Load time: %dms\n", perf.Load.Milliseconds())
	fmt.Fprintf(&b, "- DOM content loaded: %dms\n", perf.DOMContentLoaded.Milliseconds())
	fmt.Fprintf(&b, "- First paint: %dms\n", perf.FirstPaint.Milliseconds())
	fmt.Fprintf(&b, "- First contentful paint: %dms\n\n", perf.FirstContentfulPaint.Milliseconds())

	b.WriteString("VIEWPORT DATA:\n")
	fmt.Fprintf(&b, "- Width: %dpx\n", s.Viewport.Width)
	fmt.Fprintf(&b, "- Height: %dpx\n", s.Viewport.Height)
	fmt.Fprintf(&b, "- Device pixel ratio: %g\n", s.Viewport.DevicePixelRatio)
	fmt.Fprintf(&b, "- Scroll width: %dpx\n", s.Viewport.ScrollWidth)
	fmt.Fprintf(&b, "- Scroll height: %dpx\n\n", s.Viewport.ScrollHeight)

	fmt.Fprintf(&b, "HTML STRUCTURE (first %d characters, scripts and styles removed):\n", HTMLExcerptLength)
	b.WriteString(analyzer.Truncate(SanitizeMarkup(s.HTML), HTMLExcerptLength))
	b.WriteString("\n\n")

	b.WriteString("Provide a comprehensive UX analysis covering accessibility, performance, usability and design, ")
	b.WriteString("for both desktop and mobile visitors. Point at the exact elements involved in every finding.")
	return b.String()
}

func headingOutline(headings []models.Heading) string {
	parts := make([]string, len(headings))
	for i, h := range headings {
		parts[i] = fmt.Sprintf("h%d: %s", h.Level, analyzer.Truncate(h.Text, headingExcerptLength))
	}
	return strings.Join(parts, ", ")
}

func baseNames(srcs []string) []string {
	names := make([]string, len(srcs))
	for i, src := range srcs {
		src = strings.TrimRight(src, "/")
		names[i] = src[strings.LastIndex(src, "/")+1:]
	}
	return names
}
