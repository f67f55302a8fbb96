// Package analyzer turns raw page facts into an immutable PageSnapshot.
package analyzer

import (
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/detector"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/pemistahl/lingua-go"
)

const (
	defaultLanguage = "en"
	defaultCharset  = "UTF-8"

	// maxOffenders bounds each list of offending elements
	maxOffenders = 25

	// minLanguageSample is the shortest text worth guessing a language from
	minLanguageSample = 40
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func initLanguageDetector() {
	languageDetector = lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.French, lingua.German, lingua.Spanish,
			lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Polish,
			lingua.Swedish, lingua.Turkish, lingua.Russian, lingua.Japanese,
			lingua.Chinese, lingua.Korean, lingua.Arabic,
		).
		WithLowAccuracyMode().
		Build()
}

// Limits caps the size of the free-text fields of a snapshot
type Limits struct {
	MaxHTMLLength int
	MaxTextLength int
}

// LimitsFromConfig reads the caps from the application config
func LimitsFromConfig(config *models.Config) Limits {
	return Limits{MaxHTMLLength: config.MaxHTMLLength, MaxTextLength: config.MaxTextLength}
}

// BuildSnapshot normalizes what a browser session read from a page.
// Text fields are truncated to the limits, counters are clamped so every
// "without" count lies in [0, total], and timings are never negative.
func BuildSnapshot(url string, outcome browser.NavigationOutcome, facts browser.PageFacts, limits Limits) models.PageSnapshot {
	text := collapseWhitespace(facts.VisibleText)

	snapshot := models.PageSnapshot{
		URL:           url,
		FinalURL:      outcome.FinalURL,
		StatusCode:    outcome.StatusCode,
		HTML:          Truncate(facts.HTML, limits.MaxHTMLLength),
		VisibleText:   Truncate(text, limits.MaxTextLength),
		Metadata:      buildMetadata(facts.Metadata, text),
		Accessibility: buildAccessibility(facts.Accessibility),
		Performance: models.PerformanceTimings{
			Load:                 millis(facts.Performance.LoadTime),
			DOMContentLoaded:     millis(facts.Performance.DOMContentLoaded),
			FirstPaint:           millis(facts.Performance.FirstPaint),
			FirstContentfulPaint: millis(facts.Performance.FirstContentfulPaint),
		},
		Viewport: models.ViewportGeometry{
			Width:            nonNegative(facts.Viewport.Width),
			Height:           nonNegative(facts.Viewport.Height),
			DevicePixelRatio: facts.Viewport.DevicePixelRatio,
			ScrollWidth:      nonNegative(facts.Viewport.ScrollWidth),
			ScrollHeight:     nonNegative(facts.Viewport.ScrollHeight),
		},
		Technologies: detector.Detect(facts.HTML, outcome.Headers),
		CapturedAt:   time.Now(),
	}
	if snapshot.Viewport.DevicePixelRatio <= 0 {
		snapshot.Viewport.DevicePixelRatio = 1
	}
	return snapshot
}

// Truncate cuts s to at most max runes
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func buildMetadata(m browser.FactsMetadata, text string) models.PageMetadata {
	meta := models.PageMetadata{
		Title:         strings.TrimSpace(m.Title),
		Description:   strings.TrimSpace(m.Description),
		Keywords:      strings.TrimSpace(m.Keywords),
		Canonical:     strings.TrimSpace(m.Canonical),
		Language:      strings.TrimSpace(m.Language),
		Charset:       strings.TrimSpace(m.Charset),
		Viewport:      strings.TrimSpace(m.Viewport),
		Robots:        strings.TrimSpace(m.Robots),
		OGTitle:       strings.TrimSpace(m.OGTitle),
		OGDescription: strings.TrimSpace(m.OGDescription),
		OGImage:       strings.TrimSpace(m.OGImage),
	}
	if meta.Language == "" {
		meta.Language = GuessLanguage(text)
	}
	if meta.Charset == "" {
		meta.Charset = defaultCharset
	}
	return meta
}

// GuessLanguage returns the ISO 639-1 code of the text's language, or "en"
// when the text is too short or ambiguous
func GuessLanguage(text string) string {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLanguageSample {
		return defaultLanguage
	}

	languageDetectorOnce.Do(initLanguageDetector)
	lang, ok := languageDetector.DetectLanguageOf(Truncate(text, 2000))
	if !ok {
		return defaultLanguage
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

func buildAccessibility(a browser.FactsAccessibility) models.AccessibilityCounts {
	counts := models.AccessibilityCounts{
		TotalImages:  nonNegative(a.TotalImages),
		TotalLinks:   nonNegative(a.TotalLinks),
		TotalButtons: nonNegative(a.TotalButtons),
		TotalForms:   nonNegative(a.TotalForms),
		TotalTables:  nonNegative(a.TotalTables),
		TotalLists:   nonNegative(a.TotalLists),
	}
	counts.ImagesWithoutAlt = clampCount(a.ImagesWithoutAlt, counts.TotalImages)
	counts.LinksWithoutText = clampCount(a.LinksWithoutText, counts.TotalLinks)
	counts.ButtonsWithoutText = clampCount(a.ButtonsWithoutText, counts.TotalButtons)
	counts.FormsWithoutLabels = clampCount(a.FormsWithoutLabels, counts.TotalForms)

	counts.Headings = make([]models.Heading, 0, len(a.Headings))
	for _, h := range a.Headings {
		level, ok := headingLevel(h.Level)
		if !ok {
			continue
		}
		counts.Headings = append(counts.Headings, models.Heading{Level: level, Text: collapseWhitespace(h.Text)})
	}

	counts.ImagesMissingAlt = offenders(a.ImagesMissingAlt)
	counts.LinksMissingText = offenders(a.LinksMissingText)
	counts.ButtonsMissingText = offenders(a.ButtonsMissingText)
	counts.InputsMissingLabel = offenders(a.InputsMissingLabel)
	return counts
}

// headingLevel parses "h1".."h6" (or a bare digit) into 1..6
func headingLevel(tag string) (int, bool) {
	tag = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "h")
	level, err := strconv.Atoi(tag)
	if err != nil || level < 1 || level > 6 {
		return 0, false
	}
	return level, true
}

func offenders(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	if len(list) > maxOffenders {
		list = list[:maxOffenders]
	}
	return append([]string(nil), list...)
}

func clampCount(without, total int) int {
	if without < 0 {
		return 0
	}
	if without > total {
		return total
	}
	return without
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func millis(ms float64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
