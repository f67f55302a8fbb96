package analyzer

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Sla0ui/uxlens/internal/browser"
	"github.com/Sla0ui/uxlens/internal/models"
)

var testLimits = Limits{MaxHTMLLength: 200000, MaxTextLength: 50000}

func TestBuildSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		facts    browser.PageFacts
		limits   Limits
		validate func(*testing.T, models.PageSnapshot)
	}{
		{
			name:   "HTML truncated to exactly the cap",
			facts:  browser.PageFacts{HTML: strings.Repeat("a", 250000)},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if len(s.HTML) != 200000 {
					t.Errorf("Expected 200000 chars, got %d", len(s.HTML))
				}
			},
		},
		{
			name:   "Short HTML untouched",
			facts:  browser.PageFacts{HTML: "<html></html>"},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if s.HTML != "<html></html>" {
					t.Errorf("Expected HTML unchanged, got %q", s.HTML)
				}
			},
		},
		{
			name:   "Visible text whitespace collapsed then truncated",
			facts:  browser.PageFacts{VisibleText: "  Hello \n\n\t world   again "},
			limits: Limits{MaxHTMLLength: 10, MaxTextLength: 11},
			validate: func(t *testing.T, s models.PageSnapshot) {
				if s.VisibleText != "Hello world" {
					t.Errorf("Expected %q, got %q", "Hello world", s.VisibleText)
				}
			},
		},
		{
			name: "Counters clamped to their totals",
			facts: browser.PageFacts{Accessibility: browser.FactsAccessibility{
				ImagesWithoutAlt:   9,
				TotalImages:        3,
				LinksWithoutText:   -2,
				TotalLinks:         4,
				ButtonsWithoutText: 1,
				TotalButtons:       -1,
				FormsWithoutLabels: 1,
				TotalForms:         2,
			}},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				a := s.Accessibility
				if a.ImagesWithoutAlt != 3 || a.TotalImages != 3 {
					t.Errorf("Expected images 3/3, got %d/%d", a.ImagesWithoutAlt, a.TotalImages)
				}
				if a.LinksWithoutText != 0 {
					t.Errorf("Expected links without text 0, got %d", a.LinksWithoutText)
				}
				if a.ButtonsWithoutText != 0 || a.TotalButtons != 0 {
					t.Errorf("Expected buttons 0/0, got %d/%d", a.ButtonsWithoutText, a.TotalButtons)
				}
				if a.FormsWithoutLabels != 1 {
					t.Errorf("Expected forms without labels 1, got %d", a.FormsWithoutLabels)
				}
			},
		},
		{
			name: "Heading outline parsed in order",
			facts: browser.PageFacts{Accessibility: browser.FactsAccessibility{Headings: []browser.FactsHeading{
				{Level: "h1", Text: " Welcome  home "},
				{Level: "hx", Text: "broken"},
				{Level: "H3", Text: "Details"},
			}}},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				want := []models.Heading{{Level: 1, Text: "Welcome home"}, {Level: 3, Text: "Details"}}
				if len(s.Accessibility.Headings) != len(want) {
					t.Fatalf("Expected %v, got %v", want, s.Accessibility.Headings)
				}
				for i := range want {
					if s.Accessibility.Headings[i] != want[i] {
						t.Errorf("Heading %d: expected %v, got %v", i, want[i], s.Accessibility.Headings[i])
					}
				}
			},
		},
		{
			name: "Timings converted and never negative",
			facts: browser.PageFacts{Performance: browser.FactsPerformance{
				LoadTime:         1500,
				DOMContentLoaded: -20,
				FirstPaint:       12.5,
			}},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if s.Performance.Load != 1500*time.Millisecond {
					t.Errorf("Expected 1.5s load, got %v", s.Performance.Load)
				}
				if s.Performance.DOMContentLoaded != 0 {
					t.Errorf("Expected 0 DOMContentLoaded, got %v", s.Performance.DOMContentLoaded)
				}
				if s.Performance.FirstPaint != 12500*time.Microsecond {
					t.Errorf("Expected 12.5ms first paint, got %v", s.Performance.FirstPaint)
				}
			},
		},
		{
			name:   "Metadata defaults",
			facts:  browser.PageFacts{Metadata: browser.FactsMetadata{Title: "  Shop  "}},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if s.Metadata.Title != "Shop" {
					t.Errorf("Expected trimmed title, got %q", s.Metadata.Title)
				}
				if s.Metadata.Language != "en" {
					t.Errorf("Expected default language en, got %q", s.Metadata.Language)
				}
				if s.Metadata.Charset != "UTF-8" {
					t.Errorf("Expected default charset UTF-8, got %q", s.Metadata.Charset)
				}
				if s.Viewport.DevicePixelRatio != 1 {
					t.Errorf("Expected device pixel ratio 1, got %v", s.Viewport.DevicePixelRatio)
				}
			},
		},
		{
			name: "Declared language kept",
			facts: browser.PageFacts{
				Metadata:    browser.FactsMetadata{Language: "de-DE", Charset: "ISO-8859-1"},
				VisibleText: "This text is plainly written in English but the document says otherwise.",
			},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if s.Metadata.Language != "de-DE" || s.Metadata.Charset != "ISO-8859-1" {
					t.Errorf("Expected declared values, got %q %q", s.Metadata.Language, s.Metadata.Charset)
				}
			},
		},
		{
			name:   "Technologies detected from HTML",
			facts:  browser.PageFacts{HTML: `<div id="__next"></div>`},
			limits: testLimits,
			validate: func(t *testing.T, s models.PageSnapshot) {
				if len(s.Technologies) != 1 || s.Technologies[0] != "Next.js" {
					t.Errorf("Expected [Next.js], got %v", s.Technologies)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := browser.NavigationOutcome{RequestedURL: "https://example.com", FinalURL: "https://example.com/", StatusCode: 200}
			snapshot := BuildSnapshot("https://example.com", outcome, tt.facts, tt.limits)
			if snapshot.URL != "https://example.com" || snapshot.StatusCode != 200 {
				t.Errorf("Expected URL and status to be carried over, got %q %d", snapshot.URL, snapshot.StatusCode)
			}
			tt.validate(t, snapshot)
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo wörld", 5); got != "héllo" {
		t.Errorf("Expected %q, got %q", "héllo", got)
	}
	if got := Truncate(strings.Repeat("é", 10), 10); utf8.RuneCountInString(got) != 10 {
		t.Errorf("Expected 10 runes, got %d", utf8.RuneCountInString(got))
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestGuessLanguage(t *testing.T) {
	if got := GuessLanguage("Hi"); got != "en" {
		t.Errorf("Expected en for short text, got %q", got)
	}
	french := "Bonjour et bienvenue sur notre site. Nous proposons des services de qualité pour tous nos clients depuis plus de vingt ans."
	if got := GuessLanguage(french); got != "fr" {
		t.Errorf("Expected fr, got %q", got)
	}
}
