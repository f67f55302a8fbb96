package models

import (
	"sort"
	"time"
)

// PageMetadata holds the document-level metadata of a page
type PageMetadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
	Language      string `json:"language,omitempty"`
	Charset       string `json:"charset,omitempty"`
	Viewport      string `json:"viewport,omitempty"`
	Robots        string `json:"robots,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
}

// Heading is one entry of the document outline
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// AccessibilityCounts summarises accessibility-relevant markup.
// Every "without" counter is at most its matching total.
type AccessibilityCounts struct {
	ImagesWithoutAlt   int       `json:"images_without_alt"`
	TotalImages        int       `json:"total_images"`
	LinksWithoutText   int       `json:"links_without_text"`
	TotalLinks         int       `json:"total_links"`
	ButtonsWithoutText int       `json:"buttons_without_text"`
	TotalButtons       int       `json:"total_buttons"`
	FormsWithoutLabels int       `json:"forms_without_labels"`
	TotalForms         int       `json:"total_forms"`
	TotalTables        int       `json:"total_tables"`
	TotalLists         int       `json:"total_lists"`
	Headings           []Heading `json:"headings"`

	ImagesMissingAlt   []string `json:"images_missing_alt,omitempty"`
	LinksMissingText   []string `json:"links_missing_text,omitempty"`
	ButtonsMissingText []string `json:"buttons_missing_text,omitempty"`
	InputsMissingLabel []string `json:"inputs_missing_label,omitempty"`
}

// PerformanceTimings are navigation and paint timings reported by the page
type PerformanceTimings struct {
	Load                 time.Duration `json:"load"`
	DOMContentLoaded     time.Duration `json:"dom_content_loaded"`
	FirstPaint           time.Duration `json:"first_paint"`
	FirstContentfulPaint time.Duration `json:"first_contentful_paint"`
}

// ViewportGeometry is the layout viewport the page was rendered in
type ViewportGeometry struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
	ScrollWidth      int     `json:"scroll_width"`
	ScrollHeight     int     `json:"scroll_height"`
}

// PageSnapshot is the normalized set of facts extracted from one page load.
// It is built once per request and never modified afterwards.
type PageSnapshot struct {
	URL           string              `json:"url"`
	FinalURL      string              `json:"final_url,omitempty"`
	StatusCode    int                 `json:"status_code"`
	HTML          string              `json:"html"`
	VisibleText   string              `json:"visible_text"`
	Metadata      PageMetadata        `json:"metadata"`
	Accessibility AccessibilityCounts `json:"accessibility"`
	Performance   PerformanceTimings  `json:"performance"`
	Viewport      ViewportGeometry    `json:"viewport"`
	Technologies  []string            `json:"technologies,omitempty"`
	CapturedAt    time.Time           `json:"captured_at"`
}

// ScreenshotSet maps a viewport profile name to an image reference, either a
// file path or a data URI. A profile is present only if its capture succeeded.
type ScreenshotSet map[string]string

// NewScreenshotSet returns an empty, non-nil set
func NewScreenshotSet() ScreenshotSet {
	return ScreenshotSet{}
}

// Has reports whether the profile was captured
func (s ScreenshotSet) Has(profile string) bool {
	_, ok := s[profile]
	return ok
}

// Profiles returns the captured profile names in sorted order
func (s ScreenshotSet) Profiles() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the set
func (s ScreenshotSet) Clone() ScreenshotSet {
	clone := make(ScreenshotSet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}
