package models

import (
	"time"
)

// Severity ranks the user impact of an Issue
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every valid severity, lowest first
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is one of the four known severities
func (s Severity) Valid() bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

// Category names one of the four scored sections of a report
type Category string

const (
	CategoryAccessibility Category = "accessibility"
	CategoryPerformance   Category = "performance"
	CategoryUsability     Category = "usability"
	CategoryDesign        Category = "design"
)

// Categories lists the report sections in display order
var Categories = []Category{CategoryAccessibility, CategoryPerformance, CategoryUsability, CategoryDesign}

// Coordinates locate an element on the rendered page, in CSS pixels
type Coordinates struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Location points at the element an Issue refers to
type Location struct {
	Element     string       `json:"element,omitempty"`
	Selector    string       `json:"selector,omitempty"`
	Page        string       `json:"page,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Issue is a single UX finding
type Issue struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Severity       Severity  `json:"severity"`
	Category       Category  `json:"category"`
	Location       *Location `json:"location,omitempty"`
	Impact         string    `json:"impact"`
	Recommendation string    `json:"recommendation"`
	CodeExample    string    `json:"codeExample,omitempty"`
}

// CategoryScore holds the score and findings of one report section
type CategoryScore struct {
	Score  int     `json:"score"`
	Issues []Issue `json:"issues"`
}

// Details carries exactly one CategoryScore per Category
type Details struct {
	Accessibility CategoryScore `json:"accessibility"`
	Performance   CategoryScore `json:"performance"`
	Usability     CategoryScore `json:"usability"`
	Design        CategoryScore `json:"design"`
}

// For returns the section for category c, or nil for an unknown category
func (d *Details) For(c Category) *CategoryScore {
	switch c {
	case CategoryAccessibility:
		return &d.Accessibility
	case CategoryPerformance:
		return &d.Performance
	case CategoryUsability:
		return &d.Usability
	case CategoryDesign:
		return &d.Design
	}
	return nil
}

// ResultMetadata describes the analysed page
type ResultMetadata struct {
	PageTitle    string   `json:"pageTitle"`
	LoadTime     int64    `json:"loadTime"`
	PageSize     int      `json:"pageSize"`
	Technologies []string `json:"technologies"`
}

// AnalysisResult is the complete UX report for one URL
type AnalysisResult struct {
	URL             string         `json:"url"`
	Score           int            `json:"score"`
	Strengths       []string       `json:"strengths"`
	Improvements    []string       `json:"improvements"`
	Recommendations []string       `json:"recommendations"`
	Details         Details        `json:"details"`
	Metadata        ResultMetadata `json:"metadata"`
	Timestamp       time.Time      `json:"timestamp"`
	Screenshots     ScreenshotSet  `json:"screenshots,omitempty"`
	FallbackReason  string         `json:"fallbackReason,omitempty"`
}

// IsFallback reports whether the result was synthesized without the model
func (r *AnalysisResult) IsFallback() bool {
	return r.FallbackReason != ""
}

// Issues returns every issue of the report, section by section
func (r *AnalysisResult) Issues() []Issue {
	var all []Issue
	for _, c := range Categories {
		all = append(all, r.Details.For(c).Issues...)
	}
	return all
}

// WithScreenshots returns a copy of r carrying the given screenshot set
func (r AnalysisResult) WithScreenshots(set ScreenshotSet) AnalysisResult {
	if len(set) > 0 {
		r.Screenshots = set.Clone()
	}
	return r
}
