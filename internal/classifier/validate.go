package classifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
)

const defaultScore = 70

// Placeholder text for issue fields the model left out
const (
	PlaceholderTitle          = "Unspecified Issue"
	PlaceholderDescription    = "No description provided"
	PlaceholderImpact         = "Impact not specified"
	PlaceholderRecommendation = "No recommendation provided"
)

// Defaults are the measured values used where the model gave none
type Defaults struct {
	URL          string
	Timestamp    time.Time
	PageTitle    string
	LoadTime     int64
	PageSize     int
	Technologies []string
}

// DefaultsFromSnapshot derives Defaults from what the browser measured
func DefaultsFromSnapshot(s models.PageSnapshot) Defaults {
	return Defaults{
		URL:          s.URL,
		Timestamp:    time.Now(),
		PageTitle:    s.Metadata.Title,
		LoadTime:     s.Performance.Load.Milliseconds(),
		PageSize:     int(math.Round(float64(len(s.HTML)) / 1024)),
		Technologies: s.Technologies,
	}
}

// idSequence mints issue ids for a single validation run
type idSequence struct {
	next int
	used map[string]bool
}

func (s *idSequence) claim(id string) (string, bool) {
	if id == "" || s.used[id] {
		return "", false
	}
	s.used[id] = true
	return id, true
}

func (s *idSequence) mint() string {
	for {
		s.next++
		id := fmt.Sprintf("issue-%d", s.next)
		if claimed, ok := s.claim(id); ok {
			return claimed
		}
	}
}

// Validate coerces a parsed reply into a complete result. It never fails:
// scores are clamped to [0,100] with 70 for missing values, all four
// sections are present, every issue gets a valid severity, the category of
// the section it was listed under, and an id unique within the result.
func Validate(payload map[string]any, d Defaults) models.AnalysisResult {
	ids := &idSequence{used: make(map[string]bool)}

	result := models.AnalysisResult{
		URL:             d.URL,
		Score:           score(payload["score"]),
		Strengths:       stringList(payload["strengths"]),
		Improvements:    stringList(payload["improvements"]),
		Recommendations: stringList(payload["recommendations"]),
		Timestamp:       d.Timestamp,
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now()
	}

	details, _ := payload["details"].(map[string]any)
	for _, c := range models.Categories {
		section, _ := details[string(c)].(map[string]any)
		*result.Details.For(c) = models.CategoryScore{
			Score:  score(section["score"]),
			Issues: issues(section["issues"], c, ids),
		}
	}

	meta, _ := payload["metadata"].(map[string]any)
	result.Metadata = models.ResultMetadata{
		PageTitle:    d.PageTitle,
		LoadTime:     d.LoadTime,
		PageSize:     d.PageSize,
		Technologies: append([]string{}, d.Technologies...),
	}
	if title, ok := text(meta["pageTitle"]); ok {
		result.Metadata.PageTitle = title
	}
	if n, ok := number(meta["loadTime"]); ok && n > 0 {
		result.Metadata.LoadTime = int64(math.Round(n))
	}
	if n, ok := number(meta["pageSize"]); ok && n > 0 {
		result.Metadata.PageSize = int(math.Round(n))
	}
	if techs := stringList(meta["technologies"]); len(techs) > 0 {
		result.Metadata.Technologies = techs
	}

	return result
}

func issues(v any, category models.Category, ids *idSequence) []models.Issue {
	list, _ := v.([]any)
	out := make([]models.Issue, 0, len(list))
	for _, entry := range list {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, issue(raw, category, ids))
	}
	return out
}

func issue(raw map[string]any, category models.Category, ids *idSequence) models.Issue {
	id, _ := identifier(raw["id"])
	id, ok := ids.claim(id)
	if !ok {
		id = ids.mint()
	}

	severity := models.SeverityMedium
	if s, ok := text(raw["severity"]); ok {
		if candidate := models.Severity(strings.ToLower(s)); candidate.Valid() {
			severity = candidate
		}
	}

	codeExample, _ := text(raw["codeExample"])
	return models.Issue{
		ID:             id,
		Title:          textOr(raw["title"], PlaceholderTitle),
		Description:    textOr(raw["description"], PlaceholderDescription),
		Severity:       severity,
		Category:       category,
		Location:       location(raw["location"]),
		Impact:         textOr(raw["impact"], PlaceholderImpact),
		Recommendation: textOr(raw["recommendation"], PlaceholderRecommendation),
		CodeExample:    codeExample,
	}
}

func location(v any) *models.Location {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	loc := &models.Location{}
	loc.Element, _ = text(raw["element"])
	loc.Selector, _ = text(raw["selector"])
	loc.Page, _ = text(raw["page"])

	if c, ok := raw["coordinates"].(map[string]any); ok {
		x, okX := number(c["x"])
		y, okY := number(c["y"])
		if okX && okY {
			w, _ := number(c["width"])
			h, _ := number(c["height"])
			loc.Coordinates = &models.Coordinates{X: x, Y: y, Width: math.Max(w, 0), Height: math.Max(h, 0)}
		}
	}

	if *loc == (models.Location{}) {
		return nil
	}
	return loc
}

// score reads a 0-100 score, defaulting to 70
func score(v any) int {
	n, ok := number(v)
	if !ok {
		return defaultScore
	}
	return int(math.Round(math.Min(100, math.Max(0, n))))
}

// number accepts JSON numbers and numeric strings
func number(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// text returns a non-blank string value, trimmed
func text(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func textOr(v any, fallback string) string {
	if s, ok := text(v); ok {
		return s
	}
	return fallback
}

// identifier accepts string and integral ids
func identifier(v any) (string, bool) {
	if s, ok := text(v); ok {
		return s, true
	}
	// Integral floats beyond 2^53 lose precision and do not convert reliably.
	if n, ok := v.(float64); ok && n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return strconv.FormatInt(int64(n), 10), true
	}
	return "", false
}

// stringList keeps the non-blank strings of a JSON array, never returning nil
func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := text(item); ok {
			out = append(out, s)
		}
	}
	return out
}
