package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleSnapshot() models.PageSnapshot {
	return models.PageSnapshot{
		URL:         "https://example.com",
		HTML:        `<html><head><script>track()</script><style>body{}</style></head><body><nav aria-label="Main"><a href="/about" onclick="x()">About</a></nav><img src="/img/hero.jpg"></body></html>`,
		VisibleText: strings.Repeat("y", 30000),
		Metadata:    models.PageMetadata{Title: "Example", Description: "An example", Language: "en"},
		Accessibility: models.AccessibilityCounts{
			ImagesWithoutAlt: 1,
			TotalImages:      4,
			LinksWithoutText: 2,
			TotalLinks:       9,
			Headings:         []models.Heading{{Level: 1, Text: strings.Repeat("h", 80)}, {Level: 2, Text: "Pricing"}},
			ImagesMissingAlt: []string{"https://cdn.example.com/img/hero.jpg"},
		},
		Performance: models.PerformanceTimings{Load: 1234 * time.Millisecond, FirstContentfulPaint: 300 * time.Millisecond},
		Viewport:    models.ViewportGeometry{Width: 1920, Height: 1080, DevicePixelRatio: 1, ScrollHeight: 5000},
	}
}

func TestCompose(t *testing.T) {
	system, user := Compose(sampleSnapshot())

	assert.Contains(t, system, `"error": "reason_for_failure"`)
	assert.Contains(t, system, `"severity": "low|medium|high|critical"`)

	assert.Contains(t, user, "for: https://example.com")
	assert.Contains(t, user, "Images without alt text: 1/4")
	assert.Contains(t, user, "Links without text: 2/9")
	assert.Contains(t, user, "Load time: 1234ms")
	assert.Contains(t, user, "First contentful paint: 300ms")
	assert.Contains(t, user, "Scroll height: 5000px")
	assert.Contains(t, user, "Images needing alt text: hero.jpg")
	assert.Contains(t, user, "h1: "+strings.Repeat("h", 50)+", h2: Pricing")
	assert.NotContains(t, user, strings.Repeat("h", 51))

	// Visible text is cut to the excerpt length
	assert.Contains(t, user, strings.Repeat("y", TextExcerptLength))
	assert.NotContains(t, user, strings.Repeat("y", TextExcerptLength+1))

	// Markup keeps structure but not scripts
	assert.Contains(t, user, `aria-label="Main"`)
	assert.NotContains(t, user, "track()")
	assert.NotContains(t, user, "onclick")
}

func TestComposeDeterministic(t *testing.T) {
	s1, u1 := Compose(sampleSnapshot())
	s2, u2 := Compose(sampleSnapshot())
	assert.Equal(t, s1, s2)
	assert.Equal(t, u1, u2)
}

func TestComposeBoundsHTML(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.HTML = "<p>" + strings.Repeat("z", 120000) + "</p>"

	_, user := Compose(snapshot)
	assert.Contains(t, user, strings.Repeat("z", HTMLExcerptLength-3))
	assert.NotContains(t, user, strings.Repeat("z", HTMLExcerptLength))
}
