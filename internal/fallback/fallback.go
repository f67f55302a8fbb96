// Package fallback synthesizes a demonstration report without calling the model.
package fallback

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
)

// Reasons reported when the model is not used
const (
	ReasonNotConfigured = "AI analysis is not configured (missing Azure OpenAI credentials), here is a basic analysis for demonstration purposes."
	ReasonTechnical     = "AI failed for technical reasons, here is a basic analysis for demonstration purposes."
)

// Rand is the source of score jitter
type Rand interface {
	IntN(n int) int
}

// band is a half-open score range [min, min+span)
type band struct {
	min, span int
}

var (
	overallBand   = band{60, 40}
	categoryBands = map[models.Category]band{
		models.CategoryAccessibility: {70, 30},
		models.CategoryPerformance:   {75, 25},
		models.CategoryUsability:     {65, 35},
		models.CategoryDesign:        {80, 20},
	}
)

// Synthesizer builds fallback results. It is safe for concurrent use when
// its Rand is.
type Synthesizer struct {
	rand Rand
	now  func() time.Time
}

// New returns a Synthesizer drawing scores from r, or from a private
// time-seeded source when r is nil
func New(r Rand) *Synthesizer {
	if r == nil {
		seed := uint64(time.Now().UnixNano())
		r = &lockedRand{r: rand.New(rand.NewPCG(seed, seed>>32|1))}
	}
	return &Synthesizer{rand: r, now: time.Now}
}

// Synthesize returns a complete report for url. reason, when set, is echoed
// verbatim as the result's fallbackReason.
func (s *Synthesizer) Synthesize(url, reason string) models.AnalysisResult {
	result := models.AnalysisResult{
		URL:             url,
		Score:           s.draw(overallBand),
		Strengths:       strengths(),
		Improvements:    improvements(),
		Recommendations: recommendations(),
		Timestamp:       s.now(),
		FallbackReason:  reason,
		Metadata: models.ResultMetadata{
			PageTitle:    "Sample Website",
			LoadTime:     2500,
			PageSize:     1200,
			Technologies: []string{"React", "Next.js", "Tailwind CSS"},
		},
	}

	all := sampleIssues()
	for _, c := range models.Categories {
		*result.Details.For(c) = models.CategoryScore{
			Score:  s.draw(categoryBands[c]),
			Issues: all[c],
		}
	}
	return result
}

func (s *Synthesizer) draw(b band) int {
	return b.min + s.rand.IntN(b.span)
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
