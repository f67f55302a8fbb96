// Package orchestrator runs one website analysis from URL to report.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Sla0ui/uxlens/internal/classifier"
	"github.com/Sla0ui/uxlens/internal/fallback"
	"github.com/Sla0ui/uxlens/internal/llm"
	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/Sla0ui/uxlens/internal/prompt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Extractor reads one page into a snapshot
type Extractor interface {
	Extract(ctx context.Context, url string) (models.PageSnapshot, error)
}

// Capturer photographs a page, best effort
type Capturer interface {
	Capture(ctx context.Context, url, runID string) models.ScreenshotSet
}

// Dependencies are the collaborators of an Orchestrator. Capturer may be nil
// to skip screenshots; Completer is nil when the model is not configured.
type Dependencies struct {
	Extractor  Extractor
	Capturer   Capturer
	Completer  llm.Completer
	Classifier *classifier.Classifier
	Fallback   *fallback.Synthesizer
	Logger     *slog.Logger
}

// Orchestrator sequences extraction, screenshots, the model call and
// validation, and decides which failures are recovered with a fallback
type Orchestrator struct {
	deps     Dependencies
	model    models.ModelConfig
	newRunID func() string
}

// New creates an Orchestrator
func New(config *models.Config, deps Dependencies) *Orchestrator {
	if deps.Classifier == nil {
		deps.Classifier = classifier.New(config.RefusalKeywords...)
	}
	if deps.Fallback == nil {
		deps.Fallback = fallback.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{deps: deps, model: config.Model, newRunID: uuid.NewString}
}

// ConfigStatus reports whether real model analysis is possible
func (o *Orchestrator) ConfigStatus() models.ConfigStatus {
	return o.model.Status()
}

// Analyze produces a report for rawURL. The only errors it returns are
// *models.InvalidInputError, *models.UnreachableSiteError,
// *models.ContentPolicyError, and the context's error if ctx ends first.
// Every other failure yields a fallback result with FallbackReason set.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string) (models.AnalysisResult, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	runID := o.newRunID()
	logger := o.deps.Logger.With("run", runID, "url", target)
	start := time.Now()

	if o.deps.Completer == nil {
		logger.Warn("model not configured, using fallback analysis", "missing", o.model.Missing())
		return o.deps.Fallback.Synthesize(target, fallback.ReasonNotConfigured), nil
	}

	snapshot, err := o.deps.Extractor.Extract(ctx, target)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.AnalysisResult{}, ctxErr
		}
		logger.Error("site unreachable", "error", err)
		return models.AnalysisResult{}, &models.UnreachableSiteError{URL: target, Err: err}
	}

	// Screenshots run beside the model call and never fail the request
	screenshots := models.NewScreenshotSet()
	var g errgroup.Group
	if o.deps.Capturer != nil {
		g.Go(func() error {
			screenshots = o.deps.Capturer.Capture(ctx, target, runID)
			return nil
		})
	}
	withScreenshots := func(r models.AnalysisResult) models.AnalysisResult {
		_ = g.Wait()
		return r.WithScreenshots(screenshots)
	}

	system, user := prompt.Compose(snapshot)
	reply, err := o.deps.Completer.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		MaxTokens:   o.model.MaxTokens,
		Temperature: o.model.Temperature,
	})
	if err != nil {
		_ = g.Wait()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.AnalysisResult{}, ctxErr
		}
		logger.Warn("model call failed, using fallback analysis", "error", err)
		return withScreenshots(o.deps.Fallback.Synthesize(target, fallback.ReasonTechnical)), nil
	}

	payload, err := o.deps.Classifier.Classify(reply)
	if err != nil {
		var policy *models.ContentPolicyError
		if errors.As(err, &policy) {
			_ = g.Wait()
			logger.Warn("model refused the analysis", "reason", policy.Reason)
			return models.AnalysisResult{}, policy
		}
		logger.Warn("unusable model reply, using fallback analysis", "error", err, "chars", len(reply))
		return withScreenshots(o.deps.Fallback.Synthesize(target, fallback.ReasonTechnical)), nil
	}

	result := withScreenshots(classifier.Validate(payload, classifier.DefaultsFromSnapshot(snapshot)))
	logger.Info("analysis complete",
		"score", result.Score,
		"issues", len(result.Issues()),
		"screenshots", result.Screenshots.Profiles(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// ValidateURL accepts absolute http and https URLs with a host
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &models.InvalidInputError{Input: raw, Reason: "URL is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &models.InvalidInputError{
			Input:  raw,
			Reason: "invalid URL format, provide a URL starting with http:// or https://",
		}
	}
	return u.String(), nil
}
