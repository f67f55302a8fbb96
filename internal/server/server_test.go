package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result models.AnalysisResult
	err    error
	status models.ConfigStatus
	got    string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, url string) (models.AnalysisResult, error) {
	s.got = url
	return s.result, s.err
}

func (s *stubAnalyzer) ConfigStatus() models.ConfigStatus {
	return s.status
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-website", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *stubAnalyzer
		body     string
		status   int
		kind     models.ErrorKind
	}{
		{
			name:     "Real result",
			analyzer: &stubAnalyzer{result: models.AnalysisResult{URL: "https://example.com", Score: 81}},
			body:     `{"url": "https://example.com"}`,
			status:   http.StatusOK,
		},
		{
			name:     "Fallback result is a success",
			analyzer: &stubAnalyzer{result: models.AnalysisResult{URL: "https://example.com", FallbackReason: "offline"}},
			body:     `{"url": "https://example.com"}`,
			status:   http.StatusOK,
		},
		{
			name:     "Malformed body",
			analyzer: &stubAnalyzer{},
			body:     `{"url": `,
			status:   http.StatusBadRequest,
			kind:     models.KindInvalidInput,
		},
		{
			name:     "Invalid URL",
			analyzer: &stubAnalyzer{err: &models.InvalidInputError{Input: "nope", Reason: "URL is required"}},
			body:     `{"url": "nope"}`,
			status:   http.StatusBadRequest,
			kind:     models.KindInvalidInput,
		},
		{
			name:     "Content policy refusal",
			analyzer: &stubAnalyzer{err: &models.ContentPolicyError{Reason: "x", Message: "y"}},
			body:     `{"url": "https://example.com"}`,
			status:   http.StatusUnprocessableEntity,
			kind:     models.KindContentPolicy,
		},
		{
			name:     "Unreachable site",
			analyzer: &stubAnalyzer{err: &models.UnreachableSiteError{URL: "https://example.com", Err: errors.New("dns")}},
			body:     `{"url": "https://example.com"}`,
			status:   http.StatusBadGateway,
			kind:     models.KindUnreachableSite,
		},
		{
			name:     "Unexpected failure",
			analyzer: &stubAnalyzer{err: context.Canceled},
			body:     `{"url": "https://example.com"}`,
			status:   http.StatusInternalServerError,
			kind:     models.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, New(tt.analyzer, quietLogger()), tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.status == http.StatusOK {
				var result models.AnalysisResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, tt.analyzer.result.URL, result.URL)
				assert.Equal(t, tt.analyzer.result.FallbackReason, result.FallbackReason)
				return
			}

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.kind, body.Error)
			assert.NotEmpty(t, body.Message)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestHandleAnalyzePassesURL(t *testing.T) {
	analyzer := &stubAnalyzer{}
	post(t, New(analyzer, quietLogger()), `{"url": "https://example.com/pricing"}`)
	assert.Equal(t, "https://example.com/pricing", analyzer.got)
}

func TestHandleConfigStatus(t *testing.T) {
	analyzer := &stubAnalyzer{status: models.ConfigStatus{HasAPIKey: true, HasEndpoint: true}}
	req := httptest.NewRequest(http.MethodGet, "/api/config-status", nil)
	rec := httptest.NewRecorder()
	New(analyzer, quietLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasApiKey":true,"hasEndpoint":true,"hasDeployment":false,"isConfigured":false}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analyze-website", nil)
	rec := httptest.NewRecorder()
	New(&stubAnalyzer{}, quietLogger()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
