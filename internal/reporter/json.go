package reporter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sla0ui/uxlens/internal/models"
)

type jsonError struct {
	Kind    models.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

type jsonEntry struct {
	URL    string                 `json:"url"`
	Status string                 `json:"status"`
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  *jsonError             `json:"error,omitempty"`
}

// GenerateJSON creates a JSON report
func (r *Reporter) GenerateJSON(outputPath string) error {
	out := make([]jsonEntry, len(r.entries))
	for i, e := range r.entries {
		out[i] = jsonEntry{URL: e.URL, Status: e.Status(), Result: e.Result}
		if e.Err != nil {
			out[i].Result = nil
			out[i].Error = &jsonError{Kind: models.KindOf(e.Err), Message: e.Err.Error()}
		}
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
