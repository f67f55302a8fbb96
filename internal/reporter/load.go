package reporter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sla0ui/uxlens/internal/models"
)

// StoredError is a failure read back from a JSON report
type StoredError struct {
	Kind    models.ErrorKind
	Message string
}

func (e *StoredError) Error() string { return e.Message }

// ErrorKind keeps the kind recorded when the report was written
func (e *StoredError) ErrorKind() models.ErrorKind { return e.Kind }

// Load reads the entries of a report written by GenerateJSON
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var stored []jsonEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(stored))
	for _, s := range stored {
		e := Entry{URL: s.URL, Result: s.Result}
		if s.Error != nil {
			e.Result = nil
			e.Err = &StoredError{Kind: s.Error.Kind, Message: s.Error.Message}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
