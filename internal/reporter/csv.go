package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Sla0ui/uxlens/internal/models"
)

var csvHeader = []string{
	"URL", "Status", "Score", "Accessibility", "Performance", "Usability", "Design",
	"Issues", "Critical", "High", "PageTitle", "LoadTime", "Technologies", "FallbackReason", "Error",
}

// GenerateCSV creates a CSV summary, one row per URL
func (r *Reporter) GenerateCSV(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	for _, e := range r.entries {
		row := make([]string, len(csvHeader))
		row[0] = e.URL
		row[1] = e.Status()

		if e.Err != nil || e.Result == nil {
			if e.Err != nil {
				row[14] = e.Err.Error()
			}
		} else {
			res := e.Result
			counts := severityCounts(res)
			row[2] = strconv.Itoa(res.Score)
			row[3] = strconv.Itoa(res.Details.Accessibility.Score)
			row[4] = strconv.Itoa(res.Details.Performance.Score)
			row[5] = strconv.Itoa(res.Details.Usability.Score)
			row[6] = strconv.Itoa(res.Details.Design.Score)
			row[7] = strconv.Itoa(len(res.Issues()))
			row[8] = strconv.Itoa(counts[models.SeverityCritical])
			row[9] = strconv.Itoa(counts[models.SeverityHigh])
			row[10] = res.Metadata.PageTitle
			row[11] = strconv.FormatInt(res.Metadata.LoadTime, 10) + "ms"
			row[12] = strings.Join(res.Metadata.Technologies, "|")
			row[13] = res.FallbackReason
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV file: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
