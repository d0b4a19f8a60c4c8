package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/voxlab/pitchclass/pkg/models"
)

// resultColumns is the persisted table layout, one row per processed file.
var resultColumns = []string{"file", "predicted", "mean_freq", "ground_truth", "correct"}

// WriteResults writes the per-file records to a CSV file. An undetermined
// pitch is written as an empty mean_freq field.
func WriteResults(path string, records []models.ClassificationRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultColumns); err != nil {
		return fmt.Errorf("writing results header: %w", err)
	}

	for _, rec := range records {
		freq := ""
		if rec.Pitch != nil {
			freq = strconv.FormatFloat(*rec.Pitch, 'f', 2, 64)
		}
		row := []string{
			rec.File,
			string(rec.Predicted),
			freq,
			rec.GroundTruth,
			strconv.FormatBool(rec.Correct),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing result row for %s: %w", rec.File, err)
		}
	}

	w.Flush()
	return w.Error()
}
