package models

import "time"

// GenderLabel is the prediction emitted for a single recording.
type GenderLabel string

const (
	Male         GenderLabel = "male"
	Female       GenderLabel = "female"
	Unclassified GenderLabel = "unclassified"
)

// Determinate reports whether the label is an actual gender prediction
// rather than the fall-through bucket.
func (g GenderLabel) Determinate() bool {
	return g == Male || g == Female
}

// ClassificationRecord is the outcome for one processed audio file.
// Records are immutable once built; under parallel runs they arrive in
// completion order, keyed by File for attribution.
type ClassificationRecord struct {
	File        string      // file name inside the audio directory
	Predicted   GenderLabel // prediction from the pitch bands
	Pitch       *float64    // mean voiced f0 in Hz, nil when undetermined
	GroundTruth string      // label from metadata, empty when absent
	Correct     bool        // Predicted is male/female and equals GroundTruth
	Note        string      // per-file failure marker (decode error etc.)
}

// RunSummary aggregates a full batch. It is recomputed from the complete
// record set, never mutated incrementally.
type RunSummary struct {
	TotalFiles       int
	Correct          int
	Incorrect        int
	Unclassified     int
	SuccessRate      float64 // percent of TotalFiles
	FailureRate      float64 // percent of TotalFiles
	UnclassifiedRate float64 // percent of TotalFiles
	Elapsed          time.Duration
}
