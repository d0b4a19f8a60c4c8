package pitchclass

import (
	"time"

	"github.com/voxlab/pitchclass/pkg/models"
)

// Aggregator accumulates classification records and derives the run
// summary. It is not safe for concurrent use: the batch runner feeds it
// from a single collector goroutine, so workers never share counters.
type Aggregator struct {
	records []models.ClassificationRecord
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Add(rec models.ClassificationRecord) {
	a.records = append(a.records, rec)
}

// Records returns the accumulated records in arrival order.
func (a *Aggregator) Records() []models.ClassificationRecord {
	return a.records
}

// Summary recomputes the totals from the full record set. The three
// buckets partition the records exhaustively: an unclassified prediction
// counts as unclassified regardless of ground truth, and a determinate
// prediction that does not match ground truth counts as incorrect even
// when the ground truth entry is missing. With zero records all rates
// are 0, not NaN.
func (a *Aggregator) Summary(elapsed time.Duration) models.RunSummary {
	s := models.RunSummary{
		TotalFiles: len(a.records),
		Elapsed:    elapsed,
	}
	for _, r := range a.records {
		switch {
		case !r.Predicted.Determinate():
			s.Unclassified++
		case r.Correct:
			s.Correct++
		default:
			s.Incorrect++
		}
	}
	if s.TotalFiles > 0 {
		n := float64(s.TotalFiles)
		s.SuccessRate = 100 * float64(s.Correct) / n
		s.FailureRate = 100 * float64(s.Incorrect) / n
		s.UnclassifiedRate = 100 * float64(s.Unclassified) / n
	}
	return s
}
