package pitchclass

import (
	"context"

	"github.com/voxlab/pitchclass/pkg/models"
)

type Service interface {
	// Run processes the configured audio directory and returns the
	// summary plus the per-file records in completion order.
	Run(ctx context.Context) (*models.RunSummary, []models.ClassificationRecord, error)
	// ClassifyFile processes a single file against the given ground
	// truth map. Per-file failures surface as record notes, not errors.
	ClassifyFile(ctx context.Context, name string, truth map[string]string) models.ClassificationRecord
	Close() error
}

type Storage interface {
	SaveRun(summary models.RunSummary, records []models.ClassificationRecord) (string, error)
	GetRun(runID string) (*models.RunSummary, error)
	ListRecords(runID string) ([]models.ClassificationRecord, error)
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
