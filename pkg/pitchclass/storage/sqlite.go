package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voxlab/pitchclass/pkg/models"
)

const DefaultDBFile = "pitchclass.sqlite3"
const errDBClientNil = "db client is nil"

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Run is one completed batch with its aggregate statistics.
type Run struct {
	ID               string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt        time.Time
	ElapsedMs        int64
	TotalFiles       int
	Correct          int
	Incorrect        int
	Unclassified     int
	SuccessRate      float64
	FailureRate      float64
	UnclassifiedRate float64
}

// Record is one classified file within a run.
type Record struct {
	ID          uint     `gorm:"primaryKey;autoIncrement"`
	RunID       string   `gorm:"type:varchar(36);index:idx_run"`
	File        string   `gorm:"index:idx_file"`
	Predicted   string
	MeanFreq    *float64
	GroundTruth string
	Correct     bool
	Note        string
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("PITCHCLASS_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Run{}, &Record{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveRun persists a summary and its records atomically and returns the
// new run ID.
func (c *DBClient) SaveRun(summary models.RunSummary, records []models.ClassificationRecord) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	run := Run{
		ID:               uuid.NewString(),
		StartedAt:        time.Now().Add(-summary.Elapsed),
		ElapsedMs:        summary.Elapsed.Milliseconds(),
		TotalFiles:       summary.TotalFiles,
		Correct:          summary.Correct,
		Incorrect:        summary.Incorrect,
		Unclassified:     summary.Unclassified,
		SuccessRate:      summary.SuccessRate,
		FailureRate:      summary.FailureRate,
		UnclassifiedRate: summary.UnclassifiedRate,
	}

	rows := make([]Record, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Record{
			RunID:       run.ID,
			File:        rec.File,
			Predicted:   string(rec.Predicted),
			MeanFreq:    rec.Pitch,
			GroundTruth: rec.GroundTruth,
			Correct:     rec.Correct,
			Note:        rec.Note,
		})
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("inserting records: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return run.ID, nil
}

// GetRun loads the stored summary for a run ID.
func (c *DBClient) GetRun(runID string) (*models.RunSummary, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var run Run
	if err := c.DB.First(&run, "id = ?", runID).Error; err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	return &models.RunSummary{
		TotalFiles:       run.TotalFiles,
		Correct:          run.Correct,
		Incorrect:        run.Incorrect,
		Unclassified:     run.Unclassified,
		SuccessRate:      run.SuccessRate,
		FailureRate:      run.FailureRate,
		UnclassifiedRate: run.UnclassifiedRate,
		Elapsed:          time.Duration(run.ElapsedMs) * time.Millisecond,
	}, nil
}

// ListRecords loads the per-file records of a run in insertion order.
func (c *DBClient) ListRecords(runID string) ([]models.ClassificationRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var rows []Record
	if err := c.DB.Where("run_id = ?", runID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying records for run %s: %w", runID, err)
	}

	records := make([]models.ClassificationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.ClassificationRecord{
			File:        row.File,
			Predicted:   models.GenderLabel(row.Predicted),
			Pitch:       row.MeanFreq,
			GroundTruth: row.GroundTruth,
			Correct:     row.Correct,
			Note:        row.Note,
		})
	}
	return records, nil
}
