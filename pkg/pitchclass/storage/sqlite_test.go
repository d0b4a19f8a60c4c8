package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/voxlab/pitchclass/pkg/models"
)

// setupTestDB creates a client backed by a temporary database.
func setupTestDB(t *testing.T) *DBClient {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_pitchclass.sqlite3")
	client, err := NewDBClientWithPath(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestSaveAndGetRun(t *testing.T) {
	client := setupTestDB(t)

	pitch := 118.5
	summary := models.RunSummary{
		TotalFiles:       3,
		Correct:          2,
		Incorrect:        0,
		Unclassified:     1,
		SuccessRate:      66.666,
		UnclassifiedRate: 33.333,
		Elapsed:          1500 * time.Millisecond,
	}
	records := []models.ClassificationRecord{
		{File: "a.mp3", Predicted: models.Male, Pitch: &pitch, GroundTruth: "male", Correct: true},
		{File: "b.mp3", Predicted: models.Female, GroundTruth: "female", Correct: true},
		{File: "c.mp3", Predicted: models.Unclassified, GroundTruth: "male", Note: "no voiced frames"},
	}

	runID, err := client.SaveRun(summary, records)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("Expected non-empty run ID")
	}

	got, err := client.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.TotalFiles != 3 || got.Correct != 2 || got.Unclassified != 1 {
		t.Errorf("stored summary = %+v, want counts 3/2/1", got)
	}
	if got.Elapsed != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v, want 1.5s", got.Elapsed)
	}
}

func TestListRecords(t *testing.T) {
	client := setupTestDB(t)

	pitch := 210.0
	records := []models.ClassificationRecord{
		{File: "one.mp3", Predicted: models.Female, Pitch: &pitch, GroundTruth: "female", Correct: true},
		{File: "two.mp3", Predicted: models.Unclassified, Note: "decode failed"},
	}

	runID, err := client.SaveRun(models.RunSummary{TotalFiles: 2}, records)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := client.ListRecords(runID)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	if got[0].File != "one.mp3" || got[0].Predicted != models.Female || !got[0].Correct {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[0].Pitch == nil || *got[0].Pitch != 210.0 {
		t.Errorf("first record pitch = %v, want 210", got[0].Pitch)
	}
	if got[1].Pitch != nil {
		t.Errorf("second record pitch = %v, want nil", got[1].Pitch)
	}
	if got[1].Note != "decode failed" {
		t.Errorf("second record note = %q, want decode failed", got[1].Note)
	}
}

func TestSaveRunEmpty(t *testing.T) {
	client := setupTestDB(t)

	runID, err := client.SaveRun(models.RunSummary{}, nil)
	if err != nil {
		t.Fatalf("SaveRun with no records failed: %v", err)
	}

	records, err := client.ListRecords(runID)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestRunsAreIsolated(t *testing.T) {
	client := setupTestDB(t)

	first, err := client.SaveRun(models.RunSummary{TotalFiles: 1}, []models.ClassificationRecord{
		{File: "a.mp3", Predicted: models.Male},
	})
	if err != nil {
		t.Fatalf("first SaveRun failed: %v", err)
	}
	second, err := client.SaveRun(models.RunSummary{TotalFiles: 1}, []models.ClassificationRecord{
		{File: "b.mp3", Predicted: models.Female},
	})
	if err != nil {
		t.Fatalf("second SaveRun failed: %v", err)
	}

	records, err := client.ListRecords(first)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 || records[0].File != "a.mp3" {
		t.Errorf("run %s leaked records: %+v", second, records)
	}
}
