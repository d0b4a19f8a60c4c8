package pitchclass

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/voxlab/pitchclass/pkg/logger"
	"github.com/voxlab/pitchclass/pkg/models"
	"github.com/voxlab/pitchclass/pkg/pitchclass/audio"
	"github.com/voxlab/pitchclass/pkg/pitchclass/meta"
	"github.com/voxlab/pitchclass/pkg/pitchclass/pitch"
	"github.com/voxlab/pitchclass/pkg/pitchclass/report"
	"github.com/voxlab/pitchclass/pkg/pitchclass/storage"
	"github.com/voxlab/pitchclass/pkg/utils"
)

// classifyService is the default implementation of the Service interface.
type classifyService struct {
	storage  Storage
	log      Logger
	config   *Config
	detector *pitch.Detector
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	// Create or use provided storage
	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = storage.NewDBClientWithPath(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	detector := pitch.NewDetector(pitch.Config{
		MinFreq: cfg.MinFreq,
		MaxFreq: cfg.MaxFreq,
	})

	return &classifyService{
		storage:  stor,
		log:      cfg.Logger,
		config:   cfg,
		detector: detector,
	}, nil
}

// Run processes the configured audio directory: decode, estimate pitch,
// classify, join ground truth, aggregate. Only setup failures (missing
// metadata, unreadable audio dir, unwritable results) return an error;
// per-file failures become unclassified records.
func (s *classifyService) Run(ctx context.Context) (*models.RunSummary, []models.ClassificationRecord, error) {
	start := time.Now()

	truth, err := meta.Load(s.config.MetaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ground truth: %w", err)
	}
	s.log.Infof("Loaded %d ground-truth entries from %s", len(truth), s.config.MetaPath)

	files, err := utils.ListAudioFiles(s.config.AudioDir)
	if err != nil {
		return nil, nil, err
	}
	if !s.config.All && s.config.Limit > 0 && len(files) > s.config.Limit {
		files = files[:s.config.Limit]
	}
	s.log.Infof("Classifying %d audio files", len(files))

	if s.config.SpectrogramDir != "" {
		if err := utils.MakeDir(s.config.SpectrogramDir); err != nil {
			return nil, nil, fmt.Errorf("creating spectrogram dir: %w", err)
		}
	}

	workers := s.config.Workers
	if workers < 1 {
		workers = 1
	}

	// Workers only send finished records; a single collector goroutine
	// owns the aggregator, so no counter needs a lock.
	jobs := make(chan string)
	results := make(chan models.ClassificationRecord)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				results <- s.ClassifyFile(ctx, name, truth)
			}
		}()
	}
	go func() {
		for _, name := range files {
			jobs <- name
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	agg := NewAggregator()
	done := 0
	for rec := range results {
		agg.Add(rec)
		done++
		s.log.Infof("[%d/%d] %s -> %s", done, len(files), rec.File, rec.Predicted)
	}

	records := agg.Records()
	summary := agg.Summary(time.Since(start))

	if err := report.WriteResults(s.config.ResultsPath, records); err != nil {
		return nil, nil, fmt.Errorf("writing results: %w", err)
	}
	s.log.Infof("Results written to %s", s.config.ResultsPath)

	if s.storage != nil {
		runID, err := s.storage.SaveRun(summary, records)
		if err != nil {
			s.log.Warnf("Failed to persist run: %v", err)
		} else {
			s.log.Infof("Persisted run %s", runID)
		}
	}

	return &summary, records, nil
}

// ClassifyFile processes one audio file into a record. Decode failures
// and unvoiced audio produce an unclassified record with a note; they
// never abort the batch.
func (s *classifyService) ClassifyFile(ctx context.Context, name string, truth map[string]string) models.ClassificationRecord {
	rec := models.ClassificationRecord{
		File:      name,
		Predicted: models.Unclassified,
	}
	if gt, ok := truth[name]; ok {
		rec.GroundTruth = gt
	}

	path := filepath.Join(s.config.AudioDir, name)
	samples, sampleRate, err := audio.Decode(ctx, path, s.config.TempDir, s.config.SampleRate)
	if err != nil {
		s.log.Warnf("Decode failed for %s: %v", name, err)
		rec.Note = "decode failed"
		return rec
	}

	if s.config.SpectrogramDir != "" {
		out := filepath.Join(s.config.SpectrogramDir, name+".png")
		if err := report.WriteSpectrogram(samples, sampleRate, out); err != nil {
			s.log.Warnf("Spectrogram failed for %s: %v", name, err)
		}
	}

	freq, voiced := s.detector.Estimate(samples, sampleRate)
	if voiced {
		f := freq
		rec.Pitch = &f
	} else {
		rec.Note = "no voiced frames"
	}

	rec.Predicted = Classify(freq, voiced)
	rec.Correct = rec.Predicted.Determinate() && string(rec.Predicted) == rec.GroundTruth
	return rec
}

// Close releases all resources held by the service.
func (s *classifyService) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}
