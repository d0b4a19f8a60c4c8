package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/voxlab/pitchclass/pkg/logger"
	"github.com/voxlab/pitchclass/pkg/models"
	"github.com/voxlab/pitchclass/pkg/pitchclass"
)

// Flags
var (
	audioDir   string
	metaPath   string
	outPath    string
	dbPath     string
	tempDir    string
	spectroDir string
	sampleRate int
	threads    int
	minFreq    float64
	maxFreq    float64
	allFiles   bool
)

func init() {
	flag.StringVar(&audioDir, "audio", "data/audio", "Directory containing the audio samples")
	flag.StringVar(&metaPath, "meta", "data/meta.csv", "Ground-truth metadata CSV (filename,gender)")
	flag.StringVar(&outPath, "out", "results.csv", "Per-file results CSV output path")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("PITCHCLASS_DB_PATH", "pitchclass.sqlite3"), "Path to the SQLite database file")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("PITCHCLASS_TEMP_DIR", "/tmp"), "Directory for temporary audio conversion files")
	flag.StringVar(&spectroDir, "spectrograms", "", "Directory for PNG spectrogram dumps (empty = disabled)")
	flag.IntVar(&sampleRate, "rate", 11025, "Sample rate for converted (non-WAV) inputs")
	flag.IntVar(&threads, "threads", 1, "Worker pool size (1 = sequential)")
	flag.Float64Var(&minFreq, "min-freq", 50, "Lowest fundamental frequency searched, Hz")
	flag.Float64Var(&maxFreq, "max-freq", 300, "Highest fundamental frequency searched, Hz")
	flag.BoolVar(&allFiles, "a", false, "Process all audio files (default: only first 10)")
	flag.BoolVar(&allFiles, "all", false, "Process all audio files (default: only first 10)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func printBanner() {
	banner := `
        _ _       _          _
  _ __ (_) |_ ___| |__   ___| | __ _ ___ ___
 | '_ \| | __/ __| '_ \ / __| |/ _` + "`" + ` / __/ __|
 | |_) | | || (__| | | | (__| | (_| \__ \__ \
 | .__/|_|\__\___|_| |_|\___|_|\__,_|___/___/
 |_|

     Pitch-Based Gender Classification
`
	fmt.Println(banner)
}

func printSummary(summary *models.RunSummary) {
	fmt.Println("\n--- Classification Statistics ---")
	fmt.Printf("Total files:           %s\n", humanize.Comma(int64(summary.TotalFiles)))
	fmt.Printf("Correct (male/female): %d\n", summary.Correct)
	fmt.Printf("Incorrect:             %d\n", summary.Incorrect)
	fmt.Printf("Unclassified:          %d\n", summary.Unclassified)
	if summary.TotalFiles > 0 {
		fmt.Printf("Success rate:          %.2f%%\n", summary.SuccessRate)
		fmt.Printf("Failure rate:          %.2f%%\n", summary.FailureRate)
		fmt.Printf("Unclassified rate:     %.2f%%\n", summary.UnclassifiedRate)
	}
	fmt.Printf("Elapsed:               %s\n", summary.Elapsed.Round(10*time.Millisecond))
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	printBanner()

	svc, err := pitchclass.NewService(
		pitchclass.WithAudioDir(audioDir),
		pitchclass.WithMetaPath(metaPath),
		pitchclass.WithResultsPath(outPath),
		pitchclass.WithDBPath(dbPath),
		pitchclass.WithTempDir(tempDir),
		pitchclass.WithSpectrogramDir(spectroDir),
		pitchclass.WithSampleRate(sampleRate),
		pitchclass.WithFreqRange(minFreq, maxFreq),
		pitchclass.WithWorkers(threads),
		pitchclass.WithAllFiles(allFiles),
	)
	if err != nil {
		fmt.Printf("Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	summary, _, err := svc.Run(context.Background())
	if err != nil {
		fmt.Printf("Run failed: %v\n", err)
		log.Errorf("Run failed: %v", err)
		os.Exit(1)
	}

	printSummary(summary)
	fmt.Printf("Results written to %s\n", outPath)
}
