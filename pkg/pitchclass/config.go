package pitchclass

// Config holds all service settings. Values not set through options fall
// back to defaultConfig.
type Config struct {
	AudioDir       string
	MetaPath       string
	ResultsPath    string
	DBPath         string
	TempDir        string
	SpectrogramDir string // empty disables spectrogram dumps
	SampleRate     int    // target rate for converted (non-WAV) inputs
	MinFreq        float64
	MaxFreq        float64
	Workers        int // worker pool size, 1 = sequential
	Limit          int // max files when All is false
	All            bool
	Logger         Logger
	Storage        Storage
}

type Option func(*Config)

func WithAudioDir(dir string) Option {
	return func(c *Config) {
		c.AudioDir = dir
	}
}

func WithMetaPath(path string) Option {
	return func(c *Config) {
		c.MetaPath = path
	}
}

func WithResultsPath(path string) Option {
	return func(c *Config) {
		c.ResultsPath = path
	}
}

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

func WithSpectrogramDir(dir string) Option {
	return func(c *Config) {
		c.SpectrogramDir = dir
	}
}

func WithSampleRate(rate int) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

func WithFreqRange(minFreq, maxFreq float64) Option {
	return func(c *Config) {
		c.MinFreq = minFreq
		c.MaxFreq = maxFreq
	}
}

func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

func WithLimit(n int) Option {
	return func(c *Config) {
		c.Limit = n
	}
}

func WithAllFiles(all bool) Option {
	return func(c *Config) {
		c.All = all
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{
		AudioDir:    "data/audio",
		MetaPath:    "data/meta.csv",
		ResultsPath: "results.csv",
		DBPath:      "pitchclass.sqlite3",
		TempDir:     "/tmp",
		SampleRate:  11025,
		MinFreq:     50,
		MaxFreq:     300,
		Workers:     1,
		Limit:       10,
	}
}
