package pitch

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	DefaultWindowSize = 2048
	DefaultHopSize    = 256
	DefaultMinFreq    = 50
	DefaultMaxFreq    = 300
	DefaultThreshold  = 0.15
)

// Config controls the frame-based fundamental-frequency tracker.
type Config struct {
	WindowSize int     // samples per analysis frame
	HopSize    int     // samples between frame starts
	MinFreq    float64 // lowest f0 considered, Hz
	MaxFreq    float64 // highest f0 considered, Hz
	Threshold  float64 // CMNDF dip threshold for the voicing decision
}

func DefaultConfig() Config {
	return Config{
		WindowSize: DefaultWindowSize,
		HopSize:    DefaultHopSize,
		MinFreq:    DefaultMinFreq,
		MaxFreq:    DefaultMaxFreq,
		Threshold:  DefaultThreshold,
	}
}

// Frame is one time step of a pitch track. Freq is only meaningful when
// Voiced is true.
type Frame struct {
	Freq   float64
	Voiced bool
}

// Detector estimates per-frame fundamental frequency with the YIN
// algorithm (de Cheveigné & Kawahara 2002): difference function,
// cumulative mean normalization, absolute threshold, parabolic
// refinement of the chosen lag.
type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.HopSize <= 0 {
		cfg.HopSize = def.HopSize
	}
	if cfg.MinFreq <= 0 {
		cfg.MinFreq = def.MinFreq
	}
	if cfg.MaxFreq <= cfg.MinFreq {
		cfg.MaxFreq = def.MaxFreq
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	return &Detector{cfg: cfg}
}

// DetectFrame estimates the fundamental frequency of a single frame.
// An unvoiced result means no periodicity inside the configured range
// cleared the threshold.
func (d *Detector) DetectFrame(frame []float64, sampleRate int) Frame {
	if sampleRate <= 0 || len(frame) < 4 {
		return Frame{}
	}

	minLag := int(float64(sampleRate) / d.cfg.MaxFreq)
	maxLag := int(float64(sampleRate)/d.cfg.MinFreq) + 1
	if minLag < 2 {
		minLag = 2
	}
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if maxLag <= minLag {
		return Frame{}
	}

	diff := differenceFunction(frame, maxLag)
	cmndf := cumulativeMeanNormalize(diff)

	lag := absoluteThreshold(cmndf, minLag, maxLag, d.cfg.Threshold)
	if lag == 0 {
		return Frame{}
	}

	freq := float64(sampleRate) / refineLag(cmndf, lag)
	if freq < d.cfg.MinFreq || freq > d.cfg.MaxFreq {
		return Frame{}
	}
	return Frame{Freq: freq, Voiced: true}
}

// differenceFunction computes the YIN difference d(tau) for tau in
// [0, maxLag] using the identity d(tau) = E_head + E_tail - 2*r(tau),
// with the autocorrelation r computed through the FFT.
func differenceFunction(x []float64, maxLag int) []float64 {
	n := len(x)
	r := autocorrelate(x)

	// prefix sums of energy
	sq := make([]float64, n+1)
	for i, v := range x {
		sq[i+1] = sq[i] + v*v
	}

	d := make([]float64, maxLag+1)
	for tau := 1; tau <= maxLag; tau++ {
		head := sq[n-tau]       // energy of x[0 : n-tau]
		tail := sq[n] - sq[tau] // energy of x[tau : n]
		dt := head + tail - 2*r[tau]
		if dt < 0 {
			dt = 0 // numerical noise from the FFT round trip
		}
		d[tau] = dt
	}
	return d
}

// autocorrelate returns r(tau) = sum_j x[j]*x[j+tau] via zero-padded FFT.
func autocorrelate(x []float64) []float64 {
	n := len(x)
	size := 1
	for size < 2*n {
		size <<= 1
	}
	padded := make([]float64, size)
	copy(padded, x)

	spec := fft.FFTReal(padded)
	for i, c := range spec {
		spec[i] = c * cmplx.Conj(c)
	}
	inv := fft.IFFT(spec)

	r := make([]float64, n)
	for i := range r {
		r[i] = real(inv[i])
	}
	return r
}

// cumulativeMeanNormalize converts the difference function into the
// CMNDF, which starts at 1 and dips toward 0 at strong periods.
func cumulativeMeanNormalize(d []float64) []float64 {
	out := make([]float64, len(d))
	out[0] = 1
	running := 0.0
	for tau := 1; tau < len(d); tau++ {
		running += d[tau]
		if running == 0 {
			out[tau] = 1
			continue
		}
		out[tau] = d[tau] * float64(tau) / running
	}
	return out
}

// absoluteThreshold picks the first lag whose CMNDF dips below the
// threshold, then walks down to the bottom of that dip. Returns 0 when
// no lag qualifies (unvoiced frame).
func absoluteThreshold(cmndf []float64, minLag, maxLag int, threshold float64) int {
	for tau := minLag; tau <= maxLag; tau++ {
		if cmndf[tau] < threshold {
			for tau+1 <= maxLag && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			return tau
		}
	}
	return 0
}

// refineLag sharpens the integer lag with parabolic interpolation over
// its neighbors.
func refineLag(cmndf []float64, lag int) float64 {
	if lag <= 0 || lag+1 >= len(cmndf) {
		return float64(lag)
	}
	s0 := cmndf[lag-1]
	s1 := cmndf[lag]
	s2 := cmndf[lag+1]
	denom := 2 * (2*s1 - s0 - s2)
	if denom == 0 {
		return float64(lag)
	}
	adjust := (s2 - s0) / denom
	if adjust > 1 || adjust < -1 {
		return float64(lag)
	}
	return float64(lag) + adjust
}
