package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, channels int, sampleRate int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

func TestReadWAVMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWAV(t, path, 1, 8000, []int{0, 16384, -16384, 32767})

	samples, rate, err := ReadWAVMono(path)
	if err != nil {
		t.Fatalf("ReadWAVMono failed: %v", err)
	}
	if rate != 8000 {
		t.Errorf("sample rate = %d, want 8000", rate)
	}
	if len(samples) != 4 {
		t.Fatalf("got %d samples, want 4", len(samples))
	}

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768.0}
	for i, w := range want {
		if math.Abs(samples[i]-w) > 1e-9 {
			t.Errorf("samples[%d] = %v, want %v", i, samples[i], w)
		}
	}
}

func TestReadWAVMonoDownmix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// Interleaved L/R frames; downmix averages channels.
	writeWAV(t, path, 2, 8000, []int{16384, 0, 0, -16384})

	samples, _, err := ReadWAVMono(path)
	if err != nil {
		t.Fatalf("ReadWAVMono failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d frames, want 2", len(samples))
	}
	if math.Abs(samples[0]-0.25) > 1e-9 {
		t.Errorf("frame 0 = %v, want 0.25", samples[0])
	}
	if math.Abs(samples[1]-(-0.25)) > 1e-9 {
		t.Errorf("frame 1 = %v, want -0.25", samples[1])
	}
}

func TestReadWAVMonoInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("definitely not riff"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, _, err := ReadWAVMono(path); err == nil {
		t.Fatal("expected error for invalid WAV data")
	}
}

func TestReadWAVMonoMissing(t *testing.T) {
	if _, _, err := ReadWAVMono(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
