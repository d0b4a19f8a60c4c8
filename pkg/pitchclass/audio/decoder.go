package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/voxlab/pitchclass/pkg/utils"
)

// ReadWAVMono decodes a PCM WAV file into mono samples normalized to
// [-1, 1] plus the native sample rate. Multi-channel input is downmixed
// by averaging the channels.
func ReadWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading PCM data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, errors.New("empty WAV file")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, errors.New("no channels in WAV file")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int(1)<<(uint(bitDepth)-1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var acc float64
		for ch := 0; ch < channels; ch++ {
			acc += float64(buf.Data[i*channels+ch]) * scale
		}
		out[i] = acc / float64(channels)
	}

	return out, buf.Format.SampleRate, nil
}

// Decode loads any supported audio file as mono float64 samples. WAV
// files decode directly at their native rate; everything else goes
// through ffmpeg into a temporary mono PCM WAV at sampleRate first. The
// converted file is removed after decoding.
func Decode(ctx context.Context, path, tempDir string, sampleRate int) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return ReadWAVMono(path)
	}

	wavPath, err := ConvertToMonoWAV(ctx, path, tempDir, ConvertWAVConfig{SampleRate: sampleRate})
	if err != nil {
		return nil, 0, fmt.Errorf("converting %s: %w", filepath.Base(path), err)
	}
	defer utils.DeleteFile(wavPath)

	return ReadWAVMono(wavPath)
}
