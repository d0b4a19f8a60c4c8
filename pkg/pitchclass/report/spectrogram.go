package report

import (
	"image"
	"image/draw"

	"github.com/eligwz/spectrogram"
)

const (
	spectrogramWidth = 1024
	spectrogramBins  = 256
)

// WriteSpectrogram renders a magnitude spectrogram of the decoded clip to
// a PNG file. Used for eyeballing why a recording came out unclassified.
func WriteSpectrogram(samples []float64, sampleRate int, outPath string) error {
	img := spectrogram.NewImage128(image.Rect(0, 0, spectrogramWidth, spectrogramBins))

	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	// Hamming window, FFT path, linear magnitude scale.
	spectrogram.Drawfft(
		img,
		samples,
		uint32(sampleRate),
		uint32(spectrogramBins),
		false, // RECTANGLE: use Hamming window
		false, // DFT: use FFT instead
		true,  // MAG: magnitude
		false, // LOG10: linear scale
	)

	return spectrogram.SavePng(img, outPath)
}
