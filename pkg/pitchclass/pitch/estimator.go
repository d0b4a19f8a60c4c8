package pitch

// Track runs the detector over the whole signal with the configured
// window and hop. Signals shorter than one window produce an empty track.
func (d *Detector) Track(samples []float64, sampleRate int) []Frame {
	w := d.cfg.WindowSize
	if len(samples) < w {
		return nil
	}
	frames := make([]Frame, 0, 1+(len(samples)-w)/d.cfg.HopSize)
	for start := 0; start+w <= len(samples); start += d.cfg.HopSize {
		frames = append(frames, d.DetectFrame(samples[start:start+w], sampleRate))
	}
	return frames
}

// Estimate reduces a track to one representative fundamental frequency:
// the arithmetic mean over voiced frames. ok is false when no frame is
// voiced, which callers treat as "undetermined", never as an error.
func (d *Detector) Estimate(samples []float64, sampleRate int) (float64, bool) {
	var sum float64
	var voiced int
	for _, f := range d.Track(samples, sampleRate) {
		if f.Voiced {
			sum += f.Freq
			voiced++
		}
	}
	if voiced == 0 {
		return 0, false
	}
	return sum / float64(voiced), true
}
