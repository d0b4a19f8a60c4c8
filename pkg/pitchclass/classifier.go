package pitchclass

import "github.com/voxlab/pitchclass/pkg/models"

// band maps a half-open frequency interval [Lo, Hi) to a label.
type band struct {
	Lo    float64
	Hi    float64
	Label models.GenderLabel
}

// genderBands is the single source of truth for the classification
// thresholds. Bands are evaluated in order and anything that falls
// through is unclassified. The 150 Hz boundary belongs to the female
// band.
var genderBands = []band{
	{Lo: 85, Hi: 150, Label: models.Male},
	{Lo: 150, Hi: 255, Label: models.Female},
}

// Classify maps a pitch estimate to a gender label. ok reports whether a
// pitch could be determined at all; when it is false the frequency value
// is ignored. The function is total: every input maps to exactly one of
// male, female or unclassified.
func Classify(freq float64, ok bool) models.GenderLabel {
	if !ok {
		return models.Unclassified
	}
	for _, b := range genderBands {
		if freq >= b.Lo && freq < b.Hi {
			return b.Label
		}
	}
	return models.Unclassified
}
