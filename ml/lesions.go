package ml

import (
	"math"

	"github.com/acneai/backend/model"
)

// DetectLesions estimates lesion counts for the image. Base counts are fixed
// per severity so they stay consistent with the classification, then scaled
// by the image's grayscale variance as a rough texture proxy.
func (c *Classifier) DetectLesions(imagePath, severity string) (model.LesionCounts, error) {
	variance, err := grayVariance(imagePath)
	if err != nil {
		return model.LesionCounts{}, err
	}
	return lesionCountsFor(severity, math.Min(variance/1000, 1.0)), nil
}

func lesionCountsFor(severity string, scale float64) model.LesionCounts {
	switch severity {
	case SeverityClear:
		return model.LesionCounts{}
	case SeverityMild:
		return model.LesionCounts{
			Comedones: int(5 * scale),
			Papules:   int(3 * scale),
			Pustules:  int(1 * scale),
		}
	case SeverityModerate:
		return model.LesionCounts{
			Comedones: int(15 * scale),
			Papules:   int(10 * scale),
			Pustules:  int(5 * scale),
		}
	case SeveritySevere:
		return model.LesionCounts{
			Comedones: int(25 * scale),
			Papules:   int(20 * scale),
			Pustules:  int(15 * scale),
			Nodules:   int(3 * scale),
		}
	case SeverityVerySevere:
		return model.LesionCounts{
			Comedones: int(30 * scale),
			Papules:   int(25 * scale),
			Pustules:  int(20 * scale),
			Nodules:   int(10 * scale),
			Cysts:     int(5 * scale),
		}
	default:
		counts := model.LesionCounts{
			Comedones: int(20 * scale),
			Papules:   int(15 * scale),
			Pustules:  int(8 * scale),
		}
		if scale > 0.5 {
			counts.Nodules = int(2 * scale)
		}
		if scale > 0.7 {
			counts.Cysts = int(1 * scale)
		}
		return counts
	}
}
