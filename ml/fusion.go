package ml

import (
	"math"

	"github.com/acneai/backend/model"
)

// skinTypes is the one-hot encoding order for self-reported skin type.
var skinTypes = []string{"oily", "dry", "combination", "normal", "sensitive"}

const (
	imageWeight    = 0.8
	metadataWeight = 0.2
)

// EncodeMetadata encodes clinical metadata into a numeric feature vector:
// normalized age and acne duration, one-hot skin type, and presence flags
// for previous treatments and allergies. Missing age defaults to 25 and
// missing duration to 6 months.
func EncodeMetadata(meta model.ClinicalMetadata) []float64 {
	features := make([]float64, 0, len(skinTypes)+4)

	age := meta.Age
	if age <= 0 {
		age = 25
	}
	features = append(features, float64(age)/100)

	duration := meta.AcneDurationMonths
	if duration <= 0 {
		duration = 6
	}
	features = append(features, math.Min(float64(duration)/60, 1.0))

	for _, s := range skinTypes {
		if meta.SkinType == s {
			features = append(features, 1.0)
		} else {
			features = append(features, 0.0)
		}
	}

	features = append(features, boolFeature(len(meta.PreviousTreatments) > 0))
	features = append(features, boolFeature(len(meta.Allergies) > 0))
	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// Fuse combines image features with encoded metadata. The image vector is
// L2-normalized and scaled by 0.8; the metadata is tiled out to a fifth of
// the image length and concatenated after it. Short image vectors can tile
// the metadata down to nothing.
func Fuse(imageFeatures, metadataFeatures []float64) []float64 {
	norm := 0.0
	for _, v := range imageFeatures {
		norm += v * v
	}
	norm = math.Sqrt(norm) + 1e-8

	fused := make([]float64, 0, len(imageFeatures)+len(imageFeatures)/5)
	for _, v := range imageFeatures {
		fused = append(fused, v/norm*imageWeight)
	}

	if len(metadataFeatures) == 0 {
		return fused
	}

	target := int(float64(len(imageFeatures)) * metadataWeight)
	reps := int(float64(len(imageFeatures)) * metadataWeight / float64(len(metadataFeatures)))
	tiled := make([]float64, 0, reps*len(metadataFeatures))
	for i := 0; i < reps; i++ {
		tiled = append(tiled, metadataFeatures...)
	}
	if len(tiled) > target {
		tiled = tiled[:target]
	}
	return append(fused, tiled...)
}
