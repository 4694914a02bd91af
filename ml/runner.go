package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-resty/resty/v2"
)

// Runner executes raw model inference for an image and returns the model's
// probability vector.
type Runner interface {
	Infer(ctx context.Context, modelPath, imagePath string) ([]float64, error)
}

type inferenceResult struct {
	Probabilities []float64 `json:"probabilities"`
}

// execRunner shells out to a Python helper that loads the ONNX model and
// prints a JSON probability vector on stdout.
type execRunner struct {
	python string
	script string
}

func newExecRunner(python, script string) execRunner {
	if python == "" {
		python = "python3"
	}
	if script == "" {
		script = filepath.Join("scripts", "infer.py")
	}
	return execRunner{python: python, script: script}
}

func (r execRunner) Infer(ctx context.Context, modelPath, imagePath string) ([]float64, error) {
	cmd := exec.CommandContext(ctx, r.python, r.script,
		"--model", modelPath,
		"--image", imagePath,
		"--json",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("Inference script failed: %v\nOutput from script: %s", err, string(output))
		return nil, fmt.Errorf("inference script: %w", err)
	}

	var result inferenceResult
	if err := json.Unmarshal(output, &result); err != nil {
		log.Printf("Failed to parse inference output: %v\nRaw output: %s", err, string(output))
		return nil, fmt.Errorf("parse inference output: %w", err)
	}
	return result.Probabilities, nil
}

// httpRunner posts the image to a remote inference service.
type httpRunner struct {
	client  *resty.Client
	baseURL string
}

func newHTTPRunner(baseURL string) httpRunner {
	return httpRunner{client: resty.New(), baseURL: baseURL}
}

func (r httpRunner) Infer(ctx context.Context, modelPath, imagePath string) ([]float64, error) {
	var result inferenceResult
	resp, err := r.client.R().
		SetContext(ctx).
		SetFile("image", imagePath).
		SetFormData(map[string]string{"model": filepath.Base(modelPath)}).
		SetResult(&result).
		Post(r.baseURL + "/predict")
	if err != nil {
		return nil, fmt.Errorf("inference service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode())
	}
	return result.Probabilities, nil
}

// fallbackProbabilities produces a deterministic pseudo distribution seeded
// from the image bytes. It stands in for an untrained model head: the same
// image always maps to the same distribution.
func fallbackProbabilities(imagePath string) ([]float64, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	h := fnv.New64a()
	_, _ = h.Write(data)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	logits := make([]float64, len(SeverityLabels))
	for i := range logits {
		logits[i] = rng.Float64()*2 - 1
	}
	return softmax(logits), nil
}

func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}

	out := make([]float64, len(logits))
	sum := 0.0
	for i, l := range logits {
		out[i] = math.Exp(l - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
