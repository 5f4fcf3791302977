package similarity

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/processing"
)

// ratingPrompt asks the model for a bare 0-100 match rating that we map
// onto the [-1,1] similarity range.
const ratingPrompt = `Rate from 0 to 100 how well this photo matches the following description:

%q

Answer with only the number.`

// Config holds settings for image preparation before the model call.
type Config struct {
	SendFormat  string
	SendMaxDim  int
	SendQuality int
}

// DefaultConfig returns the similarity scorer defaults.
func DefaultConfig() Config {
	return Config{
		SendFormat:  "jpg",
		SendMaxDim:  1024,
		SendQuality: 85,
	}
}

// Scorer rates image/prompt similarity through a prompted vision model.
// One analysis rates the same image against several prompts, so the last
// prepared upload is cached per path.
type Scorer struct {
	client    client.VisionClient
	processor *processing.Processor
	model     string
	config    Config

	mu         sync.Mutex
	cachedPath string
	cachedB64  string
}

// New creates a Scorer over the given vision backend.
func New(vc client.VisionClient, model string) *Scorer {
	return NewWithConfig(vc, model, DefaultConfig())
}

// NewWithConfig creates a Scorer with custom upload settings.
func NewWithConfig(vc client.VisionClient, model string, config Config) *Scorer {
	return &Scorer{
		client:    vc,
		processor: processing.NewProcessor(),
		model:     model,
		config:    config,
	}
}

// Similarity rates how well the image matches the prompt, returning a
// value in [-1, 1].
func (s *Scorer) Similarity(ctx context.Context, imagePath, prompt string) (float64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("no vision backend configured")
	}

	imgB64, err := s.preparedImage(imagePath)
	if err != nil {
		return 0, err
	}

	raw, err := s.client.Query(ctx, s.model, fmt.Sprintf(ratingPrompt, prompt), imgB64)
	if err != nil {
		return 0, fmt.Errorf("similarity query failed: %w", err)
	}

	rating, err := parseRating(raw)
	if err != nil {
		return 0, err
	}
	return rating/100*2 - 1, nil
}

func (s *Scorer) preparedImage(imagePath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cachedPath == imagePath && s.cachedB64 != "" {
		return s.cachedB64, nil
	}

	img, err := s.processor.LoadImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	imgB64, err := s.processor.PrepareImageForModel(img, s.config.SendFormat, s.config.SendMaxDim, s.config.SendQuality)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}

	s.cachedPath = imagePath
	s.cachedB64 = imgB64
	return imgB64, nil
}

var ratingRe = regexp.MustCompile(`\d+(\.\d+)?`)

func parseRating(raw string) (float64, error) {
	m := ratingRe.FindString(raw)
	if m == "" {
		return 0, fmt.Errorf("no rating in model response: %q", raw)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("bad rating %q: %v", m, err)
	}
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return v, nil
}
