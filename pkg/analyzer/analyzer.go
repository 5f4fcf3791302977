package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/colors"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/processing"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/scoring"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// Request-fatal errors. Everything else degrades: color extraction
// failures fall back per item, a missing similarity backend falls back to
// a neutral contextual score.
var (
	ErrInvalidOccasion     = errors.New("invalid occasion")
	ErrDetectorUnavailable = errors.New("item detector unavailable")
)

// Colors extracted per detected item unless overridden.
const defaultColorsPerItem = 2

// Analyzer sequences one outfit analysis: detection, per-item color
// extraction, scoring and feedback. Each call builds its own result; no
// state is shared across requests.
type Analyzer struct {
	detector      client.ItemDetector
	extractor     *colors.Extractor
	engine        *scoring.Engine
	processor     *processing.Processor
	colorsPerItem int
}

// New creates an Analyzer with default extraction and scoring
// configuration. similarity may be nil.
func New(detector client.ItemDetector, similarity client.SimilarityScorer) *Analyzer {
	return NewWithComponents(detector, colors.NewExtractor(), scoring.NewEngine(similarity))
}

// NewWithComponents creates an Analyzer from explicitly constructed
// parts, used when the extractor or engine carries custom configuration.
func NewWithComponents(detector client.ItemDetector, extractor *colors.Extractor, engine *scoring.Engine) *Analyzer {
	return &Analyzer{
		detector:      detector,
		extractor:     extractor,
		engine:        engine,
		processor:     processing.NewProcessor(),
		colorsPerItem: defaultColorsPerItem,
	}
}

// SetColorsPerItem overrides how many colors are extracted per detected
// item. Values below 1 are ignored.
func (a *Analyzer) SetColorsPerItem(n int) {
	if n >= 1 {
		a.colorsPerItem = n
	}
}

// Analyze runs the full pipeline for one outfit photo and occasion key.
func (a *Analyzer) Analyze(ctx context.Context, imagePath, occasion string) (*types.AnalysisResult, error) {
	if !scoring.ValidOccasion(occasion) {
		return nil, fmt.Errorf("%w: %q (must be one of: %s)",
			ErrInvalidOccasion, occasion, strings.Join(scoring.OccasionKeys(), ", "))
	}
	if a.detector == nil {
		return nil, ErrDetectorUnavailable
	}

	start := time.Now()

	detections, err := a.detector.DetectItems(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("item detection failed: %w", err)
	}

	img, err := a.processor.LoadImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	for i := range detections {
		detections[i].Colors = a.extractor.Extract(img, detections[i].BBox, a.colorsPerItem)
	}

	breakdown, final := a.engine.Score(ctx, detections, occasion, imagePath)

	return &types.AnalysisResult{
		StyleScore:          round1(final),
		Occasion:            occasion,
		OccasionDescription: scoring.Description(occasion),
		DetectedItems:       detections,
		ScoringBreakdown: types.ScoreBreakdown{
			ClipContextual:   round1(breakdown.ClipContextual),
			ColorHarmony:     round1(breakdown.ColorHarmony),
			ItemCompleteness: round1(breakdown.ItemCompleteness),
			StyleCoherence:   round1(breakdown.StyleCoherence),
		},
		ContextualFeedback:  scoring.Feedback(final, occasion),
		TotalItems:          len(detections),
		UniqueColors:        scoring.DistinctColorCount(detections),
		AnalysisTimeSeconds: math.Round(time.Since(start).Seconds()*100) / 100,
	}, nil
}

// round1 rounds to one decimal for presentation. Internal scores keep
// full precision until assembly.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
