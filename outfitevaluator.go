// Package outfitevaluator scores photographed outfits for contextual
// appropriateness. It detects clothing items with a vision model, extracts
// the dominant colors of each item, and combines contextual similarity,
// color harmony, item completeness and style coherence into a single
// 0-10 style score with human-readable feedback.
package outfitevaluator

import (
	"context"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/analyzer"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/colors"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/scoring"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// Evaluator is the main entry point for outfit evaluation.
type Evaluator struct {
	analyzer *analyzer.Analyzer
}

// New creates an Evaluator backed by the given item detector and
// similarity scorer. The similarity scorer may be nil, in which case
// the contextual sub-score falls back to a neutral value.
func New(detector client.ItemDetector, similarity client.SimilarityScorer) *Evaluator {
	return &Evaluator{
		analyzer: analyzer.New(detector, similarity),
	}
}

// NewWithConfig creates an Evaluator with custom color extraction and
// scoring configuration.
func NewWithConfig(detector client.ItemDetector, similarity client.SimilarityScorer,
	extraction colors.ExtractorConfig, weights scoring.Weights) *Evaluator {
	return &Evaluator{
		analyzer: analyzer.NewWithComponents(detector,
			colors.NewExtractorWithConfig(extraction),
			scoring.NewEngineWithWeights(similarity, weights)),
	}
}

// SetColorsPerItem overrides how many colors are extracted per detected
// item.
func (e *Evaluator) SetColorsPerItem(n int) {
	e.analyzer.SetColorsPerItem(n)
}

// Analyze evaluates the outfit in the image at imagePath for the given
// occasion and returns the full scoring result.
func (e *Evaluator) Analyze(ctx context.Context, imagePath, occasion string) (*types.AnalysisResult, error) {
	return e.analyzer.Analyze(ctx, imagePath, occasion)
}

// Occasions returns the supported occasion keys in sorted order.
func Occasions() []string {
	return scoring.OccasionKeys()
}

// OccasionDescription returns the natural-language description used in
// prompts and output for the given occasion key.
func OccasionDescription(occasion string) string {
	return scoring.Description(occasion)
}
