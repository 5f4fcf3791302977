package scoring

import (
	"context"
	"math"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// Weights combines the four sub-scores into the final style score. They
// must sum to 1.
type Weights struct {
	ClipContextual   float64 `json:"clip_contextual"`
	ColorHarmony     float64 `json:"color_harmony"`
	ItemCompleteness float64 `json:"item_completeness"`
	StyleCoherence   float64 `json:"style_coherence"`
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		ClipContextual:   0.6,
		ColorHarmony:     0.2,
		ItemCompleteness: 0.1,
		StyleCoherence:   0.1,
	}
}

// Neutral score used when the similarity backend is unavailable. A
// missing embedding model never blocks an analysis.
const contextualFallback = 6.0

var neutralColors = map[string]bool{
	"black": true, "white": true, "gray": true,
	"dark_gray": true, "light_gray": true, "beige": true,
}

var warmColors = map[string]bool{
	"red": true, "orange": true, "yellow": true, "pink": true,
}

var coolColors = map[string]bool{
	"blue": true, "green": true, "purple": true, "teal": true, "navy": true,
}

var formalItems = []string{"jacket", "shirt"}

var casualItems = []string{"shorts", "sunglass"}

// Engine computes the four sub-scores and the weighted final score for a
// set of annotated detections. The similarity scorer may be nil; the
// contextual sub-score then falls back to a fixed neutral value.
type Engine struct {
	similarity client.SimilarityScorer
	weights    Weights
}

// NewEngine creates an Engine with default weights.
func NewEngine(similarity client.SimilarityScorer) *Engine {
	return NewEngineWithWeights(similarity, DefaultWeights())
}

// NewEngineWithWeights creates an Engine with custom weights.
func NewEngineWithWeights(similarity client.SimilarityScorer, weights Weights) *Engine {
	return &Engine{similarity: similarity, weights: weights}
}

// Score computes the sub-score breakdown and the final weighted score in
// [0,10] for detections against the occasion. imagePath is only consulted
// by the contextual sub-score.
func (e *Engine) Score(ctx context.Context, detections []types.Detection, occasion, imagePath string) (types.ScoreBreakdown, float64) {
	breakdown := types.ScoreBreakdown{
		ClipContextual:   e.contextualScore(ctx, imagePath, occasion),
		ColorHarmony:     e.harmonyScore(detections),
		ItemCompleteness: e.completenessScore(detections, occasion),
		StyleCoherence:   e.coherenceScore(detections, occasion),
	}
	return breakdown, e.Final(breakdown)
}

// Final combines an existing breakdown into the weighted style score.
func (e *Engine) Final(b types.ScoreBreakdown) float64 {
	return clampScore(
		e.weights.ClipContextual*b.ClipContextual +
			e.weights.ColorHarmony*b.ColorHarmony +
			e.weights.ItemCompleteness*b.ItemCompleteness +
			e.weights.StyleCoherence*b.StyleCoherence)
}

// ContextPrompts returns the occasion-conditioned prompts rated by the
// similarity model.
func ContextPrompts(occasion string) []string {
	desc := Description(occasion)
	return []string{
		"professional outfit suitable for " + desc,
		"appropriate and stylish attire for " + desc,
		"well-dressed and coordinated for " + desc,
		"fashionable look perfect for " + desc,
	}
}

// contextualScore rates the whole image against each occasion prompt and
// maps the best similarity from [-1,1] onto [0,10]. Any backend failure
// degrades to the fixed fallback.
func (e *Engine) contextualScore(ctx context.Context, imagePath, occasion string) float64 {
	if e.similarity == nil {
		return contextualFallback
	}
	best := math.Inf(-1)
	got := false
	for _, prompt := range ContextPrompts(occasion) {
		s, err := e.similarity.Similarity(ctx, imagePath, prompt)
		if err != nil {
			continue
		}
		if s > best {
			best = s
		}
		got = true
	}
	if !got {
		return contextualFallback
	}
	return clampScore((best + 1) / 2 * 10)
}

// rule is one additive scoring adjustment: the delta applies when its
// condition holds. Sub-scores fold an ordered rule list over a fixed
// start value and clamp once.
type rule struct {
	applies bool
	delta   float64
}

func applyRules(start float64, rules []rule) float64 {
	score := start
	for _, r := range rules {
		if r.applies {
			score += r.delta
		}
	}
	return clampScore(score)
}

func (e *Engine) harmonyScore(detections []types.Detection) float64 {
	names := distinctColorNames(detections)
	if len(names) == 0 {
		return 5.0
	}

	var warm, cool int
	hasNeutral := false
	for name := range names {
		if warmColors[name] {
			warm++
		}
		if coolColors[name] {
			cool++
		}
		if neutralColors[name] {
			hasNeutral = true
		}
	}
	distinct := len(names)

	return applyRules(7.0, []rule{
		{distinct > 4, -2.0},
		{distinct > 3 && distinct <= 4, -1.0},
		{hasNeutral, 1.0},
		{warm > 1 && cool > 1, -1.5}, // warm/cool clash
	})
}

func (e *Engine) completenessScore(detections []types.Detection, occasion string) float64 {
	items := classSet(detections)

	switch occasion {
	case "job_interview", "work_meeting", "business_casual":
		return applyRules(5.0, []rule{
			{items["shirt"] && (items["pants"] || items["skirt"]), 2.0},
			{items["jacket"], 1.0},
			{items["shoe"], 1.0},
			{items["shorts"], -2.0}, // too casual
		})
	case "formal_event":
		return applyRules(5.0, []rule{
			{items["dress"] || (items["shirt"] && items["pants"]), 2.0},
			{items["shoe"], 1.0},
			{items["shorts"] || items["sunglass"], -1.0},
		})
	case "beach_vacation":
		return applyRules(5.0, []rule{
			{items["shorts"] || items["skirt"] || items["dress"], 1.0},
			{items["sunglass"], 1.0},
			{items["jacket"], -1.0}, // overdressed for the beach
		})
	}
	return applyRules(5.0, []rule{
		{len(detections) >= 2, 1.0},
		{items["shoe"], 0.5},
	})
}

func (e *Engine) coherenceScore(detections []types.Detection, occasion string) float64 {
	items := classSet(detections)
	hasFormal := anyOf(items, formalItems)
	hasCasual := anyOf(items, casualItems)

	switch occasion {
	case "job_interview", "work_meeting", "formal_event":
		return applyRules(7.0, []rule{
			{hasFormal && hasCasual, -2.0},
			{hasCasual && !hasFormal, -3.0},
		})
	case "beach_vacation", "casual_hangout":
		return applyRules(7.0, []rule{
			{hasFormal && !hasCasual, -1.0},
		})
	}
	return clampScore(7.0)
}

// DistinctColorCount returns the number of distinct color names across
// all detections.
func DistinctColorCount(detections []types.Detection) int {
	return len(distinctColorNames(detections))
}

func distinctColorNames(detections []types.Detection) map[string]bool {
	names := make(map[string]bool)
	for _, d := range detections {
		for _, c := range d.Colors {
			names[c.Name] = true
		}
	}
	return names
}

func classSet(detections []types.Detection) map[string]bool {
	items := make(map[string]bool, len(detections))
	for _, d := range detections {
		items[d.Class] = true
	}
	return items
}

func anyOf(set map[string]bool, keys []string) bool {
	for _, k := range keys {
		if set[k] {
			return true
		}
	}
	return false
}

func clampScore(v float64) float64 {
	return math.Min(math.Max(v, 0), 10)
}
