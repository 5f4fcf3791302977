package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

type stubSimilarity struct {
	val float64
	err error
}

func (s stubSimilarity) Similarity(_ context.Context, _ string, _ string) (float64, error) {
	return s.val, s.err
}

func detectionsOf(classes ...string) []types.Detection {
	out := make([]types.Detection, len(classes))
	for i, c := range classes {
		out[i] = types.Detection{Class: c, Confidence: 0.9}
	}
	return out
}

func withColors(d []types.Detection, names ...string) []types.Detection {
	for _, n := range names {
		d[0].Colors = append(d[0].Colors, types.ColorSample{Name: n})
	}
	return d
}

func TestCompletenessScore(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name     string
		occasion string
		classes  []string
		want     float64
	}{
		{"interview full business", "job_interview", []string{"shirt", "pants", "shoe"}, 8.0},
		{"interview with jacket", "job_interview", []string{"shirt", "pants", "jacket", "shoe"}, 9.0},
		{"interview in shorts", "job_interview", []string{"shirt", "shorts"}, 3.0},
		{"formal dress", "formal_event", []string{"dress", "shoe"}, 8.0},
		{"formal with sunglasses", "formal_event", []string{"dress", "shoe", "sunglass"}, 7.0},
		{"beach shorts and shades", "beach_vacation", []string{"shorts", "sunglass"}, 7.0},
		{"beach in a jacket", "beach_vacation", []string{"jacket"}, 4.0},
		{"generic two items", "night_out", []string{"shirt", "pants"}, 6.0},
		{"generic with shoes", "night_out", []string{"shirt", "pants", "shoe"}, 6.5},
		{"generic single item", "date_night", []string{"dress"}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.completenessScore(detectionsOf(tt.classes...), tt.occasion)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHarmonyScore(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name   string
		colors []string
		want   float64
	}{
		{"no colors", nil, 5.0},
		{"two coordinated", []string{"blue", "navy"}, 7.0},
		{"neutral anchor", []string{"black", "blue"}, 8.0},
		{"four colors", []string{"red", "blue", "green", "purple"}, 6.0},
		{"five colors with clash", []string{"red", "orange", "blue", "green", "purple"}, 3.5},
		{"warm cool clash", []string{"red", "orange", "blue", "green"}, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := withColors(detectionsOf("shirt"), tt.colors...)
			got := e.harmonyScore(d)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCoherenceScore(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name     string
		occasion string
		classes  []string
		want     float64
	}{
		{"interview coherent", "job_interview", []string{"shirt", "pants"}, 7.0},
		{"interview mixed", "job_interview", []string{"jacket", "shorts"}, 5.0},
		{"interview all casual", "work_meeting", []string{"shorts", "sunglass"}, 4.0},
		{"beach overdressed", "beach_vacation", []string{"jacket", "pants"}, 6.0},
		{"beach relaxed", "casual_hangout", []string{"shorts", "shirt"}, 7.0},
		{"neutral occasion", "night_out", []string{"shorts", "jacket"}, 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.coherenceScore(detectionsOf(tt.classes...), tt.occasion)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestContextualScoreFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("nil scorer", func(t *testing.T) {
		e := NewEngine(nil)
		assert.InDelta(t, 6.0, e.contextualScore(ctx, "img.jpg", "night_out"), 1e-9)
	})

	t.Run("all queries fail", func(t *testing.T) {
		e := NewEngine(stubSimilarity{err: errors.New("backend down")})
		assert.InDelta(t, 6.0, e.contextualScore(ctx, "img.jpg", "night_out"), 1e-9)
	})

	t.Run("similarity mapped to score", func(t *testing.T) {
		e := NewEngine(stubSimilarity{val: 0.6})
		assert.InDelta(t, 8.0, e.contextualScore(ctx, "img.jpg", "night_out"), 1e-9)
	})

	t.Run("perfect similarity", func(t *testing.T) {
		e := NewEngine(stubSimilarity{val: 1.0})
		assert.InDelta(t, 10.0, e.contextualScore(ctx, "img.jpg", "night_out"), 1e-9)
	})
}

func TestFinalWeighting(t *testing.T) {
	e := NewEngine(nil)

	assert.InDelta(t, 10.0, e.Final(types.ScoreBreakdown{
		ClipContextual: 10, ColorHarmony: 10, ItemCompleteness: 10, StyleCoherence: 10,
	}), 1e-9)

	assert.InDelta(t, 6.0, e.Final(types.ScoreBreakdown{ClipContextual: 10}), 1e-9)

	assert.InDelta(t, 7.0, e.Final(types.ScoreBreakdown{
		ClipContextual: 8, ColorHarmony: 6, ItemCompleteness: 5, StyleCoherence: 5,
	}), 1e-9)
}

func TestScoreDeterministic(t *testing.T) {
	e := NewEngine(stubSimilarity{val: 0.4})
	d := withColors(detectionsOf("shirt", "pants", "shoe"), "white", "navy")
	ctx := context.Background()

	b1, f1 := e.Score(ctx, d, "work_meeting", "img.jpg")
	b2, f2 := e.Score(ctx, d, "work_meeting", "img.jpg")
	require.Equal(t, b1, b2)
	require.Equal(t, f1, f2)
}

func TestScoreWorkMeetingExample(t *testing.T) {
	// shirt+pants+shoe, white/navy palette, similarity 0.6:
	// contextual 8.0, harmony 8.0 (neutral anchor), completeness 8.0,
	// coherence 7.0 -> 0.6*8 + 0.2*8 + 0.1*8 + 0.1*7 = 7.9
	e := NewEngine(stubSimilarity{val: 0.6})
	d := withColors(detectionsOf("shirt", "pants", "shoe"), "white", "navy")

	breakdown, final := e.Score(context.Background(), d, "work_meeting", "img.jpg")
	assert.InDelta(t, 8.0, breakdown.ClipContextual, 1e-9)
	assert.InDelta(t, 8.0, breakdown.ColorHarmony, 1e-9)
	assert.InDelta(t, 8.0, breakdown.ItemCompleteness, 1e-9)
	assert.InDelta(t, 7.0, breakdown.StyleCoherence, 1e-9)
	assert.InDelta(t, 7.9, final, 1e-9)
}

func TestContextPrompts(t *testing.T) {
	prompts := ContextPrompts("job_interview")
	require.Len(t, prompts, 4)
	for _, p := range prompts {
		assert.Contains(t, p, "professional job interview")
	}
}

func TestOccasions(t *testing.T) {
	assert.True(t, ValidOccasion("job_interview"))
	assert.False(t, ValidOccasion("space_walk"))

	assert.Equal(t, "romantic date night", Description("date_night"))
	assert.Equal(t, "space_walk", Description("space_walk"))

	keys := OccasionKeys()
	require.Len(t, keys, 8)
	assert.True(t, sortedStrings(keys))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}
	return true
}

func TestFeedbackBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{9.0, "Excellent choice"},
		{8.0, "Excellent choice"},
		{6.5, "Good outfit"},
		{4.0, "Decent look"},
		{2.0, "may not be the best choice"},
	}

	for _, tt := range tests {
		got := Feedback(tt.score, "date_night")
		assert.Contains(t, got, tt.want, "score %.1f", tt.score)
		assert.True(t, strings.Contains(got, "romantic date night"))
	}
}

func TestDistinctColorCount(t *testing.T) {
	d := []types.Detection{
		{Class: "shirt", Colors: []types.ColorSample{{Name: "white"}, {Name: "navy"}}},
		{Class: "pants", Colors: []types.ColorSample{{Name: "navy"}}},
	}
	assert.Equal(t, 2, DistinctColorCount(d))
	assert.Equal(t, 0, DistinctColorCount(nil))
}
