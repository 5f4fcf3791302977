package analyzer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

type stubDetector struct {
	detections []types.Detection
	err        error
}

func (d stubDetector) DetectItems(_ context.Context, _ string) ([]types.Detection, error) {
	return d.detections, d.err
}

type stubSimilarity struct {
	val float64
}

func (s stubSimilarity) Similarity(_ context.Context, _ string, _ string) (float64, error) {
	return s.val, nil
}

// writeTestImage writes a two-band test photo: a white top half and a
// navy bottom half, standing in for a shirt over pants.
func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		c := color.NRGBA{245, 245, 245, 255}
		if y >= 100 {
			c = color.NRGBA{0, 0, 80, 255}
		}
		for x := 0; x < 200; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "outfit.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestAnalyzeInvalidOccasion(t *testing.T) {
	a := New(stubDetector{}, nil)
	_, err := a.Analyze(context.Background(), "outfit.jpg", "space_walk")
	if !errors.Is(err, ErrInvalidOccasion) {
		t.Fatalf("expected ErrInvalidOccasion, got %v", err)
	}
}

func TestAnalyzeNilDetector(t *testing.T) {
	a := New(nil, nil)
	_, err := a.Analyze(context.Background(), "outfit.jpg", "job_interview")
	if !errors.Is(err, ErrDetectorUnavailable) {
		t.Fatalf("expected ErrDetectorUnavailable, got %v", err)
	}
}

func TestAnalyzeDetectorFailure(t *testing.T) {
	a := New(stubDetector{err: errors.New("model offline")}, nil)
	_, err := a.Analyze(context.Background(), "outfit.jpg", "job_interview")
	if err == nil {
		t.Fatal("expected error from failing detector")
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	path := writeTestImage(t)
	detections := []types.Detection{
		{Class: "shirt", Confidence: 0.94, BBox: types.BBox{X1: 0, Y1: 0, X2: 200, Y2: 100}},
		{Class: "pants", Confidence: 0.88, BBox: types.BBox{X1: 0, Y1: 100, X2: 200, Y2: 200}},
	}

	a := New(stubDetector{detections: detections}, stubSimilarity{val: 0.6})
	result, err := a.Analyze(context.Background(), path, "work_meeting")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Occasion != "work_meeting" {
		t.Errorf("occasion = %s", result.Occasion)
	}
	if result.OccasionDescription != "business work meeting" {
		t.Errorf("occasion description = %s", result.OccasionDescription)
	}
	if result.TotalItems != 2 {
		t.Errorf("total items = %d, want 2", result.TotalItems)
	}
	if len(result.DetectedItems) != 2 {
		t.Fatalf("detected items = %d, want 2", len(result.DetectedItems))
	}
	for _, item := range result.DetectedItems {
		if len(item.Colors) == 0 {
			t.Errorf("item %s has no colors", item.Class)
		}
	}
	if result.UniqueColors < 1 {
		t.Errorf("unique colors = %d", result.UniqueColors)
	}
	if result.StyleScore < 0 || result.StyleScore > 10 {
		t.Errorf("style score out of range: %g", result.StyleScore)
	}
	if result.ScoringBreakdown.ClipContextual != 8.0 {
		t.Errorf("contextual = %g, want 8.0", result.ScoringBreakdown.ClipContextual)
	}
	if result.ContextualFeedback == "" {
		t.Error("expected non-empty feedback")
	}
	if result.AnalysisTimeSeconds < 0 {
		t.Errorf("analysis time = %g", result.AnalysisTimeSeconds)
	}
}

func TestAnalyzeNoDetections(t *testing.T) {
	path := writeTestImage(t)

	a := New(stubDetector{}, nil)
	result, err := a.Analyze(context.Background(), path, "casual_hangout")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.TotalItems != 0 {
		t.Errorf("total items = %d, want 0", result.TotalItems)
	}
	if result.UniqueColors != 0 {
		t.Errorf("unique colors = %d, want 0", result.UniqueColors)
	}
	if result.StyleScore < 0 || result.StyleScore > 10 {
		t.Errorf("style score out of range: %g", result.StyleScore)
	}
}

func TestAnalyzeMissingImage(t *testing.T) {
	detections := []types.Detection{{Class: "shirt", Confidence: 0.9}}
	a := New(stubDetector{detections: detections}, nil)
	_, err := a.Analyze(context.Background(), "does-not-exist.png", "casual_hangout")
	if err == nil {
		t.Fatal("expected error for missing image")
	}
}
