package client

import (
	"context"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// VisionClient is a chat-style vision model backend. Implementations send
// a prompt plus an optional base64-encoded image and return the raw model
// text.
type VisionClient interface {
	Query(ctx context.Context, model, prompt, imgB64 string) (string, error)
}

// ItemDetector locates clothing items in an outfit photo.
type ItemDetector interface {
	DetectItems(ctx context.Context, imagePath string) ([]types.Detection, error)
}

// SimilarityScorer rates how well an image matches a text prompt,
// returning a value in [-1, 1].
type SimilarityScorer interface {
	Similarity(ctx context.Context, imagePath, prompt string) (float64, error)
}

// SuggestionGenerator turns an analysis result into styling advice.
type SuggestionGenerator interface {
	Generate(ctx context.Context, result *types.AnalysisResult, prefs *types.UserPreferences) (*types.Suggestions, error)
}
