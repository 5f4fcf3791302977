package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/processing"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// DefaultPrompt instructs the vision model to locate clothing items and
// answer with strict JSON.
const DefaultPrompt = `You are a clothing item detector for outfit photos.

Return JSON only:
{
  "items": [
    {"class_id": 0, "confidence": 0.0, "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}}
  ]
}

Class ids:
0 sunglass, 1 hat, 2 jacket, 3 shirt, 4 pants,
5 shorts, 6 skirt, 7 dress, 8 bag, 9 shoe

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- Each box must tightly enclose exactly one visible clothing item or accessory.
- Report every clearly visible item once; do not guess at occluded items.
- confidence is your certainty in [0,1].
- If no clothing is visible, return {"items": []}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Config holds settings for image preparation before the model call.
type Config struct {
	SendFormat  string
	SendMaxDim  int
	SendQuality int
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		SendFormat:  "jpg",
		SendMaxDim:  1536,
		SendQuality: 85,
	}
}

// Detector locates clothing items in outfit photos through a prompted
// vision model backend.
type Detector struct {
	client    client.VisionClient
	processor *processing.Processor
	model     string
	config    Config
}

// NewDetector creates a Detector over the given vision backend.
func NewDetector(vc client.VisionClient, model string) *Detector {
	return NewDetectorWithConfig(vc, model, DefaultConfig())
}

// NewDetectorWithConfig creates a Detector with custom upload settings.
func NewDetectorWithConfig(vc client.VisionClient, model string, config Config) *Detector {
	return &Detector{
		client:    vc,
		processor: processing.NewProcessor(),
		model:     model,
		config:    config,
	}
}

// DetectItems loads the image, queries the vision backend and returns the
// detected items with pixel-space bounding boxes.
func (d *Detector) DetectItems(ctx context.Context, imagePath string) ([]types.Detection, error) {
	if d.client == nil {
		return nil, fmt.Errorf("no vision backend configured")
	}

	img, err := d.processor.LoadImage(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()

	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	raw, err := d.client.Query(ctx, d.model, DefaultPrompt, imgB64)
	if err != nil {
		return nil, fmt.Errorf("detection query failed: %w", err)
	}

	return ParseDetections(raw, bounds.Dx(), bounds.Dy())
}

type boxPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type itemPayload struct {
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	Box        boxPayload `json:"box"`
}

type detectionPayload struct {
	Items []itemPayload `json:"items"`
}

// ParseDetections parses the model's JSON response and converts the
// normalized boxes into pixel coordinates of a imgW x imgH image. Items
// with unknown class ids are dropped; degenerate boxes are kept and
// simply yield no colors downstream.
func ParseDetections(raw string, imgW, imgH int) ([]types.Detection, error) {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(raw, "{") {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var payload detectionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse detections: %w", err)
	}

	out := make([]types.Detection, 0, len(payload.Items))
	for _, it := range payload.Items {
		if it.ClassID < 0 || it.ClassID >= len(types.ClassNames) {
			continue
		}
		out = append(out, types.Detection{
			Class:      types.ClassNames[it.ClassID],
			Confidence: clamp(it.Confidence, 0, 1),
			BBox:       toPixelBBox(it.Box, imgW, imgH),
		})
	}
	return out, nil
}

func toPixelBBox(b boxPayload, imgW, imgH int) types.BBox {
	fw, fh := float64(imgW), float64(imgH)
	x0 := clamp(b.X, 0, 1) * fw
	y0 := clamp(b.Y, 0, 1) * fh
	x1 := clamp(b.X+b.W, 0, 1) * fw
	y1 := clamp(b.Y+b.H, 0, 1) * fh
	return types.BBox{
		X1: int(math.Round(x0)),
		Y1: int(math.Round(y0)),
		X2: int(math.Round(x1)),
		Y2: int(math.Round(y1)),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//.*$`)
	reInlineComment = regexp.MustCompile(`(?m)//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON removes code fences, comments and trailing commas
// from a model response and keeps only the outermost object.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reInlineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
