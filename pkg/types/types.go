package types

// ClassNames lists the garment and accessory labels the detector can
// produce, indexed by class id.
var ClassNames = []string{
	"sunglass", "hat", "jacket", "shirt",
	"pants", "shorts", "skirt", "dress", "bag", "shoe",
}

// BBox is a pixel-space bounding rectangle. X2/Y2 are exclusive.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the box width in pixels.
func (b BBox) Width() int { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b BBox) Height() int { return b.Y2 - b.Y1 }

// Empty reports whether the box has zero or negative area.
func (b BBox) Empty() bool { return b.X2 <= b.X1 || b.Y2 <= b.Y1 }

// ColorSample is one named color extracted from an item crop.
// Method and Percentage record which extraction strategy produced the
// sample and its pixel share; they drive the merge order and are not
// part of the result payload.
type ColorSample struct {
	RGB        [3]uint8 `json:"rgb"`
	Name       string   `json:"name"`
	Method     string   `json:"-"`
	Percentage float64  `json:"-"`
}

// Detection is a single detected clothing item. Colors is populated by
// the color extractor after detection.
type Detection struct {
	Class      string        `json:"class"`
	Confidence float64       `json:"confidence"`
	BBox       BBox          `json:"bbox"`
	Colors     []ColorSample `json:"colors"`
}

// ScoreBreakdown holds the four independent sub-scores, each in [0,10].
type ScoreBreakdown struct {
	ClipContextual   float64 `json:"clip_contextual"`
	ColorHarmony     float64 `json:"color_harmony"`
	ItemCompleteness float64 `json:"item_completeness"`
	StyleCoherence   float64 `json:"style_coherence"`
}

// AnalysisResult is the complete outcome of one outfit analysis.
type AnalysisResult struct {
	StyleScore          float64        `json:"style_score"`
	Occasion            string         `json:"occasion"`
	OccasionDescription string         `json:"occasion_description"`
	DetectedItems       []Detection    `json:"detected_items"`
	ScoringBreakdown    ScoreBreakdown `json:"scoring_breakdown"`
	ContextualFeedback  string         `json:"contextual_feedback"`
	TotalItems          int            `json:"total_items"`
	UniqueColors        int            `json:"unique_colors"`
	AnalysisTimeSeconds float64        `json:"analysis_time_seconds"`
}

// UserPreferences carries optional styling preferences forwarded to the
// suggestion generator.
type UserPreferences struct {
	StylePreference string   `json:"style_preference,omitempty"`
	Budget          string   `json:"budget,omitempty"`
	AvoidItems      []string `json:"avoid_items,omitempty"`
	FavoriteColors  []string `json:"favorite_colors,omitempty"`
}

// Suggestions is structured styling advice derived from an analysis.
type Suggestions struct {
	WhatsWorking        string   `json:"whats_working"`
	AreasForImprovement string   `json:"areas_for_improvement"`
	SpecificSuggestions []string `json:"specific_suggestions"`
	OccasionTips        string   `json:"occasion_tips"`
	ShoppingSuggestions string   `json:"shopping_suggestions"`
	AIAvailable         bool     `json:"ai_suggestions_available"`
	FallbackUsed        bool     `json:"fallback_used,omitempty"`
}
