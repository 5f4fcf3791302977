package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// DefaultModel is the Gemini model used for styling suggestions.
const DefaultModel = "gemini-2.5-flash"

// Suggester generates styling advice from an analysis result via Gemini.
// With no API key, or on any model failure, it degrades to deterministic
// canned suggestions instead of returning an error.
type Suggester struct {
	apiKey string
	model  string
}

// New creates a Suggester. An empty model selects DefaultModel.
func New(apiKey, model string) *Suggester {
	if model == "" {
		model = DefaultModel
	}
	return &Suggester{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
	}
}

// Generate produces styling suggestions for an analysis result.
func (s *Suggester) Generate(ctx context.Context, result *types.AnalysisResult, prefs *types.UserPreferences) (*types.Suggestions, error) {
	if s.apiKey == "" {
		return Fallback(result), nil
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return Fallback(result), nil
	}
	defer cl.Close()

	m := cl.GenerativeModel(s.model)
	resp, err := m.GenerateContent(ctx, genai.Text(buildPrompt(result, prefs)))
	if err != nil {
		return Fallback(result), nil
	}

	text := responseText(resp)
	if text == "" {
		return Fallback(result), nil
	}

	suggestions := parseResponse(text)
	suggestions.AIAvailable = true
	return suggestions, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// Section headers the model is asked to produce and the parser scans for.
const (
	headerWorking     = "**WHAT'S WORKING:**"
	headerImprovement = "**AREAS FOR IMPROVEMENT:**"
	headerSpecific    = "**SPECIFIC SUGGESTIONS:**"
	headerOccasion    = "**OCCASION-SPECIFIC TIPS:**"
	headerShopping    = "**SHOPPING SUGGESTIONS:**"
)

func buildPrompt(result *types.AnalysisResult, prefs *types.UserPreferences) string {
	var items []string
	for _, item := range result.DetectedItems {
		var names []string
		for _, c := range item.Colors {
			names = append(names, c.Name)
		}
		colorStr := "neutral"
		if len(names) > 0 {
			colorStr = strings.Join(names, ", ")
		}
		items = append(items, fmt.Sprintf("  - %s in %s colors (confidence: %.2f)", item.Class, colorStr, item.Confidence))
	}
	itemsText := "No items detected"
	if len(items) > 0 {
		itemsText = "\n" + strings.Join(items, "\n")
	}

	var prefLines []string
	if prefs != nil {
		if prefs.StylePreference != "" {
			prefLines = append(prefLines, "Style preference: "+prefs.StylePreference)
		}
		if prefs.Budget != "" {
			prefLines = append(prefLines, "Budget: "+prefs.Budget)
		}
		if len(prefs.AvoidItems) > 0 {
			prefLines = append(prefLines, "Items to avoid: "+strings.Join(prefs.AvoidItems, ", "))
		}
		if len(prefs.FavoriteColors) > 0 {
			prefLines = append(prefLines, "Favorite colors: "+strings.Join(prefs.FavoriteColors, ", "))
		}
	}
	prefsText := ""
	if len(prefLines) > 0 {
		prefsText = "\n\nUSER PREFERENCES:\n" + strings.Join(prefLines, "\n")
	}

	b := result.ScoringBreakdown
	return fmt.Sprintf(`You are a professional fashion stylist with expertise in creating stylish, contextually appropriate outfits. Analyze this outfit and provide specific, actionable fashion advice.

OUTFIT ANALYSIS:
- Occasion: %s
- Overall Style Score: %.1f/10
- Current Assessment: %s

DETECTED CLOTHING ITEMS:%s

DETAILED SCORING BREAKDOWN:
- Contextual Appropriateness: %.1f/10
- Color Harmony: %.1f/10
- Item Completeness: %.1f/10
- Style Coherence: %.1f/10%s

PROVIDE FASHION ADVICE IN THIS EXACT FORMAT:

%s
[Identify 1-2 positive aspects of this outfit]

%s
[If score < 8, point out 2-3 specific issues. If score >= 8, mention minor tweaks or styling alternatives]

%s
[Give 3-4 actionable recommendations as a bullet list, naming exact items or adjustments]

%s
[2-3 tips specifically tailored for %s, considering dress codes and appropriateness]

%s
[If needed, suggest 1-2 versatile pieces that would improve this and future outfits]

Keep all suggestions practical, specific, and achievable.`,
		result.OccasionDescription, result.StyleScore, result.ContextualFeedback,
		itemsText,
		b.ClipContextual, b.ColorHarmony, b.ItemCompleteness, b.StyleCoherence, prefsText,
		headerWorking, headerImprovement, headerSpecific,
		headerOccasion, result.OccasionDescription, headerShopping)
}

// parseResponse splits the sectioned model response into a Suggestions
// struct. Unrecognized lines before the first header are ignored.
func parseResponse(text string) *types.Suggestions {
	out := &types.Suggestions{}

	sections := map[string]*string{
		headerWorking:     &out.WhatsWorking,
		headerImprovement: &out.AreasForImprovement,
		headerOccasion:    &out.OccasionTips,
		headerShopping:    &out.ShoppingSuggestions,
	}

	var current string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		matched := false
		for header := range sections {
			if strings.Contains(upper, header) {
				current = header
				matched = true
				break
			}
		}
		if strings.Contains(upper, headerSpecific) {
			current = headerSpecific
			matched = true
		}
		if matched || line == "" || strings.HasPrefix(line, "[") {
			continue
		}

		if current == headerSpecific {
			item := strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
			if item != "" && !strings.HasPrefix(item, "**") {
				out.SpecificSuggestions = append(out.SpecificSuggestions, item)
			}
			continue
		}
		if target, ok := sections[current]; ok && !strings.HasPrefix(line, "**") {
			if *target != "" {
				*target += " "
			}
			*target += line
		}
	}
	return out
}

// Fallback returns canned suggestions keyed by score band and occasion,
// used when the model is unavailable.
func Fallback(result *types.AnalysisResult) *types.Suggestions {
	out := &types.Suggestions{
		FallbackUsed:        true,
		ShoppingSuggestions: "Consider investing in versatile pieces that can work across multiple occasions.",
	}

	switch {
	case result.StyleScore >= 8:
		out.WhatsWorking = "Your outfit shows excellent coordination and is well-suited for the occasion."
		out.AreasForImprovement = "This is already a strong look. Minor adjustments could add extra polish."
		out.SpecificSuggestions = []string{
			"Consider adding a statement accessory to personalize the look",
			"Experiment with different shoe styles for variety",
			"Try layering pieces for added visual interest",
		}
	case result.StyleScore >= 6:
		out.WhatsWorking = "The basic outfit structure works well for this occasion."
		out.AreasForImprovement = "Some elements could be refined for better overall impact."
		out.SpecificSuggestions = []string{
			"Focus on improving color coordination between pieces",
			"Consider adding complementary accessories",
			"Pay attention to fit and proportions of garments",
			"Ensure all pieces match the formality level required",
		}
	default:
		out.WhatsWorking = "There are elements that provide a good foundation to build upon."
		out.AreasForImprovement = "Several aspects could be adjusted for better appropriateness and style."
		out.SpecificSuggestions = []string{
			"Reconsider the color palette for better harmony",
			"Add more occasion-appropriate pieces",
			"Focus on creating better coordination between items",
			"Consider the formality requirements of the occasion",
		}
	}

	switch result.Occasion {
	case "job_interview", "work_meeting", "business_casual":
		out.OccasionTips = "For professional settings, prioritize conservative colors, proper fit, and polished accessories."
	case "date_night", "night_out":
		out.OccasionTips = "For social occasions, you can be more expressive with colors and accessories while maintaining good taste."
	case "beach_vacation", "casual_hangout":
		out.OccasionTips = "For casual settings, comfort and appropriateness for activities are key, with room for personal expression."
	default:
		out.OccasionTips = fmt.Sprintf("For %s, focus on appropriate formality levels and practical considerations.", result.OccasionDescription)
	}
	return out
}

// QuickTips returns up to five short styling tips for an occasion and
// the detected item classes, with no model call.
func QuickTips(occasion string, items []string) []string {
	var tips []string

	switch occasion {
	case "job_interview", "work_meeting":
		tips = append(tips,
			"Ensure all pieces are wrinkle-free and well-fitted",
			"Stick to a conservative color palette",
			"Keep accessories minimal and professional")
	case "date_night":
		tips = append(tips,
			"Add one statement piece to create visual interest",
			"Consider the venue when choosing formality level")
	case "beach_vacation":
		tips = append(tips,
			"Choose breathable fabrics for comfort",
			"Don't forget sun protection accessories")
	}

	for _, item := range items {
		switch item {
		case "jacket":
			tips = append(tips, "Ensure the jacket fits properly at shoulders and sleeves")
		case "shoe":
			tips = append(tips, "Make sure shoes are clean and appropriate for walking")
		case "bag":
			tips = append(tips, "Choose a bag size appropriate for the occasion")
		}
	}

	if len(tips) > 5 {
		tips = tips[:5]
	}
	return tips
}
