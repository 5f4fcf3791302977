package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	Detection   DetectionConfig   `json:"detection"`
	Colors      ColorsConfig      `json:"colors"`
	Scoring     ScoringConfig     `json:"scoring"`
	Suggestions SuggestionsConfig `json:"suggestions"`
	Output      OutputConfig      `json:"output"`
}

// DetectionConfig holds configuration for the vision model backend.
type DetectionConfig struct {
	Backend     string `json:"backend"` // ollama or llamacpp
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// ColorsConfig holds configuration for color extraction.
type ColorsConfig struct {
	ColorsPerItem    int     `json:"colors_per_item"`
	ShadowValue      float64 `json:"shadow_value"`
	HighlightValue   float64 `json:"highlight_value"`
	MinValidPixels   int     `json:"min_valid_pixels"`
	PixelsPerCluster int     `json:"pixels_per_cluster"`
	MinClusterShare  float64 `json:"min_cluster_share"`
	PaletteSize      int     `json:"palette_size"`
}

// ScoringConfig holds the sub-score weights.
type ScoringConfig struct {
	ClipContextual   float64 `json:"clip_contextual"`
	ColorHarmony     float64 `json:"color_harmony"`
	ItemCompleteness float64 `json:"item_completeness"`
	StyleCoherence   float64 `json:"style_coherence"`
}

// SuggestionsConfig holds configuration for the suggestion generator.
type SuggestionsConfig struct {
	GeminiModel string `json:"gemini_model"`
}

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	Dir     string `json:"dir"`
	Format  string `json:"format"` // overlay image format: jpg|png|webp
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Backend:     "ollama",
			URL:         "http://localhost:11434",
			Model:       "openbmb/minicpm-v4.5",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Colors: ColorsConfig{
			ColorsPerItem:    2,
			ShadowValue:      30,
			HighlightValue:   240,
			MinValidPixels:   100,
			PixelsPerCluster: 50,
			MinClusterShare:  10.0,
			PaletteSize:      5,
		},
		Scoring: ScoringConfig{
			ClipContextual:   0.6,
			ColorHarmony:     0.2,
			ItemCompleteness: 0.1,
			StyleCoherence:   0.1,
		},
		Suggestions: SuggestionsConfig{
			GeminiModel: "gemini-2.5-flash",
		},
		Output: OutputConfig{
			Dir:     "./out",
			Format:  "png",
			Quality: 92,
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Detection.Backend {
	case "ollama", "llamacpp":
	default:
		return fmt.Errorf("detection.backend must be ollama or llamacpp")
	}

	if c.Colors.ColorsPerItem < 1 {
		return fmt.Errorf("colors.colors_per_item must be positive")
	}
	if c.Colors.MinClusterShare < 0 || c.Colors.MinClusterShare > 100 {
		return fmt.Errorf("colors.min_cluster_share must be between 0 and 100")
	}
	if c.Colors.PaletteSize < 1 {
		return fmt.Errorf("colors.palette_size must be positive")
	}

	sum := c.Scoring.ClipContextual + c.Scoring.ColorHarmony +
		c.Scoring.ItemCompleteness + c.Scoring.StyleCoherence
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %g", sum)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "outfit-evaluator", "config.json")
}
