package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	outfitevaluator "github.com/Nchan8120/GBC-Outfit-Evaluator"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/internal/config"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/internal/utils"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/client"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/colors"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/detection"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/gemini"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/llamacpp"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/ollama"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/processing"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/scoring"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/similarity"
	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

func main() {
	var (
		in         = flag.String("in", "", "input image path (required)")
		occasion   = flag.String("occasion", "casual_hangout", "occasion to score against")
		backend    = flag.String("backend", "", "vision backend: ollama or llamacpp")
		url        = flag.String("url", "", "backend base URL")
		model      = flag.String("model", "", "vision model name")
		out        = flag.String("out", "", "write JSON result to this file instead of stdout")
		suggest    = flag.Bool("suggest", false, "generate improvement suggestions (needs GEMINI_API_KEY)")
		debug      = flag.String("debug", "", "write a detection overlay image to this path")
		prune      = flag.Duration("prune", 0, "remove files older than this from the output dir before running")
		configPath = flag.String("config", "", "config file path")
		listOcc    = flag.Bool("occasions", false, "list supported occasions and exit")
	)
	flag.Parse()

	if *listOcc {
		for _, key := range outfitevaluator.Occasions() {
			fmt.Printf("%-18s %s\n", key, outfitevaluator.OccasionDescription(key))
		}
		return
	}

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	cfg := loadConfig(*configPath)
	if *backend != "" {
		cfg.Detection.Backend = *backend
	}
	if *url != "" {
		cfg.Detection.URL = *url
	}
	if *model != "" {
		cfg.Detection.Model = *model
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *prune > 0 && cfg.Output.Dir != "" {
		if n, err := utils.CleanupOldFiles(cfg.Output.Dir, *prune); err == nil && n > 0 {
			log.Printf("Pruned %d old file(s) from %s", n, cfg.Output.Dir)
		}
	}

	vision, err := newVisionClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create vision client: %v", err)
	}
	detector := detection.NewDetectorWithConfig(vision, cfg.Detection.Model, detection.Config{
		SendFormat:  cfg.Detection.SendFormat,
		SendMaxDim:  cfg.Detection.SendMaxDim,
		SendQuality: cfg.Detection.SendQuality,
	})
	scorer := similarity.New(vision, cfg.Detection.Model)

	extraction := colors.DefaultExtractorConfig()
	extraction.ShadowValue = cfg.Colors.ShadowValue
	extraction.HighlightValue = cfg.Colors.HighlightValue
	extraction.MinValidPixels = cfg.Colors.MinValidPixels
	extraction.PixelsPerCluster = cfg.Colors.PixelsPerCluster
	extraction.MinClusterShare = cfg.Colors.MinClusterShare
	extraction.PaletteSize = cfg.Colors.PaletteSize
	weights := scoring.Weights{
		ClipContextual:   cfg.Scoring.ClipContextual,
		ColorHarmony:     cfg.Scoring.ColorHarmony,
		ItemCompleteness: cfg.Scoring.ItemCompleteness,
		StyleCoherence:   cfg.Scoring.StyleCoherence,
	}

	evaluator := outfitevaluator.NewWithConfig(detector, scorer, extraction, weights)
	evaluator.SetColorsPerItem(cfg.Colors.ColorsPerItem)

	ctx := context.Background()
	result, err := evaluator.Analyze(ctx, *in, *occasion)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *debug != "" {
		writeOverlay(*in, *debug, cfg, result.DetectedItems)
	}

	var suggestions *types.Suggestions
	if *suggest {
		var suggester client.SuggestionGenerator = gemini.New(os.Getenv("GEMINI_API_KEY"), cfg.Suggestions.GeminiModel)
		suggestions, err = suggester.Generate(ctx, result, nil)
		if err != nil {
			log.Printf("Suggestion generation failed: %v", err)
		}
	}

	output := struct {
		*types.AnalysisResult
		Suggestions *types.Suggestions `json:"suggestions,omitempty"`
	}{result, suggestions}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}

	if *out != "" {
		if err := utils.EnsureDir(filepath.Dir(*out)); err != nil {
			log.Fatalf("%v", err)
		}
		if err := os.WriteFile(*out, data, 0644); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
		log.Printf("Result written to %s", *out)
	} else {
		fmt.Println(string(data))
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default()
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func newVisionClient(cfg *config.Config) (client.VisionClient, error) {
	switch strings.ToLower(cfg.Detection.Backend) {
	case "llamacpp":
		return llamacpp.NewClient(cfg.Detection.URL)
	default:
		return ollama.NewClient(cfg.Detection.URL)
	}
}

func writeOverlay(in, out string, cfg *config.Config, detections []types.Detection) {
	processor := processing.NewProcessor()
	img, err := processor.LoadImage(in)
	if err != nil {
		log.Printf("Overlay skipped: %v", err)
		return
	}
	overlay := processor.DrawDetections(img, detections)
	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		log.Printf("Overlay skipped: %v", err)
		return
	}
	start := time.Now()
	if err := processor.SaveImage(overlay, out, cfg.Output.Format, cfg.Output.Quality); err != nil {
		log.Printf("Failed to save overlay: %v", err)
		return
	}
	log.Printf("Overlay written to %s (%.0fms)", out, float64(time.Since(start).Milliseconds()))
}
