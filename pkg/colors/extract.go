package colors

import (
	"errors"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/Nchan8120/GBC-Outfit-Evaluator/pkg/types"
)

// Extraction strategy labels recorded on samples. Merge priority follows
// this order: cluster results over palette results over simple averages.
const (
	MethodCluster = "cluster"
	MethodPalette = "palette"
	MethodSimple  = "simple"
)

// ExtractorConfig holds tuning for the region color extractor.
type ExtractorConfig struct {
	ShadowValue      float64 // mask out pixels at or below this value (shadows)
	HighlightValue   float64 // mask out pixels at or above this value (highlights)
	BrightDesatSat   float64 // desaturated-but-bright pixels are background
	BrightDesatValue float64
	MinValidPixels   int     // clustering needs at least this many masked-in pixels
	PixelsPerCluster int     // k = min(nColors, valid/PixelsPerCluster)
	MinClusterShare  float64 // drop clusters below this percentage of pixels
	PaletteSize      int     // swatch count for the quantized-palette strategy
	MaxSamples       int     // cap on pixels sampled from a crop
}

// DefaultExtractorConfig returns the extractor defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ShadowValue:      30,
		HighlightValue:   240,
		BrightDesatSat:   15,
		BrightDesatValue: 180,
		MinValidPixels:   100,
		PixelsPerCluster: 50,
		MinClusterShare:  10.0,
		PaletteSize:      5,
		MaxSamples:       20000,
	}
}

// Extractor extracts named dominant colors from detected item regions.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor creates an Extractor with default configuration.
func NewExtractor() *Extractor {
	return &Extractor{config: DefaultExtractorConfig()}
}

// NewExtractorWithConfig creates an Extractor with custom configuration.
func NewExtractorWithConfig(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

type pixel struct {
	r, g, b uint8
}

var errTooFewValidPixels = errors.New("not enough valid pixels for clustering")

// FallbackColors is returned when every extraction strategy fails. Color
// absence never aborts an analysis.
func FallbackColors() []types.ColorSample {
	return []types.ColorSample{
		{RGB: [3]uint8{128, 128, 128}, Name: Gray, Method: MethodSimple},
		{RGB: [3]uint8{64, 64, 64}, Name: DarkGray, Method: MethodSimple},
	}
}

// Extract returns up to nColors named colors for the given region of img.
// A degenerate or out-of-bounds bbox yields an empty slice. Strategies run
// in isolation: one failing never aborts the others, and only total
// failure produces the neutral fallback pair.
func (e *Extractor) Extract(img image.Image, bbox types.BBox, nColors int) []types.ColorSample {
	if nColors < 1 {
		return nil
	}
	crop := cropRegion(img, bbox)
	if crop == nil {
		return nil
	}
	pixels := samplePixels(crop, e.config.MaxSamples)
	if len(pixels) == 0 {
		return nil
	}

	strategies := []func([]pixel, int) ([]types.ColorSample, error){
		e.clusterColors,
		e.paletteColors,
		e.simpleColors,
	}
	var groups [][]types.ColorSample
	for _, strategy := range strategies {
		samples, err := strategy(pixels, nColors)
		if err != nil {
			continue
		}
		groups = append(groups, samples)
	}

	merged := mergeSamples(groups, nColors)
	if len(merged) == 0 {
		return FallbackColors()
	}
	return merged
}

// cropRegion clamps bbox to the image bounds and crops. Returns nil for a
// degenerate region.
func cropRegion(img image.Image, bbox types.BBox) image.Image {
	if bbox.Empty() {
		// image.Rect would silently canonicalize an inverted box.
		return nil
	}
	rect := image.Rect(bbox.X1, bbox.Y1, bbox.X2, bbox.Y2).Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}
	return imaging.Crop(img, rect)
}

// samplePixels collects RGB samples from the crop on a uniform grid,
// capped at maxSamples.
func samplePixels(img image.Image, maxSamples int) []pixel {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil
	}
	stride := 1
	if maxSamples > 0 && total > maxSamples {
		stride = int(math.Ceil(math.Sqrt(float64(total) / float64(maxSamples))))
	}

	pixels := make([]pixel, 0, total/(stride*stride)+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r, g, b, _ := img.At(x, y).RGBA()
			pixels = append(pixels, pixel{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
		}
	}
	return pixels
}

// clusterColors masks out shadows, highlights and bright desaturated
// background, then k-means clusters what remains. Cluster centroids are
// classified and weighted by their pixel share.
func (e *Extractor) clusterColors(pixels []pixel, nColors int) ([]types.ColorSample, error) {
	var valid [][]float64
	for _, p := range pixels {
		_, s, v := RGBToHSV(p.r, p.g, p.b)
		if v <= e.config.ShadowValue || v >= e.config.HighlightValue {
			continue
		}
		if s <= e.config.BrightDesatSat && v >= e.config.BrightDesatValue {
			continue
		}
		valid = append(valid, []float64{float64(p.r), float64(p.g), float64(p.b)})
	}
	if len(valid) < e.config.MinValidPixels {
		return nil, errTooFewValidPixels
	}

	k := len(valid) / e.config.PixelsPerCluster
	if k > nColors {
		k = nColors
	}
	if k < 1 {
		return nil, errTooFewValidPixels
	}

	centroids, counts := kMeans(valid, k)

	var samples []types.ColorSample
	for i, c := range centroids {
		share := float64(counts[i]) / float64(len(valid)) * 100
		if share < e.config.MinClusterShare {
			continue
		}
		rgb := [3]uint8{roundChannel(c[0]), roundChannel(c[1]), roundChannel(c[2])}
		samples = append(samples, types.ColorSample{
			RGB:        rgb,
			Name:       Classify(rgb[0], rgb[1], rgb[2]),
			Method:     MethodCluster,
			Percentage: share,
		})
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Percentage > samples[j].Percentage
	})
	return samples, nil
}

// paletteColors reduces the crop to a small palette by quantizing each
// channel to 4 bits and keeping the most frequent buckets. The swatch for
// a bucket is the mean of its member pixels.
func (e *Extractor) paletteColors(pixels []pixel, _ int) ([]types.ColorSample, error) {
	type bucket struct {
		key     uint32
		count   int
		r, g, b int
	}
	buckets := make(map[uint32]*bucket)
	for _, p := range pixels {
		key := uint32(p.r&0xf0)<<16 | uint32(p.g&0xf0)<<8 | uint32(p.b&0xf0)
		bk := buckets[key]
		if bk == nil {
			bk = &bucket{key: key}
			buckets[key] = bk
		}
		bk.count++
		bk.r += int(p.r)
		bk.g += int(p.g)
		bk.b += int(p.b)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ordered = append(ordered, bk)
	}
	// Map iteration order is random, so count ties need the bucket key as
	// a secondary sort to keep the top-N selection stable.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})
	if len(ordered) > e.config.PaletteSize {
		ordered = ordered[:e.config.PaletteSize]
	}

	samples := make([]types.ColorSample, 0, len(ordered))
	for _, bk := range ordered {
		rgb := [3]uint8{
			uint8(bk.r / bk.count),
			uint8(bk.g / bk.count),
			uint8(bk.b / bk.count),
		}
		samples = append(samples, types.ColorSample{
			RGB:        rgb,
			Name:       Classify(rgb[0], rgb[1], rgb[2]),
			Method:     MethodPalette,
			Percentage: float64(bk.count) / float64(len(pixels)) * 100,
		})
	}
	return samples, nil
}

// simpleColors is the degenerate-case strategy: the mean color plus the
// most saturated sampled pixel.
func (e *Extractor) simpleColors(pixels []pixel, _ int) ([]types.ColorSample, error) {
	var sumR, sumG, sumB int
	var vivid pixel
	vividSat := -1.0
	for _, p := range pixels {
		sumR += int(p.r)
		sumG += int(p.g)
		sumB += int(p.b)
		if _, s, _ := RGBToHSV(p.r, p.g, p.b); s > vividSat {
			vividSat = s
			vivid = p
		}
	}
	n := len(pixels)
	mean := [3]uint8{uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)}

	return []types.ColorSample{
		{RGB: mean, Name: Classify(mean[0], mean[1], mean[2]), Method: MethodSimple},
		{RGB: [3]uint8{vivid.r, vivid.g, vivid.b}, Name: Classify(vivid.r, vivid.g, vivid.b), Method: MethodSimple},
	}, nil
}

var methodRank = map[string]int{
	MethodCluster: 0,
	MethodPalette: 1,
	MethodSimple:  2,
}

// mergeSamples combines strategy outputs: unknown samples are discarded,
// names are deduplicated first-occurrence-wins after ordering by method
// priority and descending pixel share.
func mergeSamples(groups [][]types.ColorSample, nColors int) []types.ColorSample {
	var all []types.ColorSample
	for _, g := range groups {
		all = append(all, g...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := methodRank[all[i].Method], methodRank[all[j].Method]
		if ri != rj {
			return ri < rj
		}
		return all[i].Percentage > all[j].Percentage
	})

	seen := make(map[string]struct{}, len(all))
	var out []types.ColorSample
	for _, s := range all {
		if s.Name == Unknown {
			continue
		}
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
		if len(out) == nColors {
			break
		}
	}
	return out
}

func roundChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
