package colors

import "testing"

func TestClassifyGrayscaleBands(t *testing.T) {
	tests := []struct {
		value uint8
		want  string
	}{
		{0, Black},
		{39, Black},
		{40, DarkGray},
		{79, DarkGray},
		{80, Gray},
		{119, Gray},
		{120, LightGray},
		{159, LightGray},
		{160, Silver},
		{219, Silver},
		{220, White},
		{255, White},
	}

	for _, tt := range tests {
		got := Classify(tt.value, tt.value, tt.value)
		if got != tt.want {
			t.Errorf("Classify(%d,%d,%d) = %s, want %s", tt.value, tt.value, tt.value, got, tt.want)
		}
	}
}

func TestClassifyHueBands(t *testing.T) {
	// Saturated, mid-bright samples fed straight into the HSV classifier.
	tests := []struct {
		name    string
		h, s, v float64
		want    string
	}{
		{"red low wrap", 0, 200, 200, Red},
		{"red high wrap", 175, 200, 200, Red},
		{"dark red when dim", 5, 200, 150, DarkRed},
		{"orange", 15, 200, 150, Orange},
		{"yellow", 30, 200, 150, Yellow},
		{"cream when desaturated yellow", 30, 90, 150, Cream},
		{"yellow green", 40, 200, 150, YellowGreen},
		{"green", 60, 200, 150, Green},
		{"teal", 75, 200, 150, Teal},
		{"cyan", 90, 200, 150, Cyan},
		{"navy when dim blue", 100, 200, 90, Navy},
		{"blue", 100, 200, 150, Blue},
		{"royal blue", 115, 200, 150, RoyalBlue},
		{"purple", 130, 200, 150, Purple},
		{"magenta", 150, 200, 150, Magenta},
		{"pink when bright", 150, 200, 200, Pink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHSV(tt.h, tt.s, tt.v)
			if got != tt.want {
				t.Errorf("ClassifyHSV(%g,%g,%g) = %s, want %s", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestClassifyDarkBranch(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    string
	}{
		{"navy", 110, 200, 35, Navy},
		{"dark green", 60, 200, 35, DarkGreen},
		{"dark red low wrap", 5, 200, 35, DarkRed},
		{"dark red high wrap", 175, 200, 35, DarkRed},
		{"dark gray otherwise", 140, 200, 35, DarkGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHSV(tt.h, tt.s, tt.v)
			if got != tt.want {
				t.Errorf("ClassifyHSV(%g,%g,%g) = %s, want %s", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestClassifyLightBranch(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    string
	}{
		{"light blue", 110, 50, 220, LightBlue},
		{"pink", 150, 50, 220, Pink},
		{"cream", 30, 50, 220, Cream},
		{"beige otherwise", 60, 50, 220, Beige},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHSV(tt.h, tt.s, tt.v)
			if got != tt.want {
				t.Errorf("ClassifyHSV(%g,%g,%g) = %s, want %s", tt.h, tt.s, tt.v, got, tt.want)
			}
		})
	}
}

func TestClassifySaturatedNeverUnknown(t *testing.T) {
	// The hue bands partition [0,180), so any saturated sample gets a name.
	for h := 0.0; h < 180; h++ {
		for _, v := range []float64{45, 100, 150, 250} {
			if got := ClassifyHSV(h, 200, v); got == Unknown {
				t.Fatalf("ClassifyHSV(%g,200,%g) = unknown", h, v)
			}
		}
	}
}

func TestRGBToHSVKnownValues(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		h, s, v float64
	}{
		{255, 0, 0, 0, 255, 255},    // pure red
		{0, 255, 0, 60, 255, 255},   // pure green
		{0, 0, 255, 120, 255, 255},  // pure blue
		{128, 128, 128, 0, 0, 128},  // gray has no hue or saturation
		{255, 255, 255, 0, 0, 255},  // white
		{0, 0, 0, 0, 0, 0},          // black
	}

	for _, tt := range tests {
		h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
		if h != tt.h || s != tt.s || v != tt.v {
			t.Errorf("RGBToHSV(%d,%d,%d) = (%g,%g,%g), want (%g,%g,%g)",
				tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
		}
	}
}

func TestClassifyRGBSamples(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    string
	}{
		{"crimson", 200, 30, 30, Red},
		{"maroon", 100, 10, 10, DarkRed},
		{"navy", 0, 0, 80, Navy},
		{"royal blue", 40, 40, 255, RoyalBlue},
		{"forest green seen dark", 10, 35, 10, DarkGreen},
		{"charcoal", 60, 60, 60, DarkGray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Classify(%d,%d,%d) = %s, want %s", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}
