package colors

import "math"

// Color vocabulary produced by Classify. Unknown is only returned for
// samples the extractor should discard, never by the saturated hue branch.
const (
	Unknown     = "unknown"
	Black       = "black"
	DarkGray    = "dark_gray"
	Gray        = "gray"
	LightGray   = "light_gray"
	Silver      = "silver"
	White       = "white"
	Navy        = "navy"
	DarkGreen   = "dark_green"
	DarkRed     = "dark_red"
	LightBlue   = "light_blue"
	Pink        = "pink"
	Cream       = "cream"
	Beige       = "beige"
	Red         = "red"
	Orange      = "orange"
	Yellow      = "yellow"
	YellowGreen = "yellow_green"
	Green       = "green"
	Teal        = "teal"
	Cyan        = "cyan"
	Blue        = "blue"
	RoyalBlue   = "royal_blue"
	Purple      = "purple"
	Magenta     = "magenta"
)

// Saturation and value thresholds separating the grayscale, dark, light
// and saturated classification branches.
const (
	lowSaturation   = 30  // below this the sample is treated as grayscale
	lowValue        = 40  // below this the sample is a dark color
	highValue       = 200 // above this (and desaturated) the sample is light/pastel
	lightSatCeiling = 80
)

// RGBToHSV converts an RGB triple to OpenCV-style HSV: hue in [0,180),
// saturation and value in [0,255].
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))

	v = max
	delta := max - min
	if max > 0 {
		s = delta / max * 255
	}
	if delta > 0 {
		switch max {
		case rf:
			h = 60 * (gf - bf) / delta
		case gf:
			h = 60 * ((bf-rf)/delta + 2)
		case bf:
			h = 60 * ((rf-gf)/delta + 4)
		}
		if h < 0 {
			h += 360
		}
		h /= 2
	}
	return h, s, v
}

// Classify maps an RGB sample to a perceptual color name.
func Classify(r, g, b uint8) string {
	h, s, v := RGBToHSV(r, g, b)
	return ClassifyHSV(h, s, v)
}

// ClassifyHSV classifies a sample already expressed as OpenCV-style HSV.
// Branch order matters: grayscale, then dark, then light/pastel, then the
// saturated hue bands. All hue bands are lower-inclusive and
// upper-exclusive; the red wrap covers [170,180) and [0,10).
func ClassifyHSV(h, s, v float64) string {
	switch {
	case s < lowSaturation:
		return classifyGrayscale(v)
	case v < lowValue:
		return classifyDark(h, s, v)
	case v > highValue && s < lightSatCeiling:
		return classifyLight(h, s, v)
	}
	return classifyHue(h, s, v)
}

func classifyGrayscale(v float64) string {
	switch {
	case v < 40:
		return Black
	case v < 80:
		return DarkGray
	case v < 120:
		return Gray
	case v < 160:
		return LightGray
	case v < 220:
		return Silver
	}
	return White
}

func classifyDark(h, s, v float64) string {
	if s < lowSaturation {
		if v < 30 {
			return Black
		}
		return DarkGray
	}
	switch {
	case h >= 95 && h < 125:
		return Navy
	case h >= 35 && h < 85:
		return DarkGreen
	case h < 10 || h >= 170:
		return DarkRed
	}
	return DarkGray
}

func classifyLight(h, s, v float64) string {
	if s < lowSaturation {
		if v > 230 {
			return White
		}
		return LightGray
	}
	switch {
	case h >= 95 && h < 125:
		return LightBlue
	case h >= 145 && h < 170:
		return Pink
	case h >= 25 && h < 35:
		return Cream
	}
	return Beige
}

// classifyHue partitions the full [0,180) hue range, so a saturated
// sample always gets a name.
func classifyHue(h, s, v float64) string {
	switch {
	case h < 10 || h >= 170:
		if v > 150 {
			return Red
		}
		return DarkRed
	case h < 25:
		return Orange
	case h < 35:
		if s > 100 {
			return Yellow
		}
		return Cream
	case h < 85:
		switch {
		case h < 50:
			return YellowGreen
		case h < 70:
			return Green
		}
		return Teal
	case h < 95:
		return Cyan
	case h < 125:
		switch {
		case v < 100:
			return Navy
		case h < 110:
			return Blue
		}
		return RoyalBlue
	case h < 145:
		return Purple
	}
	// 145 <= h < 170: pink/magenta split by brightness
	if v > 180 {
		return Pink
	}
	return Magenta
}
