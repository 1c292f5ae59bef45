package render

import (
	"image/color"
	"math"
)

// bodyPalette is indexed by physics.Body.Color.
var bodyPalette = [...]color.RGBA{
	{R: 0xFF, G: 0x00, B: 0x80, A: 0xFF},
	{R: 0x79, G: 0x28, B: 0xCA, A: 0xFF},
	{R: 0xFF, G: 0x4D, B: 0x4D, A: 0xFF},
	{R: 0xF5, G: 0xA6, B: 0x23, A: 0xFF},
	{R: 0x00, G: 0x70, B: 0xF3, A: 0xFF},
	{R: 0x00, G: 0xDF, B: 0xD8, A: 0xFF},
	{R: 0x50, G: 0xE3, B: 0xC2, A: 0xFF},
	{R: 0xAB, G: 0xD2, B: 0xFA, A: 0xFF},
}

var (
	background = color.RGBA{R: 0x0A, G: 0x0A, B: 0x14, A: 0xFF}
	white      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	dim        = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	accent     = color.RGBA{R: 0x00, G: 0xFF, B: 0x88, A: 0xFF}
)

// BodyColor returns the palette color for index i, wrapping out-of-range values.
func BodyColor(i int) color.RGBA {
	n := len(bodyPalette)
	return bodyPalette[((i%n)+n)%n]
}

// ShapeColor gives each committed shape its own hue, 60° apart.
func ShapeColor(i int) color.RGBA {
	return hsl(float64(i*60), 1, 0.6)
}

// hsl converts hue in degrees, saturation and lightness in [0,1] to RGBA.
func hsl(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xFF}
}
