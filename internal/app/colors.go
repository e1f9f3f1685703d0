package app

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// labelColors maps well-known class names to their display colour. Lookup is
// case-insensitive; anything outside the table gets defaultColor.
var labelColors = map[string]rl.Color{
	"human1": {R: 0xff, G: 0x59, B: 0x5e, A: 0xff}, // red-ish
	"human2": {R: 0xff, G: 0xca, B: 0x3a, A: 0xff}, // amber
	"human3": {R: 0x8a, G: 0xc9, B: 0x26, A: 0xff}, // green
	"human4": {R: 0x19, G: 0x82, B: 0xc4, A: 0xff}, // blue
	"human5": {R: 0x6a, G: 0x4c, B: 0x93, A: 0xff}, // purple
}

var defaultColor = rl.Color{R: 0xec, G: 0xb1, B: 0xf8, A: 0xff}

func classColor(name string) rl.Color {
	if c, ok := labelColors[strings.ToLower(name)]; ok {
		return c
	}
	return defaultColor
}

// faded returns the colour with reduced alpha, used for point highlights
func faded(c rl.Color, alpha uint8) rl.Color {
	c.A = alpha
	return c
}
