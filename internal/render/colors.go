package render

import "image/color"

// ParseHexColor reads "#rgb" or "#rrggbb" (either case) into an opaque
// color. Anything else reports false and the caller falls back to a
// default, so a bad stored color can never break a frame.
func ParseHexColor(s string) (color.RGBA, bool) {
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, false
	}
	if s[0] != '#' {
		return color.RGBA{}, false
	}

	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	var chans [3]uint8
	if len(s) == 4 {
		for i := 0; i < 3; i++ {
			v, ok := hexVal(s[1+i])
			if !ok {
				return color.RGBA{}, false
			}
			chans[i] = v*16 + v
		}
	} else {
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[1+2*i])
			lo, ok2 := hexVal(s[2+2*i])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			chans[i] = hi*16 + lo
		}
	}
	return color.RGBA{R: chans[0], G: chans[1], B: chans[2], A: 0xff}, true
}

// luminance approximates perceived brightness in [0, 1].
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)) / 255
}

// LabelColor picks black or white text for readable contrast on a fill.
func LabelColor(fill color.Color) color.Color {
	if luminance(fill) < 0.5 {
		return color.White
	}
	return color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
}
