package colors

import "math"

const (
	oneThird = 1.0 / 3.0
	oneSixth = 1.0 / 6.0
	twoThird = 2.0 / 3.0
)

// HLS returns hue, lightness and saturation, all in [0, 1].
func (c RGB) HLS() (h, l, s float64) {
	maxc := math.Max(c.R, math.Max(c.G, c.B))
	minc := math.Min(c.R, math.Min(c.G, c.B))
	sumc := maxc + minc
	rangec := maxc - minc

	l = sumc / 2
	if minc == maxc {
		return 0, l, 0
	}

	if l <= 0.5 {
		s = rangec / sumc
	} else {
		s = rangec / (2 - sumc)
	}

	rc := (maxc - c.R) / rangec
	gc := (maxc - c.G) / rangec
	bc := (maxc - c.B) / rangec

	switch {
	case c.R == maxc:
		h = bc - gc
	case c.G == maxc:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h = positiveMod(h/6, 1)

	return h, l, s
}

// FromHLS is the inverse of RGB.HLS.
func FromHLS(h, l, s float64) RGB {
	if s == 0 {
		return RGB{R: l, G: l, B: l}
	}

	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2

	return RGB{
		R: hueChannel(m1, m2, h+oneThird),
		G: hueChannel(m1, m2, h),
		B: hueChannel(m1, m2, h-oneThird),
	}
}

func hueChannel(m1, m2, hue float64) float64 {
	hue = positiveMod(hue, 1)
	switch {
	case hue < oneSixth:
		return m1 + (m2-m1)*hue*6
	case hue < 0.5:
		return m2
	case hue < twoThird:
		return m1 + (m2-m1)*(twoThird-hue)*6
	default:
		return m1
	}
}

func positiveMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
