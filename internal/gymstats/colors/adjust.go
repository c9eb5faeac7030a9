package colors

import (
	"errors"
	"math"
)

// AdjustLightness scales the lightness of color by factor, clamped to [0, 1],
// and returns it as #rrggbb. Input that is not a color is returned unchanged.
func AdjustLightness(color string, factor float64) string {
	adjusted, err := TryAdjustLightness(color, factor)
	if err != nil {
		return color
	}
	return adjusted
}

// TryAdjustLightness is AdjustLightness with the parse failure reported.
func TryAdjustLightness(color string, factor float64) (string, error) {
	if math.IsNaN(factor) {
		return "", errors.New("lightness factor is NaN")
	}

	c, err := ParseColor(color)
	if err != nil {
		return "", err
	}
	return c.AdjustLightness(factor).Hex(), nil
}

func (c RGB) AdjustLightness(factor float64) RGB {
	h, l, s := c.HLS()
	scaled := factor * l
	if math.IsNaN(scaled) {
		// +-Inf times a zero lightness
		scaled = 0
	}
	return FromHLS(h, math.Max(0, math.Min(1, scaled)), s)
}
