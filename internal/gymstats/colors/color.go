package colors

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var ErrUnparseable = errors.New("unparseable color")

// RGB holds the channels in the unit interval.
type RGB struct {
	R, G, B float64
}

// ParseColor accepts "#rrggbb" (the '#' is optional), "rgb(r, g, b)",
// "rgba(r, g, b, a)" with 0-255 channels, or an SVG/CSS named color.
func ParseColor(s string) (RGB, error) {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)

	if c, ok := parseHex(lower); ok {
		return c, nil
	}
	if strings.HasPrefix(lower, "rgb") {
		c, err := parseRGBFunc(lower)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q: %s", ErrUnparseable, s, err)
		}
		return c, nil
	}
	if named, ok := colornames.Map[strings.ReplaceAll(lower, " ", "")]; ok {
		return RGB{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
		}, nil
	}

	return RGB{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

func parseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, true
}

func parseRGBFunc(s string) (RGB, error) {
	var args string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[len("rgb(") : len(s)-1]
	default:
		return RGB{}, errors.New("expected rgb(...) or rgba(...)")
	}

	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGB{}, fmt.Errorf("expected 3 or 4 components, got %d", len(parts))
	}

	var channels [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) {
			return RGB{}, fmt.Errorf("component %d: invalid number %q", i+1, strings.TrimSpace(p))
		}
		if i == 3 {
			// alpha is ignored
			continue
		}
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("component %d: %v out of [0, 255]", i+1, v)
		}
		channels[i] = v / 255
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// Hex renders the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B))
}

func (c RGB) String() string {
	return c.Hex()
}

func toByte(v float64) int {
	b := math.Round(v * 255)
	return int(math.Max(0, math.Min(255, b)))
}
