package colors

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channels(t *testing.T, hex string) [3]int {
	t.Helper()
	require.Len(t, hex, 7)
	require.Equal(t, byte('#'), hex[0])
	var out [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		require.NoError(t, err)
		out[i] = int(v)
	}
	return out
}

func assertWithinOne(t *testing.T, want, got string) {
	t.Helper()
	w, g := channels(t, want), channels(t, got)
	for i := range w {
		assert.LessOrEqual(t, math.Abs(float64(w[i]-g[i])), 1.0, "channel %d of %s vs %s", i, want, got)
	}
}

func TestParseColor(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"#1f77b4", "#1f77b4"},
		{"1F77B4", "#1f77b4"},
		{"  #FF7F0E ", "#ff7f0e"},
		{"rgb(127, 60, 141)", "#7f3c8d"},
		{"RGB(0,0,0)", "#000000"},
		{"rgba(17, 165, 121, 0.5)", "#11a579"},
		{"rgb(255.0, 127.5, 0)", "#ff8000"},
		{"red", "#ff0000"},
		{"CornflowerBlue", "#6495ed"},
		{"Dark Slate Grey", "#2f4f4f"},
		{"gold", "#ffd700"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseColor(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Hex())
		})
	}
}

func TestParseColor_Unparseable(t *testing.T) {
	for _, in := range []string{
		"",
		"not-a-color",
		"#1f77b",
		"#1f77b4ff",
		"#gggggg",
		"rgb(1, 2)",
		"rgb(1, 2, 3, 4, 5)",
		"rgb(256, 0, 0)",
		"rgb(-1, 0, 0)",
		"rgb(a, b, c)",
		"rgb(1, 2, 3",
		"rgba(1, 2, 3, x)",
		"hsl(120, 50%, 50%)",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseColor(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseable))
		})
	}
}

func TestHLS_RoundTrip(t *testing.T) {
	// one color per hue sextant plus greys
	for _, hex := range []string{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
		"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff", "#ff00ff",
		"#e6194b", "#3cb44b", "#808080", "#000000", "#ffffff",
	} {
		t.Run(hex, func(t *testing.T) {
			c, err := ParseColor(hex)
			require.NoError(t, err)
			h, l, s := c.HLS()
			assert.GreaterOrEqual(t, h, 0.0)
			assert.Less(t, h, 1.0)
			assert.GreaterOrEqual(t, l, 0.0)
			assert.LessOrEqual(t, l, 1.0)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
			assertWithinOne(t, hex, FromHLS(h, l, s).Hex())
		})
	}
}

func TestHLS_KnownValues(t *testing.T) {
	h, l, s := RGB{R: 1, G: 0, B: 0}.HLS()
	assert.InDelta(t, 0, h, 1e-9)
	assert.InDelta(t, 0.5, l, 1e-9)
	assert.InDelta(t, 1, s, 1e-9)

	// blue: hue 2/3
	h, _, _ = RGB{R: 0, G: 0, B: 1}.HLS()
	assert.InDelta(t, 2.0/3.0, h, 1e-9)

	// magenta wraps around through a negative hue
	h, _, _ = RGB{R: 1, G: 0, B: 1}.HLS()
	assert.InDelta(t, 5.0/6.0, h, 1e-9)

	h, l, s = RGB{R: 0.5, G: 0.5, B: 0.5}.HLS()
	assert.Equal(t, 0.0, h)
	assert.InDelta(t, 0.5, l, 1e-9)
	assert.Equal(t, 0.0, s)
}
