package checkin

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func saturation(t *testing.T, hexColor string) float64 {
	c, err := colorful.Hex(hexColor)
	assert.NoError(t, err)
	_, s, _ := c.Hsl()
	return s
}

func TestColorSchemeFirstEntryIsBaseColor(t *testing.T) {
	for _, count := range []int{2, 3, 5, 8} {
		scheme := ColorScheme("#1e90ff", count)
		assert.Len(t, scheme, count)
		assert.Equal(t, "#1e90ff", scheme[0])
	}
}

func TestColorSchemeSingleEntryIsBaseColor(t *testing.T) {
	assert.Equal(t, []string{"#ff0000"}, ColorScheme("#ff0000", 1))
}

func TestColorSchemeDesaturatesMonotonically(t *testing.T) {
	scheme := ColorScheme("#1e90ff", 5)

	prev := saturation(t, scheme[0])
	for _, hexColor := range scheme[1:] {
		s := saturation(t, hexColor)
		assert.LessOrEqual(t, s, prev)
		prev = s
	}

	// The last step drops the full 100 points.
	assert.InDelta(t, 0.0, saturation(t, scheme[len(scheme)-1]), 0.01)
}

func TestColorSchemeIsDeterministic(t *testing.T) {
	assert.Equal(t, ColorScheme("#ba55d3", 4), ColorScheme("#ba55d3", 4))
}

func TestColorSchemeInvalidCount(t *testing.T) {
	assert.Nil(t, ColorScheme("#ff0000", 0))
}

func TestFallbackColorPrecedence(t *testing.T) {
	assert.Equal(t, "#111111", FallbackColor("#111111", "#222222"))
	assert.Equal(t, "#222222", FallbackColor("", "#222222"))

	// With nothing configured a random color is acceptable, it just has
	// to parse.
	_, err := colorful.Hex(FallbackColor("", ""))
	assert.NoError(t, err)
}
