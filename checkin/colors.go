package checkin

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorScheme produces count colors desaturating from baseColor. The
// first entry is always baseColor itself; step i drops the HSL saturation
// by i * floor(100/(count-1)) percentage points, clamped at zero.
// Deterministic for a fixed (baseColor, count).
func ColorScheme(baseColor string, count int) []string {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []string{baseColor}
	}

	factor := 100 / (count - 1)

	scheme := make([]string, 0, count)
	for i := 0; i < count; i++ {
		desaturateBy := i * factor
		if desaturateBy == 0 {
			scheme = append(scheme, baseColor)
			continue
		}
		scheme = append(scheme, desaturate(baseColor, desaturateBy))
	}

	return scheme
}

// FallbackColor picks the ramp seed for a member: the member's own color,
// else the configured fallback, else a random happy color.
func FallbackColor(memberColor, configured string) string {
	if memberColor != "" {
		return memberColor
	}
	if configured != "" {
		return configured
	}
	return colorful.FastHappyColor().Hex()
}

func desaturate(hexColor string, points int) string {
	c, err := colorful.Hex(hexColor)
	if err != nil {
		// Best effort: an unparsable color passes through unmodified.
		return hexColor
	}

	h, s, l := c.Hsl()
	s -= float64(points) / 100.0
	if s < 0 {
		s = 0
	}

	return colorful.Hsl(h, s, l).Clamped().Hex()
}
