package lib

import (
	"math/rand"

	"github.com/fatih/color"
)

// tagColors picks n distinct display colors for pool tags. The palette is
// split into primaries (regular ANSI colors that render well everywhere) and
// secondaries (256-color codes that are still easy to tell apart). Red is
// reserved for errors. For pools larger than the combined palette the colors
// cycle, so tags stay colored but uniqueness is no longer guaranteed.
// Selected colors are truncated then shuffled for visual variety; the
// assignment carries no meaning.
func tagColors(n int) []*color.Color {
	primaries := []*color.Color{
		color.New(color.FgGreen, color.Bold),
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgBlue, color.Bold),
		color.New(color.FgMagenta, color.Bold),
		color.New(color.FgCyan, color.Bold),
	}
	secondaries := []*color.Color{
		color256(24),
		color256(172),
		color256(142),
	}

	if n <= len(primaries) {
		return shuffleColors(primaries[:n])
	}
	combined := append(primaries, secondaries...)
	if n <= len(combined) {
		return shuffleColors(combined[:n])
	}

	combined = shuffleColors(combined)
	cycled := make([]*color.Color, 0, n)
	for i := 0; i < n; i++ {
		cycled = append(cycled, combined[i%len(combined)])
	}
	return cycled
}

// color256 builds a bold foreground color from a 256-color palette code.
func color256(code int) *color.Color {
	return color.New(38, 5, color.Attribute(code), color.Bold)
}

func shuffleColors(colors []*color.Color) []*color.Color {
	shuffled := append([]*color.Color(nil), colors...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
