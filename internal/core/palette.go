package core

// seriesPalette is the fixed entity color cycle (Catppuccin Mocha accents).
// Colors are keyed by index so an entity keeps its color across refreshes
// and screens.
var seriesPalette = []string{
	"#89b4fa", // blue
	"#a6e3a1", // green
	"#fab387", // peach
	"#cba6f7", // mauve
	"#f38ba8", // red
	"#f9e2af", // yellow
	"#94e2d5", // teal
	"#f5c2e7", // pink
	"#74c7ec", // sapphire
	"#eba0ac", // maroon
}

// PaletteColor returns the hex color for a series index. Indexes past the
// palette wrap around, so any index is valid.
func PaletteColor(index int) string {
	if index < 0 {
		index = -index
	}
	return seriesPalette[index%len(seriesPalette)]
}
