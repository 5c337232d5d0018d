package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorCursor // highlighted background, used for the board cursor
)

// NumberColors holds the classic colors for adjacency digits 1-8.
// Index 0 is unused.
var NumberColors = [9]Color{
	ColorDefault,
	ColorBrightBlue,
	ColorGreen,
	ColorBrightRed,
	ColorBlue,
	ColorRed,
	ColorCyan,
	ColorMagenta,
	ColorGray,
}
