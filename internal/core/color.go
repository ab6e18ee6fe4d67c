package core

// Color represents a foreground color for a screen cell.
// Hosts map these to ANSI codes or CSS colors.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorPink
	ColorGreen
	ColorBlue
	ColorBlack
	ColorYellow
	ColorGray
	ColorBrightWhite
)
