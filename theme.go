package coverletter

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so output
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Error   int // Error messages
	Success int // Success indicators
	Muted   int // Status lines, secondary text
	Accent  int // Headings, links
	Pending int // In-progress job status
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Error:   1,
		Success: 2,
		Muted:   8,
		Accent:  5,
		Pending: 3,
	}
}
