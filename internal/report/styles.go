package report

import "github.com/fatih/color"

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	okStyle      = color.New(color.FgGreen)
	failStyle    = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	mutedStyle   = color.New(color.FgHiBlack)
	addedStyle   = color.New(color.FgGreen)
	removedStyle = color.New(color.FgRed)
)

const (
	checkmark = "✓"
	xmark     = "✗"
	arrow     = "→"
	bullet    = "•"
)

// SetColor forces colored output on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}
