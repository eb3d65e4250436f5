// Package style provides the small set of lipgloss-rendered styles and
// print helpers every kild command uses for terminal output
// (style.PrintWarning, style.Bold, style.Dim, style.Warning).
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Bold renders emphasized text, e.g. the "✓" success marker.
	Bold = lipgloss.NewStyle().Bold(true)
	// Dim renders de-emphasized hint text.
	Dim = lipgloss.NewStyle().Faint(true)
	// Warning renders the "!" marker and warning text in amber.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	// Error renders failure markers and messages in red.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// PrintWarning writes a formatted warning line to stderr, prefixed with
// the Warning-styled "!" marker.
func PrintWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Warning.Render("!"), fmt.Sprintf(format, args...))
}

// PrintError writes a formatted error line to stderr, prefixed with the
// Error-styled "✗" marker.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Error.Render("✗"), fmt.Sprintf(format, args...))
}

// PrintSuccess writes a formatted success line to stdout, prefixed with
// the Bold-styled "✓" marker.
func PrintSuccess(format string, args ...any) {
	fmt.Printf("%s %s\n", Bold.Render("✓"), fmt.Sprintf(format, args...))
}
