// Package ui holds all terminal presentation. Core packages never emit
// ANSI escapes themselves; they hand text to this package.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Tag names a presentation color. Mapping tags to escape sequences stays
// in this package only.
type Tag string

const (
	TagRed     Tag = "red"
	TagGreen   Tag = "green"
	TagBlue    Tag = "blue"
	TagCyan    Tag = "cyan"
	TagWhite   Tag = "white"
	TagYellow  Tag = "yellow"
	TagMagenta Tag = "magenta"
	TagGrey    Tag = "grey"
)

var palette = map[Tag]*color.Color{
	TagRed:     color.New(color.FgRed),
	TagGreen:   color.New(color.FgGreen),
	TagBlue:    color.New(color.FgBlue),
	TagCyan:    color.New(color.FgCyan),
	TagWhite:   color.New(color.FgWhite),
	TagYellow:  color.New(color.FgYellow),
	TagMagenta: color.New(color.FgMagenta),
	TagGrey:    color.New(color.FgHiBlack),
}

// Init disables color when stdout is not a terminal.
func Init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}

// Sprint renders text in the given tag's color. Unknown tags render plain.
func Sprint(tag Tag, text string) string {
	c, ok := palette[tag]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// Say prints a tagged line to stdout.
func Say(tag Tag, text string) {
	fmt.Println(Sprint(tag, text))
}

// ShowSuccess displays a success message.
func ShowSuccess(message string) {
	Say(TagGreen, message)
}

// ShowError displays an error message.
func ShowError(message string) {
	Say(TagRed, message)
}

// ShowInfo displays an info message.
func ShowInfo(message string) {
	Say(TagGreen, message)
}

// ShowWarning displays a warning message.
func ShowWarning(message string) {
	Say(TagYellow, message)
}

// ShowBanner prints the version line and usage examples shown when the
// tool is invoked with no flags.
func ShowBanner(version string) {
	Say(TagWhite, "\n  LlamaTerm\n")
	Say(TagGrey, "v"+version)
	fmt.Println(Sprint(TagGreen, "• Wiki Summary: ") + Sprint(TagBlue, `llamaterm -w "PHP"`))
	fmt.Println(Sprint(TagGreen, "• Question: ") + Sprint(TagBlue, `llamaterm -q "How does photosynthesis work?"`))
	fmt.Println(Sprint(TagGreen, "• Command: ") + Sprint(TagBlue, `llamaterm -c "List the contents of the current directory"`))
	fmt.Println()
}
