package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of the confirmation gate.
type Decision int

const (
	DecisionDeclined Decision = iota
	DecisionRun
	DecisionCopied
)

// Gate asks the user whether to run an extracted command. The empty-input
// default is configurable because both conventions exist in the wild:
// DefaultYes shows "(Y/n)" and runs on enter, otherwise "(y/N)" declines.
type Gate struct {
	In         io.Reader
	Out        io.Writer
	DefaultYes bool

	// Clipboard, if set, enables the "c" answer which copies the command
	// instead of running it.
	Clipboard func(string) error
}

// Confirm shows the command and reads one line of input. "y"/"yes" (any
// case) accepts, empty input follows the default policy, "c" copies, and
// anything else declines.
func (g *Gate) Confirm(command string) (Decision, error) {
	fmt.Fprintln(g.Out, Sprint(TagGreen, "The command I think you want to run is: ")+Sprint(TagWhite, command))

	hint := "(y/N"
	if g.DefaultYes {
		hint = "(Y/n"
	}
	if g.Clipboard != nil {
		hint += ", c to copy"
	}
	hint += ")"
	fmt.Fprintln(g.Out, Sprint(TagYellow, "Would you like to run this command? "+hint))

	// A closed stdin reads as empty input and follows the default policy.
	line, err := bufio.NewReader(g.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return DecisionDeclined, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		if g.DefaultYes {
			return DecisionRun, nil
		}
		return DecisionDeclined, nil
	case "y", "yes":
		return DecisionRun, nil
	case "c", "copy":
		if g.Clipboard == nil {
			return DecisionDeclined, nil
		}
		if err := g.Clipboard(command); err != nil {
			return DecisionDeclined, fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		return DecisionCopied, nil
	default:
		return DecisionDeclined, nil
	}
}
