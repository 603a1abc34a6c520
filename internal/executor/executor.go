package executor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// Execute runs the accepted command verbatim through the host shell. The
// command text is whatever the extractor produced; executing it is the
// contract, so there is no escaping here.
func Execute(command string) error {
	var shell string
	var shellArgs []string

	if runtime.GOOS == "windows" {
		shell = "cmd"
		shellArgs = []string{"/C", command}
	} else {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		shellArgs = []string{"-c", command}
	}

	log.Debug().Str("shell", shell).Str("command", command).Msg("executing")

	cmd := exec.Command(shell, shellArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			log.Debug().Int("exit_code", exitErr.ExitCode()).Msg("command failed")
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}
