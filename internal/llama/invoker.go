package llama

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/iishyfishyy/llamaterm/internal/config"
)

// Invoker launches the llama.cpp binary for one generation.
type Invoker struct {
	log zerolog.Logger
}

// NewInvoker creates an invoker that logs through the given logger.
func NewInvoker(log zerolog.Logger) *Invoker {
	return &Invoker{log: log}
}

// Process is a handle to a running inference child. The caller owns its
// lifecycle and must call Terminate once scanning is finished, whether or
// not a result was extracted.
type Process struct {
	cmd    *exec.Cmd
	Stdout io.ReadCloser

	termOnce sync.Once
}

// Terminate requests early termination of the child. Best effort: it kills
// the process without waiting for it to exit, and reaps it in the
// background. Safe to call more than once; only the first call acts.
func (p *Process) Terminate() {
	p.termOnce.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		go func() { _ = p.cmd.Wait() }()
	})
}

// IsLlamaInstalled reports whether the inference binary exists at the
// resolved path.
func IsLlamaInstalled(gen config.GenerationConfig) bool {
	_, err := exec.LookPath(gen.BinaryPath)
	return err == nil
}

// Start spawns the inference binary with the interpolated prompt. Stdin is
// not connected so the child can never block on input; stderr is discarded
// to keep llama.cpp's load chatter out of the scan path.
func (inv *Invoker) Start(ctx context.Context, gen config.GenerationConfig, request string) (*Process, error) {
	args := buildArgs(gen, gen.Prompt(request))

	cmd := exec.CommandContext(ctx, gen.BinaryPath, args...)
	cmd.Stdin = nil
	cmd.Stderr = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	inv.log.Debug().
		Str("invocation", shellquote.Join(append([]string{gen.BinaryPath}, args...)...)).
		Msg("starting inference")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", gen.BinaryPath, err)
	}

	return &Process{cmd: cmd, Stdout: stdout}, nil
}

// buildArgs assembles the llama.cpp argument list. A typed argv, not a
// spliced shell string: the prompt is passed as a single argument and never
// reparsed by a shell.
func buildArgs(gen config.GenerationConfig, prompt string) []string {
	args := []string{
		"-m", gen.ModelPath,
		"-p", prompt,
		"-n", strconv.Itoa(gen.Tokens),
		"-e",
		"--top-p", strconv.FormatFloat(gen.TopP, 'g', -1, 64),
		"--top-k", strconv.Itoa(gen.TopK),
		"--ctx-size", strconv.Itoa(gen.CtxSize),
		"--repeat-penalty", strconv.FormatFloat(gen.RepeatPenalty, 'g', -1, 64),
	}
	if gen.GPULayers > 0 {
		args = append(args, "--n-gpu-layers", strconv.Itoa(gen.GPULayers))
	}
	return append(args, "--log-disable")
}
