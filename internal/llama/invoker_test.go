package llama

import (
	"slices"
	"testing"

	"github.com/iishyfishyy/llamaterm/internal/config"
)

func testGen() config.GenerationConfig {
	return config.GenerationConfig{
		BinaryPath:    "/opt/llama.cpp/main",
		ModelPath:     "/opt/llama.cpp/models/7B/ggml-model-q4_0.bin",
		TextStart:     "do ",
		TextEnd:       ".: $ `",
		Delimiter:     "`",
		Tokens:        25,
		TopP:          0.5,
		TopK:          30,
		CtxSize:       256,
		RepeatPenalty: 1.0,
	}
}

func TestBuildArgs(t *testing.T) {
	gen := testGen()
	args := buildArgs(gen, gen.Prompt("list files"))

	want := []string{
		"-m", "/opt/llama.cpp/models/7B/ggml-model-q4_0.bin",
		"-p", "do list files.: $ `",
		"-n", "25",
		"-e",
		"--top-p", "0.5",
		"--top-k", "30",
		"--ctx-size", "256",
		"--repeat-penalty", "1",
		"--log-disable",
	}
	if !slices.Equal(args, want) {
		t.Errorf("buildArgs() = %q, want %q", args, want)
	}
}

func TestBuildArgsGPULayers(t *testing.T) {
	gen := testGen()
	gen.GPULayers = 35
	args := buildArgs(gen, "p")

	i := slices.Index(args, "--n-gpu-layers")
	if i < 0 || i+1 >= len(args) || args[i+1] != "35" {
		t.Errorf("missing --n-gpu-layers 35 in %q", args)
	}

	gen.GPULayers = 0
	if slices.Contains(buildArgs(gen, "p"), "--n-gpu-layers") {
		t.Error("--n-gpu-layers present with GPU disabled")
	}
}

func TestBuildArgsPromptIsSingleArgument(t *testing.T) {
	// The prompt must survive as one argv entry no matter what it holds;
	// no shell ever reparses it.
	prompt := "echo 'hi'; rm -rf / `boom`"
	args := buildArgs(testGen(), prompt)

	i := slices.Index(args, "-p")
	if i < 0 || args[i+1] != prompt {
		t.Errorf("prompt not passed verbatim: %q", args)
	}
}
