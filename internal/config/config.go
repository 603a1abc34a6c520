package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = ".llamaterm"
	ConfigFileName = "config.yaml"
	EnvFileName    = ".env"

	// LlamaBinaryName is the llama.cpp inference binary expected under LlamaDir.
	LlamaBinaryName = "main"
)

// ErrConfigMissing indicates a required per-mode option is absent. An
// incomplete template cannot safely run, so callers propagate this.
var ErrConfigMissing = errors.New("missing configuration option")

// Mode selects which option prefix and extraction policy apply.
type Mode string

const (
	ModeCommand  Mode = "command"
	ModeQuestion Mode = "question"
	ModeCustom   Mode = "custom"
)

// EnvPrefix returns the environment variable prefix for the mode,
// e.g. C_TEXT_START for command mode.
func (m Mode) EnvPrefix() string {
	switch m {
	case ModeCommand:
		return "C"
	case ModeQuestion:
		return "Q"
	default:
		return "CUSTOM"
	}
}

// ModeOptions holds the per-mode template and sampling options.
type ModeOptions struct {
	Model         string  `yaml:"model"`
	TextStart     string  `yaml:"text_start"`
	TextEnd       string  `yaml:"text_end"`
	Delimiter     string  `yaml:"delimiter"`
	Tokens        int     `yaml:"tokens"`
	TopP          float64 `yaml:"top_p"`
	TopK          int     `yaml:"top_k"`
	CtxSize       int     `yaml:"ctx_size"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`
}

// Config is the full application configuration. It is constructed once at
// startup and passed into the resolver; core logic never reads the
// environment after that.
type Config struct {
	LlamaDir          string      `yaml:"llama_dir"`
	DataDir           string      `yaml:"data_dir"`
	GPU               bool        `yaml:"gpu"`
	GPULayers         int         `yaml:"gpu_layers"`
	ConfirmDefaultYes bool        `yaml:"confirm_default_yes"`
	Command           ModeOptions `yaml:"command"`
	Question          ModeOptions `yaml:"question"`
	Custom            ModeOptions `yaml:"custom"`
}

// GenerationConfig is the fully resolved input for one inference invocation.
// Immutable once returned by Resolve.
type GenerationConfig struct {
	BinaryPath    string
	ModelPath     string
	TextStart     string
	TextEnd       string
	Delimiter     string
	Tokens        int
	TopP          float64
	TopK          int
	CtxSize       int
	RepeatPenalty float64
	GPULayers     int // 0 means omit the flag
}

// Prompt interpolates the user's request into the mode template.
func (g GenerationConfig) Prompt(request string) string {
	return g.TextStart + request + g.TextEnd
}

// Default returns the built-in configuration, matching the stock 7B
// llama.cpp setup. Custom mode is intentionally left blank so that using it
// without configuration fails with ErrConfigMissing.
func Default() *Config {
	return &Config{
		ConfirmDefaultYes: true,
		Command: ModeOptions{
			Model:         "models/7B/ggml-model-q4_0.bin",
			TextStart:     "The following command is a single Linux command that will ",
			TextEnd:       ".: $ `",
			Delimiter:     "`",
			Tokens:        25,
			TopP:          0.5,
			TopK:          30,
			CtxSize:       256,
			RepeatPenalty: 1.0,
		},
		Question: ModeOptions{
			Model:         "models/7B/ggml-model-q4_0.bin",
			TextStart:     `The following is a transcript of a conversation with a virtual assistant. The assistant only provides correct answers to questions.\n Assistant: What can I help you with today?\n User: `,
			TextEnd:       "",
			Delimiter:     "Assistant:",
			Tokens:        100,
			TopP:          0.5,
			TopK:          30,
			CtxSize:       256,
			RepeatPenalty: 1.0,
		},
	}
}

// Dir returns the path to the llamaterm dotfile directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load builds the configuration from defaults, the YAML config file and the
// environment, in increasing precedence. An env file in the dotfile
// directory or the working directory is loaded first, then mode-prefixed
// variables override individual options.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing env files are fine.
	if dir, err := Dir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, EnvFileName))
	}
	_ = godotenv.Load()

	cfg.applyEnv()

	if cfg.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	return cfg, nil
}

// Save writes the configuration to the config file, creating the dotfile
// directory if needed.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LLAMA_CPP_DIR"); v != "" {
		c.LlamaDir = v
	}
	if v := os.Getenv("LLAMA_COMPLETION_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("GPU"); v != "" {
		c.GPU = strings.EqualFold(v, "yes") || v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("GPU_LAYERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GPULayers = n
		}
	}

	c.Command.applyEnv(ModeCommand.EnvPrefix())
	c.Question.applyEnv(ModeQuestion.EnvPrefix())
	c.Custom.applyEnv(ModeCustom.EnvPrefix())
}

func (o *ModeOptions) applyEnv(prefix string) {
	get := func(key string) (string, bool) {
		return os.LookupEnv(prefix + "_" + key)
	}

	if v, ok := get("LLAMA_MODEL"); ok {
		o.Model = v
	}
	if v, ok := get("TEXT_START"); ok {
		o.TextStart = v
	}
	if v, ok := get("TEXT_END"); ok {
		o.TextEnd = v
	}
	if v, ok := get("TEXT_DELIMITER"); ok {
		o.Delimiter = v
	}
	if v, ok := get("TOKENS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Tokens = n
		}
	}
	if v, ok := get("TOP_P"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.TopP = f
		}
	}
	if v, ok := get("TOP_K"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.TopK = n
		}
	}
	if v, ok := get("CTX"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.CtxSize = n
		}
	}
	if v, ok := get("R_PENALTY"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.RepeatPenalty = f
		}
	}
}

func (c *Config) options(mode Mode) ModeOptions {
	switch mode {
	case ModeCommand:
		return c.Command
	case ModeQuestion:
		return c.Question
	default:
		return c.Custom
	}
}

// Resolve produces the generation config for one invocation. tokenOverride,
// if positive, replaces the mode's default token count. Template text has
// its literal "\n" escapes expanded here; nothing downstream touches the
// environment.
func (c *Config) Resolve(mode Mode, tokenOverride int) (GenerationConfig, error) {
	opts := c.options(mode)
	prefix := mode.EnvPrefix()

	if c.LlamaDir == "" {
		return GenerationConfig{}, fmt.Errorf("%w: LLAMA_CPP_DIR", ErrConfigMissing)
	}
	if opts.Model == "" {
		return GenerationConfig{}, fmt.Errorf("%w: %s_LLAMA_MODEL", ErrConfigMissing, prefix)
	}
	if opts.TextStart == "" {
		return GenerationConfig{}, fmt.Errorf("%w: %s_TEXT_START", ErrConfigMissing, prefix)
	}
	if opts.Delimiter == "" {
		return GenerationConfig{}, fmt.Errorf("%w: %s_TEXT_DELIMITER", ErrConfigMissing, prefix)
	}

	tokens := opts.Tokens
	if tokenOverride > 0 {
		tokens = tokenOverride
	}
	if tokens <= 0 {
		return GenerationConfig{}, fmt.Errorf("%w: %s_TOKENS", ErrConfigMissing, prefix)
	}

	gen := GenerationConfig{
		BinaryPath:    filepath.Join(c.LlamaDir, LlamaBinaryName),
		ModelPath:     filepath.Join(c.LlamaDir, opts.Model),
		TextStart:     unescape(opts.TextStart),
		TextEnd:       unescape(opts.TextEnd),
		Delimiter:     opts.Delimiter,
		Tokens:        tokens,
		TopP:          opts.TopP,
		TopK:          opts.TopK,
		CtxSize:       opts.CtxSize,
		RepeatPenalty: opts.RepeatPenalty,
	}
	if c.GPU {
		gen.GPULayers = c.GPULayers
	}
	return gen, nil
}

// unescape expands the literal two-character newline escape used in
// template options, since env values cannot hold real line breaks.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
