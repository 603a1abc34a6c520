package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iishyfishyy/llamaterm/internal/config"
	"github.com/iishyfishyy/llamaterm/internal/executor"
	"github.com/iishyfishyy/llamaterm/internal/history"
	"github.com/iishyfishyy/llamaterm/internal/llama"
	"github.com/iishyfishyy/llamaterm/internal/ui"
	"github.com/iishyfishyy/llamaterm/internal/wiki"
)

var (
	// version is set by goreleaser at build time
	version = "1.0.0"

	// CLI flags
	commandText  string
	questionText string
	wikiTitle    string
	completeText string
	tokens       int
	debug        bool

	historyQuestions bool
	historyClear     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "llamaterm",
		Short: "Local LLM completion for your terminal",
		Long:  "llamaterm turns natural language into shell commands or answers by driving a local llama.cpp binary",
		Args:  cobra.NoArgs,
		RunE:  runRoot,
	}

	rootCmd.Flags().StringVarP(&commandText, "command", "c", "", "Predict a shell command from a description")
	rootCmd.Flags().StringVarP(&questionText, "question", "q", "", "Ask the virtual assistant a question")
	rootCmd.Flags().StringVarP(&wikiTitle, "wiki", "w", "", "Look up a Wikipedia summary")
	rootCmd.Flags().StringVarP(&completeText, "complete", "p", "", "Run an open-ended completion (custom mode)")
	rootCmd.Flags().IntVarP(&tokens, "tokens", "t", 0, "Override the mode's token count")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure llamaterm interactively",
		RunE:  runConfigure,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear command and question history",
		RunE:  runHistory,
	}
	historyCmd.Flags().BoolVar(&historyQuestions, "questions", false, "Operate on question history instead of command history")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Clear the history file instead of printing it")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			ui.ShowSuccess("llamaterm v" + version)
		},
	}

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(setup)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup configures presentation and logging before any command runs.
func setup() {
	ui.Init()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if commandText == "" && questionText == "" && wikiTitle == "" && completeText == "" {
		ui.ShowBanner(version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if wikiTitle != "" {
		return runWiki(wikiTitle)
	}

	switch {
	case questionText != "":
		return runGenerate(cfg, config.ModeQuestion, questionText)
	case completeText != "":
		return runGenerate(cfg, config.ModeCustom, completeText)
	default:
		return runGenerate(cfg, config.ModeCommand, commandText)
	}
}

// runGenerate drives one inference invocation end to end: resolve the
// template, spawn the binary, scan its output, then hand the result to the
// gate (command mode) or print it.
func runGenerate(cfg *config.Config, mode config.Mode, text string) error {
	gen, err := cfg.Resolve(mode, tokens)
	if err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			ui.ShowError(fmt.Sprintf("Configuration incomplete: %v", err))
			ui.ShowInfo("Run 'llamaterm configure' or set the option in the environment.")
		}
		return err
	}

	if !llama.IsLlamaInstalled(gen) {
		ui.ShowError("llama.cpp binary not found at " + gen.BinaryPath)
		ui.ShowInfo("Build llama.cpp and run 'llamaterm configure' to point at it.")
		return nil
	}

	store := history.New(cfg.DataDir)
	if err := store.ClearRawOutput(); err != nil {
		return err
	}

	ctx := context.Background()
	proc, err := llama.NewInvoker(log.Logger).Start(ctx, gen, text)
	if err != nil {
		return err
	}

	scanner := &llama.Scanner{
		Delimiter: gen.Delimiter,
		TextEnd:   gen.TextEnd,
		Raw:       store.RawWriter(),
		Log:       log.Logger,
	}

	result, err := scanner.Scan(proc.Stdout, proc)
	if err != nil {
		if errors.Is(err, llama.ErrNoDelimiter) || errors.Is(err, llama.ErrEmptyExtraction) {
			ui.ShowError("Please, try again!")
			return nil
		}
		return err
	}

	if mode != config.ModeCommand {
		if err := store.AppendQuestion(result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
		ui.ShowSuccess(result)
		return nil
	}

	if err := store.AppendCommand(result); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
	}

	gate := &ui.Gate{
		In:         os.Stdin,
		Out:        os.Stdout,
		DefaultYes: cfg.ConfirmDefaultYes,
		Clipboard:  clipboard.WriteAll,
	}

	decision, err := gate.Confirm(result)
	if err != nil {
		return err
	}

	switch decision {
	case ui.DecisionRun:
		ui.ShowInfo("Running command...")
		if err := executor.Execute(result); err != nil {
			ui.ShowError(fmt.Sprintf("Command failed: %v", err))
		}
	case ui.DecisionCopied:
		ui.ShowSuccess("Command copied to clipboard!")
	default:
		ui.ShowInfo("Okay, I won't run the command.")
	}
	return nil
}

func runWiki(title string) error {
	summary, err := wiki.NewClient().Summary(context.Background(), title)
	if err != nil {
		if errors.Is(err, wiki.ErrNoResult) {
			ui.Say(ui.TagGrey, "No result found!")
			return nil
		}
		log.Debug().Err(err).Msg("wiki lookup failed")
		ui.ShowError("Request error, try again!")
		return nil
	}
	fmt.Println("\n" + ui.Sprint(ui.TagGreen, summary) + "\n")
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store := history.New(cfg.DataDir)

	if historyClear {
		if historyQuestions {
			if err := store.ClearQuestions(); err != nil {
				return err
			}
			ui.ShowSuccess("Question history file cleared")
		} else {
			if err := store.ClearCommands(); err != nil {
				return err
			}
			ui.ShowSuccess("History file cleared")
		}
		return nil
	}

	if historyQuestions {
		return store.PrintQuestions(os.Stdout)
	}
	return store.PrintCommands(os.Stdout)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Path to your llama.cpp directory:",
		Default: cfg.LlamaDir,
	}, &cfg.LlamaDir, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Directory for history and output files:",
		Default: cfg.DataDir,
	}, &cfg.DataDir); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Offload layers to the GPU?",
		Default: cfg.GPU,
	}, &cfg.GPU); err != nil {
		return err
	}

	if cfg.GPU {
		layers := strconv.Itoa(cfg.GPULayers)
		if err := survey.AskOne(&survey.Input{
			Message: "Number of GPU layers:",
			Default: layers,
		}, &layers); err != nil {
			return err
		}
		if n, err := strconv.Atoi(layers); err == nil {
			cfg.GPULayers = n
		}
	}

	var policy string
	if err := survey.AskOne(&survey.Select{
		Message: "Confirmation prompt default when you just press enter:",
		Options: []string{"Run the command (Y/n)", "Don't run the command (y/N)"},
	}, &policy); err != nil {
		return err
	}
	cfg.ConfirmDefaultYes = policy == "Run the command (Y/n)"

	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.Path()
	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", path))
	return nil
}
