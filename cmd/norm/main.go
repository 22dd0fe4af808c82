// Command norm replays captured vendor streams through the normalization
// engine.
//
// Usage:
//
//	norm replay --grammar anthropic captures/**/*.sse
//	norm replay --format pretty --strict capture.sse
//	norm grammars
//
// Settings come from norm.yaml (or --config), then .env, then NORM_*
// environment variables, then flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fwojciec/norm/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "norm.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Env is read here and passed down as a lookup function.
	dotenv, err := config.ReadDotEnv(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "norm: %v\n", err)
		os.Exit(1)
	}
	lookup := config.Chain(os.LookupEnv, config.MapLookup(dotenv))

	cmd := newRootCmd(lookup, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "norm: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(lookup config.LookupFunc, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "norm",
		Short: "Normalize streamed LLM responses",
		Long: `norm decodes captured vendor event streams (Anthropic, OpenAI, Gemini,
Ollama, plain text) into one canonical sequence of deltas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newReplayCmd(lookup), newGrammarsCmd())
	return root
}
