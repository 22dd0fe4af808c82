package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/anthropic"
	"github.com/fwojciec/norm/gemini"
	"github.com/fwojciec/norm/ollama"
	"github.com/fwojciec/norm/openai"
	"github.com/fwojciec/norm/plaintext"
)

var grammars = map[string]func() norm.Grammar{
	anthropic.Name: anthropic.Grammar,
	gemini.Name:    gemini.Grammar,
	ollama.Name:    ollama.Grammar,
	openai.Name:    openai.Grammar,
	plaintext.Name: plaintext.Grammar,
}

func grammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolveGrammar selects the grammar. An explicit name wins; otherwise the
// capture file extension decides between NDJSON (ollama) and nothing.
func resolveGrammar(name, path string) (norm.Grammar, error) {
	if name == "" {
		if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
			name = ollama.Name
		} else {
			return norm.Grammar{}, fmt.Errorf("no grammar selected for %s: use --grammar or NORM_GRAMMAR (one of %s)", path, strings.Join(grammarNames(), ", "))
		}
	}
	fn, ok := grammars[name]
	if !ok {
		return norm.Grammar{}, fmt.Errorf("unknown grammar %q: must be one of %s", name, strings.Join(grammarNames(), ", "))
	}
	return fn(), nil
}
