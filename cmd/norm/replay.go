package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/norm"
	"github.com/fwojciec/norm/config"
	"github.com/fwojciec/norm/engine"
	normjson "github.com/fwojciec/norm/json"
	"github.com/fwojciec/norm/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type replayFlags struct {
	configPath string
	grammar    string
	format     string
	logLevel   string
	saveDir    string
	strict     bool
	repair     bool
}

func newReplayCmd(lookup config.LookupFunc) *cobra.Command {
	var f replayFlags
	cmd := &cobra.Command{
		Use:   "replay [flags] <glob>...",
		Short: "Run captured streams through the engine",
		Long: `Replay reads each capture file matching the given patterns (** matches
across directories) and prints the normalized deltas.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f, lookup)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			paths, err := expandCaptures(args)
			if err != nil {
				return err
			}
			return replayAll(cmd.Context(), cfg, f.saveDir, paths, cmd.OutOrStdout(), log)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "config file (default: "+defaultConfigPath+" if present)")
	flags.StringVarP(&f.grammar, "grammar", "g", "", "vendor grammar")
	flags.StringVarP(&f.format, "format", "f", "", "output format: json or pretty")
	flags.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&f.saveDir, "save", "", "directory to write one JSON transcript per capture")
	flags.BoolVar(&f.strict, "strict", false, "fail streams that end without a finish indicator")
	flags.BoolVar(&f.repair, "repair", false, "repair malformed tool call arguments")
	return cmd
}

// resolveConfig applies, in increasing precedence: defaults, config file,
// environment, explicitly set flags.
func resolveConfig(cmd *cobra.Command, f replayFlags, lookup config.LookupFunc) (config.Config, error) {
	path, optional := f.configPath, false
	if path == "" {
		path, optional = defaultConfigPath, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("grammar") {
		cfg.Grammar = f.grammar
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
	if flags.Changed("repair") {
		cfg.Repair = f.repair
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}

// expandCaptures resolves patterns to a deduplicated list of files, in
// pattern order.
func expandCaptures(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("invalid glob pattern: %s", p)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no captures match %s", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

type sink interface {
	begin(path string) error
	delta(d norm.Delta) error
	fail(err error) error
}

func replayAll(ctx context.Context, cfg config.Config, saveDir string, paths []string, out io.Writer, log *logrus.Logger) error {
	var s sink
	switch cfg.Format {
	case config.FormatPretty:
		s = newPrettySink(out, cfg.Width)
	default:
		s = &jsonSink{enc: normjson.NewEncoder(out)}
	}

	var names map[string]string
	if saveDir != "" {
		var err error
		if names, err = transcriptNames(paths); err != nil {
			return err
		}
	}

	var failed int
	for _, path := range paths {
		tr, err := replayOne(ctx, cfg, path, s, log)
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			failed++
			log.WithError(err).WithField("capture", path).Warn("replay failed")
		}
		if saveDir != "" && tr.Grammar != "" {
			if err := normjson.Save(filepath.Join(saveDir, names[path]), tr); err != nil {
				return fmt.Errorf("save transcript for %s: %w", path, err)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d captures failed", failed, len(paths))
	}
	return nil
}

// transcriptNames maps each capture to a transcript path relative to the
// deepest directory containing all captures, so the save directory mirrors
// the capture tree.
func transcriptNames(paths []string) (map[string]string, error) {
	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		abs[i] = a
	}
	root := ""
	for _, a := range abs {
		if root == "" {
			root = filepath.Dir(a)
			continue
		}
		for !within(root, a) && filepath.Dir(root) != root {
			root = filepath.Dir(root)
		}
	}

	names := make(map[string]string, len(paths))
	owners := make(map[string]string, len(paths))
	for i, a := range abs {
		rel, err := filepath.Rel(root, a)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", paths[i], err)
		}
		name := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".json"
		if other, ok := owners[name]; ok {
			return nil, fmt.Errorf("captures %s and %s would both save to %s", other, paths[i], name)
		}
		owners[name] = paths[i]
		names[paths[i]] = name
	}
	return names, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func replayOne(ctx context.Context, cfg config.Config, path string, s sink, log *logrus.Logger) (norm.Transcript, error) {
	g, err := resolveGrammar(cfg.Grammar, path)
	if err != nil {
		return norm.Transcript{}, err
	}
	overrides, err := cfg.Overrides(g.Name)
	if err != nil {
		return norm.Transcript{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return norm.Transcript{}, err
	}

	opts := []engine.Option{
		engine.WithLogger(log.WithField("capture", path)),
		engine.WithMaxLineSize(cfg.MaxLineSize),
		engine.WithFinishReasons(overrides),
	}
	if cfg.Strict {
		opts = append(opts, engine.WithStrictTermination())
	}
	if cfg.Repair {
		opts = append(opts, engine.WithArgumentRepair())
	}
	session, err := engine.New(ctx, f, g, opts...)
	if err != nil {
		return norm.Transcript{}, err
	}
	defer session.Close()

	tr := norm.Transcript{Grammar: g.Name, Source: path, CreatedAt: time.Now().UTC()}
	if err := s.begin(path); err != nil {
		return tr, err
	}
	for d, err := range session.All() {
		if err != nil {
			tr.Err = err.Error()
			if serr := s.fail(err); serr != nil {
				return tr, serr
			}
			return tr, err
		}
		tr.Deltas = append(tr.Deltas, d)
		if err := s.delta(d); err != nil {
			return tr, err
		}
	}
	return tr, nil
}

type jsonSink struct {
	enc *normjson.Encoder
}

func (s *jsonSink) begin(string) error       { return nil }
func (s *jsonSink) delta(d norm.Delta) error { return s.enc.Encode(d) }
func (s *jsonSink) fail(err error) error     { return s.enc.EncodeError(err) }

type prettySink struct {
	out   io.Writer
	width int
	r     *lipgloss.Renderer
}

func newPrettySink(out io.Writer, width int) *prettySink {
	return &prettySink{out: out, width: width}
}

func (s *prettySink) begin(path string) error {
	s.r = lipgloss.NewRenderer(s.out, norm.DefaultTheme(), lipgloss.WithWidth(s.width))
	_, err := fmt.Fprintf(s.out, "== %s\n", path)
	return err
}

func (s *prettySink) delta(d norm.Delta) error { return s.r.Render(d) }
func (s *prettySink) fail(err error) error     { return s.r.RenderError(err) }
