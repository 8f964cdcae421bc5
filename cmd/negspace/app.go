package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/negspace/config"
	"github.com/c360studio/negspace/mapper"
	"github.com/c360studio/negspace/output"
	"github.com/c360studio/negspace/registry"
	"github.com/c360studio/negspace/source"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	mapper  *mapper.Mapper
	metrics *prometheus.Registry
	render  output.Options

	out         io.Writer
	errOut      io.Writer
	dumpMetrics bool
}

func newApp(cmd *cobra.Command, f *flags) (*app, error) {
	errOut := cmd.ErrOrStderr()
	runID := uuid.New().String()

	// Config loading logs at the flag's level; the configured level applies
	// afterwards unless the flag was set.
	logger := newLogger(errOut, f.logLevel).With("run_id", runID)

	cfg, err := config.NewLoader(logger).Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger = newLogger(errOut, cfg.Log.Level).With("run_id", runID)
	slog.SetDefault(logger)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	reg := registry.Default()
	if cfg.Registry.Path != "" {
		reg, err = registry.Load(cfg.Registry.Path)
		if err != nil {
			return nil, fmt.Errorf("load registry: %w", err)
		}
		logger.Debug("Loaded registry",
			"path", cfg.Registry.Path,
			"version", reg.Version(),
			"domains", len(reg.Domains()))
	}

	promRegistry := prometheus.NewRegistry()
	metrics, err := mapper.NewMetrics(promRegistry)
	if err != nil {
		return nil, err
	}

	m := mapper.New(reg,
		mapper.WithScorer(mapper.Scorer{
			StrengthBoost: cfg.Scoring.StrengthBoost,
			MaxBoost:      cfg.Scoring.MaxBoost,
		}),
		mapper.WithMetrics(metrics),
		mapper.WithLogger(logger),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		mapper:  m,
		metrics: promRegistry,
		render: output.Options{
			Format:        format,
			Verbose:       cfg.Output.Verbose,
			MinConfidence: cfg.Output.MinConfidence,
		},
		out:         cmd.OutOrStdout(),
		errOut:      errOut,
		dumpMetrics: f.metrics,
	}, nil
}

// applyFlags overrides cfg with the flags the user set explicitly.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Output.Format = strings.ToLower(f.format)
	}
	if changed("verbose") {
		cfg.Output.Verbose = f.verbose
	}
	if changed("min-confidence") {
		cfg.Output.MinConfidence = f.minConfidence
	}
	if changed("registry") {
		cfg.Registry.Path = f.registryPath
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (a *app) runMap(arg string) error {
	stmt, err := source.Resolve(arg)
	if err != nil {
		return err
	}
	if stmt.Origin != "" {
		a.logger.Debug("Read statement", "path", stmt.Origin, "title", stmt.Title, "bytes", len(stmt.Text))
	}
	return output.Render(a.out, a.mapper.Map(stmt.Text), a.render)
}

func (a *app) runBatch(ctx context.Context, patterns []string) error {
	files, err := source.Expand(patterns)
	if err != nil {
		return err
	}
	a.logger.Info("Mapping files", "count", len(files), "concurrency", a.cfg.Batch.Concurrency)

	items := make([]output.Item, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Batch.Concurrency)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stmt, err := source.ReadFile(path)
			if err != nil {
				return err
			}
			items[i] = output.Item{Source: path, Result: a.mapper.Map(stmt.Text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return output.RenderBatch(a.out, items, a.render)
}

func (a *app) runWatch(ctx context.Context, path string) error {
	path = strings.TrimPrefix(path, source.FilePrefix)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := source.NewWatcher(path, a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return err
	}
	if err := a.mapFile(path); err != nil {
		_ = w.Stop()
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	defer func() { _ = w.Stop() }()

	for changed := range w.Changes() {
		a.logger.Info("File changed", "path", changed)
		if err := a.mapFile(changed); err != nil {
			a.logger.Warn("Failed to map changed file", "path", changed, "error", err)
		}
	}
	return nil
}

func (a *app) mapFile(path string) error {
	stmt, err := source.ReadFile(path)
	if err != nil {
		return err
	}
	return output.Render(a.out, a.mapper.Map(stmt.Text), a.render)
}

// runDomains lists every domain, or only the one named by id.
func (a *app) runDomains(id string) error {
	reg := a.mapper.Registry()

	domains := reg.Domains()
	if id != "" {
		d, ok := reg.Domain(id)
		if !ok {
			return fmt.Errorf("unknown domain %q", id)
		}
		domains = []registry.Domain{d}
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tTRIGGERS")
	for _, d := range domains {
		fmt.Fprintf(tw, "%s\t%s\n", d.ID, joinPhrases(d.Triggers))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "DOMAIN\tCONCEPT\tWEIGHT\tPHRASES")
	for _, d := range domains {
		for _, c := range d.Concepts {
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", d.ID, c.Name, c.Weight, joinPhrases(c.Phrases))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if a.render.Verbose {
		fmt.Fprintf(a.out, "\nSCOPE CUES (registry version %s)\n", reg.Version())
		for _, c := range reg.ScopeCues() {
			fmt.Fprintf(a.out, "  %s\n", c)
		}
		fmt.Fprintln(a.out, "\nEXCLUSION CUES (need a domain trigger in the same sentence)")
		for _, c := range reg.ExclusionCues() {
			fmt.Fprintf(a.out, "  %s\n", c)
		}
	}
	return nil
}

// exportRegistry writes the active registry as YAML to path, or to stdout
// when path is "-".
func (a *app) exportRegistry(path string) error {
	data, err := registry.Marshal(a.mapper.Registry().Spec())
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = a.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	a.logger.Info("Exported registry", "path", path)
	return nil
}

func joinPhrases(phrases []registry.Phrase) string {
	parts := make([]string, len(phrases))
	for i, p := range phrases {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// finish prints the run's metrics when requested.
func (a *app) finish() {
	if !a.dumpMetrics {
		return
	}
	if err := writeMetrics(a.errOut, a.metrics); err != nil {
		a.logger.Warn("Failed to write metrics", "error", err)
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
