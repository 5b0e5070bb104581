// Package run orchestrates one analysis run: annotation parsing,
// plot loading, statistics computation and output writing.
package run

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tnseq/insertstats/internal/feature"
	"github.com/tnseq/insertstats/internal/gff"
	"github.com/tnseq/insertstats/internal/output"
	"github.com/tnseq/insertstats/internal/plot"
	"github.com/tnseq/insertstats/internal/stats"
	"github.com/tnseq/insertstats/internal/store"
)

// Config describes one run.
type Config struct {
	Annotation string
	Plots      []string
	Suffix     string
	Trim5      float64
	Trim3      float64
	Joined     bool
	OutputDir  string
	DuckDBPath string
}

// Coordinator drives N plot inputs through one annotation pass.
type Coordinator struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a coordinator for the given configuration.
func New(cfg Config) *Coordinator {
	return &Coordinator{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets a logger for per-feature warnings and per-input
// errors.
func (c *Coordinator) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Run executes the configured analysis. A failing plot input abandons
// its own output but the remaining inputs are still processed; the
// combined error reports every failed input.
func (c *Coordinator) Run() error {
	engine, err := stats.NewEngine(c.cfg.Trim5, c.cfg.Trim3)
	if err != nil {
		return err
	}

	// The catalog and retention filter are pure functions of the
	// annotation alone, so one parse serves every output.
	feats, err := gff.ReadAll(c.cfg.Annotation)
	if err != nil {
		return err
	}
	catalog := feature.NewCatalog(feats)

	retained := make([]*feature.Feature, 0, len(feats))
	for _, f := range feats {
		if catalog.Retain(f) {
			retained = append(retained, f)
		}
	}
	c.logger.Info("annotation loaded",
		zap.String("file", c.cfg.Annotation),
		zap.Int("features", len(feats)),
		zap.Int("retained", len(retained)),
		zap.Int("cds_intervals", catalog.CDSCount()))

	var db *store.Store
	if c.cfg.DuckDBPath != "" {
		db, err = store.Open(c.cfg.DuckDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	if c.cfg.Joined {
		var profile plot.Profile
		for _, path := range c.cfg.Plots {
			profile, err = plot.MergeInto(profile, path)
			if err != nil {
				return err
			}
		}
		return c.writeOutput(JoinedName(c.cfg.Suffix), retained, profile, engine, db)
	}

	var failures []error
	for _, path := range c.cfg.Plots {
		profile, err := plot.Load(path)
		if err != nil {
			c.logger.Error("skipping plot input",
				zap.String("plot", path),
				zap.Error(err))
			failures = append(failures, err)
			continue
		}
		name := OutputName(path, c.cfg.Suffix)
		if err := c.writeOutput(name, retained, profile, engine, db); err != nil {
			c.logger.Error("output failed",
				zap.String("output", name),
				zap.Error(err))
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

// writeOutput computes all rows for one output stream and writes them.
// Per-feature data errors (empty trimmed interval, profile too short)
// are logged and the feature skipped; anything else aborts the output
// and removes the partial file.
func (c *Coordinator) writeOutput(name string, retained []*feature.Feature, profile plot.Profile, engine *stats.Engine, db *store.Store) error {
	rows := make([]*stats.Row, 0, len(retained))
	for _, f := range retained {
		row, err := engine.Compute(f, profile)
		if err != nil {
			if errors.Is(err, stats.ErrEmptyInterval) || errors.Is(err, stats.ErrProfileTooShort) {
				c.logger.Warn("skipping feature",
					zap.String("output", name),
					zap.Error(err))
				continue
			}
			return err
		}
		rows = append(rows, row)
	}

	dir := c.cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := writeRows(f, rows); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", name, err)
	}

	c.logger.Info("output written",
		zap.String("output", path),
		zap.Int("rows", len(rows)))

	if db != nil {
		if err := db.WriteRows(name, rows); err != nil {
			return fmt.Errorf("store rows for %s: %w", name, err)
		}
	}
	return nil
}

func writeRows(f *os.File, rows []*stats.Row) error {
	tw := output.NewTabWriter(f)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tw.Write(r); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// OutputName derives a per-file output name from a plot path: the base
// name with a compressed-file extension and any ".insert_site_plot"
// infix stripped, joined to the configured suffix.
func OutputName(plotPath, suffix string) string {
	base := filepath.Base(plotPath)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.Replace(base, ".insert_site_plot", "", 1)
	return base + "." + suffix
}

// JoinedName returns the fixed joined-mode output name.
func JoinedName(suffix string) string {
	return "joined_output." + suffix
}
