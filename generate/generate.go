// Package generate runs the declaration pipeline over a whole analysis:
// build every document in parallel, merge documents sharing a declaration
// file, apply the configured reference edits, simplify and serialize.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/convert"
	"github.com/4STO2NED0/gen-typescript-declarations/format"
	"github.com/4STO2NED0/gen-typescript-declarations/project"
	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

var log = commonlog.GetLogger("gen-tsd.generate")

// Output is one generated declaration file.
type Output struct {
	Path     string // relative to the project root
	Document *ts.Document
	Text     []byte
}

type Result struct {
	Outputs     []*Output // sorted by Path
	Diagnostics []convert.Diagnostic
	Stats       convert.Stats
}

// Output returns the output for the declaration file at path, or nil.
func (r *Result) Output(path string) *Output {
	i := sort.Search(len(r.Outputs), func(i int) bool { return r.Outputs[i].Path >= path })
	if i < len(r.Outputs) && r.Outputs[i].Path == path {
		return r.Outputs[i]
	}
	return nil
}

// Run generates declarations for every document of a not excluded by cfg.
// Nothing is written to disk. Run fails only when ctx is cancelled.
func Run(ctx context.Context, a *analysis.Analysis, cfg *project.Config) (*Result, error) {
	var units []*analysis.Document
	for _, doc := range a.Documents {
		if doc == nil {
			continue
		}
		if cfg.Excluded(doc.URL) {
			log.Debugf("excluding %s", doc.URL)
			continue
		}
		units = append(units, doc)
	}

	built := make([]*convert.Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			built[i] = convert.Build(unit, convert.Options{StagedDirs: cfg.StagedDirs})
			unitBuildDuration.Observe(time.Since(start).Seconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build declarations: %w", err)
	}

	result := &Result{
		Stats: convert.Stats{Features: map[string]int{}, Skipped: map[string]int{}},
	}
	docs := make(map[string]*ts.Document)
	for _, b := range built {
		for _, d := range b.Diagnostics {
			log.Warningf("%s", d)
		}
		result.Diagnostics = append(result.Diagnostics, b.Diagnostics...)
		addStats(&result.Stats, b.Stats)
		recordStats(b.Stats)

		if existing, ok := docs[b.Document.Path]; ok {
			merge(existing, b.Document)
		} else {
			docs[b.Document.Path] = b.Document
		}
	}

	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		doc := docs[p]
		for _, ref := range cfg.RemoveReferences {
			doc.RemoveReference(ref)
		}
		for _, ref := range cfg.AddedReferences(p) {
			doc.AddReference(ref)
		}
		ts.Simplify(doc)

		var buf bytes.Buffer
		if err := format.NewDeclarationEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode %s: %w", p, err)
		}
		result.Outputs = append(result.Outputs, &Output{Path: p, Document: doc, Text: buf.Bytes()})
	}
	return result, nil
}

// merge appends the contents of src to dst. Both map to the same
// declaration file.
func merge(dst, src *ts.Document) {
	for _, s := range src.Sources {
		dst.AddSource(s)
	}
	for _, r := range src.References() {
		dst.AddReference(r)
	}
	dst.Members = append(dst.Members, src.Members...)
}

func addStats(dst *convert.Stats, src convert.Stats) {
	for k, n := range src.Features {
		dst.Features[k] += n
	}
	for k, n := range src.Skipped {
		dst.Skipped[k] += n
	}
	dst.Fallbacks += src.Fallbacks
}

// Write stores every output under outDir, creating directories as needed.
func Write(outDir string, result *Result) error {
	for _, out := range result.Outputs {
		path := filepath.Join(outDir, filepath.FromSlash(out.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(path, out.Text, 0o644); err != nil {
			return fmt.Errorf("write declarations: %w", err)
		}
		documentsWritten.Inc()
		log.Infof("wrote %s", path)
	}
	return nil
}

// Generate loads the analysis named by cfg, runs the pipeline, writes the
// outputs and, when configured, the metrics file.
func Generate(ctx context.Context, cfg *project.Config) (*Result, error) {
	start := time.Now()
	a, err := analysis.LoadFile(cfg.AnalysisPath())
	if err != nil {
		return nil, err
	}
	result, err := Run(ctx, a, cfg)
	if err != nil {
		return nil, err
	}
	if err := Write(cfg.OutputDir(), result); err != nil {
		return nil, err
	}
	if path := cfg.MetricsPath(); path != "" {
		if err := WriteMetrics(path); err != nil {
			return nil, err
		}
	}
	log.Debugf("generated %d files in %s", len(result.Outputs), time.Since(start))
	return result, nil
}
