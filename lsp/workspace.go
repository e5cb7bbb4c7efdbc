package lsp

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/convert"
	"github.com/4STO2NED0/gen-typescript-declarations/format"
	"github.com/4STO2NED0/gen-typescript-declarations/generate"
	"github.com/4STO2NED0/gen-typescript-declarations/project"
)

// Workspace holds the latest generator results for a project root.
type Workspace struct {
	mu       sync.RWMutex
	rootDir  string
	cfg      *project.Config
	analysis *analysis.Analysis
	result   *generate.Result
}

// NewWorkspace returns an empty workspace rooted at rootDir, which is made
// absolute.
func NewWorkspace(rootDir string) *Workspace {
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}
	return &Workspace{rootDir: rootDir, cfg: project.Default(rootDir)}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// Reload reads the configuration and analysis again and regenerates the
// declarations in memory. On error the previous results are kept.
func (w *Workspace) Reload(ctx context.Context) error {
	cfg, err := project.LoadFrom(w.rootDir)
	if err != nil {
		return err
	}
	a, err := analysis.LoadFile(cfg.AnalysisPath())
	if err != nil {
		return err
	}
	result, err := generate.Run(ctx, a, cfg)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg = cfg
	w.analysis = a
	w.result = result
	return nil
}

// Watches reports whether a change to the file at path requires a reload.
func (w *Workspace) Watches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	path = filepath.Clean(path)
	configPath := w.cfg.Path
	if configPath == "" {
		configPath = filepath.Join(w.rootDir, project.ConfigFile)
	}
	return path == filepath.Clean(configPath) || path == filepath.Clean(w.cfg.AnalysisPath())
}

// Diagnostics groups the builder diagnostics of the latest run by source
// file URL. Files are sorted.
func (w *Workspace) Diagnostics() ([]string, map[string][]convert.Diagnostic) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	byFile := make(map[string][]convert.Diagnostic)
	if w.result == nil {
		return nil, byFile
	}
	for _, d := range w.result.Diagnostics {
		byFile[d.Range.File] = append(byFile[d.Range.File], d)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, byFile
}

// FeatureAt returns the innermost feature whose source range in url contains
// pos, and the document it belongs to.
func (w *Workspace) FeatureAt(url string, pos analysis.Position) (*analysis.Document, *analysis.Feature) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.analysis == nil {
		return nil, nil
	}
	var bestDoc *analysis.Document
	var best *analysis.Feature
	for _, doc := range w.analysis.Documents {
		for _, f := range doc.Features {
			r := f.SourceRange
			if r.File != url || !r.Contains(pos) {
				continue
			}
			if best == nil || best.SourceRange.Start.Before(r.Start) {
				bestDoc, best = doc, f
			}
		}
	}
	return bestDoc, best
}

// Hover renders the declarations generated for the feature at pos.
func (w *Workspace) Hover(url string, pos analysis.Position) (string, bool) {
	doc, f := w.FeatureAt(url, pos)
	if f == nil {
		return "", false
	}

	w.mu.RLock()
	staged := w.cfg.StagedDirs
	w.mu.RUnlock()

	unit := &analysis.Document{URL: doc.URL, Features: []*analysis.Feature{f}}
	built := convert.Build(unit, convert.Options{StagedDirs: staged})
	if len(built.Document.Members) == 0 {
		return "", false
	}
	return strings.TrimSuffix(format.EncodeMembers(built.Document.Members), "\n"), true
}

// URL returns path relative to the workspace root in slash form, or false
// when path is outside it.
func (w *Workspace) URL(path string) (string, bool) {
	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Path is the inverse of URL.
func (w *Workspace) Path(url string) string {
	return filepath.Join(w.rootDir, filepath.FromSlash(url))
}
