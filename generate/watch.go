package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/4STO2NED0/gen-typescript-declarations/project"
)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Loader returns the configuration to generate with. Watch calls it again
// after every change.
type Loader func() (*project.Config, error)

// Watch generates once and then again whenever the analysis or configuration
// file changes, until ctx is done. Failed runs are logged and do not stop
// watching; only a failure to load the initial configuration or to start
// the watcher is returned.
func Watch(ctx context.Context, load Loader, debounce time.Duration) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	var files map[string]bool
	track := func(cfg *project.Config) {
		files = watchedFiles(cfg)
		for f := range files {
			dir := filepath.Dir(f)
			if watched[dir] {
				continue
			}
			// Files may be replaced by rename, so watch the directory.
			if err := watcher.Add(dir); err != nil {
				log.Errorf("watch %s: %s", dir, err)
				continue
			}
			watched[dir] = true
		}
	}
	track(cfg)
	regenerate(ctx, cfg)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[absPath(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debugf("%s: %s", ev.Op, ev.Name)
			settle = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch: %s", err)

		case <-settle:
			settle = nil
			next, err := load()
			if err != nil {
				log.Errorf("%s", err)
				continue
			}
			cfg = next
			track(cfg)
			regenerate(ctx, cfg)
		}
	}
}

func regenerate(ctx context.Context, cfg *project.Config) {
	result, err := Generate(ctx, cfg)
	if err != nil {
		log.Errorf("%s", err)
		return
	}
	log.Infof("generated %d declaration files, %d diagnostics", len(result.Outputs), len(result.Diagnostics))
}

func watchedFiles(cfg *project.Config) map[string]bool {
	configPath := cfg.Path
	if configPath == "" {
		configPath = filepath.Join(cfg.RootDir, project.ConfigFile)
	}
	return map[string]bool{
		absPath(cfg.AnalysisPath()): true,
		absPath(configPath):         true,
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
