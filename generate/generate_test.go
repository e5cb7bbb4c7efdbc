package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/project"
)

const fixture = `{
  "documents": [
    {
      "url": "src/a.html",
      "features": [
        {
          "kinds": ["element", "polymer-element"],
          "className": "Polymer.A",
          "tagName": "a-el",
          "sourceRange": {"file": "src/a.html", "start": {"line": 1, "column": 0}, "end": {"line": 5, "column": 0}}
        },
        {
          "kinds": ["import"],
          "url": "bower_components/polymer/polymer.html",
          "sourceRange": {"file": "src/a.html"}
        },
        {
          "kinds": ["import"],
          "url": "src/b.html",
          "sourceRange": {"file": "src/a.html"}
        }
      ]
    },
    {
      "url": "src/a.js",
      "features": [
        {"kinds": ["function"], "name": "Polymer.helper"}
      ]
    },
    {
      "url": "test/a-test.html",
      "features": [
        {"kinds": ["class"], "name": "ATest"}
      ]
    },
    {
      "url": "src/b.html",
      "features": [
        {"kinds": ["class"], "name": "Polymer.B"},
        {"kinds": ["class"], "sourceRange": {"file": "src/b.html", "start": {"line": 7, "column": 2}}}
      ]
    }
  ]
}`

const wantA = `/**
 * DO NOT EDIT
 *
 * This file was automatically generated by
 *   gen-tsd
 *
 * To modify these typings, edit the source file(s):
 *   src/a.html
 *   src/a.js
 */

/// <reference path="../../polymer/polymer.d.ts" />

declare namespace Polymer {

  class A extends Polymer.Element {
  }

  function helper(): any;
}

interface HTMLElementTagNameMap {
  "a-el": Polymer.A;
}
`

func loadFixture(t *testing.T) *analysis.Analysis {
	t.Helper()
	a, err := analysis.Decode(strings.NewReader(fixture))
	require.NoError(t, err)
	return a
}

func fixtureConfig(dir string) *project.Config {
	cfg := project.Default(dir)
	cfg.RemoveReferences = []string{"src/b.d.ts"}
	cfg.AddReferences = map[string][]string{"src/b.d.ts": {"types/extra.d.ts"}}
	return cfg
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), loadFixture(t), fixtureConfig(t.TempDir()))
	require.NoError(t, err)

	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "src/a.d.ts", result.Outputs[0].Path)
	assert.Equal(t, "src/b.d.ts", result.Outputs[1].Path)

	a := result.Output("src/a.d.ts")
	require.NotNil(t, a)
	assert.Equal(t, wantA, string(a.Text))

	b := result.Output("src/b.d.ts")
	require.NotNil(t, b)
	assert.Equal(t, []string{"types/extra.d.ts"}, b.Document.References())
	assert.Contains(t, string(b.Text), `/// <reference path="../types/extra.d.ts" />`)
	assert.Contains(t, string(b.Text), "class B {")

	assert.Nil(t, result.Output("test/a-test.d.ts"))

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "src/b.html", result.Diagnostics[0].Range.File)
	assert.Equal(t, 1, result.Stats.Features["element"])
	assert.Equal(t, 2, result.Stats.Features["import"])
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := Run(context.Background(), loadFixture(t), fixtureConfig(dir))
	require.NoError(t, err)
	second, err := Run(context.Background(), loadFixture(t), fixtureConfig(dir))
	require.NoError(t, err)

	require.Equal(t, len(first.Outputs), len(second.Outputs))
	for i := range first.Outputs {
		assert.Equal(t, first.Outputs[i].Path, second.Outputs[i].Path)
		assert.Equal(t, string(first.Outputs[i].Text), string(second.Outputs[i].Text))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, loadFixture(t), fixtureConfig(t.TempDir()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunExcludeNothing(t *testing.T) {
	cfg := fixtureConfig(t.TempDir())
	cfg.Exclude = []string{}

	result, err := Run(context.Background(), loadFixture(t), cfg)
	require.NoError(t, err)
	assert.NotNil(t, result.Output("test/a-test.d.ts"))
}

func writeFixture(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.DefaultAnalysis), []byte(content), 0o644))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, fixture)
	cfg := fixtureConfig(dir)
	cfg.OutDir = "types"
	cfg.MetricsFile = "gen-tsd.prom"

	result, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, result.Outputs, 2)

	text, err := os.ReadFile(filepath.Join(dir, "types", "src", "a.d.ts"))
	require.NoError(t, err)
	assert.Equal(t, wantA, string(text))
	assert.FileExists(t, filepath.Join(dir, "types", "src", "b.d.ts"))

	metrics, err := os.ReadFile(filepath.Join(dir, "gen-tsd.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "gentsd_documents_written_total")
	assert.Contains(t, string(metrics), `gentsd_features_total{kind="element"}`)
}

func TestGenerateMissingAnalysis(t *testing.T) {
	_, err := Generate(context.Background(), project.Default(t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open analysis")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, fixture)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, func() (*project.Config, error) { return project.LoadFrom(dir) }, 20*time.Millisecond)
	}()

	exists := func(rel string) func() bool {
		return func() bool {
			_, err := os.Stat(filepath.Join(dir, rel))
			return err == nil
		}
	}
	require.Eventually(t, exists("src/a.d.ts"), 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(fixture, `"url": "src/a.js"`, `"url": "src/c.js"`, 1)
	writeFixture(t, dir, updated)
	require.Eventually(t, exists("src/c.d.ts"), 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
