package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "documents": [
    {
      "url": "src/my-el.html",
      "features": [
        {
          "kinds": ["element", "polymer-element"],
          "className": "Polymer.MyEl",
          "tagName": "my-el",
          "summary": "An element.",
          "methods": [
            {
              "name": "go",
              "params": [
                {"name": "a", "type": "string"},
                {"name": "b", "type": "number", "defaultValue": "1"},
                {"name": "c", "defaultValue": ""}
              ],
              "return": {"type": "boolean", "desc": "whether it went"}
            }
          ],
          "sourceRange": {"file": "src/my-el.html", "start": {"line": 2, "column": 0}, "end": {"line": 10, "column": 3}}
        }
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	a, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, a.Documents, 1)

	doc := a.Documents[0]
	assert.Equal(t, "src/my-el.html", doc.URL)
	require.Len(t, doc.Features, 1)

	f := doc.Features[0]
	assert.True(t, f.HasKind(KindElement))
	assert.True(t, f.HasKind(KindPolymerElement))
	assert.False(t, f.HasKind(KindMixin))
	assert.Equal(t, "Polymer.MyEl", f.DisplayName())
	assert.Equal(t, "An element.", f.Doc())
	assert.True(t, f.Privacy.Public())

	params := f.Methods[0].Params
	assert.Nil(t, params[0].DefaultValue)
	require.NotNil(t, params[1].DefaultValue)
	assert.Equal(t, "1", *params[1].DefaultValue)
	require.NotNil(t, params[2].DefaultValue, "an empty default value is still a default")
	assert.Equal(t, "boolean", f.Methods[0].Return.Type)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"documents": [`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"documents": [null]}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	a, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, a.Documents, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSourceRangeContains(t *testing.T) {
	r := SourceRange{Start: Position{Line: 2, Column: 4}, End: Position{Line: 5, Column: 0}}
	assert.True(t, r.Contains(Position{Line: 2, Column: 4}))
	assert.True(t, r.Contains(Position{Line: 4, Column: 80}))
	assert.False(t, r.Contains(Position{Line: 2, Column: 3}))
	assert.False(t, r.Contains(Position{Line: 5, Column: 0}))
}

func TestPrivacy(t *testing.T) {
	assert.True(t, Privacy("").Public())
	assert.True(t, PrivacyPublic.Public())
	assert.False(t, PrivacyProtected.Public())
	assert.False(t, PrivacyPrivate.Public())
}
