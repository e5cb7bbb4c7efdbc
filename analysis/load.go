package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads an analysis in JSON form.
func Decode(r io.Reader) (*Analysis, error) {
	var a Analysis
	dec := json.NewDecoder(r)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	for i, doc := range a.Documents {
		if doc == nil {
			return nil, fmt.Errorf("decode analysis: document %d is null", i)
		}
	}
	return &a, nil
}

// LoadFile reads an analysis from a JSON file.
func LoadFile(path string) (*Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open analysis: %w", err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
