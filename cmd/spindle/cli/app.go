package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/spindle"
)

// loadApplication decodes an already-structured application definition from
// a JSON or YAML file. This is deserialization only; manifest-syntax parsing
// happens upstream of spindle.
func loadApplication(path string) (*spindle.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read application definition: %w", err)
	}

	var app spindle.Application
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &app); err != nil {
			return nil, fmt.Errorf("decode application definition %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &app); err != nil {
			return nil, fmt.Errorf("decode application definition %s: %w", path, err)
		}
	}

	// Resolve relative sources against the definition file's directory so a
	// definition can be pushed from anywhere.
	base := filepath.Dir(path)
	for i := range app.Components {
		c := &app.Components[i]
		if c.Source.Source != "" && !filepath.IsAbs(c.Source.Source) {
			c.Source.Source = filepath.Join(base, c.Source.Source)
		}
		for j := range c.Files {
			f := &c.Files[j]
			if f.Content.Source != "" && !filepath.IsAbs(f.Content.Source) {
				f.Content.Source = filepath.Join(base, f.Content.Source)
			}
		}
	}

	return &app, nil
}
