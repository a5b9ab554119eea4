package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// File is the on-disk catalog layout.
type File struct {
	Items []Item   `json:"items" yaml:"items"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Load reads a catalog file (.json, .yaml or .yml) and builds its full-text index.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	file, err := Decode(f, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	c := New(file.Items, file.Tags)
	if err := c.BuildIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

// Decode parses a catalog in the given format ("json" or "yaml").
func Decode(r io.Reader, format string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file File
	switch format {
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &file, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

// Problem describes a catalog record that will rank poorly or not at all.
type Problem struct {
	Index   int
	Item    string
	Message string
}

// Validate reports records with missing names, duplicate ids or
// out-of-range ratings.
func Validate(items []Item) []Problem {
	var problems []Problem
	seen := make(map[string]bool)

	for i, it := range items {
		label := it.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if strings.TrimSpace(it.Name) == "" {
			problems = append(problems, Problem{i, label, "missing name"})
		}
		if it.Category == "" {
			problems = append(problems, Problem{i, label, "missing category"})
		}
		if it.ID != "" {
			if seen[it.ID] {
				problems = append(problems, Problem{i, label, fmt.Sprintf("duplicate id %q", it.ID)})
			}
			seen[it.ID] = true
		}
		if it.Rating < 0 || it.Rating > 5 {
			problems = append(problems, Problem{i, label, fmt.Sprintf("rating %.1f outside 0-5", it.Rating)})
		}
		if it.Reviews < 0 {
			problems = append(problems, Problem{i, label, "negative review count"})
		}
	}
	return problems
}
