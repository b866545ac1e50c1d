package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

// Format names a model document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteJSON encodes m as indented JSON.
func WriteJSON(m *model.Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(m)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteYAML encodes m as YAML.
func WriteYAML(m *model.Model, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToDocument(m)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	return nil
}

// Write encodes m in the given format.
func Write(m *model.Model, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(m, w)
	case FormatYAML:
		return WriteYAML(m, w)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported model format %q", format)
	}
}

// WriteFile writes m to path in the format implied by its extension.
func WriteFile(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := Write(m, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
