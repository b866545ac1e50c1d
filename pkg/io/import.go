package io

import (
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

// ReadJSON decodes a JSON model document from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*model.Model, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return FromDocument(doc)
}

// ReadYAML decodes a YAML model document from r.
// ReadYAML does not close r.
func ReadYAML(r io.Reader) (*model.Model, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return FromDocument(doc)
}

// Read decodes a model document in the given format.
func Read(r io.Reader, format Format) (*model.Model, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported model format %q", format)
	}
}

// ReadFile reads the model file at path. The format is chosen from the
// file extension, see [FormatFromPath].
func ReadFile(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
