package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
)

// parseSelection parses a comma-separated list of node IDs such as "1,2,3".
// An empty string selects nothing.
func parseSelection(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid node ID %q in --select", part)
		}
		ids = append(ids, id)
	}
	return ids, errors.ValidateSelection(ids)
}

// parsePoint parses a position given as "x,y".
func parsePoint(s string) (model.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return model.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid position %q (want x,y)", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return model.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid position %q (want x,y)", s)
	}
	return model.Point{X: x, Y: y}, nil
}

// defaultOutput derives the output path for input by inserting suffix
// before the extension: "line.json" becomes "line.arranged.json".
func defaultOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "." + suffix + ext
}
