// Package pipeline runs auto-arrangement and path planning on a model with
// result caching, hooks and logging.
//
// The CLI, the API server and the file watcher all go through a [Runner]
// so they share cache keys and behavior.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Arrange(ctx, m, pipeline.ArrangeOptions{Mode: pipeline.ModeFull})
//	if err != nil {
//	    return err
//	}
//	plan, err := runner.Plan(ctx, m, pipeline.PlanOptions{DryRun: true})
package pipeline

import (
	"time"

	"github.com/matzehuels/stationflow/pkg/arrange"
	"github.com/matzehuels/stationflow/pkg/cache"
	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/pathplan"
)

// Arrangement modes.
const (
	ModeGrid = "grid"
	ModeFull = "full"
)

// DefaultMode is the arrangement mode used when none is given.
const DefaultMode = ModeFull

// DefaultStart is the top-left position of a full arrangement.
var DefaultStart = model.Point{X: 50, Y: 50}

// ValidModes lists the supported arrangement modes.
var ValidModes = []string{ModeGrid, ModeFull}

// =============================================================================
// Options
// =============================================================================

// ArrangeOptions configures [Runner.Arrange].
type ArrangeOptions struct {
	Mode string `json:"mode,omitempty"`

	// Selection lists the node IDs to arrange. Empty selects every node of
	// the root surface.
	Selection []int `json:"selection,omitempty"`

	// Start is the top-left corner of a full arrangement. Nil uses
	// DefaultStart.
	Start *model.Point `json:"start,omitempty"`

	Layout arrange.Options `json:"-"`

	// Refresh skips the cache lookup.
	Refresh bool `json:"refresh,omitempty"`
}

// PlanOptions configures [Runner.Plan].
type PlanOptions struct {
	// DryRun plans without writing assignments to the model.
	DryRun bool `json:"dry_run,omitempty"`

	// Refresh skips the cache lookup.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateMode checks that mode names a supported arrangement mode.
func ValidateMode(mode string) error {
	return errors.ValidateOneOf("mode", mode, ValidModes...)
}

// ValidateAndSetDefaults fills in defaults and validates the options.
func (o *ArrangeOptions) ValidateAndSetDefaults() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Start == nil {
		start := DefaultStart
		o.Start = &start
	}
	if len(o.Selection) > 0 {
		if err := errors.ValidateSelection(o.Selection); err != nil {
			return err
		}
	}
	return nil
}

// KeyOpts returns the cache key options for o. The layout options are
// resolved against the arranger defaults first so explicit defaults and
// zero values share a key.
func (o *ArrangeOptions) KeyOpts() cache.ArrangeKeyOpts {
	lo := o.Layout.Resolved()
	k := cache.ArrangeKeyOpts{
		Mode:          o.Mode,
		Selection:     o.Selection,
		Grid:          lo.Grid,
		ColumnSpacing: lo.ColumnSpacing,
		RowSpacing:    lo.RowSpacing,
		VertexOffsetX: lo.VertexOffset.X,
		VertexOffsetY: lo.VertexOffset.Y,
	}
	if o.Start != nil {
		k.StartX, k.StartY = o.Start.X, o.Start.Y
	}
	return k
}

// =============================================================================
// Results
// =============================================================================

// Position is the new top-left corner of a moved node.
type Position struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// ArrangeResult is the outcome of [Runner.Arrange].
type ArrangeResult struct {
	ID        string                `json:"id"`
	Mode      string                `json:"mode"`
	Nodes     int                   `json:"nodes"`
	Positions []Position            `json:"positions"`
	Layers    map[int]arrange.Layer `json:"layers,omitempty"`
	CacheHit  bool                  `json:"cache_hit"`
	Duration  time.Duration         `json:"duration"`
}

// PlanResult is the outcome of [Runner.Plan].
type PlanResult struct {
	*pathplan.Result

	// Undeclared lists declaration names that match no node.
	Undeclared []string `json:"undeclared,omitempty"`
	// Undrawn lists unresolved routes whose stations share no drawn
	// connection.
	Undrawn  []pathplan.Route `json:"undrawn,omitempty"`
	CacheHit bool             `json:"cache_hit"`
	Duration time.Duration    `json:"duration"`
}
