package cache

import "time"

// Default entry lifetimes. Results depend only on the hashed inputs, so
// the TTLs only bound disk and memory use.
const (
	TTLArrange = 7 * 24 * time.Hour
	TTLPlan    = 7 * 24 * time.Hour
)

// Keyer derives cache keys for pipeline results.
type Keyer interface {
	// ArrangeKey returns the key for an arrangement of the model with the
	// given content hash.
	ArrangeKey(modelHash string, opts ArrangeKeyOpts) string

	// PlanKey returns the key for a path plan of the model with the given
	// content hash.
	PlanKey(modelHash string) string
}

// ArrangeKeyOpts holds every option that changes an arrangement result.
type ArrangeKeyOpts struct {
	Mode          string `json:"mode"`
	Selection     []int  `json:"selection,omitempty"`
	StartX        int    `json:"start_x"`
	StartY        int    `json:"start_y"`
	Grid          int    `json:"grid"`
	ColumnSpacing int    `json:"column_spacing"`
	RowSpacing    int    `json:"row_spacing"`
	VertexOffsetX int    `json:"vertex_offset_x"`
	VertexOffsetY int    `json:"vertex_offset_y"`
}

// DefaultKeyer produces "arrange:<hash>" and "plan:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArrangeKey hashes the model hash together with the options.
func (DefaultKeyer) ArrangeKey(modelHash string, opts ArrangeKeyOpts) string {
	return hashKey("arrange", modelHash, opts)
}

// PlanKey hashes the model hash.
func (DefaultKeyer) PlanKey(modelHash string) string {
	return hashKey("plan", modelHash)
}
