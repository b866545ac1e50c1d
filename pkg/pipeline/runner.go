package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stationflow/pkg/arrange"
	"github.com/matzehuels/stationflow/pkg/cache"
	"github.com/matzehuels/stationflow/pkg/errors"
	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/observability"
	"github.com/matzehuels/stationflow/pkg/pathplan"
)

// Runner executes arrange and plan requests with caching.
//
// The Runner keeps no per-run state, so one Runner can serve concurrent
// requests as long as each request works on its own model.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default cache entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedArrangement is the cache payload of an arrangement.
type cachedArrangement struct {
	Positions []Position            `json:"positions"`
	Layers    map[int]arrange.Layer `json:"layers,omitempty"`
}

// Arrange positions the selected nodes of m. On failure m is unchanged.
func (r *Runner) Arrange(ctx context.Context, m *model.Model, opts ArrangeOptions) (*ArrangeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	nodes, err := selectNodes(m, opts.Selection)
	if err != nil {
		return nil, err
	}

	hooks := observability.Arrange()
	hooks.OnArrangeStart(ctx, opts.Mode, len(nodes))
	start := time.Now()
	res, err := r.arrange(ctx, m, nodes, opts)
	elapsed := time.Since(start)
	hooks.OnArrangeComplete(ctx, opts.Mode, len(nodes), elapsed, err)
	if err != nil {
		r.Logger.Warn("arrange failed", "mode", opts.Mode, "nodes", len(nodes), "error", errors.UserMessage(err))
		return nil, err
	}

	res.Duration = elapsed
	r.Logger.Info("arranged nodes",
		"mode", opts.Mode,
		"nodes", len(nodes),
		"moved", len(res.Positions),
		"duration", elapsed,
		"cache", res.CacheHit)
	return res, nil
}

func (r *Runner) arrange(ctx context.Context, m *model.Model, nodes []*model.Node, opts ArrangeOptions) (*ArrangeResult, error) {
	key := r.Keyer.ArrangeKey(ModelHash(m), opts.KeyOpts())
	res := &ArrangeResult{ID: uuid.NewString(), Mode: opts.Mode, Nodes: len(nodes)}

	if !opts.Refresh {
		var cached cachedArrangement
		if r.lookup(ctx, "arrange", key, &cached) {
			res.Positions, res.Layers, res.CacheHit = cached.Positions, cached.Layers, true
			applyPositions(m, res.Positions)
			return res, nil
		}
	}

	// Work on a copy so the caller's model only sees the final positions.
	work := m.Clone()
	workNodes := make([]*model.Node, len(nodes))
	for i, n := range nodes {
		workNodes[i], _ = work.Node(n.ID)
	}

	a := arrange.New(work, opts.Layout)
	switch opts.Mode {
	case ModeGrid:
		a.GridAlign(workNodes)
	case ModeFull:
		if err := a.FullArrange(workNodes, *opts.Start); err != nil {
			return nil, wrapArrangeError(err, len(nodes))
		}
		res.Layers = a.Layers()
	}

	res.Positions = movedNodes(m, work)
	applyPositions(m, res.Positions)
	r.store(ctx, "arrange", key, cachedArrangement{Positions: res.Positions, Layers: res.Layers}, cache.TTLArrange)
	return res, nil
}

// Plan computes the waypoint paths of every station pair and, unless
// opts.DryRun is set, writes the waypoint assignments to m.
func (r *Runner) Plan(ctx context.Context, m *model.Model, opts PlanOptions) (*PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, undeclared := pathplan.FromModel(m)
	for _, name := range undeclared {
		r.Logger.Warn("declared node not found", "name", name)
	}

	hooks := observability.Plan()
	hooks.OnPlanStart(ctx, len(pathplan.Stations(m)))
	start := time.Now()

	key := r.Keyer.PlanKey(TopologyHash(m))
	var p pathplan.Plan
	hit := !opts.Refresh && r.lookup(ctx, "plan", key, &p)
	if !hit {
		p = *b.Plan(m)
		r.store(ctx, "plan", key, &p, cache.TTLPlan)
	}
	res := pathplan.Execute(m, &p, opts.DryRun)
	undrawn := pathplan.Undrawn(m, &p)

	elapsed := time.Since(start)
	hooks.OnPlanComplete(ctx, len(p.Routes), p.Unresolved(), elapsed, nil)
	if !opts.DryRun {
		hooks.OnCommit(ctx, res.Committed)
	}

	for _, line := range res.Log {
		r.Logger.Debug(line, "run", res.ID)
	}
	r.Logger.Info("planned routes",
		"stations", len(p.Stations),
		"routes", len(p.Routes),
		"unresolved", p.Unresolved(),
		"undrawn", len(undrawn),
		"committed", res.Committed,
		"duration", elapsed,
		"cache", hit)

	return &PlanResult{Result: res, Undeclared: undeclared, Undrawn: undrawn, CacheHit: hit, Duration: elapsed}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key into v. Backend and decode failures count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", keyType, "error", err)
	}
	if err != nil || !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store writes v under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// selectNodes resolves ids against m. No ids selects the root surface.
func selectNodes(m *model.Model, ids []int) ([]*model.Node, error) {
	if len(ids) == 0 {
		return append([]*model.Node(nil), m.Root().Nodes...), nil
	}
	nodes := make([]*model.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := m.Node(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "node %d not found", id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func wrapArrangeError(err error, n int) error {
	switch {
	case stderrors.Is(err, arrange.ErrDisconnected):
		return errors.Wrap(errors.ErrCodeDisconnected, err, "cannot arrange %d nodes", n)
	case stderrors.Is(err, arrange.ErrNoSource):
		return errors.Wrap(errors.ErrCodeNoSource, err, "cannot arrange %d nodes", n)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "arrange")
	}
}

// movedNodes lists the nodes whose position differs between before and
// after, in discovery order.
func movedNodes(before, after *model.Model) []Position {
	var out []Position
	for _, n := range after.Nodes() {
		orig, ok := before.Node(n.ID)
		if !ok || (orig.X == n.X && orig.Y == n.Y) {
			continue
		}
		out = append(out, Position{ID: n.ID, X: n.X, Y: n.Y})
	}
	return out
}

func applyPositions(m *model.Model, positions []Position) {
	for _, p := range positions {
		if n, ok := m.Node(p.ID); ok {
			n.X, n.Y = p.X, p.Y
		}
	}
}
