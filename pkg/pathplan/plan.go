package pathplan

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/reach"
)

// Route is the planned path between two stations.
type Route struct {
	Origin      int   `json:"origin"`
	Destination int   `json:"destination"`
	Path        []int `json:"path"`
	Found       bool  `json:"found"`
}

// Plan is the outcome of planning all station pairs. It holds node IDs
// only, so it can be cached and committed to any model with the same IDs.
type Plan struct {
	Stations []int   `json:"stations"`
	Routes   []Route `json:"routes"`
}

// Unresolved returns the number of routes without a declared path.
func (p *Plan) Unresolved() int {
	count := 0
	for _, r := range p.Routes {
		if !r.Found {
			count++
		}
	}
	return count
}

// Result is the outcome of [Builder.Run] or [Builder.RunInfo].
type Result struct {
	ID        string   `json:"id"`        // unique per run, for correlating logs
	Plan      *Plan    `json:"plan"`      // routes that were planned
	Log       []string `json:"log"`       // human-readable planning log
	Committed int      `json:"committed"` // assignments written; zero for dry runs
	DryRun    bool     `json:"dry_run"`
}

// Stations collects the routable nodes of m in discovery order, keeping
// the first node of each name.
func Stations(m *model.Model) []*model.Node {
	seen := make(map[string]bool)
	var out []*model.Node
	for _, n := range m.Nodes() {
		if !n.Routable() || seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		out = append(out, n)
	}
	return out
}

// Plan routes every ordered pair of distinct non-waypoint stations of m.
// It does not modify m.
func (b *Builder) Plan(m *model.Model) *Plan {
	adj := b.adjacency()
	stations := Stations(m)

	p := &Plan{Stations: model.NodeIDs(stations)}
	for _, origin := range stations {
		if origin.IsWaypoint() {
			continue
		}
		for _, dest := range stations {
			if dest == origin || dest.IsWaypoint() {
				continue
			}
			path, found := findPath(adj, origin.ID, dest.ID)
			p.Routes = append(p.Routes, Route{
				Origin:      origin.ID,
				Destination: dest.ID,
				Path:        path,
				Found:       found,
			})
		}
	}
	return p
}

// Undrawn returns the unresolved routes of p whose origin and destination
// are not linked by drawn connections in m, ignoring direction. Such a
// route cannot be fixed by declarations alone.
func Undrawn(m *model.Model, p *Plan) []Route {
	g := reach.NewSubset(m.Nodes())
	var out []Route
	for _, r := range p.Routes {
		if !r.Found && !g.Reachable(r.Origin, r.Destination) {
			out = append(out, r)
		}
	}
	return out
}

// Run plans all routes, commits them to m and returns the result.
func (b *Builder) Run(m *model.Model) *Result { return Execute(m, b.Plan(m), false) }

// RunInfo plans all routes without touching m.
func (b *Builder) RunInfo(m *model.Model) *Result { return Execute(m, b.Plan(m), true) }

// Execute turns a computed plan into a result. Unless dryRun is set, the
// plan is committed to m and the log ends with the number of assignments
// written.
func Execute(m *model.Model, p *Plan, dryRun bool) *Result {
	res := &Result{ID: uuid.NewString(), Plan: p, DryRun: dryRun}
	res.Log = FormatLog(m, p)
	if !dryRun {
		res.Committed = Commit(m, p)
		res.Log = append(res.Log, fmt.Sprintf("committed %d waypoint assignments", res.Committed))
	}
	return res
}

// Commit clears the assignments of every waypoint in m and writes the
// waypoints of each found route. It returns the number of assignments
// written. Route nodes missing from m are skipped.
func Commit(m *model.Model, p *Plan) int {
	for _, n := range m.Nodes() {
		if n.IsWaypoint() {
			n.Assignments = nil
		}
	}

	written := 0
	for _, r := range p.Routes {
		if !r.Found {
			continue
		}
		origin, ok1 := m.Node(r.Origin)
		dest, ok2 := m.Node(r.Destination)
		if !ok1 || !ok2 {
			continue
		}
		index := 0
		for _, id := range r.Path {
			n, ok := m.Node(id)
			if !ok || !n.IsWaypoint() {
				continue
			}
			index++
			n.Assignments = append(n.Assignments, model.Assignment{
				Origin:      origin.Name,
				Destination: dest.Name,
				Index:       index,
			})
			written++
		}
	}
	return written
}

// FormatLog renders p as log lines, one "origin (id) -> destination (id)"
// header per route followed by its waypoints.
func FormatLog(m *model.Model, p *Plan) []string {
	label := func(id int) string {
		if n, ok := m.Node(id); ok {
			return n.Label()
		}
		return fmt.Sprintf("? (%d)", id)
	}

	lines := []string{fmt.Sprintf("planning %d stations, %d routes", len(p.Stations), len(p.Routes))}
	for _, r := range p.Routes {
		lines = append(lines, label(r.Origin)+" -> "+label(r.Destination))
		if !r.Found {
			lines = append(lines, "  no path found")
			continue
		}
		index := 0
		for _, id := range r.Path {
			if n, ok := m.Node(id); ok && n.IsWaypoint() {
				index++
				lines = append(lines, fmt.Sprintf("  via %s #%d", n.Label(), index))
			}
		}
		if index == 0 {
			lines = append(lines, "  direct")
		}
	}
	lines = append(lines, fmt.Sprintf("%d routes found, %d without path", len(p.Routes)-p.Unresolved(), p.Unresolved()))
	return lines
}
