// Package pathplan plans transporter routes through waypoints.
//
// Routes follow declared connectivity: per origin node, the list of nodes
// that may come next. The declarations are curated by the user and are
// independent of the drawn edges of the diagram. For every ordered pair of
// stations, [Builder.Plan] searches a route depth first and records the
// waypoints on it. [Commit] writes those as [model.Assignment] records onto
// the waypoint nodes, numbered by their position among the route's
// waypoints.
//
// # Stations
//
// Stations are the named transporter sources, parkings, destinations and
// waypoints found by walking the main surface and its sub-surfaces. Names
// identify stations; the first node with a name wins. Routes are planned
// only between stations that are not waypoints.
//
// # Search Order
//
// The search returns the first route found, not the shortest. Declaration
// order decides which next hop is tried first, so users control routing by
// the order of their declarations. Each node is expanded at most once per
// search, which bounds the work and guarantees termination on declared
// cycles.
//
// # Dry Runs
//
// [Builder.RunInfo] and [Builder.Run] share the same [Plan]; only Run
// commits it. Both return a [Result] carrying the log.
package pathplan
