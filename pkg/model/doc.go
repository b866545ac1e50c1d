// Package model provides the read-only graph view over a simulation model
// that the arrangement and path planning algorithms operate on.
//
// # Overview
//
// A simulation model is a diagram of stations (service points, transporter
// sources and parkings, decision nodes) connected by directed edges. The
// diagram is organized into surfaces: the main surface and any number of
// nested sub-diagrams. Nodes on different surfaces are never connected;
// [Model.AddEdge] enforces this.
//
// # Basic Usage
//
//	m := model.New()
//	m.AddNode(m.Root(), model.Node{ID: 1, Name: "S1", Kind: model.KindSource})
//	m.AddNode(m.Root(), model.Node{ID: 2, Name: "W1", Kind: model.KindWaypoint})
//	m.AddEdge(1, 2)
//
// # Node Kinds
//
// Two kinds are transit-only:
//
//   - [KindVertex]: a bend point of a drawn connection. The arranger treats
//     vertices as transparent and always moves them with the station that
//     leads to them.
//   - [KindWaypoint]: a routing node. The path planner records, on each
//     waypoint, which origin/destination pairs travel through it.
//
// # Declared Connectivity
//
// Besides the drawn edges, a model carries a name-keyed list of declared
// next hops ([Declaration]) that the path planner routes over. It is
// curated by the user and is independent of the drawn edges.
//
// # Concurrency
//
// Model instances are not safe for concurrent use. Use [Model.Clone] to give
// each goroutine its own copy.
package model
