// Package io reads and writes simulation models as JSON or YAML documents.
//
// # Overview
//
// The document format is the exchange format between stationflow and a
// host editor: it carries the surfaces with their nodes and drawn edges,
// the declared connectivity used for path planning, and the waypoint
// assignments written by a committing plan run.
//
// # Format
//
//	{
//	  "surface": {
//	    "name": "main",
//	    "nodes": [
//	      {"id": 1, "name": "Dock", "kind": "transporter-source", "x": 50, "y": 50, "next": [2]},
//	      {"id": 2, "name": "Gate", "kind": "waypoint", "x": 300, "y": 50, "next": [3]},
//	      {"id": 3, "name": "Store", "kind": "transport-destination", "x": 550, "y": 50}
//	    ],
//	    "surfaces": []
//	  },
//	  "connections": [
//	    {"from": "Dock", "to": ["Gate"]},
//	    {"from": "Gate", "to": ["Store"]}
//	  ]
//	}
//
// YAML documents use the same field names.
//
// # Node Fields
//
// Required:
//   - id: positive integer, unique across all surfaces
//
// Optional:
//   - name: display name; unnamed nodes are ignored by path planning
//   - kind: station (default), decision, transporter-source,
//     transporter-parking, transport-destination, waypoint, vertex
//   - x, y, w, h: position and size in pixels
//   - next: IDs of outgoing edge targets on the same surface
//   - assignments: waypoint assignments ({origin, destination, index})
//
// # Errors
//
// Decoding failures are reported as [errors.ErrCodeInvalidFormat], model
// constraint violations (duplicate IDs, cross-surface edges, unknown kinds)
// as [errors.ErrCodeInvalidModel].
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/stationflow/pkg/errors
// [errors.ErrCodeInvalidModel]: github.com/matzehuels/stationflow/pkg/errors
package io
