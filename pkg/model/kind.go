package model

import "fmt"

// Kind classifies a node.
type Kind int

const (
	// KindStation is a generic processing station.
	KindStation Kind = iota
	// KindDecision routes entities to one of several successors.
	KindDecision
	// KindSource is a transporter source.
	KindSource
	// KindParking is a transporter parking area.
	KindParking
	// KindDestination is a transport destination.
	KindDestination
	// KindWaypoint is a transit-only routing node.
	KindWaypoint
	// KindVertex is a bend point of a drawn connection.
	KindVertex
)

var kindNames = [...]string{
	KindStation:     "station",
	KindDecision:    "decision",
	KindSource:      "transporter-source",
	KindParking:     "transporter-parking",
	KindDestination: "transport-destination",
	KindWaypoint:    "waypoint",
	KindVertex:      "vertex",
}

// String returns the kind's name as used in model files.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the kind with the given name. The empty string parses
// as [KindStation].
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindStation, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindStation, fmt.Errorf("unknown node kind %q", s)
}

func (k Kind) routable() bool {
	switch k {
	case KindSource, KindParking, KindDestination, KindWaypoint:
		return true
	}
	return false
}
