// Package model contains the in-memory representation of a simulation
// scenario: the scheduling algorithm, the declared synchronization objects and
// the timeline of process arrivals with their in-process events.
//
// A scenario is typically loaded from a YAML or JSON document by the
// service/dao/scenario package and validated with Scenario.Validate before a
// simulation starts.
package model
