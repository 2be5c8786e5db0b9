package iidm

import (
	"time"

	"github.com/nerrad567/gridstore-core/internal/registry"
)

// Network is the root of an IIDM document.
type Network struct {
	Version                string    `json:"version"`
	ID                     string    `json:"id"`
	CaseDate               time.Time `json:"caseDate"`
	ForecastDistance       int32     `json:"forecastDistance"`
	SourceFormat           string    `json:"sourceFormat"`
	MinimumValidationLevel string    `json:"minimumValidationLevel"`

	Substations               []Substation               `json:"substations,omitempty"`
	Lines                     []Line                     `json:"lines,omitempty"`
	ThreeWindingsTransformers []ThreeWindingsTransformer `json:"threeWindingsTransformers,omitempty"`
	Switches                  []Switch                   `json:"switches,omitempty"`
	ShuntCompensators         []ShuntCompensator         `json:"shuntCompensators,omitempty"`
	StaticVarCompensators     []StaticVarCompensator     `json:"staticVarCompensators,omitempty"`
	DanglingLines             []DanglingLine             `json:"danglingLines,omitempty"`
	TieLines                  []TieLine                  `json:"tieLines,omitempty"`
	HvdcLines                 []HvdcLine                 `json:"hvdcLines,omitempty"`
}

// Substation groups voltage levels at one site.
type Substation struct {
	ID                      string                   `json:"id"`
	Country                 string                   `json:"country"`
	TSO                     string                   `json:"tso"`
	GeographicalTags        []string                 `json:"geographicalTags"`
	VoltageLevels           []VoltageLevel           `json:"voltageLevels"`
	TwoWindingsTransformers []TwoWindingsTransformer `json:"twoWindingsTransformers"`
}

// VoltageLevel is a set of equipment at one nominal voltage.
type VoltageLevel struct {
	ID                  string               `json:"id"`
	NominalV            float64              `json:"nominalV"`
	TopologyKind        TopologyKind         `json:"topologyKind"`
	Generators          []Generator          `json:"generators,omitempty"`
	Loads               []Load               `json:"loads,omitempty"`
	BusbarSections      []BusbarSection      `json:"busbarSections,omitempty"`
	NodeBreakerTopology *NodeBreakerTopology `json:"nodeBreakerTopology"`
	BusBreakerTopology  *BusBreakerTopology  `json:"busBreakerTopology"`
}

// BusBreakerTopology describes a voltage level by buses and the switches between them.
type BusBreakerTopology struct {
	Buses    []Bus    `json:"buses,omitempty"`
	Switches []Switch `json:"switches,omitempty"`
}

// NodeBreakerTopology describes a voltage level by numbered nodes.
type NodeBreakerTopology struct {
	Nodes               []Node               `json:"nodes"`
	Switches            []Switch             `json:"switches"`
	InternalConnections []InternalConnection `json:"internalConnections"`
}

// Node is a connection point in a node-breaker topology.
type Node struct {
	ID int32 `json:"id"`
}

// InternalConnection joins two nodes without a switch.
type InternalConnection struct {
	Node1 int32 `json:"node1"`
	Node2 int32 `json:"node2"`
}

// Bus is a configured bus of a bus-breaker topology.
type Bus struct {
	ID string `json:"id"`
}

// BusbarSection is a busbar in a node-breaker topology.
type BusbarSection struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Bus            string `json:"bus"`
	ConnectableBus string `json:"connectableBus"`
}

// Switch is a breaker, disconnector or load break switch.
type Switch struct {
	ID             string     `json:"id"`
	Kind           SwitchKind `json:"kind"`
	Open           bool       `json:"open"`
	Retained       bool       `json:"retained"`
	Bus1           string     `json:"bus1"`
	Bus2           string     `json:"bus2"`
	VoltageLevelID string     `json:"voltageLevelId"`
}

// RecordKind implements registry.Record.
func (Network) RecordKind() string { return KindNetwork }

// Identifier implements registry.Identifiable.
func (n Network) Identifier() string { return n.ID }

// RegisterInto registers the network and everything it contains.
func (n Network) RegisterInto(r registry.Registrar) {
	r.Enqueue(n.ID, n)
	registerAll(r, n.Substations)
	registerAll(r, n.Lines)
	registerAll(r, n.ThreeWindingsTransformers)
	registerAll(r, n.Switches)
	registerAll(r, n.ShuntCompensators)
	registerAll(r, n.StaticVarCompensators)
	registerAll(r, n.DanglingLines)
	registerAll(r, n.TieLines)
	registerAll(r, n.HvdcLines)
}

// RecordKind implements registry.Record.
func (Substation) RecordKind() string { return KindSubstation }

// Identifier implements registry.Identifiable.
func (s Substation) Identifier() string { return s.ID }

// RegisterInto registers the substation, its voltage levels and its transformers.
func (s Substation) RegisterInto(r registry.Registrar) {
	r.Enqueue(s.ID, s)
	registerAll(r, s.VoltageLevels)
	registerAll(r, s.TwoWindingsTransformers)
}

// RecordKind implements registry.Record.
func (VoltageLevel) RecordKind() string { return KindVoltageLevel }

// Identifier implements registry.Identifiable.
func (v VoltageLevel) Identifier() string { return v.ID }

// RegisterInto registers the voltage level, its injections and its topology equipment.
func (v VoltageLevel) RegisterInto(r registry.Registrar) {
	r.Enqueue(v.ID, v)
	registerAll(r, v.Generators)
	registerAll(r, v.Loads)
	registerAll(r, v.BusbarSections)
	if t := v.BusBreakerTopology; t != nil {
		registerAll(r, t.Buses)
		registerAll(r, t.Switches)
	}
	if t := v.NodeBreakerTopology; t != nil {
		registerAll(r, t.Switches)
	}
}

// RecordKind implements registry.Record.
func (BusBreakerTopology) RecordKind() string { return KindBusBreakerTopology }

// RecordKind implements registry.Record.
func (NodeBreakerTopology) RecordKind() string { return KindNodeBreakerTopology }

// RecordKind implements registry.Record.
func (Node) RecordKind() string { return KindNode }

// RecordKind implements registry.Record.
func (InternalConnection) RecordKind() string { return KindInternalConnection }

// RecordKind implements registry.Record.
func (Bus) RecordKind() string { return KindBus }

// Identifier implements registry.Identifiable.
func (b Bus) Identifier() string { return b.ID }

// RegisterInto registers the bus.
func (b Bus) RegisterInto(r registry.Registrar) { r.Enqueue(b.ID, b) }

// RecordKind implements registry.Record.
func (BusbarSection) RecordKind() string { return KindBusbarSection }

// Identifier implements registry.Identifiable.
func (b BusbarSection) Identifier() string { return b.ID }

// RegisterInto registers the busbar section.
func (b BusbarSection) RegisterInto(r registry.Registrar) { r.Enqueue(b.ID, b) }

// RecordKind implements registry.Record.
func (Switch) RecordKind() string { return KindSwitch }

// Identifier implements registry.Identifiable.
func (s Switch) Identifier() string { return s.ID }

// RegisterInto registers the switch.
func (s Switch) RegisterInto(r registry.Registrar) { r.Enqueue(s.ID, s) }

// registerAll walks every element of a slice of identifiable records in order.
func registerAll[E registry.Identifiable](r registry.Registrar, items []E) {
	for _, item := range items {
		item.RegisterInto(r)
	}
}
