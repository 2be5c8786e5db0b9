package iidm

import "github.com/nerrad567/gridstore-core/internal/registry"

// Generator is a power source connected to one bus.
type Generator struct {
	ID                      string                   `json:"id"`
	EnergySource            EnergySource             `json:"energySource"`
	MinP                    float64                  `json:"minP"`
	MaxP                    float64                  `json:"maxP"`
	VoltageRegulatorOn      bool                     `json:"voltageRegulatorOn"`
	TargetP                 float64                  `json:"targetP"`
	TargetV                 float64                  `json:"targetV"`
	TargetQ                 float64                  `json:"targetQ"`
	Bus                     string                   `json:"bus"`
	ConnectableBus          string                   `json:"connectableBus"`
	ReactiveCapabilityCurve *ReactiveCapabilityCurve `json:"reactiveCapabilityCurve"`
	MinMaxReactiveLimits    *MinMaxReactiveLimits    `json:"minMaxReactiveLimits"`
}

// ReactiveCapabilityCurve bounds reactive power as a function of active power.
type ReactiveCapabilityCurve struct {
	Points []ReactiveCapabilityCurvePoint `json:"points"`
}

// ReactiveCapabilityCurvePoint is one (p, minQ, maxQ) sample of a curve.
type ReactiveCapabilityCurvePoint struct {
	P    float64 `json:"p"`
	MinQ float64 `json:"minQ"`
	MaxQ float64 `json:"maxQ"`
}

// MinMaxReactiveLimits bounds reactive power independently of active power.
type MinMaxReactiveLimits struct {
	MinQ float64 `json:"minQ"`
	MaxQ float64 `json:"maxQ"`
}

// Load is a power consumer connected to one bus.
type Load struct {
	ID               string                `json:"id"`
	LoadType         LoadType              `json:"loadType"`
	P0               float64               `json:"p0"`
	Q0               float64               `json:"q0"`
	Bus              string                `json:"bus"`
	ConnectableBus   string                `json:"connectableBus"`
	ExponentialModel *ExponentialLoadModel `json:"exponentialModel"`
	ZipModel         *ZipLoadModel         `json:"zipModel"`
}

// ExponentialLoadModel makes load power depend on voltage exponentially.
type ExponentialLoadModel struct {
	P0 float64 `json:"p0"`
	Q0 float64 `json:"q0"`
	NP float64 `json:"np"`
	NQ float64 `json:"nq"`
}

// ZipLoadModel splits load power into impedance, current and power parts.
type ZipLoadModel struct {
	P0 float64 `json:"p0"`
	Q0 float64 `json:"q0"`
	ZP float64 `json:"zP"`
	ZQ float64 `json:"zQ"`
	IP float64 `json:"iP"`
	IQ float64 `json:"iQ"`
	PP float64 `json:"pP"`
	PQ float64 `json:"pQ"`
}

// ShuntCompensator is a sectioned shunt capacitor or reactor.
type ShuntCompensator struct {
	ID                  string  `json:"id"`
	BPerSection         float64 `json:"bPerSection"`
	MaximumSectionCount int32   `json:"maximumSectionCount"`
	SectionCount        int32   `json:"sectionCount"`
	Bus                 string  `json:"bus"`
	ConnectableBus      string  `json:"connectableBus"`
}

// StaticVarCompensator is a controllable reactive power source.
type StaticVarCompensator struct {
	ID                    string            `json:"id"`
	BMin                  float64           `json:"bMin"`
	BMax                  float64           `json:"bMax"`
	RegulationMode        SVCRegulationMode `json:"regulationMode"`
	VoltageSetpoint       float64           `json:"voltageSetpoint"`
	ReactivePowerSetpoint float64           `json:"reactivePowerSetpoint"`
	Bus                   string            `json:"bus"`
	ConnectableBus        string            `json:"connectableBus"`
}

// DanglingLine is a line whose far end lies outside the network.
type DanglingLine struct {
	ID             string  `json:"id"`
	P0             float64 `json:"p0"`
	Q0             float64 `json:"q0"`
	R              float64 `json:"r"`
	X              float64 `json:"x"`
	G              float64 `json:"g"`
	B              float64 `json:"b"`
	Bus            string  `json:"bus"`
	ConnectableBus string  `json:"connectableBus"`
}

// RecordKind implements registry.Record.
func (Generator) RecordKind() string { return KindGenerator }

// Identifier implements registry.Identifiable.
func (g Generator) Identifier() string { return g.ID }

// RegisterInto registers the generator.
func (g Generator) RegisterInto(r registry.Registrar) { r.Enqueue(g.ID, g) }

// RecordKind implements registry.Record.
func (ReactiveCapabilityCurve) RecordKind() string { return KindReactiveCapabilityCurve }

// RecordKind implements registry.Record.
func (ReactiveCapabilityCurvePoint) RecordKind() string { return KindReactiveCapabilityCurvePoint }

// RecordKind implements registry.Record.
func (MinMaxReactiveLimits) RecordKind() string { return KindMinMaxReactiveLimits }

// RecordKind implements registry.Record.
func (Load) RecordKind() string { return KindLoad }

// Identifier implements registry.Identifiable.
func (l Load) Identifier() string { return l.ID }

// RegisterInto registers the load.
func (l Load) RegisterInto(r registry.Registrar) { r.Enqueue(l.ID, l) }

// RecordKind implements registry.Record.
func (ExponentialLoadModel) RecordKind() string { return KindExponentialLoadModel }

// RecordKind implements registry.Record.
func (ZipLoadModel) RecordKind() string { return KindZipLoadModel }

// RecordKind implements registry.Record.
func (ShuntCompensator) RecordKind() string { return KindShuntCompensator }

// Identifier implements registry.Identifiable.
func (s ShuntCompensator) Identifier() string { return s.ID }

// RegisterInto registers the shunt compensator.
func (s ShuntCompensator) RegisterInto(r registry.Registrar) { r.Enqueue(s.ID, s) }

// RecordKind implements registry.Record.
func (StaticVarCompensator) RecordKind() string { return KindStaticVarCompensator }

// Identifier implements registry.Identifiable.
func (s StaticVarCompensator) Identifier() string { return s.ID }

// RegisterInto registers the static var compensator.
func (s StaticVarCompensator) RegisterInto(r registry.Registrar) { r.Enqueue(s.ID, s) }

// RecordKind implements registry.Record.
func (DanglingLine) RecordKind() string { return KindDanglingLine }

// Identifier implements registry.Identifiable.
func (d DanglingLine) Identifier() string { return d.ID }

// RegisterInto registers the dangling line.
func (d DanglingLine) RegisterInto(r registry.Registrar) { r.Enqueue(d.ID, d) }
