package iidm

import (
	"time"

	"github.com/nerrad567/gridstore-core/internal/patch"
)

// Every kind has a patch type: the record's fields minus its identifier, each
// wrapped in patch.Value, or in patch.Nullable when the record field may be
// empty. Nested identifiable values inside a patch replace the parent's copy
// only; the nested records keep their own slots.

// NetworkPatch is the sparse update of a Network.
type NetworkPatch struct {
	Version                   patch.Value[string]                     `json:"version,omitzero"`
	CaseDate                  patch.Value[time.Time]                  `json:"caseDate,omitzero"`
	ForecastDistance          patch.Value[int32]                      `json:"forecastDistance,omitzero"`
	SourceFormat              patch.Value[string]                     `json:"sourceFormat,omitzero"`
	MinimumValidationLevel    patch.Value[string]                     `json:"minimumValidationLevel,omitzero"`
	Substations               patch.Value[[]Substation]               `json:"substations,omitzero"`
	Lines                     patch.Value[[]Line]                     `json:"lines,omitzero"`
	ThreeWindingsTransformers patch.Value[[]ThreeWindingsTransformer] `json:"threeWindingsTransformers,omitzero"`
	Switches                  patch.Value[[]Switch]                   `json:"switches,omitzero"`
	ShuntCompensators         patch.Value[[]ShuntCompensator]         `json:"shuntCompensators,omitzero"`
	StaticVarCompensators     patch.Value[[]StaticVarCompensator]     `json:"staticVarCompensators,omitzero"`
	DanglingLines             patch.Value[[]DanglingLine]             `json:"danglingLines,omitzero"`
	TieLines                  patch.Value[[]TieLine]                  `json:"tieLines,omitzero"`
	HvdcLines                 patch.Value[[]HvdcLine]                 `json:"hvdcLines,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (n *Network) ApplyPatch(p NetworkPatch) {
	p.Version.ApplyTo(&n.Version)
	p.CaseDate.ApplyTo(&n.CaseDate)
	p.ForecastDistance.ApplyTo(&n.ForecastDistance)
	p.SourceFormat.ApplyTo(&n.SourceFormat)
	p.MinimumValidationLevel.ApplyTo(&n.MinimumValidationLevel)
	p.Substations.ApplyTo(&n.Substations)
	p.Lines.ApplyTo(&n.Lines)
	p.ThreeWindingsTransformers.ApplyTo(&n.ThreeWindingsTransformers)
	p.Switches.ApplyTo(&n.Switches)
	p.ShuntCompensators.ApplyTo(&n.ShuntCompensators)
	p.StaticVarCompensators.ApplyTo(&n.StaticVarCompensators)
	p.DanglingLines.ApplyTo(&n.DanglingLines)
	p.TieLines.ApplyTo(&n.TieLines)
	p.HvdcLines.ApplyTo(&n.HvdcLines)
}

// SubstationPatch is the sparse update of a Substation.
type SubstationPatch struct {
	Country                 patch.Value[string]                   `json:"country,omitzero"`
	TSO                     patch.Value[string]                   `json:"tso,omitzero"`
	GeographicalTags        patch.Value[[]string]                 `json:"geographicalTags,omitzero"`
	VoltageLevels           patch.Value[[]VoltageLevel]           `json:"voltageLevels,omitzero"`
	TwoWindingsTransformers patch.Value[[]TwoWindingsTransformer] `json:"twoWindingsTransformers,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *Substation) ApplyPatch(p SubstationPatch) {
	p.Country.ApplyTo(&s.Country)
	p.TSO.ApplyTo(&s.TSO)
	p.GeographicalTags.ApplyTo(&s.GeographicalTags)
	p.VoltageLevels.ApplyTo(&s.VoltageLevels)
	p.TwoWindingsTransformers.ApplyTo(&s.TwoWindingsTransformers)
}

// VoltageLevelPatch is the sparse update of a VoltageLevel.
type VoltageLevelPatch struct {
	NominalV            patch.Value[float64]                `json:"nominalV,omitzero"`
	TopologyKind        patch.Value[TopologyKind]           `json:"topologyKind,omitzero"`
	Generators          patch.Nullable[[]Generator]         `json:"generators,omitzero"`
	Loads               patch.Nullable[[]Load]              `json:"loads,omitzero"`
	BusbarSections      patch.Nullable[[]BusbarSection]     `json:"busbarSections,omitzero"`
	NodeBreakerTopology patch.Nullable[NodeBreakerTopology] `json:"nodeBreakerTopology,omitzero"`
	BusBreakerTopology  patch.Nullable[BusBreakerTopology]  `json:"busBreakerTopology,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (v *VoltageLevel) ApplyPatch(p VoltageLevelPatch) {
	p.NominalV.ApplyTo(&v.NominalV)
	p.TopologyKind.ApplyTo(&v.TopologyKind)
	patch.ApplySlice(p.Generators, &v.Generators)
	patch.ApplySlice(p.Loads, &v.Loads)
	patch.ApplySlice(p.BusbarSections, &v.BusbarSections)
	p.NodeBreakerTopology.ApplyTo(&v.NodeBreakerTopology)
	p.BusBreakerTopology.ApplyTo(&v.BusBreakerTopology)
}

// BusBreakerTopologyPatch is the sparse update of a BusBreakerTopology.
type BusBreakerTopologyPatch struct {
	Buses    patch.Value[[]Bus]    `json:"buses,omitzero"`
	Switches patch.Value[[]Switch] `json:"switches,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *BusBreakerTopology) ApplyPatch(p BusBreakerTopologyPatch) {
	p.Buses.ApplyTo(&t.Buses)
	p.Switches.ApplyTo(&t.Switches)
}

// NodeBreakerTopologyPatch is the sparse update of a NodeBreakerTopology.
type NodeBreakerTopologyPatch struct {
	Nodes               patch.Value[[]Node]               `json:"nodes,omitzero"`
	Switches            patch.Value[[]Switch]             `json:"switches,omitzero"`
	InternalConnections patch.Value[[]InternalConnection] `json:"internalConnections,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *NodeBreakerTopology) ApplyPatch(p NodeBreakerTopologyPatch) {
	p.Nodes.ApplyTo(&t.Nodes)
	p.Switches.ApplyTo(&t.Switches)
	p.InternalConnections.ApplyTo(&t.InternalConnections)
}

// NodePatch is the sparse update of a Node. A node's only field is its
// number, which is its identity, so the patch has no fields.
type NodePatch struct{}

// ApplyPatch implements registry.Patchable.
func (*Node) ApplyPatch(NodePatch) {}

// InternalConnectionPatch is the sparse update of an InternalConnection.
type InternalConnectionPatch struct {
	Node1 patch.Value[int32] `json:"node1,omitzero"`
	Node2 patch.Value[int32] `json:"node2,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *InternalConnection) ApplyPatch(p InternalConnectionPatch) {
	p.Node1.ApplyTo(&c.Node1)
	p.Node2.ApplyTo(&c.Node2)
}

// BusPatch is the sparse update of a Bus. It has no fields besides the identifier.
type BusPatch struct{}

// ApplyPatch implements registry.Patchable.
func (*Bus) ApplyPatch(BusPatch) {}

// BusbarSectionPatch is the sparse update of a BusbarSection.
type BusbarSectionPatch struct {
	Name           patch.Value[string] `json:"name,omitzero"`
	Bus            patch.Value[string] `json:"bus,omitzero"`
	ConnectableBus patch.Value[string] `json:"connectableBus,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (b *BusbarSection) ApplyPatch(p BusbarSectionPatch) {
	p.Name.ApplyTo(&b.Name)
	p.Bus.ApplyTo(&b.Bus)
	p.ConnectableBus.ApplyTo(&b.ConnectableBus)
}

// SwitchPatch is the sparse update of a Switch.
type SwitchPatch struct {
	Kind           patch.Value[SwitchKind] `json:"kind,omitzero"`
	Open           patch.Value[bool]       `json:"open,omitzero"`
	Retained       patch.Value[bool]       `json:"retained,omitzero"`
	Bus1           patch.Value[string]     `json:"bus1,omitzero"`
	Bus2           patch.Value[string]     `json:"bus2,omitzero"`
	VoltageLevelID patch.Value[string]     `json:"voltageLevelId,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *Switch) ApplyPatch(p SwitchPatch) {
	p.Kind.ApplyTo(&s.Kind)
	p.Open.ApplyTo(&s.Open)
	p.Retained.ApplyTo(&s.Retained)
	p.Bus1.ApplyTo(&s.Bus1)
	p.Bus2.ApplyTo(&s.Bus2)
	p.VoltageLevelID.ApplyTo(&s.VoltageLevelID)
}

// GeneratorPatch is the sparse update of a Generator.
type GeneratorPatch struct {
	EnergySource            patch.Value[EnergySource]               `json:"energySource,omitzero"`
	MinP                    patch.Value[float64]                    `json:"minP,omitzero"`
	MaxP                    patch.Value[float64]                    `json:"maxP,omitzero"`
	VoltageRegulatorOn      patch.Value[bool]                       `json:"voltageRegulatorOn,omitzero"`
	TargetP                 patch.Value[float64]                    `json:"targetP,omitzero"`
	TargetV                 patch.Value[float64]                    `json:"targetV,omitzero"`
	TargetQ                 patch.Value[float64]                    `json:"targetQ,omitzero"`
	Bus                     patch.Value[string]                     `json:"bus,omitzero"`
	ConnectableBus          patch.Value[string]                     `json:"connectableBus,omitzero"`
	ReactiveCapabilityCurve patch.Nullable[ReactiveCapabilityCurve] `json:"reactiveCapabilityCurve,omitzero"`
	MinMaxReactiveLimits    patch.Nullable[MinMaxReactiveLimits]    `json:"minMaxReactiveLimits,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (g *Generator) ApplyPatch(p GeneratorPatch) {
	p.EnergySource.ApplyTo(&g.EnergySource)
	p.MinP.ApplyTo(&g.MinP)
	p.MaxP.ApplyTo(&g.MaxP)
	p.VoltageRegulatorOn.ApplyTo(&g.VoltageRegulatorOn)
	p.TargetP.ApplyTo(&g.TargetP)
	p.TargetV.ApplyTo(&g.TargetV)
	p.TargetQ.ApplyTo(&g.TargetQ)
	p.Bus.ApplyTo(&g.Bus)
	p.ConnectableBus.ApplyTo(&g.ConnectableBus)
	p.ReactiveCapabilityCurve.ApplyTo(&g.ReactiveCapabilityCurve)
	p.MinMaxReactiveLimits.ApplyTo(&g.MinMaxReactiveLimits)
}

// ReactiveCapabilityCurvePatch is the sparse update of a ReactiveCapabilityCurve.
type ReactiveCapabilityCurvePatch struct {
	Points patch.Value[[]ReactiveCapabilityCurvePoint] `json:"points,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *ReactiveCapabilityCurve) ApplyPatch(p ReactiveCapabilityCurvePatch) {
	p.Points.ApplyTo(&c.Points)
}

// ReactiveCapabilityCurvePointPatch is the sparse update of a ReactiveCapabilityCurvePoint.
type ReactiveCapabilityCurvePointPatch struct {
	P    patch.Value[float64] `json:"p,omitzero"`
	MinQ patch.Value[float64] `json:"minQ,omitzero"`
	MaxQ patch.Value[float64] `json:"maxQ,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *ReactiveCapabilityCurvePoint) ApplyPatch(p ReactiveCapabilityCurvePointPatch) {
	p.P.ApplyTo(&c.P)
	p.MinQ.ApplyTo(&c.MinQ)
	p.MaxQ.ApplyTo(&c.MaxQ)
}

// MinMaxReactiveLimitsPatch is the sparse update of MinMaxReactiveLimits.
type MinMaxReactiveLimitsPatch struct {
	MinQ patch.Value[float64] `json:"minQ,omitzero"`
	MaxQ patch.Value[float64] `json:"maxQ,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (l *MinMaxReactiveLimits) ApplyPatch(p MinMaxReactiveLimitsPatch) {
	p.MinQ.ApplyTo(&l.MinQ)
	p.MaxQ.ApplyTo(&l.MaxQ)
}

// LoadPatch is the sparse update of a Load.
type LoadPatch struct {
	LoadType         patch.Value[LoadType]                `json:"loadType,omitzero"`
	P0               patch.Value[float64]                 `json:"p0,omitzero"`
	Q0               patch.Value[float64]                 `json:"q0,omitzero"`
	Bus              patch.Value[string]                  `json:"bus,omitzero"`
	ConnectableBus   patch.Value[string]                  `json:"connectableBus,omitzero"`
	ExponentialModel patch.Nullable[ExponentialLoadModel] `json:"exponentialModel,omitzero"`
	ZipModel         patch.Nullable[ZipLoadModel]         `json:"zipModel,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (l *Load) ApplyPatch(p LoadPatch) {
	p.LoadType.ApplyTo(&l.LoadType)
	p.P0.ApplyTo(&l.P0)
	p.Q0.ApplyTo(&l.Q0)
	p.Bus.ApplyTo(&l.Bus)
	p.ConnectableBus.ApplyTo(&l.ConnectableBus)
	p.ExponentialModel.ApplyTo(&l.ExponentialModel)
	p.ZipModel.ApplyTo(&l.ZipModel)
}

// ExponentialLoadModelPatch is the sparse update of an ExponentialLoadModel.
type ExponentialLoadModelPatch struct {
	P0 patch.Value[float64] `json:"p0,omitzero"`
	Q0 patch.Value[float64] `json:"q0,omitzero"`
	NP patch.Value[float64] `json:"np,omitzero"`
	NQ patch.Value[float64] `json:"nq,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (m *ExponentialLoadModel) ApplyPatch(p ExponentialLoadModelPatch) {
	p.P0.ApplyTo(&m.P0)
	p.Q0.ApplyTo(&m.Q0)
	p.NP.ApplyTo(&m.NP)
	p.NQ.ApplyTo(&m.NQ)
}

// ZipLoadModelPatch is the sparse update of a ZipLoadModel.
type ZipLoadModelPatch struct {
	P0 patch.Value[float64] `json:"p0,omitzero"`
	Q0 patch.Value[float64] `json:"q0,omitzero"`
	ZP patch.Value[float64] `json:"zP,omitzero"`
	ZQ patch.Value[float64] `json:"zQ,omitzero"`
	IP patch.Value[float64] `json:"iP,omitzero"`
	IQ patch.Value[float64] `json:"iQ,omitzero"`
	PP patch.Value[float64] `json:"pP,omitzero"`
	PQ patch.Value[float64] `json:"pQ,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (m *ZipLoadModel) ApplyPatch(p ZipLoadModelPatch) {
	p.P0.ApplyTo(&m.P0)
	p.Q0.ApplyTo(&m.Q0)
	p.ZP.ApplyTo(&m.ZP)
	p.ZQ.ApplyTo(&m.ZQ)
	p.IP.ApplyTo(&m.IP)
	p.IQ.ApplyTo(&m.IQ)
	p.PP.ApplyTo(&m.PP)
	p.PQ.ApplyTo(&m.PQ)
}

// ShuntCompensatorPatch is the sparse update of a ShuntCompensator.
type ShuntCompensatorPatch struct {
	BPerSection         patch.Value[float64] `json:"bPerSection,omitzero"`
	MaximumSectionCount patch.Value[int32]   `json:"maximumSectionCount,omitzero"`
	SectionCount        patch.Value[int32]   `json:"sectionCount,omitzero"`
	Bus                 patch.Value[string]  `json:"bus,omitzero"`
	ConnectableBus      patch.Value[string]  `json:"connectableBus,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *ShuntCompensator) ApplyPatch(p ShuntCompensatorPatch) {
	p.BPerSection.ApplyTo(&s.BPerSection)
	p.MaximumSectionCount.ApplyTo(&s.MaximumSectionCount)
	p.SectionCount.ApplyTo(&s.SectionCount)
	p.Bus.ApplyTo(&s.Bus)
	p.ConnectableBus.ApplyTo(&s.ConnectableBus)
}

// StaticVarCompensatorPatch is the sparse update of a StaticVarCompensator.
type StaticVarCompensatorPatch struct {
	BMin                  patch.Value[float64]           `json:"bMin,omitzero"`
	BMax                  patch.Value[float64]           `json:"bMax,omitzero"`
	RegulationMode        patch.Value[SVCRegulationMode] `json:"regulationMode,omitzero"`
	VoltageSetpoint       patch.Value[float64]           `json:"voltageSetpoint,omitzero"`
	ReactivePowerSetpoint patch.Value[float64]           `json:"reactivePowerSetpoint,omitzero"`
	Bus                   patch.Value[string]            `json:"bus,omitzero"`
	ConnectableBus        patch.Value[string]            `json:"connectableBus,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *StaticVarCompensator) ApplyPatch(p StaticVarCompensatorPatch) {
	p.BMin.ApplyTo(&s.BMin)
	p.BMax.ApplyTo(&s.BMax)
	p.RegulationMode.ApplyTo(&s.RegulationMode)
	p.VoltageSetpoint.ApplyTo(&s.VoltageSetpoint)
	p.ReactivePowerSetpoint.ApplyTo(&s.ReactivePowerSetpoint)
	p.Bus.ApplyTo(&s.Bus)
	p.ConnectableBus.ApplyTo(&s.ConnectableBus)
}

// DanglingLinePatch is the sparse update of a DanglingLine.
type DanglingLinePatch struct {
	P0             patch.Value[float64] `json:"p0,omitzero"`
	Q0             patch.Value[float64] `json:"q0,omitzero"`
	R              patch.Value[float64] `json:"r,omitzero"`
	X              patch.Value[float64] `json:"x,omitzero"`
	G              patch.Value[float64] `json:"g,omitzero"`
	B              patch.Value[float64] `json:"b,omitzero"`
	Bus            patch.Value[string]  `json:"bus,omitzero"`
	ConnectableBus patch.Value[string]  `json:"connectableBus,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (d *DanglingLine) ApplyPatch(p DanglingLinePatch) {
	p.P0.ApplyTo(&d.P0)
	p.Q0.ApplyTo(&d.Q0)
	p.R.ApplyTo(&d.R)
	p.X.ApplyTo(&d.X)
	p.G.ApplyTo(&d.G)
	p.B.ApplyTo(&d.B)
	p.Bus.ApplyTo(&d.Bus)
	p.ConnectableBus.ApplyTo(&d.ConnectableBus)
}

// LinePatch is the sparse update of a Line.
type LinePatch struct {
	R               patch.Value[float64]          `json:"r,omitzero"`
	X               patch.Value[float64]          `json:"x,omitzero"`
	B1              patch.Value[float64]          `json:"b1,omitzero"`
	B2              patch.Value[float64]          `json:"b2,omitzero"`
	G1              patch.Value[float64]          `json:"g1,omitzero"`
	G2              patch.Value[float64]          `json:"g2,omitzero"`
	VoltageLevelID1 patch.Value[string]           `json:"voltageLevelId1,omitzero"`
	Bus1            patch.Value[string]           `json:"bus1,omitzero"`
	ConnectableBus1 patch.Value[string]           `json:"connectableBus1,omitzero"`
	VoltageLevelID2 patch.Value[string]           `json:"voltageLevelId2,omitzero"`
	Bus2            patch.Value[string]           `json:"bus2,omitzero"`
	ConnectableBus2 patch.Value[string]           `json:"connectableBus2,omitzero"`
	CurrentLimits1  patch.Nullable[CurrentLimits] `json:"currentLimits1,omitzero"`
	CurrentLimits2  patch.Nullable[CurrentLimits] `json:"currentLimits2,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (l *Line) ApplyPatch(p LinePatch) {
	p.R.ApplyTo(&l.R)
	p.X.ApplyTo(&l.X)
	p.B1.ApplyTo(&l.B1)
	p.B2.ApplyTo(&l.B2)
	p.G1.ApplyTo(&l.G1)
	p.G2.ApplyTo(&l.G2)
	p.VoltageLevelID1.ApplyTo(&l.VoltageLevelID1)
	p.Bus1.ApplyTo(&l.Bus1)
	p.ConnectableBus1.ApplyTo(&l.ConnectableBus1)
	p.VoltageLevelID2.ApplyTo(&l.VoltageLevelID2)
	p.Bus2.ApplyTo(&l.Bus2)
	p.ConnectableBus2.ApplyTo(&l.ConnectableBus2)
	p.CurrentLimits1.ApplyTo(&l.CurrentLimits1)
	p.CurrentLimits2.ApplyTo(&l.CurrentLimits2)
}

// TwoWindingsTransformerPatch is the sparse update of a TwoWindingsTransformer.
type TwoWindingsTransformerPatch struct {
	R               patch.Value[float64]            `json:"r,omitzero"`
	X               patch.Value[float64]            `json:"x,omitzero"`
	G               patch.Value[float64]            `json:"g,omitzero"`
	B               patch.Value[float64]            `json:"b,omitzero"`
	RatedU1         patch.Value[float64]            `json:"ratedU1,omitzero"`
	RatedU2         patch.Value[float64]            `json:"ratedU2,omitzero"`
	VoltageLevelID1 patch.Value[string]             `json:"voltageLevelId1,omitzero"`
	Bus1            patch.Value[string]             `json:"bus1,omitzero"`
	ConnectableBus1 patch.Value[string]             `json:"connectableBus1,omitzero"`
	VoltageLevelID2 patch.Value[string]             `json:"voltageLevelId2,omitzero"`
	Bus2            patch.Value[string]             `json:"bus2,omitzero"`
	ConnectableBus2 patch.Value[string]             `json:"connectableBus2,omitzero"`
	RatioTapChanger patch.Nullable[RatioTapChanger] `json:"ratioTapChanger,omitzero"`
	PhaseTapChanger patch.Nullable[PhaseTapChanger] `json:"phaseTapChanger,omitzero"`
	CurrentLimits1  patch.Nullable[CurrentLimits]   `json:"currentLimits1,omitzero"`
	CurrentLimits2  patch.Nullable[CurrentLimits]   `json:"currentLimits2,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *TwoWindingsTransformer) ApplyPatch(p TwoWindingsTransformerPatch) {
	p.R.ApplyTo(&t.R)
	p.X.ApplyTo(&t.X)
	p.G.ApplyTo(&t.G)
	p.B.ApplyTo(&t.B)
	p.RatedU1.ApplyTo(&t.RatedU1)
	p.RatedU2.ApplyTo(&t.RatedU2)
	p.VoltageLevelID1.ApplyTo(&t.VoltageLevelID1)
	p.Bus1.ApplyTo(&t.Bus1)
	p.ConnectableBus1.ApplyTo(&t.ConnectableBus1)
	p.VoltageLevelID2.ApplyTo(&t.VoltageLevelID2)
	p.Bus2.ApplyTo(&t.Bus2)
	p.ConnectableBus2.ApplyTo(&t.ConnectableBus2)
	p.RatioTapChanger.ApplyTo(&t.RatioTapChanger)
	p.PhaseTapChanger.ApplyTo(&t.PhaseTapChanger)
	p.CurrentLimits1.ApplyTo(&t.CurrentLimits1)
	p.CurrentLimits2.ApplyTo(&t.CurrentLimits2)
}

// ThreeWindingsTransformerPatch is the sparse update of a ThreeWindingsTransformer.
type ThreeWindingsTransformerPatch struct {
	R1               patch.Value[float64]            `json:"r1,omitzero"`
	X1               patch.Value[float64]            `json:"x1,omitzero"`
	G1               patch.Value[float64]            `json:"g1,omitzero"`
	B1               patch.Value[float64]            `json:"b1,omitzero"`
	RatedU1          patch.Value[float64]            `json:"ratedU1,omitzero"`
	R2               patch.Value[float64]            `json:"r2,omitzero"`
	X2               patch.Value[float64]            `json:"x2,omitzero"`
	G2               patch.Value[float64]            `json:"g2,omitzero"`
	B2               patch.Value[float64]            `json:"b2,omitzero"`
	RatedU2          patch.Value[float64]            `json:"ratedU2,omitzero"`
	R3               patch.Value[float64]            `json:"r3,omitzero"`
	X3               patch.Value[float64]            `json:"x3,omitzero"`
	G3               patch.Value[float64]            `json:"g3,omitzero"`
	B3               patch.Value[float64]            `json:"b3,omitzero"`
	RatedU3          patch.Value[float64]            `json:"ratedU3,omitzero"`
	VoltageLevelID1  patch.Value[string]             `json:"voltageLevelId1,omitzero"`
	VoltageLevelID2  patch.Value[string]             `json:"voltageLevelId2,omitzero"`
	VoltageLevelID3  patch.Value[string]             `json:"voltageLevelId3,omitzero"`
	Bus1             patch.Value[string]             `json:"bus1,omitzero"`
	Bus2             patch.Value[string]             `json:"bus2,omitzero"`
	Bus3             patch.Value[string]             `json:"bus3,omitzero"`
	ConnectableBus1  patch.Value[string]             `json:"connectableBus1,omitzero"`
	ConnectableBus2  patch.Value[string]             `json:"connectableBus2,omitzero"`
	ConnectableBus3  patch.Value[string]             `json:"connectableBus3,omitzero"`
	RatioTapChanger2 patch.Nullable[RatioTapChanger] `json:"ratioTapChanger2,omitzero"`
	RatioTapChanger3 patch.Nullable[RatioTapChanger] `json:"ratioTapChanger3,omitzero"`
	CurrentLimits1   patch.Nullable[CurrentLimits]   `json:"currentLimits1,omitzero"`
	CurrentLimits2   patch.Nullable[CurrentLimits]   `json:"currentLimits2,omitzero"`
	CurrentLimits3   patch.Nullable[CurrentLimits]   `json:"currentLimits3,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *ThreeWindingsTransformer) ApplyPatch(p ThreeWindingsTransformerPatch) {
	p.R1.ApplyTo(&t.R1)
	p.X1.ApplyTo(&t.X1)
	p.G1.ApplyTo(&t.G1)
	p.B1.ApplyTo(&t.B1)
	p.RatedU1.ApplyTo(&t.RatedU1)
	p.R2.ApplyTo(&t.R2)
	p.X2.ApplyTo(&t.X2)
	p.G2.ApplyTo(&t.G2)
	p.B2.ApplyTo(&t.B2)
	p.RatedU2.ApplyTo(&t.RatedU2)
	p.R3.ApplyTo(&t.R3)
	p.X3.ApplyTo(&t.X3)
	p.G3.ApplyTo(&t.G3)
	p.B3.ApplyTo(&t.B3)
	p.RatedU3.ApplyTo(&t.RatedU3)
	p.VoltageLevelID1.ApplyTo(&t.VoltageLevelID1)
	p.VoltageLevelID2.ApplyTo(&t.VoltageLevelID2)
	p.VoltageLevelID3.ApplyTo(&t.VoltageLevelID3)
	p.Bus1.ApplyTo(&t.Bus1)
	p.Bus2.ApplyTo(&t.Bus2)
	p.Bus3.ApplyTo(&t.Bus3)
	p.ConnectableBus1.ApplyTo(&t.ConnectableBus1)
	p.ConnectableBus2.ApplyTo(&t.ConnectableBus2)
	p.ConnectableBus3.ApplyTo(&t.ConnectableBus3)
	p.RatioTapChanger2.ApplyTo(&t.RatioTapChanger2)
	p.RatioTapChanger3.ApplyTo(&t.RatioTapChanger3)
	p.CurrentLimits1.ApplyTo(&t.CurrentLimits1)
	p.CurrentLimits2.ApplyTo(&t.CurrentLimits2)
	p.CurrentLimits3.ApplyTo(&t.CurrentLimits3)
}

// RatioTapChangerPatch is the sparse update of a RatioTapChanger.
type RatioTapChangerPatch struct {
	Regulating                  patch.Value[bool]                `json:"regulating,omitzero"`
	LowTapPosition              patch.Value[int32]               `json:"lowTapPosition,omitzero"`
	TapPosition                 patch.Value[int32]               `json:"tapPosition,omitzero"`
	TargetDeadband              patch.Value[float64]             `json:"targetDeadband,omitzero"`
	LoadTapChangingCapabilities patch.Value[bool]                `json:"loadTapChangingCapabilities,omitzero"`
	RegulationMode              patch.Value[RatioRegulationMode] `json:"regulationMode,omitzero"`
	RegulationValue             patch.Value[float64]             `json:"regulationValue,omitzero"`
	TerminalRef                 patch.Value[TerminalRef]         `json:"terminalRef,omitzero"`
	Steps                       patch.Value[[]TapStep]           `json:"steps,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *RatioTapChanger) ApplyPatch(p RatioTapChangerPatch) {
	p.Regulating.ApplyTo(&c.Regulating)
	p.LowTapPosition.ApplyTo(&c.LowTapPosition)
	p.TapPosition.ApplyTo(&c.TapPosition)
	p.TargetDeadband.ApplyTo(&c.TargetDeadband)
	p.LoadTapChangingCapabilities.ApplyTo(&c.LoadTapChangingCapabilities)
	p.RegulationMode.ApplyTo(&c.RegulationMode)
	p.RegulationValue.ApplyTo(&c.RegulationValue)
	p.TerminalRef.ApplyTo(&c.TerminalRef)
	p.Steps.ApplyTo(&c.Steps)
}

// PhaseTapChangerPatch is the sparse update of a PhaseTapChanger.
type PhaseTapChangerPatch struct {
	Regulating      patch.Value[bool]                `json:"regulating,omitzero"`
	LowTapPosition  patch.Value[int32]               `json:"lowTapPosition,omitzero"`
	TapPosition     patch.Value[int32]               `json:"tapPosition,omitzero"`
	RegulationMode  patch.Value[PhaseRegulationMode] `json:"regulationMode,omitzero"`
	RegulationValue patch.Value[float64]             `json:"regulationValue,omitzero"`
	TargetDeadband  patch.Value[float64]             `json:"targetDeadband,omitzero"`
	TerminalRef     patch.Value[TerminalRef]         `json:"terminalRef,omitzero"`
	Steps           patch.Value[[]PhaseTapStep]      `json:"steps,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *PhaseTapChanger) ApplyPatch(p PhaseTapChangerPatch) {
	p.Regulating.ApplyTo(&c.Regulating)
	p.LowTapPosition.ApplyTo(&c.LowTapPosition)
	p.TapPosition.ApplyTo(&c.TapPosition)
	p.RegulationMode.ApplyTo(&c.RegulationMode)
	p.RegulationValue.ApplyTo(&c.RegulationValue)
	p.TargetDeadband.ApplyTo(&c.TargetDeadband)
	p.TerminalRef.ApplyTo(&c.TerminalRef)
	p.Steps.ApplyTo(&c.Steps)
}

// TapStepPatch is the sparse update of a TapStep.
type TapStepPatch struct {
	R   patch.Value[float64] `json:"r,omitzero"`
	X   patch.Value[float64] `json:"x,omitzero"`
	G   patch.Value[float64] `json:"g,omitzero"`
	B   patch.Value[float64] `json:"b,omitzero"`
	Rho patch.Value[float64] `json:"rho,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *TapStep) ApplyPatch(p TapStepPatch) {
	p.R.ApplyTo(&s.R)
	p.X.ApplyTo(&s.X)
	p.G.ApplyTo(&s.G)
	p.B.ApplyTo(&s.B)
	p.Rho.ApplyTo(&s.Rho)
}

// PhaseTapStepPatch is the sparse update of a PhaseTapStep.
type PhaseTapStepPatch struct {
	R     patch.Value[float64] `json:"r,omitzero"`
	X     patch.Value[float64] `json:"x,omitzero"`
	G     patch.Value[float64] `json:"g,omitzero"`
	B     patch.Value[float64] `json:"b,omitzero"`
	Rho   patch.Value[float64] `json:"rho,omitzero"`
	Alpha patch.Value[float64] `json:"alpha,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (s *PhaseTapStep) ApplyPatch(p PhaseTapStepPatch) {
	p.R.ApplyTo(&s.R)
	p.X.ApplyTo(&s.X)
	p.G.ApplyTo(&s.G)
	p.B.ApplyTo(&s.B)
	p.Rho.ApplyTo(&s.Rho)
	p.Alpha.ApplyTo(&s.Alpha)
}

// TerminalRefPatch is the sparse update of a TerminalRef.
type TerminalRefPatch struct {
	Side patch.Value[Side] `json:"side,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *TerminalRef) ApplyPatch(p TerminalRefPatch) {
	p.Side.ApplyTo(&t.Side)
}

// CurrentLimitsPatch is the sparse update of CurrentLimits.
type CurrentLimitsPatch struct {
	PermanentLimit  patch.Value[float64]          `json:"permanentLimit,omitzero"`
	TemporaryLimits patch.Value[[]TemporaryLimit] `json:"temporaryLimits,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (l *CurrentLimits) ApplyPatch(p CurrentLimitsPatch) {
	p.PermanentLimit.ApplyTo(&l.PermanentLimit)
	p.TemporaryLimits.ApplyTo(&l.TemporaryLimits)
}

// TemporaryLimitPatch is the sparse update of a TemporaryLimit.
type TemporaryLimitPatch struct {
	Name               patch.Value[string]  `json:"name,omitzero"`
	AcceptableDuration patch.Value[int32]   `json:"acceptableDuration,omitzero"`
	Value              patch.Value[float64] `json:"value,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (l *TemporaryLimit) ApplyPatch(p TemporaryLimitPatch) {
	p.Name.ApplyTo(&l.Name)
	p.AcceptableDuration.ApplyTo(&l.AcceptableDuration)
	p.Value.ApplyTo(&l.Value)
}

// TieLinePatch is the sparse update of a TieLine.
type TieLinePatch struct {
	Name          patch.Value[string]       `json:"name,omitzero"`
	DanglingLine1 patch.Value[DanglingLine] `json:"danglingLine1,omitzero"`
	DanglingLine2 patch.Value[DanglingLine] `json:"danglingLine2,omitzero"`
	UcteXnodeCode patch.Value[string]       `json:"ucteXnodeCode,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (t *TieLine) ApplyPatch(p TieLinePatch) {
	p.Name.ApplyTo(&t.Name)
	p.DanglingLine1.ApplyTo(&t.DanglingLine1)
	p.DanglingLine2.ApplyTo(&t.DanglingLine2)
	p.UcteXnodeCode.ApplyTo(&t.UcteXnodeCode)
}

// HvdcLinePatch is the sparse update of an HvdcLine.
type HvdcLinePatch struct {
	Name                patch.Value[string]               `json:"name,omitzero"`
	R                   patch.Value[float64]              `json:"r,omitzero"`
	NominalV            patch.Value[float64]              `json:"nominalV,omitzero"`
	ConvertersMode      patch.Value[ConvertersMode]       `json:"convertersMode,omitzero"`
	ActivePowerSetpoint patch.Value[float64]              `json:"activePowerSetpoint,omitzero"`
	MaxP                patch.Value[float64]              `json:"maxP,omitzero"`
	ConverterStation1   patch.Value[HvdcConverterStation] `json:"converterStation1,omitzero"`
	ConverterStation2   patch.Value[HvdcConverterStation] `json:"converterStation2,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (h *HvdcLine) ApplyPatch(p HvdcLinePatch) {
	p.Name.ApplyTo(&h.Name)
	p.R.ApplyTo(&h.R)
	p.NominalV.ApplyTo(&h.NominalV)
	p.ConvertersMode.ApplyTo(&h.ConvertersMode)
	p.ActivePowerSetpoint.ApplyTo(&h.ActivePowerSetpoint)
	p.MaxP.ApplyTo(&h.MaxP)
	p.ConverterStation1.ApplyTo(&h.ConverterStation1)
	p.ConverterStation2.ApplyTo(&h.ConverterStation2)
}

// HvdcConverterStationPatch is the sparse update of an HvdcConverterStation.
type HvdcConverterStationPatch struct {
	Name                  patch.Value[string]  `json:"name,omitzero"`
	VoltageLevelID        patch.Value[string]  `json:"voltageLevelId,omitzero"`
	Bus                   patch.Value[string]  `json:"bus,omitzero"`
	ConnectableBus        patch.Value[string]  `json:"connectableBus,omitzero"`
	LossFactor            patch.Value[float64] `json:"lossFactor,omitzero"`
	ReactivePowerSetpoint patch.Value[float64] `json:"reactivePowerSetpoint,omitzero"`
}

// ApplyPatch implements registry.Patchable.
func (c *HvdcConverterStation) ApplyPatch(p HvdcConverterStationPatch) {
	p.Name.ApplyTo(&c.Name)
	p.VoltageLevelID.ApplyTo(&c.VoltageLevelID)
	p.Bus.ApplyTo(&c.Bus)
	p.ConnectableBus.ApplyTo(&c.ConnectableBus)
	p.LossFactor.ApplyTo(&c.LossFactor)
	p.ReactivePowerSetpoint.ApplyTo(&c.ReactivePowerSetpoint)
}
