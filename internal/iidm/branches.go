package iidm

import "github.com/nerrad567/gridstore-core/internal/registry"

// Line is an AC line between two voltage levels.
type Line struct {
	ID              string         `json:"id"`
	R               float64        `json:"r"`
	X               float64        `json:"x"`
	B1              float64        `json:"b1"`
	B2              float64        `json:"b2"`
	G1              float64        `json:"g1"`
	G2              float64        `json:"g2"`
	VoltageLevelID1 string         `json:"voltageLevelId1"`
	Bus1            string         `json:"bus1"`
	ConnectableBus1 string         `json:"connectableBus1"`
	VoltageLevelID2 string         `json:"voltageLevelId2"`
	Bus2            string         `json:"bus2"`
	ConnectableBus2 string         `json:"connectableBus2"`
	CurrentLimits1  *CurrentLimits `json:"currentLimits1"`
	CurrentLimits2  *CurrentLimits `json:"currentLimits2"`
}

// TwoWindingsTransformer links two voltage levels of one substation.
type TwoWindingsTransformer struct {
	ID              string           `json:"id"`
	R               float64          `json:"r"`
	X               float64          `json:"x"`
	G               float64          `json:"g"`
	B               float64          `json:"b"`
	RatedU1         float64          `json:"ratedU1"`
	RatedU2         float64          `json:"ratedU2"`
	VoltageLevelID1 string           `json:"voltageLevelId1"`
	Bus1            string           `json:"bus1"`
	ConnectableBus1 string           `json:"connectableBus1"`
	VoltageLevelID2 string           `json:"voltageLevelId2"`
	Bus2            string           `json:"bus2"`
	ConnectableBus2 string           `json:"connectableBus2"`
	RatioTapChanger *RatioTapChanger `json:"ratioTapChanger"`
	PhaseTapChanger *PhaseTapChanger `json:"phaseTapChanger"`
	CurrentLimits1  *CurrentLimits   `json:"currentLimits1"`
	CurrentLimits2  *CurrentLimits   `json:"currentLimits2"`
}

// ThreeWindingsTransformer links three voltage levels.
type ThreeWindingsTransformer struct {
	ID               string           `json:"id"`
	R1               float64          `json:"r1"`
	X1               float64          `json:"x1"`
	G1               float64          `json:"g1"`
	B1               float64          `json:"b1"`
	RatedU1          float64          `json:"ratedU1"`
	R2               float64          `json:"r2"`
	X2               float64          `json:"x2"`
	G2               float64          `json:"g2"`
	B2               float64          `json:"b2"`
	RatedU2          float64          `json:"ratedU2"`
	R3               float64          `json:"r3"`
	X3               float64          `json:"x3"`
	G3               float64          `json:"g3"`
	B3               float64          `json:"b3"`
	RatedU3          float64          `json:"ratedU3"`
	VoltageLevelID1  string           `json:"voltageLevelId1"`
	VoltageLevelID2  string           `json:"voltageLevelId2"`
	VoltageLevelID3  string           `json:"voltageLevelId3"`
	Bus1             string           `json:"bus1"`
	Bus2             string           `json:"bus2"`
	Bus3             string           `json:"bus3"`
	ConnectableBus1  string           `json:"connectableBus1"`
	ConnectableBus2  string           `json:"connectableBus2"`
	ConnectableBus3  string           `json:"connectableBus3"`
	RatioTapChanger2 *RatioTapChanger `json:"ratioTapChanger2"`
	RatioTapChanger3 *RatioTapChanger `json:"ratioTapChanger3"`
	CurrentLimits1   *CurrentLimits   `json:"currentLimits1"`
	CurrentLimits2   *CurrentLimits   `json:"currentLimits2"`
	CurrentLimits3   *CurrentLimits   `json:"currentLimits3"`
}

// RatioTapChanger adjusts a transformer's voltage ratio in steps.
type RatioTapChanger struct {
	Regulating                  bool                `json:"regulating"`
	LowTapPosition              int32               `json:"lowTapPosition"`
	TapPosition                 int32               `json:"tapPosition"`
	TargetDeadband              float64             `json:"targetDeadband"`
	LoadTapChangingCapabilities bool                `json:"loadTapChangingCapabilities"`
	RegulationMode              RatioRegulationMode `json:"regulationMode"`
	RegulationValue             float64             `json:"regulationValue"`
	TerminalRef                 TerminalRef         `json:"terminalRef"`
	Steps                       []TapStep           `json:"steps"`
}

// PhaseTapChanger adjusts a transformer's phase shift in steps.
type PhaseTapChanger struct {
	Regulating      bool                `json:"regulating"`
	LowTapPosition  int32               `json:"lowTapPosition"`
	TapPosition     int32               `json:"tapPosition"`
	RegulationMode  PhaseRegulationMode `json:"regulationMode"`
	RegulationValue float64             `json:"regulationValue"`
	TargetDeadband  float64             `json:"targetDeadband"`
	TerminalRef     TerminalRef         `json:"terminalRef"`
	Steps           []PhaseTapStep      `json:"steps"`
}

// TapStep is one position of a ratio tap changer.
type TapStep struct {
	R   float64 `json:"r"`
	X   float64 `json:"x"`
	G   float64 `json:"g"`
	B   float64 `json:"b"`
	Rho float64 `json:"rho"`
}

// PhaseTapStep is one position of a phase tap changer.
type PhaseTapStep struct {
	R     float64 `json:"r"`
	X     float64 `json:"x"`
	G     float64 `json:"g"`
	B     float64 `json:"b"`
	Rho   float64 `json:"rho"`
	Alpha float64 `json:"alpha"`
}

// TerminalRef points at the regulated terminal of another equipment.
// Its ID names that equipment, so a tap changer never registers it.
type TerminalRef struct {
	ID   string `json:"id"`
	Side Side   `json:"side"`
}

// CurrentLimits are the permanent and temporary current limits of a branch side.
type CurrentLimits struct {
	PermanentLimit  float64          `json:"permanentLimit"`
	TemporaryLimits []TemporaryLimit `json:"temporaryLimits"`
}

// TemporaryLimit is a current limit tolerated for a bounded duration.
type TemporaryLimit struct {
	Name               string  `json:"name"`
	AcceptableDuration int32   `json:"acceptableDuration"`
	Value              float64 `json:"value"`
}

// TieLine joins two dangling lines of different networks.
type TieLine struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	DanglingLine1 DanglingLine `json:"danglingLine1"`
	DanglingLine2 DanglingLine `json:"danglingLine2"`
	UcteXnodeCode string       `json:"ucteXnodeCode"`
}

// HvdcLine is a DC link between two converter stations.
type HvdcLine struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	R                   float64              `json:"r"`
	NominalV            float64              `json:"nominalV"`
	ConvertersMode      ConvertersMode       `json:"convertersMode"`
	ActivePowerSetpoint float64              `json:"activePowerSetpoint"`
	MaxP                float64              `json:"maxP"`
	ConverterStation1   HvdcConverterStation `json:"converterStation1"`
	ConverterStation2   HvdcConverterStation `json:"converterStation2"`
}

// HvdcConverterStation is one end of an HVDC line.
type HvdcConverterStation struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	VoltageLevelID        string  `json:"voltageLevelId"`
	Bus                   string  `json:"bus"`
	ConnectableBus        string  `json:"connectableBus"`
	LossFactor            float64 `json:"lossFactor"`
	ReactivePowerSetpoint float64 `json:"reactivePowerSetpoint"`
}

// RecordKind implements registry.Record.
func (Line) RecordKind() string { return KindLine }

// Identifier implements registry.Identifiable.
func (l Line) Identifier() string { return l.ID }

// RegisterInto registers the line.
func (l Line) RegisterInto(r registry.Registrar) { r.Enqueue(l.ID, l) }

// RecordKind implements registry.Record.
func (TwoWindingsTransformer) RecordKind() string { return KindTwoWindingsTransformer }

// Identifier implements registry.Identifiable.
func (t TwoWindingsTransformer) Identifier() string { return t.ID }

// RegisterInto registers the transformer. Tap changers are values, not records.
func (t TwoWindingsTransformer) RegisterInto(r registry.Registrar) { r.Enqueue(t.ID, t) }

// RecordKind implements registry.Record.
func (ThreeWindingsTransformer) RecordKind() string { return KindThreeWindingsTransformer }

// Identifier implements registry.Identifiable.
func (t ThreeWindingsTransformer) Identifier() string { return t.ID }

// RegisterInto registers the transformer.
func (t ThreeWindingsTransformer) RegisterInto(r registry.Registrar) { r.Enqueue(t.ID, t) }

// RecordKind implements registry.Record.
func (RatioTapChanger) RecordKind() string { return KindRatioTapChanger }

// RecordKind implements registry.Record.
func (PhaseTapChanger) RecordKind() string { return KindPhaseTapChanger }

// RecordKind implements registry.Record.
func (TapStep) RecordKind() string { return KindTapStep }

// RecordKind implements registry.Record.
func (PhaseTapStep) RecordKind() string { return KindPhaseTapStep }

// RecordKind implements registry.Record.
func (TerminalRef) RecordKind() string { return KindTerminalRef }

// Identifier implements registry.Identifiable.
func (t TerminalRef) Identifier() string { return t.ID }

// RegisterInto registers the terminal reference on its own. Only a direct
// registration reaches this; no parent walks into a terminal reference.
func (t TerminalRef) RegisterInto(r registry.Registrar) { r.Enqueue(t.ID, t) }

// RecordKind implements registry.Record.
func (CurrentLimits) RecordKind() string { return KindCurrentLimits }

// RecordKind implements registry.Record.
func (TemporaryLimit) RecordKind() string { return KindTemporaryLimit }

// RecordKind implements registry.Record.
func (TieLine) RecordKind() string { return KindTieLine }

// Identifier implements registry.Identifiable.
func (t TieLine) Identifier() string { return t.ID }

// RegisterInto registers the tie line and both of its dangling lines.
func (t TieLine) RegisterInto(r registry.Registrar) {
	r.Enqueue(t.ID, t)
	t.DanglingLine1.RegisterInto(r)
	t.DanglingLine2.RegisterInto(r)
}

// RecordKind implements registry.Record.
func (HvdcLine) RecordKind() string { return KindHvdcLine }

// Identifier implements registry.Identifiable.
func (h HvdcLine) Identifier() string { return h.ID }

// RegisterInto registers the HVDC line and both converter stations.
func (h HvdcLine) RegisterInto(r registry.Registrar) {
	r.Enqueue(h.ID, h)
	h.ConverterStation1.RegisterInto(r)
	h.ConverterStation2.RegisterInto(r)
}

// RecordKind implements registry.Record.
func (HvdcConverterStation) RecordKind() string { return KindHvdcConverterStation }

// Identifier implements registry.Identifiable.
func (c HvdcConverterStation) Identifier() string { return c.ID }

// RegisterInto registers the converter station.
func (c HvdcConverterStation) RegisterInto(r registry.Registrar) { r.Enqueue(c.ID, c) }
