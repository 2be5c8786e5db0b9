package iidm

import (
	"encoding/json"
	"fmt"
	"slices"
)

// TopologyKind is how a voltage level describes its connectivity.
type TopologyKind string

// Topology kinds.
const (
	TopologyNodeBreaker TopologyKind = "NODE_BREAKER"
	TopologyBusBreaker  TopologyKind = "BUS_BREAKER"
)

// EnergySource is the primary energy of a generator.
type EnergySource string

// Energy sources.
const (
	EnergyHydro   EnergySource = "HYDRO"
	EnergyNuclear EnergySource = "NUCLEAR"
	EnergyWind    EnergySource = "WIND"
	EnergyThermal EnergySource = "THERMAL"
	EnergySolar   EnergySource = "SOLAR"
	EnergyOther   EnergySource = "OTHER"
)

// LoadType classifies a load.
type LoadType string

// Load types.
const (
	LoadUndefined  LoadType = "UNDEFINED"
	LoadAuxiliary  LoadType = "AUXILIARY"
	LoadFictitious LoadType = "FICTITIOUS"
)

// RatioRegulationMode is what a ratio tap changer regulates.
type RatioRegulationMode string

// Ratio tap changer regulation modes.
const (
	RatioRegulationVoltage       RatioRegulationMode = "VOLTAGE"
	RatioRegulationReactivePower RatioRegulationMode = "REACTIVE_POWER"
)

// PhaseRegulationMode is what a phase tap changer regulates.
type PhaseRegulationMode string

// Phase tap changer regulation modes.
const (
	PhaseRegulationCurrentLimiter     PhaseRegulationMode = "CURRENT_LIMITER"
	PhaseRegulationActivePowerControl PhaseRegulationMode = "ACTIVE_POWER_CONTROL"
	PhaseRegulationFixedTap           PhaseRegulationMode = "FIXED_TAP"
)

// SwitchKind is the type of a switching device.
type SwitchKind string

// Switch kinds.
const (
	SwitchBreaker         SwitchKind = "BREAKER"
	SwitchDisconnector    SwitchKind = "DISCONNECTOR"
	SwitchLoadBreakSwitch SwitchKind = "LOAD_BREAK_SWITCH"
)

// SVCRegulationMode is the regulation mode of a static var compensator.
type SVCRegulationMode string

// Static var compensator regulation modes.
const (
	SVCRegulationVoltage       SVCRegulationMode = "VOLTAGE"
	SVCRegulationReactivePower SVCRegulationMode = "REACTIVE_POWER"
	SVCRegulationOff           SVCRegulationMode = "OFF"
)

// ConvertersMode is the power flow direction of an HVDC line.
type ConvertersMode string

// HVDC converter modes.
const (
	Side1RectifierSide2Inverter ConvertersMode = "SIDE_1_RECTIFIER_SIDE_2_INVERTER"
	Side1InverterSide2Rectifier ConvertersMode = "SIDE_1_INVERTER_SIDE_2_RECTIFIER"
)

// Side is a terminal side of a branch.
type Side string

// Branch sides.
const (
	SideOne   Side = "ONE"
	SideTwo   Side = "TWO"
	SideThree Side = "THREE"
)

// Values returns every accepted topology kind.
func (TopologyKind) Values() []string {
	return []string{string(TopologyNodeBreaker), string(TopologyBusBreaker)}
}

// Values returns every accepted energy source.
func (EnergySource) Values() []string {
	return []string{
		string(EnergyHydro), string(EnergyNuclear), string(EnergyWind),
		string(EnergyThermal), string(EnergySolar), string(EnergyOther),
	}
}

// Values returns every accepted load type.
func (LoadType) Values() []string {
	return []string{string(LoadUndefined), string(LoadAuxiliary), string(LoadFictitious)}
}

// Values returns every accepted ratio regulation mode.
func (RatioRegulationMode) Values() []string {
	return []string{string(RatioRegulationVoltage), string(RatioRegulationReactivePower)}
}

// Values returns every accepted phase regulation mode.
func (PhaseRegulationMode) Values() []string {
	return []string{
		string(PhaseRegulationCurrentLimiter),
		string(PhaseRegulationActivePowerControl),
		string(PhaseRegulationFixedTap),
	}
}

// Values returns every accepted switch kind.
func (SwitchKind) Values() []string {
	return []string{string(SwitchBreaker), string(SwitchDisconnector), string(SwitchLoadBreakSwitch)}
}

// Values returns every accepted SVC regulation mode.
func (SVCRegulationMode) Values() []string {
	return []string{string(SVCRegulationVoltage), string(SVCRegulationReactivePower), string(SVCRegulationOff)}
}

// Values returns every accepted converters mode.
func (ConvertersMode) Values() []string {
	return []string{string(Side1RectifierSide2Inverter), string(Side1InverterSide2Rectifier)}
}

// Values returns every accepted side.
func (Side) Values() []string {
	return []string{string(SideOne), string(SideTwo), string(SideThree)}
}

// UnmarshalJSON rejects unknown topology kinds.
func (e *TopologyKind) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown energy sources.
func (e *EnergySource) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown load types.
func (e *LoadType) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown ratio regulation modes.
func (e *RatioRegulationMode) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown phase regulation modes.
func (e *PhaseRegulationMode) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown switch kinds.
func (e *SwitchKind) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown SVC regulation modes.
func (e *SVCRegulationMode) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown converters modes.
func (e *ConvertersMode) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// UnmarshalJSON rejects unknown sides.
func (e *Side) UnmarshalJSON(data []byte) error { return decodeEnum(data, e) }

// enum is a closed string set.
type enum interface {
	~string
	Values() []string
}

func decodeEnum[E enum](data []byte, dst *E) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var zero E
	if !slices.Contains(zero.Values(), s) {
		return fmt.Errorf("%w: %q is not a %T", ErrInvalidEnum, s, zero)
	}
	*dst = E(s)
	return nil
}
