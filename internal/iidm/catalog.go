package iidm

import (
	"errors"

	"github.com/nerrad567/gridstore-core/internal/registry"
)

// Declare adds every IIDM kind to c. It is called once at startup, before the
// engine is built.
func Declare(c *registry.Catalog) error {
	return errors.Join(
		registry.Declare[Network, NetworkPatch](c, KindNetwork),
		registry.Declare[Substation, SubstationPatch](c, KindSubstation),
		registry.Declare[VoltageLevel, VoltageLevelPatch](c, KindVoltageLevel),
		registry.Declare[BusBreakerTopology, BusBreakerTopologyPatch](c, KindBusBreakerTopology),
		registry.Declare[NodeBreakerTopology, NodeBreakerTopologyPatch](c, KindNodeBreakerTopology),
		registry.Declare[Node, NodePatch](c, KindNode),
		registry.Declare[InternalConnection, InternalConnectionPatch](c, KindInternalConnection),
		registry.Declare[Bus, BusPatch](c, KindBus),
		registry.Declare[BusbarSection, BusbarSectionPatch](c, KindBusbarSection),
		registry.Declare[Switch, SwitchPatch](c, KindSwitch),
		registry.Declare[Generator, GeneratorPatch](c, KindGenerator),
		registry.Declare[ReactiveCapabilityCurve, ReactiveCapabilityCurvePatch](c, KindReactiveCapabilityCurve),
		registry.Declare[ReactiveCapabilityCurvePoint, ReactiveCapabilityCurvePointPatch](c, KindReactiveCapabilityCurvePoint),
		registry.Declare[MinMaxReactiveLimits, MinMaxReactiveLimitsPatch](c, KindMinMaxReactiveLimits),
		registry.Declare[Load, LoadPatch](c, KindLoad),
		registry.Declare[ExponentialLoadModel, ExponentialLoadModelPatch](c, KindExponentialLoadModel),
		registry.Declare[ZipLoadModel, ZipLoadModelPatch](c, KindZipLoadModel),
		registry.Declare[ShuntCompensator, ShuntCompensatorPatch](c, KindShuntCompensator),
		registry.Declare[StaticVarCompensator, StaticVarCompensatorPatch](c, KindStaticVarCompensator),
		registry.Declare[DanglingLine, DanglingLinePatch](c, KindDanglingLine),
		registry.Declare[Line, LinePatch](c, KindLine),
		registry.Declare[TwoWindingsTransformer, TwoWindingsTransformerPatch](c, KindTwoWindingsTransformer),
		registry.Declare[ThreeWindingsTransformer, ThreeWindingsTransformerPatch](c, KindThreeWindingsTransformer),
		registry.Declare[RatioTapChanger, RatioTapChangerPatch](c, KindRatioTapChanger),
		registry.Declare[PhaseTapChanger, PhaseTapChangerPatch](c, KindPhaseTapChanger),
		registry.Declare[TapStep, TapStepPatch](c, KindTapStep),
		registry.Declare[PhaseTapStep, PhaseTapStepPatch](c, KindPhaseTapStep),
		registry.Declare[TerminalRef, TerminalRefPatch](c, KindTerminalRef),
		registry.Declare[CurrentLimits, CurrentLimitsPatch](c, KindCurrentLimits),
		registry.Declare[TemporaryLimit, TemporaryLimitPatch](c, KindTemporaryLimit),
		registry.Declare[TieLine, TieLinePatch](c, KindTieLine),
		registry.Declare[HvdcLine, HvdcLinePatch](c, KindHvdcLine),
		registry.Declare[HvdcConverterStation, HvdcConverterStationPatch](c, KindHvdcConverterStation),
	)
}

// NewCatalog returns a catalog holding every IIDM kind.
func NewCatalog() (*registry.Catalog, error) {
	c := registry.NewCatalog()
	if err := Declare(c); err != nil {
		return nil, err
	}
	return c, nil
}
