package iidm

// Kind names, as used in update routes and subscription keys.
const (
	KindNetwork                      = "Network"
	KindSubstation                   = "Substation"
	KindVoltageLevel                 = "VoltageLevel"
	KindBusBreakerTopology           = "BusBreakerTopology"
	KindNodeBreakerTopology          = "NodeBreakerTopology"
	KindNode                         = "Node"
	KindInternalConnection           = "InternalConnection"
	KindBus                          = "Bus"
	KindBusbarSection                = "BusbarSection"
	KindSwitch                       = "Switch"
	KindGenerator                    = "Generator"
	KindReactiveCapabilityCurve      = "ReactiveCapabilityCurve"
	KindReactiveCapabilityCurvePoint = "ReactiveCapabilityCurvePoint"
	KindMinMaxReactiveLimits         = "MinMaxReactiveLimits"
	KindLoad                         = "Load"
	KindExponentialLoadModel         = "ExponentialLoadModel"
	KindZipLoadModel                 = "ZipLoadModel"
	KindShuntCompensator             = "ShuntCompensator"
	KindStaticVarCompensator         = "StaticVarCompensator"
	KindDanglingLine                 = "DanglingLine"
	KindLine                         = "Line"
	KindTwoWindingsTransformer       = "TwoWindingsTransformer"
	KindThreeWindingsTransformer     = "ThreeWindingsTransformer"
	KindRatioTapChanger              = "RatioTapChanger"
	KindPhaseTapChanger              = "PhaseTapChanger"
	KindTapStep                      = "TapStep"
	KindPhaseTapStep                 = "PhaseTapStep"
	KindTerminalRef                  = "TerminalRef"
	KindCurrentLimits                = "CurrentLimits"
	KindTemporaryLimit               = "TemporaryLimit"
	KindTieLine                      = "TieLine"
	KindHvdcLine                     = "HvdcLine"
	KindHvdcConverterStation         = "HvdcConverterStation"
)
