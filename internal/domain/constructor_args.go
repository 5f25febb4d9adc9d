package domain

// GovernanceFeeHandlerAddress receives protocol fees on the target deployment
const GovernanceFeeHandlerAddress = "0x075d8d86ca963d8bef34cf755a586e1a044e0eb7cd3e0afd0185e1208191eeae"

// Constructor argument names of CLTBase
const (
	ArgOwner                    = "owner"
	ArgGovernanceFeeHandler     = "governance_fee_handler_address"
	ArgLPAutomationFee          = "lp_automation_fee"
	ArgStrategyCreationFee      = "strategy_creation_fee"
	ArgProtocolFeeOnManagement  = "protocol_fee_on_management"
	ArgProtocolFeeOnPerformance = "protocol_fee_on_performance"
)

// U256 is a Cairo u256: two 128-bit limbs given as decimal or hex strings
type U256 struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

// ZeroU256 is u256 zero
var ZeroU256 = U256{Low: "0", High: "0"}

// EnumValue selects a Cairo enum variant by name. Value is the variant payload
// and is ignored for unit variants.
type EnumValue struct {
	Variant string
	Value   any
}

// FeeParams are the four protocol fee settings of CLTBase
type FeeParams struct {
	LPAutomationFee          U256
	StrategyCreationFee      U256
	ProtocolFeeOnManagement  U256
	ProtocolFeeOnPerformance U256
}

// ConstructorArgs is the complete constructor argument set of CLTBase
type ConstructorArgs struct {
	Owner                string
	GovernanceFeeHandler string
	Fees                 FeeParams
}

// NewConstructorArgs builds the argument set for the given owner. Fees are
// always zero and the governance fee handler is fixed; an empty owner is kept
// as-is.
func NewConstructorArgs(owner string) ConstructorArgs {
	return ConstructorArgs{
		Owner:                owner,
		GovernanceFeeHandler: GovernanceFeeHandlerAddress,
		Fees: FeeParams{
			LPAutomationFee:          ZeroU256,
			StrategyCreationFee:      ZeroU256,
			ProtocolFeeOnManagement:  ZeroU256,
			ProtocolFeeOnPerformance: ZeroU256,
		},
	}
}

// Named returns the argument set keyed by constructor parameter name
func (a ConstructorArgs) Named() map[string]any {
	return map[string]any{
		ArgOwner:                    a.Owner,
		ArgGovernanceFeeHandler:     a.GovernanceFeeHandler,
		ArgLPAutomationFee:          a.Fees.LPAutomationFee,
		ArgStrategyCreationFee:      a.Fees.StrategyCreationFee,
		ArgProtocolFeeOnManagement:  a.Fees.ProtocolFeeOnManagement,
		ArgProtocolFeeOnPerformance: a.Fees.ProtocolFeeOnPerformance,
	}
}
