package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgSubmitBid            = "submit_bid"
	TypeMsgRetractBid           = "retract_bid"
	TypeMsgActivateBids         = "activate_bids"
	TypeMsgExecuteBid           = "execute_bid"
	TypeMsgClaimLiquidations    = "claim_liquidations"
	TypeMsgWhitelistCollateral  = "whitelist_collateral"
	TypeMsgUpdateCollateralInfo = "update_collateral_info"
	TypeMsgUpdateConfig         = "update_config"
)

const msgNamePrefix = "lendq.liquidation.v1."

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", field, err)
	}
	return nil
}

func validateOptionalAddress(field, addr string) error {
	if addr == "" {
		return nil
	}
	return validateAddress(field, addr)
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// ParsePositiveCoin parses a coin string such as "1000uusd"
func ParsePositiveCoin(s string) (sdk.Coin, error) {
	coin, err := sdk.ParseCoinNormalized(s)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidAmount, "%q: %s", s, err)
	}
	if !coin.Amount.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidAmount, "%q", s)
	}
	return coin, nil
}

// ParseOptionalAmount parses an integer amount. The empty string means none.
func ParseOptionalAmount(s string) (*math.Int, error) {
	if s == "" {
		return nil, nil
	}
	amount, ok := math.NewIntFromString(s)
	if !ok || !amount.IsPositive() {
		return nil, errorsmod.Wrapf(ErrInvalidAmount, "%q", s)
	}
	return &amount, nil
}

func parseOptionalDec(field, s string) (*math.LegacyDec, error) {
	if s == "" {
		return nil, nil
	}
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidRequest, "%s: %s", field, err)
	}
	return &d, nil
}

// MsgSubmitBid places stable into a premium slot of a collateral queue
type MsgSubmitBid struct {
	Bidder          string `json:"bidder"`
	CollateralToken string `json:"collateral_token"`
	PremiumSlot     uint32 `json:"premium_slot"`
	Amount          string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgSubmitBid) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSubmitBid) Type() string { return TypeMsgSubmitBid }

// ValidateBasic implements sdk.Msg
func (msg MsgSubmitBid) ValidateBasic() error {
	if err := validateAddress("bidder", msg.Bidder); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.CollateralToken); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "collateral token: %s", err)
	}
	if msg.PremiumSlot >= MaxSlotCap {
		return errorsmod.Wrapf(ErrInvalidSlot, "slot %d", msg.PremiumSlot)
	}
	_, err := ParsePositiveCoin(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgSubmitBid) GetSigners() []sdk.AccAddress { return signer(msg.Bidder) }

// ProtoMessage implements proto.Message
func (*MsgSubmitBid) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSubmitBid) Reset() { *msg = MsgSubmitBid{} }

// String implements proto.Message
func (msg MsgSubmitBid) String() string {
	return fmt.Sprintf("MsgSubmitBid{Bidder: %s, Collateral: %s, Slot: %d, Amount: %s}",
		msg.Bidder, msg.CollateralToken, msg.PremiumSlot, msg.Amount)
}

// XXX_MessageName returns the message type URL
func (*MsgSubmitBid) XXX_MessageName() string { return msgNamePrefix + "MsgSubmitBid" }

// MsgSubmitBidResponse defines the SubmitBid response
type MsgSubmitBidResponse struct {
	BidIdx    uint64 `json:"bid_idx"`
	Activated bool   `json:"activated"`
	WaitEnd   int64  `json:"wait_end,omitempty"`
}

// MsgRetractBid withdraws stable from a bid. An empty amount retracts all.
type MsgRetractBid struct {
	Bidder string `json:"bidder"`
	BidIdx uint64 `json:"bid_idx"`
	Amount string `json:"amount,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgRetractBid) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRetractBid) Type() string { return TypeMsgRetractBid }

// ValidateBasic implements sdk.Msg
func (msg MsgRetractBid) ValidateBasic() error {
	if err := validateAddress("bidder", msg.Bidder); err != nil {
		return err
	}
	_, err := ParseOptionalAmount(msg.Amount)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgRetractBid) GetSigners() []sdk.AccAddress { return signer(msg.Bidder) }

// ProtoMessage implements proto.Message
func (*MsgRetractBid) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRetractBid) Reset() { *msg = MsgRetractBid{} }

// String implements proto.Message
func (msg MsgRetractBid) String() string {
	return fmt.Sprintf("MsgRetractBid{Bidder: %s, BidIdx: %d, Amount: %s}", msg.Bidder, msg.BidIdx, msg.Amount)
}

// XXX_MessageName returns the message type URL
func (*MsgRetractBid) XXX_MessageName() string { return msgNamePrefix + "MsgRetractBid" }

// MsgRetractBidResponse defines the RetractBid response
type MsgRetractBidResponse struct {
	Amount string `json:"amount"`
}

// MsgActivateBids activates waiting bids. No idx activates every eligible
// bid of the bidder for the collateral.
type MsgActivateBids struct {
	Bidder          string   `json:"bidder"`
	CollateralToken string   `json:"collateral_token"`
	BidsIdx         []uint64 `json:"bids_idx,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgActivateBids) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgActivateBids) Type() string { return TypeMsgActivateBids }

// ValidateBasic implements sdk.Msg
func (msg MsgActivateBids) ValidateBasic() error {
	if err := validateAddress("bidder", msg.Bidder); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.CollateralToken); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "collateral token: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgActivateBids) GetSigners() []sdk.AccAddress { return signer(msg.Bidder) }

// ProtoMessage implements proto.Message
func (*MsgActivateBids) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgActivateBids) Reset() { *msg = MsgActivateBids{} }

// String implements proto.Message
func (msg MsgActivateBids) String() string {
	return fmt.Sprintf("MsgActivateBids{Bidder: %s, Collateral: %s, Bids: %v}", msg.Bidder, msg.CollateralToken, msg.BidsIdx)
}

// XXX_MessageName returns the message type URL
func (*MsgActivateBids) XXX_MessageName() string { return msgNamePrefix + "MsgActivateBids" }

// MsgActivateBidsResponse defines the ActivateBids response
type MsgActivateBidsResponse struct {
	Activated []uint64 `json:"activated"`
	Amount    string   `json:"amount"`
}

// MsgExecuteBid sells collateral into the queue. Empty repay and fee
// addresses default to the sender.
type MsgExecuteBid struct {
	Sender       string `json:"sender"`
	Liquidator   string `json:"liquidator"`
	RepayAddress string `json:"repay_address,omitempty"`
	FeeAddress   string `json:"fee_address,omitempty"`
	Collateral   string `json:"collateral"`
}

// Route implements sdk.Msg
func (msg MsgExecuteBid) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgExecuteBid) Type() string { return TypeMsgExecuteBid }

// ValidateBasic implements sdk.Msg
func (msg MsgExecuteBid) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	if err := validateAddress("liquidator", msg.Liquidator); err != nil {
		return err
	}
	if err := validateOptionalAddress("repay address", msg.RepayAddress); err != nil {
		return err
	}
	if err := validateOptionalAddress("fee address", msg.FeeAddress); err != nil {
		return err
	}
	_, err := ParsePositiveCoin(msg.Collateral)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgExecuteBid) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }

// ProtoMessage implements proto.Message
func (*MsgExecuteBid) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgExecuteBid) Reset() { *msg = MsgExecuteBid{} }

// String implements proto.Message
func (msg MsgExecuteBid) String() string {
	return fmt.Sprintf("MsgExecuteBid{Sender: %s, Liquidator: %s, Collateral: %s}", msg.Sender, msg.Liquidator, msg.Collateral)
}

// XXX_MessageName returns the message type URL
func (*MsgExecuteBid) XXX_MessageName() string { return msgNamePrefix + "MsgExecuteBid" }

// MsgExecuteBidResponse defines the ExecuteBid response
type MsgExecuteBidResponse struct {
	RecordID        string `json:"record_id"`
	StableRecovered string `json:"stable_recovered"`
	RepayAmount     string `json:"repay_amount"`
	BidFee          string `json:"bid_fee"`
	LiquidatorFee   string `json:"liquidator_fee"`
}

// MsgClaimLiquidations pays out collateral bought by the bidder's bids
type MsgClaimLiquidations struct {
	Bidder          string   `json:"bidder"`
	CollateralToken string   `json:"collateral_token"`
	BidsIdx         []uint64 `json:"bids_idx,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgClaimLiquidations) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimLiquidations) Type() string { return TypeMsgClaimLiquidations }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimLiquidations) ValidateBasic() error {
	if err := validateAddress("bidder", msg.Bidder); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.CollateralToken); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "collateral token: %s", err)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimLiquidations) GetSigners() []sdk.AccAddress { return signer(msg.Bidder) }

// ProtoMessage implements proto.Message
func (*MsgClaimLiquidations) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimLiquidations) Reset() { *msg = MsgClaimLiquidations{} }

// String implements proto.Message
func (msg MsgClaimLiquidations) String() string {
	return fmt.Sprintf("MsgClaimLiquidations{Bidder: %s, Collateral: %s, Bids: %v}", msg.Bidder, msg.CollateralToken, msg.BidsIdx)
}

// XXX_MessageName returns the message type URL
func (*MsgClaimLiquidations) XXX_MessageName() string { return msgNamePrefix + "MsgClaimLiquidations" }

// MsgClaimLiquidationsResponse defines the ClaimLiquidations response
type MsgClaimLiquidationsResponse struct {
	Amount string `json:"amount"`
}

// MsgWhitelistCollateral registers a collateral token
type MsgWhitelistCollateral struct {
	Owner              string `json:"owner"`
	CollateralToken    string `json:"collateral_token"`
	BidThreshold       string `json:"bid_threshold"`
	MaxSlot            uint32 `json:"max_slot"`
	PremiumRatePerSlot string `json:"premium_rate_per_slot"`
	Custody            string `json:"custody"`
}

// Route implements sdk.Msg
func (msg MsgWhitelistCollateral) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWhitelistCollateral) Type() string { return TypeMsgWhitelistCollateral }

// ValidateBasic implements sdk.Msg
func (msg MsgWhitelistCollateral) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	_, err := msg.CollateralInfo()
	return err
}

// CollateralInfo builds the registry entry carried by the message
func (msg MsgWhitelistCollateral) CollateralInfo() (CollateralInfo, error) {
	threshold, ok := math.NewIntFromString(msg.BidThreshold)
	if !ok {
		return CollateralInfo{}, errorsmod.Wrapf(ErrInvalidAmount, "bid threshold %q", msg.BidThreshold)
	}
	rate, err := math.LegacyNewDecFromStr(msg.PremiumRatePerSlot)
	if err != nil {
		return CollateralInfo{}, errorsmod.Wrapf(ErrInvalidPremiumRate, "%q: %s", msg.PremiumRatePerSlot, err)
	}
	info := NewCollateralInfo(msg.CollateralToken, msg.Custody, threshold, msg.MaxSlot, rate)
	return info, info.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgWhitelistCollateral) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// ProtoMessage implements proto.Message
func (*MsgWhitelistCollateral) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWhitelistCollateral) Reset() { *msg = MsgWhitelistCollateral{} }

// String implements proto.Message
func (msg MsgWhitelistCollateral) String() string {
	return fmt.Sprintf("MsgWhitelistCollateral{Collateral: %s, MaxSlot: %d, PremiumRatePerSlot: %s}",
		msg.CollateralToken, msg.MaxSlot, msg.PremiumRatePerSlot)
}

// XXX_MessageName returns the message type URL
func (*MsgWhitelistCollateral) XXX_MessageName() string { return msgNamePrefix + "MsgWhitelistCollateral" }

// MsgWhitelistCollateralResponse defines the WhitelistCollateral response
type MsgWhitelistCollateralResponse struct{}

// MsgUpdateCollateralInfo changes the queue parameters of a collateral.
// Zero values leave the field unchanged.
type MsgUpdateCollateralInfo struct {
	Owner           string `json:"owner"`
	CollateralToken string `json:"collateral_token"`
	BidThreshold    string `json:"bid_threshold,omitempty"`
	MaxSlot         uint32 `json:"max_slot,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgUpdateCollateralInfo) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateCollateralInfo) Type() string { return TypeMsgUpdateCollateralInfo }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateCollateralInfo) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.CollateralToken); err != nil {
		return errorsmod.Wrapf(ErrInvalidDenom, "collateral token: %s", err)
	}
	if msg.BidThreshold != "" {
		if v, ok := math.NewIntFromString(msg.BidThreshold); !ok || v.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidAmount, "bid threshold %q", msg.BidThreshold)
		}
	}
	if msg.MaxSlot > MaxSlotCap {
		return errorsmod.Wrapf(ErrMaxSlotExceeded, "max slot %d", msg.MaxSlot)
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateCollateralInfo) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// ProtoMessage implements proto.Message
func (*MsgUpdateCollateralInfo) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateCollateralInfo) Reset() { *msg = MsgUpdateCollateralInfo{} }

// String implements proto.Message
func (msg MsgUpdateCollateralInfo) String() string {
	return fmt.Sprintf("MsgUpdateCollateralInfo{Collateral: %s, BidThreshold: %s, MaxSlot: %d}",
		msg.CollateralToken, msg.BidThreshold, msg.MaxSlot)
}

// XXX_MessageName returns the message type URL
func (*MsgUpdateCollateralInfo) XXX_MessageName() string { return msgNamePrefix + "MsgUpdateCollateralInfo" }

// MsgUpdateCollateralInfoResponse defines the UpdateCollateralInfo response
type MsgUpdateCollateralInfoResponse struct{}

// MsgUpdateConfig changes the module config. Empty fields are left unchanged.
type MsgUpdateConfig struct {
	Owner                string  `json:"owner"`
	NewOwner             string  `json:"new_owner,omitempty"`
	OracleAddr           string  `json:"oracle_addr,omitempty"`
	SafeRatio            string  `json:"safe_ratio,omitempty"`
	BidFee               string  `json:"bid_fee,omitempty"`
	LiquidatorFee        string  `json:"liquidator_fee,omitempty"`
	LiquidationThreshold string  `json:"liquidation_threshold,omitempty"`
	PriceTimeframe       *uint64 `json:"price_timeframe,omitempty"`
	WaitingPeriod        *uint64 `json:"waiting_period,omitempty"`
	SingleBidPerSlot     *bool   `json:"single_bid_per_slot,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgUpdateConfig) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateConfig) Type() string { return TypeMsgUpdateConfig }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateConfig) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if err := validateOptionalAddress("new owner", msg.NewOwner); err != nil {
		return err
	}
	if err := validateOptionalAddress("oracle address", msg.OracleAddr); err != nil {
		return err
	}
	// fees are checked against each other only when both are set here
	base := DefaultConfig()
	base.BidFee = math.LegacyZeroDec()
	base.LiquidatorFee = math.LegacyZeroDec()
	_, err := msg.Apply(base)
	return err
}

// Apply returns cfg with the message's fields applied and validated
func (msg MsgUpdateConfig) Apply(cfg Config) (Config, error) {
	if msg.NewOwner != "" {
		cfg.Owner = msg.NewOwner
	}
	if msg.OracleAddr != "" {
		cfg.OracleAddr = msg.OracleAddr
	}
	decs := []struct {
		field string
		value string
		dst   *math.LegacyDec
	}{
		{"safe ratio", msg.SafeRatio, &cfg.SafeRatio},
		{"bid fee", msg.BidFee, &cfg.BidFee},
		{"liquidator fee", msg.LiquidatorFee, &cfg.LiquidatorFee},
	}
	for _, d := range decs {
		v, err := parseOptionalDec(d.field, d.value)
		if err != nil {
			return cfg, err
		}
		if v != nil {
			*d.dst = *v
		}
	}
	if msg.LiquidationThreshold != "" {
		v, ok := math.NewIntFromString(msg.LiquidationThreshold)
		if !ok {
			return cfg, errorsmod.Wrapf(ErrInvalidAmount, "liquidation threshold %q", msg.LiquidationThreshold)
		}
		cfg.LiquidationThreshold = v
	}
	if msg.PriceTimeframe != nil {
		cfg.PriceTimeframe = *msg.PriceTimeframe
	}
	if msg.WaitingPeriod != nil {
		cfg.WaitingPeriod = *msg.WaitingPeriod
	}
	if msg.SingleBidPerSlot != nil {
		cfg.SingleBidPerSlot = *msg.SingleBidPerSlot
	}
	return cfg, cfg.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateConfig) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// ProtoMessage implements proto.Message
func (*MsgUpdateConfig) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateConfig) Reset() { *msg = MsgUpdateConfig{} }

// String implements proto.Message
func (msg MsgUpdateConfig) String() string {
	return fmt.Sprintf("MsgUpdateConfig{Owner: %s}", msg.Owner)
}

// XXX_MessageName returns the message type URL
func (*MsgUpdateConfig) XXX_MessageName() string { return msgNamePrefix + "MsgUpdateConfig" }

// MsgUpdateConfigResponse defines the UpdateConfig response
type MsgUpdateConfigResponse struct{}
