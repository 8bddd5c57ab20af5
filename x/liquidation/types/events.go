package types

// Event types
const (
	EventTypeSubmitBid            = "submit_bid"
	EventTypeActivateBid          = "activate_bid"
	EventTypeExecuteBid           = "execute_bid"
	EventTypeClaimLiquidations    = "claim_liquidations"
	EventTypeRetractBid           = "retract_bid"
	EventTypeWhitelistCollateral  = "whitelist_collateral"
	EventTypeUpdateCollateralInfo = "update_collateral_info"
	EventTypeUpdateConfig         = "update_config"
	EventTypeRetireEpoch          = "retire_pool_epoch"
)

// Event attribute keys
const (
	AttributeKeyBidIdx          = "bid_idx"
	AttributeKeyBidder          = "bidder"
	AttributeKeyCollateral      = "collateral_token"
	AttributeKeySlot            = "premium_slot"
	AttributeKeyAmount          = "amount"
	AttributeKeyShare           = "share"
	AttributeKeyWaitEnd         = "wait_end"
	AttributeKeyRecordID        = "record_id"
	AttributeKeyCollateralAmt   = "collateral_amount"
	AttributeKeyStableRecovered = "stable_recovered"
	AttributeKeyRepayAmount     = "repay_amount"
	AttributeKeyBidFee          = "bid_fee"
	AttributeKeyLiquidatorFee   = "liquidator_fee"
	AttributeKeyLiquidator      = "liquidator"
	AttributeKeyPrice           = "price"
	AttributeKeyEpoch           = "epoch"
	AttributeKeyOwner           = "owner"
)
