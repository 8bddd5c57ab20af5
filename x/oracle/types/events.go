package types

// Oracle events
const (
	EventTypeFeedPrice = "feed_price"

	AttributeKeyFeeder = "feeder"
	AttributeKeyDenom  = "denom"
	AttributeKeyPrice  = "price"
)
