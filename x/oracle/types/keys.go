package types

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

var (
	ParamsKey      = []byte{0x01}
	PriceKeyPrefix = []byte{0x02}
)

// PricePrefix returns the prefix of every price posted by feeder
func PricePrefix(feeder string) []byte {
	key := make([]byte, 0, len(PriceKeyPrefix)+1+len(feeder))
	key = append(key, PriceKeyPrefix...)
	key = append(key, byte(len(feeder)))
	return append(key, feeder...)
}

// PriceKey returns the key of a feeder's price for denom
func PriceKey(feeder, denom string) []byte {
	return append(PricePrefix(feeder), denom...)
}
