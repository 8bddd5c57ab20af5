package types

import (
	"encoding/binary"
)

// Module name and store key
const (
	ModuleName = "liquidation"
	StoreKey   = ModuleName
	RouterKey  = ModuleName
)

// Queue limits
const (
	// MaxSlotCap bounds the number of premium slots walked per execution
	MaxSlotCap = 30

	DefaultQueryLimit = 10
	MaxQueryLimit     = 30
)

// Store key prefixes
var (
	ConfigKey                  = []byte{0x01}
	CollateralInfoKeyPrefix    = []byte{0x02}
	BidPoolKeyPrefix           = []byte{0x03}
	BidKeyPrefix               = []byte{0x04}
	BidsByUserKeyPrefix        = []byte{0x05}
	BidIdxSequenceKey          = []byte{0x06}
	EpochRecordKeyPrefix       = []byte{0x07}
	LiquidationRecordKeyPrefix = []byte{0x08}
	LiquidationSequenceKey     = []byte{0x09}
)

func joinKeys(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// lengthPrefixed encodes a variable length component so prefix scans never
// match a longer denom or address sharing the same leading bytes.
func lengthPrefixed(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

// Uint64ToBytes encodes an integer big-endian so store iteration is ordered.
func Uint64ToBytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

// BytesToUint64 decodes a big-endian integer.
func BytesToUint64(bz []byte) uint64 {
	if len(bz) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// SlotKey encodes a premium slot big-endian
func SlotKey(slot uint32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, slot)
	return bz
}

// CollateralInfoKey returns the key of a whitelisted collateral
func CollateralInfoKey(collateral string) []byte {
	return joinKeys(CollateralInfoKeyPrefix, lengthPrefixed(collateral))
}

// BidPoolPrefix returns the prefix of all pools of a collateral
func BidPoolPrefix(collateral string) []byte {
	return joinKeys(BidPoolKeyPrefix, lengthPrefixed(collateral))
}

// BidPoolKey returns the key of a (collateral, slot) pool. Slots are encoded
// big-endian so a prefix scan walks them in ascending premium order.
func BidPoolKey(collateral string, slot uint32) []byte {
	return joinKeys(BidPoolPrefix(collateral), SlotKey(slot))
}

// BidKey returns the key of a bid
func BidKey(idx uint64) []byte {
	return joinKeys(BidKeyPrefix, Uint64ToBytes(idx))
}

// BidsByUserPrefix returns the index prefix of a bidder's bids for a collateral
func BidsByUserPrefix(collateral, bidder string) []byte {
	return joinKeys(BidsByUserKeyPrefix, lengthPrefixed(collateral), lengthPrefixed(bidder))
}

// BidsByUserKey returns the index key of a single bid
func BidsByUserKey(collateral, bidder string, idx uint64) []byte {
	return joinKeys(BidsByUserPrefix(collateral, bidder), Uint64ToBytes(idx))
}

// EpochRecordKey returns the key of a retired pool epoch
func EpochRecordKey(collateral string, slot uint32, epoch uint64) []byte {
	return joinKeys(EpochRecordKeyPrefix, lengthPrefixed(collateral), SlotKey(slot), Uint64ToBytes(epoch))
}

// LiquidationRecordKey returns the key of an execution record
func LiquidationRecordKey(seq uint64) []byte {
	return joinKeys(LiquidationRecordKeyPrefix, Uint64ToBytes(seq))
}
