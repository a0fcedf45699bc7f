package common

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress returns the canonical lower-cased hex form of an address.
// Every address is normalized before it is used as a key in the projection.
func NormalizeAddress(addr string) string {
	return ToLowerWithTrim(addr)
}

// AddressKey returns the normalized hex string of an on-chain address.
func AddressKey(addr ethcommon.Address) string {
	return strings.ToLower(addr.Hex())
}

// IsHexAddress reports whether s is a well formed 20 byte hex address.
func IsHexAddress(s string) bool {
	return ethcommon.IsHexAddress(strings.TrimSpace(s))
}
