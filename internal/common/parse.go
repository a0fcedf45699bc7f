package common

import (
	"fmt"
	"strconv"
	"strings"
)

const bytesPerMB = 1 << 20

// ParseBlockNumber parses a block number given either in decimal or as 0x-prefixed hex,
// the two forms used by configuration files and JSON-RPC error messages.
func ParseBlockNumber(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty block number")
	}

	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}

func BytesToMB(bytes uint64) uint64 {
	return bytes / bytesPerMB
}

// ToLowerWithTrim canonicalizes identifiers such as log levels and component names.
func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
