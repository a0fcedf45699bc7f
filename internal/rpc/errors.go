package rpc

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
)

var (
	tooManyResultsRe = regexp.MustCompile(`(?i)(query returned more than \d+ results|more than \d+ results|block range (is )?too (large|wide)|exceed(s|ed)? maximum block range)`) //nolint:lll
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError checks if the error is an eth_getLogs response limit error.
// It returns the provider message so a suggested block range can be parsed from it.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		errData := fmt.Sprintf("%v", dataErr.ErrorData())
		if tooManyResultsRe.MatchString(errData) {
			return true, errData
		}
	}

	if tooManyResultsRe.MatchString(err.Error()) {
		return true, err.Error()
	}

	return false, ""
}

// ParseSuggestedBlockRange attempts to extract the suggested block range from the error message.
// Expected format: "Query returned more than 10000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."
func ParseSuggestedBlockRange(msg string) (fromBlock, toBlock uint64, ok bool) {
	if msg == "" {
		return 0, 0, false
	}

	matches := blockRangeRe.FindStringSubmatch(msg)

	const expectedMatches = 3 // full match + 2 groups
	if len(matches) != expectedMatches {
		return 0, 0, false
	}

	from, err1 := common.ParseBlockNumber(matches[1])
	to, err2 := common.ParseBlockNumber(matches[2])

	if err1 != nil || err2 != nil || to < from {
		return 0, 0, false
	}

	return from, to, true
}

// classifyError maps an rpc error to a low cardinality metrics label.
func classifyError(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(errStr, "timeout"):
		return "timeout"
	case isRateLimited(errStr):
		return "rate_limit"
	}

	if ok, _ := IsTooManyResultsError(err); ok {
		return "too_many_results"
	}

	if retryableError(err) {
		return "transient"
	}

	return "other"
}
