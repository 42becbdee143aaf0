package momo

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildOrderID makes the gateway-facing order id,
// `{ownerId}-{requestId}[-{suffix}]`. The internal booking or wallet id is
// recoverable by splitting on "-"; the suffix keeps concurrent deposit and
// rental attempts for the same booking apart.
func BuildOrderID(ownerID int64, requestID, suffix string) string {
	id := fmt.Sprintf("%d-%s", ownerID, requestID)
	if suffix != "" {
		id += "-" + suffix
	}
	return id
}

// ParseOrderID recovers the internal id from the first "-"-separated
// segment.
func ParseOrderID(orderID string) (int64, error) {
	head, _, ok := strings.Cut(orderID, "-")
	if !ok {
		return 0, fmt.Errorf("malformed order id %q", orderID)
	}
	return strconv.ParseInt(head, 10, 64)
}
