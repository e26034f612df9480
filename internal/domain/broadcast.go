package domain

import "strings"

// benignBroadcastErrors are node responses meaning the same transaction already landed or is pending
var benignBroadcastErrors = []string{
	"already known",
	"nonce too low",
}

// IsBenignBroadcastError reports whether a broadcast failure means another process
// or an earlier run already submitted the transaction.
func IsBenignBroadcastError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range benignBroadcastErrors {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
