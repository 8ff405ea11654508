// Package locking provides per-account exclusive sections for the ledger services.
package locking

import (
	"sort"
)

const keyPrefix = "ledger:lock:account:"

// lockKeys returns the distinct lock keys of the accounts in acquisition order.
func lockKeys(organizationID string, accountIDs []string) []string {
	seen := make(map[string]struct{}, len(accountIDs))
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		key := keyPrefix + organizationID + ":" + id
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
