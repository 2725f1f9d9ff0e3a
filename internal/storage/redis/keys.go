package redis

import "fmt"

// Key naming scheme for all stored entities
const (
	keyPrefix = "moneyball:"

	// eventCounterKey holds the autoincrement counter for event IDs
	eventCounterKey = keyPrefix + "event:next"
	// eventIndexKey is a list of event IDs, newest first
	eventIndexKey = keyPrefix + "event:index"
	// balanceIndexKey is a set of "nameA|nameB" pair members
	balanceIndexKey = keyPrefix + "balance:index"
)

func eventKey(id int64) string {
	return fmt.Sprintf("%sevent:%d", keyPrefix, id)
}

func balanceKey(nameA, nameB string) string {
	return fmt.Sprintf("%sbalance:%s|%s", keyPrefix, nameA, nameB)
}

func pairMember(nameA, nameB string) string {
	return nameA + "|" + nameB
}

func sessionKey(userID string) string {
	return keyPrefix + "session:" + userID
}
