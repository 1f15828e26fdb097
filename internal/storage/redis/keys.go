package redis

import "fmt"

// Key prefix for all fusion data
const keyPrefix = "fusion"

// saveKey returns the key of one saved game record.
func saveKey(id string) string {
	return fmt.Sprintf("%s:save:%s", keyPrefix, id)
}

// savesIndexKey returns the ZSET of save IDs scored by update time.
func savesIndexKey() string {
	return fmt.Sprintf("%s:idx:saves", keyPrefix)
}
