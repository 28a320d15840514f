package cache

import "time"

// Cache holds the raw bytes of persisted records so repeated reads skip the
// filesystem. Entries are invalidated on write and on external file changes.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RecordKey namespaces a data-directory file name
func RecordKey(name string) string {
	return "knowval:v1:" + name
}
