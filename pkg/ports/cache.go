package ports

// CacheStore is the local fallback tier: a synchronous key/value store in
// the spirit of browser localStorage. Keys are namespaced by the caller
// (kind:user:draftID).
//
// Implementations are allowed to fail (quota, serialization, absent
// backend); the tiered store above them treats every error as a miss or a
// degraded write, never as a crash.
type CacheStore interface {
	// GetItem returns the raw value for a key. A missing key returns
	// ok == false with no error.
	GetItem(key string) (value []byte, ok bool, err error)

	// SetItem stores a value. Quota failures surface as errors and are
	// swallowed upstream.
	SetItem(key string, value []byte) error

	// RemoveItem deletes a key. Removing a missing key is not an error.
	RemoveItem(key string) error

	// Keys enumerates stored keys with the given prefix.
	Keys(prefix string) ([]string, error)
}
