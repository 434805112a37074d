package cache

import (
	"fmt"
	"time"
)

// PageCache memoizes rendered page bodies. Entries expire after their TTL;
// nothing invalidates them on writes, so staleness is bounded by the TTL
// alone. Implementations must be safe for concurrent use, with
// last-write-wins semantics on Set.
type PageCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte, ttl time.Duration)
	InvalidateAll()
}

// Key builds the cache key for a rendered page. Authenticated and anonymous
// viewers get separate slots, so the two classes never see each other's
// cached rendering.
func Key(endpoint string, authenticated bool) string {
	if authenticated {
		return fmt.Sprintf("page:%s:auth", endpoint)
	}
	return fmt.Sprintf("page:%s:anon", endpoint)
}
