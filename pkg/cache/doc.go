// Package cache provides a generic, thread-safe LRU cache whose entries expire.
//
// Every entry carries an absolute expiry computed when it is added. An entry
// is returned by Get only while that expiry lies strictly after the current
// time reported by the cache clock, so an expired entry is indistinguishable
// from a missing one. The clock is injected at construction which keeps
// expiry testable without sleeping.
//
// # Usage
//
//	c := cache.NewLRU[string, *Snapshot](10_000, nil) // nil clock means time.Now
//
//	c.Add("acme", snapshot, time.Minute)
//
//	if s, ok := c.Get("acme"); ok {
//		// live entry
//	}
//
// # Capacity
//
// When an Add would exceed the capacity the least recently used entry is
// evicted. Get and Add both mark an entry as recently used. Expired entries
// are dropped lazily on access or in bulk by Purge.
//
// # Eviction callbacks
//
// SetEvictCallback registers a function invoked for every entry leaving the
// cache. The callback runs with the cache lock held and must not call back
// into the cache.
package cache
