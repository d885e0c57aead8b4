package models

// CacheStats reports the resident state of one cache instance. MaxItems is
// set for count-bounded caches, CurrentWeight/MaxWeight for weight-bounded
// ones.
type CacheStats struct {
	Count         int   `json:"count"`
	MaxItems      int   `json:"max_items,omitempty"`
	CurrentWeight int   `json:"current_weight,omitempty"`
	MaxWeight     int   `json:"max_weight,omitempty"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
}
