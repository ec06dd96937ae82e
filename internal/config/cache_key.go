package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SnapshotKey returns the Redis key holding the last-good normalized
// payload for one feed.
func (r *CacheKeyStruct) SnapshotKey(sheet string) string {
	return fmt.Sprintf("snapshot:%s", sheet)
}

// SnapshotMetaKey returns the Redis key holding snapshot metadata
// (fetch time, version).
func (r *CacheKeyStruct) SnapshotMetaKey() string {
	return "snapshot:meta"
}

// RefreshChannel returns the PubSub channel announcing completed
// refresh cycles to connected dashboards.
func (r *CacheKeyStruct) RefreshChannel() string {
	return "refresh:events"
}

var CacheKey = NewCacheKeyStruct()
