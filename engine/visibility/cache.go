package visibility

import (
	"sync"

	"github.com/memmaker/sectionscene/engine/voxel"
)

// ReachabilityCache memoizes section connectivity by grid coordinate. The
// cached values are immutable, so one cache can serve concurrent traversals.
// An entry only answers for the section it was computed from; a different
// section at the same coordinate, say from another store, is recomputed.
// Failed computations are not cached.
type ReachabilityCache struct {
	provider ReachabilityProvider
	mutex    sync.RWMutex
	entries  map[voxel.Int3]cacheEntry
}

type cacheEntry struct {
	section      *voxel.Section
	reachability voxel.FaceReachability
}

func NewReachabilityCache(provider ReachabilityProvider) *ReachabilityCache {
	if provider == nil {
		provider = ComputeReachability
	}
	return &ReachabilityCache{
		provider: provider,
		entries:  make(map[voxel.Int3]cacheEntry),
	}
}

func (c *ReachabilityCache) Get(coord voxel.Int3, section *voxel.Section) (voxel.FaceReachability, error) {
	c.mutex.RLock()
	entry, ok := c.entries[coord]
	c.mutex.RUnlock()
	if ok && entry.section == section {
		return entry.reachability, nil
	}

	reachability, err := c.provider(section)
	if err != nil {
		return voxel.Opaque(), err
	}
	c.mutex.Lock()
	c.entries[coord] = cacheEntry{section: section, reachability: reachability}
	c.mutex.Unlock()
	return reachability, nil
}

// Invalidate drops the cached value, for example after the section was edited.
func (c *ReachabilityCache) Invalidate(coord voxel.Int3) {
	c.mutex.Lock()
	delete(c.entries, coord)
	c.mutex.Unlock()
}

func (c *ReachabilityCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}
