package lazy

// cache is the bounded LRU of discovered state sets (spec.md §4.7): up
// to maxSize entries, keyed by canonical member list. Locked sets (the
// Starter set, and any set pinned for the duration of a single scan) are
// never evicted even when the cache is over budget.
type cache struct {
	maxSize int
	sets    map[string]*sset
	clock   uint64
}

func newCache(nstates int) *cache {
	max := nstates * 2
	if max < 4 {
		max = 4
	}
	return &cache{maxSize: max, sets: make(map[string]*sset)}
}

// resize overrides the cache's eviction ceiling. A size below 4 is
// rejected (too small to hold even the locked Starter set alongside any
// working state) and ignored.
func (c *cache) resize(max int) {
	if max < 4 {
		return
	}
	c.maxSize = max
}

// intern returns the canonical *sset for members, creating and caching
// it (evicting if necessary) when it hasn't been seen before.
func (c *cache) intern(members []uint32, flags setFlags) *sset {
	k := key(members)
	if s, ok := c.sets[k]; ok {
		c.touch(s)
		s.flags |= flags
		return s
	}
	s := newSset(members, flags)
	c.touch(s)
	if len(c.sets) >= c.maxSize {
		c.evict()
	}
	c.sets[key(s.members)] = s
	return s
}

func (c *cache) touch(s *sset) {
	c.clock++
	s.lastSeen = c.clock
}

// evict drops the oldest non-locked set, if any. A cache that is
// entirely locked sets simply grows past maxSize rather than evict
// something still needed; the lazy driver keeps lock scope narrow (the
// Starter set plus the current scan's working set) so this stays rare.
func (c *cache) evict() {
	var oldestKey string
	var oldest *sset
	for k, s := range c.sets {
		if s.has(Locked) || s.has(Starter) {
			continue
		}
		if oldest == nil || s.lastSeen < oldest.lastSeen {
			oldest = s
			oldestKey = k
		}
	}
	if oldest != nil {
		delete(c.sets, oldestKey)
		invalidateTransitionsInto(c, oldest)
	}
}

// invalidateTransitionsInto drops any memoized transition that pointed
// at the evicted set, so a later lookup recomputes it rather than
// dereferencing a set no longer in the cache's index.
func invalidateTransitionsInto(c *cache, evicted *sset) {
	for _, s := range c.sets {
		for co, dst := range s.trans {
			if dst == evicted {
				delete(s.trans, co)
			}
		}
	}
}
