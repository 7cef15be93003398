package vm

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// FetchCache is a stats-only model of an instruction-fetch cache: it tracks
// hits, misses and evictions as PC values stream through it, using Akita's
// cache directory for tag/LRU bookkeeping. It never holds or serves actual
// instruction bytes and never influences execution — Bus.Fetch always
// returns the real memory contents regardless of what FetchCache reports.
// It exists purely so a caller (via VM.FetchCacheStats) can see what a
// real instruction cache would have done for the program it just ran.
type FetchCache struct {
	blockSize uint64
	directory *akitacache.DirectoryImpl

	hits      uint64
	misses    uint64
	evictions uint64
}

// FetchCacheConfig configures a FetchCache's geometry.
type FetchCacheConfig struct {
	Sets          int
	Associativity int
	BlockSize     int
}

// DefaultFetchCacheConfig is a small, plausible L1 instruction-cache shape:
// 64 sets, 8-way, 32-byte lines (512 lines total, 16KiB) — sized to match
// the flash region's 16KiB ceiling.
func DefaultFetchCacheConfig() FetchCacheConfig {
	return FetchCacheConfig{Sets: 64, Associativity: 8, BlockSize: 32}
}

// NewFetchCache creates a FetchCache with the given geometry.
func NewFetchCache(cfg FetchCacheConfig) *FetchCache {
	return &FetchCache{
		blockSize: uint64(cfg.BlockSize),
		directory: akitacache.NewDirectory(
			cfg.Sets,
			cfg.Associativity,
			cfg.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Observe records one instruction fetch at addr, updating hit/miss/eviction
// counters.
func (c *FetchCache) Observe(addr uint32) {
	blockAddr := (uint64(addr) / c.blockSize) * c.blockSize

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.hits++
		c.directory.Visit(block)
		return
	}

	c.misses++
	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return
	}
	if victim.IsValid {
		c.evictions++
	}
	victim.Tag = blockAddr
	victim.IsValid = true
}

// FetchCacheStats reports cumulative hit/miss/eviction counts.
type FetchCacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns the cache's current counters.
func (c *FetchCache) Stats() FetchCacheStats {
	return FetchCacheStats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
}
