package cripta

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/segmentio/fasthash/fnv1a"
)

type roundKeyEntry struct {
	key       []uint8
	roundKeys [][]uint8
}

// RoundKeyCache memoises key schedules across cipher instances that opt in
// through NewDESCipherWithCache. It holds raw keys until reset.
// Entries are bucketed by the FNV-1a hash of the key and matched on the
// full key, so colliding keys never share a schedule. Callers always get
// their own copy of the round keys.
type RoundKeyCache struct {
	mu       sync.RWMutex
	buckets  map[uint64][]roundKeyEntry
	size     int
	capacity int
}

// NewRoundKeyCache creates a cache holding at most capacity schedules.
// When full it is reset wholesale; capacity <= 0 means unbounded.
func NewRoundKeyCache(capacity int) *RoundKeyCache {
	return &RoundKeyCache{
		buckets:  make(map[uint64][]roundKeyEntry),
		capacity: capacity,
	}
}

func (c *RoundKeyCache) Get(key []uint8) ([][]uint8, bool) {
	h := fnv1a.HashBytes64(key)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.buckets[h] {
		if bytes.Equal(entry.key, key) {
			return copyRoundKeys(entry.roundKeys), true
		}
	}
	return nil, false
}

func (c *RoundKeyCache) Put(key []uint8, roundKeys [][]uint8) {
	h := fnv1a.HashBytes64(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.buckets[h] {
		if bytes.Equal(entry.key, key) {
			return
		}
	}

	if c.capacity > 0 && c.size >= c.capacity {
		c.buckets = make(map[uint64][]roundKeyEntry)
		c.size = 0
	}

	c.buckets[h] = append(c.buckets[h], roundKeyEntry{
		key:       bytes.Clone(key),
		roundKeys: copyRoundKeys(roundKeys),
	})
	c.size++
}

func (c *RoundKeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

func copyRoundKeys(roundKeys [][]uint8) [][]uint8 {
	result := make([][]uint8, len(roundKeys))
	for i, rk := range roundKeys {
		result[i] = bytes.Clone(rk)
	}
	return result
}

// KeyFingerprint is a short identifier for telling keys apart in logs.
// It is an unkeyed 64-bit hash and does not hide the key.
func KeyFingerprint(key []uint8) string {
	return fmt.Sprintf("%016x", fnv1a.HashBytes64(key))
}
