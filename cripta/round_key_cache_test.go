package cripta

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

func TestRoundKeyCacheGetPut(t *testing.T) {
	cache := NewRoundKeyCache(0)
	key := []uint8("BETHEKEY")

	if _, ok := cache.Get(key); ok {
		t.Fatalf("empty cache returned a hit")
	}

	roundKeys := [][]uint8{{1, 0, 1}, {0, 1, 0}}
	cache.Put(key, roundKeys)
	roundKeys[0][0] = 0

	got, ok := cache.Get(key)
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if !bytes.Equal(got[0], []uint8{1, 0, 1}) {
		t.Fatalf("cache kept a reference to the caller's slice: %v", got[0])
	}

	cache.Put(key, roundKeys)
	if cache.Len() != 1 {
		t.Fatalf("duplicate Put grew the cache to %d", cache.Len())
	}

	if _, ok := cache.Get([]uint8("BETHEKEZ")); ok {
		t.Fatalf("different key must miss")
	}
}

func TestRoundKeyCacheCapacity(t *testing.T) {
	cache := NewRoundKeyCache(4)

	for i := 0; i < 10; i++ {
		cache.Put([]uint8(fmt.Sprintf("KEY%05d", i)), [][]uint8{{uint8(i)}})
		if cache.Len() > 4 {
			t.Fatalf("cache exceeded capacity: %d", cache.Len())
		}
	}

	if _, ok := cache.Get([]uint8("KEY00009")); !ok {
		t.Fatalf("most recent key should be cached")
	}
}

func TestRoundKeyCacheConcurrent(t *testing.T) {
	cache := NewRoundKeyCache(0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				key := []uint8(fmt.Sprintf("K%03d%04d", g, i))
				if _, err := NewDESCipherWithCache(key, cache); err != nil {
					t.Errorf("NewDESCipherWithCache failed: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if cache.Len() != 8*50 {
		t.Fatalf("expected %d cached schedules, got %d", 8*50, cache.Len())
	}
}

func TestKeyFingerprint(t *testing.T) {
	a := KeyFingerprint([]uint8("BETHEKEY"))
	b := KeyFingerprint([]uint8("BETHEKEZ"))

	if len(a) != 16 {
		t.Fatalf("fingerprint should be 16 hex chars, got %q", a)
	}
	if a == b {
		t.Fatalf("different keys share fingerprint %s", a)
	}
	if a != KeyFingerprint([]uint8("BETHEKEY")) {
		t.Fatalf("fingerprint is not stable")
	}
}
