package cripta

import (
	"bytes"
	"crypto/des"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"
)

func hexBytes(t *testing.T, s string) []uint8 {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestDESKnownAnswers(t *testing.T) {
	tests := []struct {
		name       string
		key        []uint8
		plaintext  []uint8
		ciphertext string
	}{
		{"BETHEKEY", []uint8("BETHEKEY"), []uint8("HELLO, T"), "4e7c9a29bec68fe5"},
		{"FIPS worked example", hexBytes(t, "133457799BBCDFF1"), hexBytes(t, "0123456789ABCDEF"), "85e813540f0ab405"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cipher, err := NewDESCipher(tt.key)
			if err != nil {
				t.Fatalf("NewDESCipher failed: %v", err)
			}

			encrypted, err := cipher.EncryptBlock(tt.plaintext)
			if err != nil {
				t.Fatalf("EncryptBlock failed: %v", err)
			}
			if got := hex.EncodeToString(encrypted); got != tt.ciphertext {
				t.Fatalf("expected %s, got %s", tt.ciphertext, got)
			}

			decrypted, err := cipher.DecryptBlock(encrypted)
			if err != nil {
				t.Fatalf("DecryptBlock failed: %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Fatalf("round trip: expected %x, got %x", tt.plaintext, decrypted)
			}
		})
	}
}

func TestDESRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1977))

	for n := 0; n < 100; n++ {
		key := make([]uint8, 8)
		block := make([]uint8, 8)
		rng.Read(key)
		rng.Read(block)

		cipher, err := NewDESCipherWithCache(key, nil)
		if err != nil {
			t.Fatalf("NewDESCipher(%x) failed: %v", key, err)
		}

		encrypted, err := cipher.EncryptBlock(block)
		if err != nil {
			t.Fatalf("EncryptBlock failed: %v", err)
		}
		decrypted, err := cipher.DecryptBlock(encrypted)
		if err != nil {
			t.Fatalf("DecryptBlock failed: %v", err)
		}
		if !bytes.Equal(block, decrypted) {
			t.Fatalf("key %x block %x: round trip gave %x", key, block, decrypted)
		}
	}
}

func TestDESMatchesStandardLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for n := 0; n < 50; n++ {
		key := make([]uint8, 8)
		block := make([]uint8, 8)
		rng.Read(key)
		rng.Read(block)

		reference, err := des.NewCipher(key)
		if err != nil {
			t.Fatalf("crypto/des rejected key %x: %v", key, err)
		}
		expected := make([]uint8, 8)
		reference.Encrypt(expected, block)

		cipher, err := NewDESCipher(key)
		if err != nil {
			t.Fatalf("NewDESCipher failed: %v", err)
		}
		got, err := cipher.EncryptBlock(block)
		if err != nil {
			t.Fatalf("EncryptBlock failed: %v", err)
		}

		if !bytes.Equal(expected, got) {
			t.Fatalf("key %x block %x: expected %x, got %x", key, block, expected, got)
		}
	}
}

func TestDESInvalidKeySize(t *testing.T) {
	for _, size := range []int{0, 7, 9} {
		_, err := NewDESCipher(make([]uint8, size))
		if !errors.Is(err, ErrInvalidKeySize) {
			t.Fatalf("key of %d bytes: expected ErrInvalidKeySize, got %v", size, err)
		}
	}
}

func TestDESInvalidBlockSize(t *testing.T) {
	cipher, err := NewDESCipher([]uint8("BETHEKEY"))
	if err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}

	for _, size := range []int{0, 7, 9, 16} {
		if _, err := cipher.EncryptBlock(make([]uint8, size)); !errors.Is(err, ErrInvalidBlockSize) {
			t.Fatalf("encrypt %d bytes: expected ErrInvalidBlockSize, got %v", size, err)
		}
		if _, err := cipher.DecryptBlock(make([]uint8, size)); !errors.Is(err, ErrInvalidBlockSize) {
			t.Fatalf("decrypt %d bytes: expected ErrInvalidBlockSize, got %v", size, err)
		}
	}
}

func TestDESKeyIsCopied(t *testing.T) {
	key := []uint8("BETHEKEY")
	cipher, err := NewDESCipher(key)
	if err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}

	key[0] = 'X'

	encrypted, _ := cipher.EncryptBlock([]uint8("HELLO, T"))
	if got := hex.EncodeToString(encrypted); got != "4e7c9a29bec68fe5" {
		t.Fatalf("cipher changed after caller mutated the key: %s", got)
	}
}

func TestDESRoundKeysAccessor(t *testing.T) {
	cipher, err := NewDESCipher(hexBytes(t, "133457799BBCDFF1"))
	if err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}

	roundKeys := cipher.RoundKeys()
	if len(roundKeys) != 16 {
		t.Fatalf("expected 16 round keys, got %d", len(roundKeys))
	}

	roundKeys[0][0] ^= 1
	k1, _ := BitsToBytes(cipher.RoundKeys()[0])
	if !bytes.Equal(k1, hexBytes(t, "1b02effc7072")) {
		t.Fatalf("RoundKeys exposed internal state")
	}
}

func TestDESCipherOwnsRoundKeys(t *testing.T) {
	key := []uint8("SECRETK1")

	first, err := NewDESCipher(key)
	if err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}
	second, err := NewDESCipher(key)
	if err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}

	for i := range first.feistel.roundKeys {
		if &first.feistel.roundKeys[i][0] == &second.feistel.roundKeys[i][0] {
			t.Fatalf("round key %d is shared between instances", i+1)
		}
	}

	block := []uint8("HELLO, T")
	want, _ := second.EncryptBlock(block)

	// Corrupting one instance must not leak into another one built from the same key.
	first.feistel.roundKeys[0][0] ^= 1
	third, _ := NewDESCipher(key)
	for name, c := range map[string]*DESCipher{"second": second, "third": third} {
		got, err := c.EncryptBlock(block)
		if err != nil {
			t.Fatalf("%s: EncryptBlock failed: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: ciphertext changed to %x after another instance was modified", name, got)
		}
	}
}

func TestDESCipherCacheIsOptIn(t *testing.T) {
	cache := NewRoundKeyCache(0)

	if _, err := NewDESCipherWithCache([]uint8("CACHEDK1"), cache); err != nil {
		t.Fatalf("NewDESCipherWithCache failed: %v", err)
	}
	if _, err := NewDESCipher([]uint8("SECRETK1")); err != nil {
		t.Fatalf("NewDESCipher failed: %v", err)
	}

	if cache.Len() != 1 {
		t.Fatalf("expected only the opted-in key in the cache, got %d entries", cache.Len())
	}
	if _, ok := cache.Get([]uint8("SECRETK1")); ok {
		t.Fatalf("NewDESCipher stored its key in a cache")
	}
}
