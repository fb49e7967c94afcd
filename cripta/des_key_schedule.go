package cripta

import (
	"fmt"
)

const (
	desKeySize      = 8
	desRounds       = 16
	desRoundKeyBits = 48
	desHalfKeyBits  = 28
)

type DESKeySchedule struct {
	cache *RoundKeyCache
}

// NewDESKeySchedule returns a schedule that memoises its results in cache.
// A nil cache disables memoisation.
func NewDESKeySchedule(cache *RoundKeyCache) *DESKeySchedule {
	return &DESKeySchedule{cache: cache}
}

func (dks *DESKeySchedule) GenerateRoundKeys(masterKey []uint8) ([][]uint8, error) {
	if len(masterKey) != desKeySize {
		return nil, fmt.Errorf("%w: DES key must be 8 bytes (64 bits), got %d", ErrInvalidKeySize, len(masterKey))
	}

	if dks.cache != nil {
		if roundKeys, ok := dks.cache.Get(masterKey); ok {
			return roundKeys, nil
		}
	}

	roundKeys, err := dks.derive(masterKey)
	if err != nil {
		return nil, err
	}

	if dks.cache != nil {
		dks.cache.Put(masterKey, roundKeys)
	}

	return roundKeys, nil
}

func (dks *DESKeySchedule) derive(masterKey []uint8) ([][]uint8, error) {
	permutedKey, err := PermuteBits(BytesToBits(masterKey), PC1, 1)
	if err != nil {
		return nil, fmt.Errorf("PC1 permutation failed: %w", err)
	}

	C := permutedKey[:desHalfKeyBits]
	D := permutedKey[desHalfKeyBits:]

	roundKeys := make([][]uint8, 0, desRounds)

	// C and D keep their rotation from round to round.
	for round := 0; round < desRounds; round++ {
		C = rotateLeft(C, ShiftSchedule[round])
		D = rotateLeft(D, ShiftSchedule[round])

		CD := make([]uint8, 0, 2*desHalfKeyBits)
		CD = append(CD, C...)
		CD = append(CD, D...)

		roundKey, err := PermuteBits(CD, PC2, 1)
		if err != nil {
			return nil, fmt.Errorf("PC2 permutation failed in round %d: %w", round, err)
		}

		roundKeys = append(roundKeys, roundKey)
	}

	return roundKeys, nil
}
