package cripta

import "fmt"

const DESBlockSize = 8

type DESCipher struct {
	feistel *FeistelNetwork
}

// NewDESCipher binds key to a new cipher and derives its 16 round keys.
// The round keys belong to the instance alone.
func NewDESCipher(key []uint8) (*DESCipher, error) {
	return NewDESCipherWithCache(key, nil)
}

// NewDESCipherWithCache is NewDESCipher with an explicit cache; nil
// always derives the schedule from scratch.
func NewDESCipherWithCache(key []uint8, cache *RoundKeyCache) (*DESCipher, error) {
	if len(key) != desKeySize {
		return nil, fmt.Errorf("%w: DES key must be 8 bytes (64 bits), got %d", ErrInvalidKeySize, len(key))
	}

	feistel, err := NewFeistelNetwork(
		NewDESKeySchedule(cache),
		&DESRoundFunction{},
		key,
		DESBlockSize*8,
		desRounds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feistel network: %w", err)
	}

	return &DESCipher{
		feistel: feistel,
	}, nil
}

func (des *DESCipher) BlockSize() int {
	return DESBlockSize
}

// RoundKeys returns the 16 48-bit subkeys K1..K16 as bit vectors.
func (des *DESCipher) RoundKeys() [][]uint8 {
	return des.feistel.RoundKeys()
}

func (des *DESCipher) EncryptBlock(plainBlock []uint8) ([]uint8, error) {
	return des.crypt(plainBlock, false)
}

func (des *DESCipher) DecryptBlock(cipherBlock []uint8) ([]uint8, error) {
	return des.crypt(cipherBlock, true)
}

func (des *DESCipher) crypt(block []uint8, decrypt bool) ([]uint8, error) {
	if len(block) != DESBlockSize {
		return nil, fmt.Errorf("%w: DES block must be 8 bytes (64 bits), got %d", ErrInvalidBlockSize, len(block))
	}

	permuted, err := PermuteBits(BytesToBits(block), IP, 1)
	if err != nil {
		return nil, fmt.Errorf("IP permutation failed: %w", err)
	}

	var feistelOutput []uint8
	if decrypt {
		feistelOutput, err = des.feistel.DecryptBlock(permuted)
	} else {
		feistelOutput, err = des.feistel.EncryptBlock(permuted)
	}
	if err != nil {
		return nil, fmt.Errorf("feistel network failed: %w", err)
	}

	output, err := PermuteBits(feistelOutput, FP, 1)
	if err != nil {
		return nil, fmt.Errorf("FP permutation failed: %w", err)
	}

	return BitsToBytes(output)
}
