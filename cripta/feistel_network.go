package cripta

import (
	"fmt"
)

// FeistelNetwork runs a balanced Feistel structure over bit vectors.
// Round keys are derived once in the constructor and only read afterwards,
// so one network can serve concurrent callers.
type FeistelNetwork struct {
	roundFunction IRoundFunction

	blockBits   int
	roundsCount int

	roundKeys [][]uint8
}

func NewFeistelNetwork(
	keyScheduleImpl IKeySchedule,
	roundFunctionImpl IRoundFunction,
	key []uint8,
	blockBits int,
	roundsCount int,
) (*FeistelNetwork, error) {

	if keyScheduleImpl == nil {
		return nil, fmt.Errorf("key schedule implementation cannot be nil")
	}
	if roundFunctionImpl == nil {
		return nil, fmt.Errorf("round function implementation cannot be nil")
	}
	if blockBits <= 0 || blockBits%2 != 0 {
		return nil, fmt.Errorf("%w: block size must be positive and even for Feistel network", ErrInvalidBlockSize)
	}
	if roundsCount <= 0 {
		return nil, fmt.Errorf("rounds count must be positive, got %d", roundsCount)
	}

	roundKeys, err := keyScheduleImpl.GenerateRoundKeys(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate round keys: %w", err)
	}

	if len(roundKeys) < roundsCount {
		return nil, fmt.Errorf("key schedule generated insufficient round keys: got %d, need %d",
			len(roundKeys), roundsCount)
	}

	return &FeistelNetwork{
		roundFunction: roundFunctionImpl,
		blockBits:     blockBits,
		roundsCount:   roundsCount,
		roundKeys:     roundKeys,
	}, nil
}

func (fn *FeistelNetwork) GetRoundsCount() int {
	return fn.roundsCount
}

// RoundKeys returns a copy of the round keys in encryption order.
func (fn *FeistelNetwork) RoundKeys() [][]uint8 {
	return copyRoundKeys(fn.roundKeys)
}

func (fn *FeistelNetwork) splitBlock(block []uint8) ([]uint8, []uint8) {
	halfSize := len(block) / 2
	left := make([]uint8, halfSize)
	copy(left, block[:halfSize])
	right := make([]uint8, halfSize)
	copy(right, block[halfSize:])
	return left, right
}

func (fn *FeistelNetwork) combineBlocks(left []uint8, right []uint8) []uint8 {
	combined := make([]uint8, len(left)+len(right))
	copy(combined, left)
	copy(combined[len(left):], right)
	return combined
}

func (fn *FeistelNetwork) EncryptBlock(plainBlock []uint8) ([]uint8, error) {
	return fn.process(plainBlock, false)
}

// DecryptBlock is EncryptBlock with the round keys taken in reverse order.
func (fn *FeistelNetwork) DecryptBlock(cipherBlock []uint8) ([]uint8, error) {
	return fn.process(cipherBlock, true)
}

func (fn *FeistelNetwork) process(block []uint8, reverse bool) ([]uint8, error) {
	if len(block) != fn.blockBits {
		return nil, fmt.Errorf("%w: got %d bits, need %d", ErrInvalidBlockSize, len(block), fn.blockBits)
	}

	left, right := fn.splitBlock(block)

	for i := 0; i < fn.roundsCount; i++ {
		round := i
		if reverse {
			round = fn.roundsCount - 1 - i
		}

		functionOutput, err := fn.roundFunction.Apply(right, fn.roundKeys[round])
		if err != nil {
			return nil, fmt.Errorf("round function error in round %d: %w", round+1, err)
		}

		newRight, err := XorBits(left, functionOutput)
		if err != nil {
			return nil, fmt.Errorf("xor operation failed in round %d: %w", round+1, err)
		}

		left, right = right, newRight
	}

	// The last round is not followed by a swap.
	return fn.combineBlocks(right, left), nil
}
