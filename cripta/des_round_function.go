package cripta

import "fmt"

const (
	desHalfBlockBits = 32
	sBoxInputBits    = 6
	sBoxOutputBits   = 4
)

type DESRoundFunction struct{}

// Apply computes P(S(E(right) XOR roundKey)).
func (rf *DESRoundFunction) Apply(right []uint8, roundKey []uint8) ([]uint8, error) {
	if len(right) != desHalfBlockBits {
		return nil, fmt.Errorf("%w: round function input must be 32 bits, got %d", ErrInvalidBlockSize, len(right))
	}
	if len(roundKey) != desRoundKeyBits {
		return nil, fmt.Errorf("%w: round key must be 48 bits, got %d", ErrInvalidKeySize, len(roundKey))
	}

	expanded, err := PermuteBits(right, E, 1)
	if err != nil {
		return nil, fmt.Errorf("expansion failed: %w", err)
	}

	mixed, err := XorBits(expanded, roundKey)
	if err != nil {
		return nil, fmt.Errorf("round key xor failed: %w", err)
	}

	substituted := make([]uint8, 0, desHalfBlockBits)
	for box := 0; box < len(SBoxes); box++ {
		group := mixed[box*sBoxInputBits : (box+1)*sBoxInputBits]
		substituted = append(substituted, substitute(box, group)...)
	}

	return PermuteBits(substituted, P, 1)
}

// substitute looks a 6-bit group up in S-box box: the outer bits select
// the row, the inner four the column.
func substitute(box int, group []uint8) []uint8 {
	row := group[0]<<1 | group[5]
	col := group[1]<<3 | group[2]<<2 | group[3]<<1 | group[4]

	value := SBoxes[box][row][col]

	out := make([]uint8, sBoxOutputBits)
	for i := 0; i < sBoxOutputBits; i++ {
		out[i] = (value >> (sBoxOutputBits - 1 - i)) & 1
	}
	return out
}
