package cripta

import (
	"fmt"
	"strings"
)

// BytesToBits expands every byte most significant bit first.
// The result holds one bit (0 or 1) per element.
func BytesToBits(data []uint8) []uint8 {
	bits := make([]uint8, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b >> (7 - j)) & 1
		}
	}
	return bits
}

// BitsToBytes packs a bit vector produced by BytesToBits back into bytes.
func BitsToBytes(bits []uint8) ([]uint8, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrMalformedBitLength, len(bits))
	}

	result := make([]uint8, len(bits)/8)
	for i, bit := range bits {
		result[i/8] |= (bit & 1) << (7 - (i % 8))
	}
	return result, nil
}

func XorBits(left []uint8, right []uint8) ([]uint8, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("xor operands differ in length: %d and %d", len(left), len(right))
	}

	result := make([]uint8, len(left))
	for i := range left {
		result[i] = left[i] ^ right[i]
	}
	return result, nil
}

// FormatBits renders a bit vector in groups of four, e.g. "0001 1011".
func FormatBits(bits []uint8) string {
	var sb strings.Builder
	for i, bit := range bits {
		if i > 0 && i%4 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + bit&1)
	}
	return sb.String()
}
