package cripta

import "fmt"

// PermuteBits builds a new bit vector where output bit i is
// bits[rule[i]-startBitNum]. DES tables are 1-indexed, so they are
// applied with startBitNum = 1.
func PermuteBits(bits []uint8, rule []int, startBitNum int) ([]uint8, error) {
	result := make([]uint8, len(rule))

	for i, pos := range rule {
		sourcePos := pos - startBitNum
		if sourcePos < 0 || sourcePos >= len(bits) {
			return nil, fmt.Errorf("position %d out of bounds for %d bits", pos, len(bits))
		}
		result[i] = bits[sourcePos]
	}

	return result, nil
}

func rotateLeft(bits []uint8, shifts int) []uint8 {
	n := len(bits)
	result := make([]uint8, n)
	for i := range bits {
		result[i] = bits[(i+shifts)%n]
	}
	return result
}
