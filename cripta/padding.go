package cripta

import (
	"crypto/rand"
	"fmt"
	"strings"
)

type PaddingMode int

const (
	PaddingModeZeros PaddingMode = iota
	PaddingModeANSIX923
	PaddingModePKCS7
	PaddingModeISO10126
)

func (p PaddingMode) String() string {
	switch p {
	case PaddingModeZeros:
		return "zeros"
	case PaddingModeANSIX923:
		return "ansi"
	case PaddingModePKCS7:
		return "pkcs7"
	case PaddingModeISO10126:
		return "iso"
	default:
		return fmt.Sprintf("PaddingMode(%d)", int(p))
	}
}

func ParsePaddingMode(name string) (PaddingMode, error) {
	switch strings.ToLower(name) {
	case "zeros":
		return PaddingModeZeros, nil
	case "pkcs7", "pkcs5":
		return PaddingModePKCS7, nil
	case "ansi", "ansix923":
		return PaddingModeANSIX923, nil
	case "iso", "iso10126":
		return PaddingModeISO10126, nil
	default:
		return 0, fmt.Errorf("%w: unknown padding %q", ErrUnsupportedMode, name)
	}
}

// Pad always appends between 1 and blockSize bytes, so block-aligned input
// gains a whole extra block.
func Pad(data []uint8, blockSize int, mode PaddingMode) ([]uint8, error) {
	paddingLength := blockSize - (len(data) % blockSize)

	padded := make([]uint8, len(data)+paddingLength)
	copy(padded, data)

	switch mode {
	case PaddingModeZeros:
		// already zero

	case PaddingModePKCS7:
		for i := len(data); i < len(padded); i++ {
			padded[i] = uint8(paddingLength)
		}

	case PaddingModeANSIX923:
		padded[len(padded)-1] = uint8(paddingLength)

	case PaddingModeISO10126:
		if _, err := rand.Read(padded[len(data) : len(padded)-1]); err != nil {
			return nil, fmt.Errorf("failed to generate random bytes: %w", err)
		}
		padded[len(padded)-1] = uint8(paddingLength)

	default:
		return nil, fmt.Errorf("%w: padding %v", ErrUnsupportedMode, mode)
	}

	return padded, nil
}

func Unpad(data []uint8, blockSize int, mode PaddingMode) ([]uint8, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data to unpad", ErrInvalidPadding)
	}

	if mode == PaddingModeZeros {
		end := len(data)
		for end > 0 && data[end-1] == 0 {
			end--
		}
		return data[:end], nil
	}

	paddingLength := int(data[len(data)-1])
	if paddingLength == 0 || paddingLength > blockSize || paddingLength > len(data) {
		return nil, fmt.Errorf("%w: padding length %d", ErrInvalidPadding, paddingLength)
	}

	tail := data[len(data)-paddingLength : len(data)-1]

	switch mode {
	case PaddingModePKCS7:
		for _, b := range tail {
			if int(b) != paddingLength {
				return nil, fmt.Errorf("%w: inconsistent PKCS#7 bytes", ErrInvalidPadding)
			}
		}

	case PaddingModeANSIX923:
		for _, b := range tail {
			if b != 0 {
				return nil, fmt.Errorf("%w: non-zero ANSI X.923 fill", ErrInvalidPadding)
			}
		}

	case PaddingModeISO10126:
		// fill is random

	default:
		return nil, fmt.Errorf("%w: padding %v", ErrUnsupportedMode, mode)
	}

	return data[:len(data)-paddingLength], nil
}
