package cripta

import "errors"

var (
	ErrInvalidKeySize     = errors.New("invalid key size")
	ErrInvalidBlockSize   = errors.New("invalid block size")
	ErrInvalidDataLength  = errors.New("invalid data length")
	ErrInvalidPadding     = errors.New("invalid padding")
	ErrMalformedBitLength = errors.New("malformed bit length")
	ErrInvalidIVSize      = errors.New("invalid IV size")
	ErrUnsupportedMode    = errors.New("unsupported mode")
)
