package textcodec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/axgle/mahonia"
)

var ErrUnknownCharset = errors.New("unknown charset")

func isUTF8(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Encode converts text into bytes of the given charset.
// Characters the charset cannot represent are replaced by the encoder.
func Encode(text, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return []byte(text), nil
	}

	enc := mahonia.NewEncoder(charset)
	if enc == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, charset)
	}
	return []byte(enc.ConvertString(text)), nil
}

// Decode converts charset bytes back into a Go string.
func Decode(data []byte, charset string) (string, error) {
	if isUTF8(charset) {
		return string(data), nil
	}

	dec := mahonia.NewDecoder(charset)
	if dec == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCharset, charset)
	}
	return dec.ConvertString(string(data)), nil
}
