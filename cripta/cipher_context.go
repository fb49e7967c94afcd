package cripta

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

type CipherMode int

const (
	CipherModeECB CipherMode = iota
	CipherModeCBC
	CipherModePCBC
	CipherModeCFB
	CipherModeOFB
	CipherModeCTR
)

func (m CipherMode) String() string {
	switch m {
	case CipherModeECB:
		return "ecb"
	case CipherModeCBC:
		return "cbc"
	case CipherModePCBC:
		return "pcbc"
	case CipherModeCFB:
		return "cfb"
	case CipherModeOFB:
		return "ofb"
	case CipherModeCTR:
		return "ctr"
	default:
		return fmt.Sprintf("CipherMode(%d)", int(m))
	}
}

func ParseCipherMode(name string) (CipherMode, error) {
	switch strings.ToLower(name) {
	case "ecb":
		return CipherModeECB, nil
	case "cbc":
		return CipherModeCBC, nil
	case "pcbc":
		return CipherModePCBC, nil
	case "cfb":
		return CipherModeCFB, nil
	case "ofb":
		return CipherModeOFB, nil
	case "ctr":
		return CipherModeCTR, nil
	default:
		return 0, fmt.Errorf("%w: unknown cipher mode %q", ErrUnsupportedMode, name)
	}
}

// CipherContext applies a block cipher to whole messages: padding plus a
// chaining mode. It is immutable; the chaining register of every Encrypt
// or Decrypt call starts from the IV and lives only for that call.
type CipherContext struct {
	cipher      ISymmetricCipher
	mode        CipherMode
	paddingMode PaddingMode
	iv          []uint8
	blockSize   int
	parallel    bool
}

func NewCipherContext(
	cipher ISymmetricCipher,
	mode CipherMode,
	paddingMode PaddingMode,
	iv []uint8,
	parallel bool,
) (*CipherContext, error) {

	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}
	if mode < CipherModeECB || mode > CipherModeCTR {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
	if paddingMode < PaddingModeZeros || paddingMode > PaddingModeISO10126 {
		return nil, fmt.Errorf("%w: padding %v", ErrUnsupportedMode, paddingMode)
	}

	blockSize := cipher.BlockSize()

	ctx := &CipherContext{
		cipher:      cipher,
		mode:        mode,
		paddingMode: paddingMode,
		blockSize:   blockSize,
		parallel:    parallel,
	}

	if mode != CipherModeECB {
		switch len(iv) {
		case 0:
			ctx.iv = make([]uint8, blockSize)
		case blockSize:
			ctx.iv = make([]uint8, blockSize)
			copy(ctx.iv, iv)
		default:
			return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrInvalidIVSize, blockSize, len(iv))
		}
	}

	return ctx, nil
}

// NewDESContext is the common case: DES with PKCS#7 padding, processed
// sequentially.
func NewDESContext(key []uint8, mode CipherMode, iv []uint8) (*CipherContext, error) {
	cipher, err := NewDESCipher(key)
	if err != nil {
		return nil, err
	}
	return NewCipherContext(cipher, mode, PaddingModePKCS7, iv, false)
}

func (ctx *CipherContext) xorBlocks(a []uint8, b []uint8) []uint8 {
	result := make([]uint8, len(a))
	for i := range a {
		result[i] = a[i] ^ b[i]
	}
	return result
}

// counterAt returns the CTR counter for block index: IV + index, big endian.
func (ctx *CipherContext) counterAt(index int) []uint8 {
	counter := make([]uint8, len(ctx.iv))
	copy(counter, ctx.iv)

	carry := uint64(index)
	for i := len(counter) - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(counter[i]) + (carry & 0xFF)
		counter[i] = uint8(sum)
		carry = (carry >> 8) + (sum >> 8)
	}
	return counter
}

func (ctx *CipherContext) canRunParallel() bool {
	return ctx.parallel && (ctx.mode == CipherModeECB || ctx.mode == CipherModeCTR)
}

// processParallel splits the blocks of data into contiguous ranges, one per
// CPU, and runs fn on every block.
func (ctx *CipherContext) processParallel(data []uint8, fn func(index int, block []uint8) ([]uint8, error)) ([]uint8, error) {
	numBlocks := len(data) / ctx.blockSize
	output := make([]uint8, len(data))

	numThreads := runtime.NumCPU()
	if numThreads > numBlocks {
		numThreads = numBlocks
	}
	if numThreads == 0 {
		return output, nil
	}

	var wg sync.WaitGroup
	errors := make(chan error, numThreads)

	blocksPerThread := (numBlocks + numThreads - 1) / numThreads

	for t := 0; t < numThreads; t++ {
		startBlock := t * blocksPerThread
		endBlock := startBlock + blocksPerThread
		if endBlock > numBlocks {
			endBlock = numBlocks
		}

		if startBlock >= numBlocks {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				block := data[i*ctx.blockSize : (i+1)*ctx.blockSize]

				processed, err := fn(i, block)
				if err != nil {
					errors <- fmt.Errorf("block %d: %w", i, err)
					return
				}

				copy(output[i*ctx.blockSize:], processed)
			}
		}(startBlock, endBlock)
	}

	wg.Wait()
	close(errors)

	for err := range errors {
		return nil, err
	}

	return output, nil
}

func (ctx *CipherContext) ctrBlock(index int, block []uint8) ([]uint8, error) {
	keystream, err := ctx.cipher.EncryptBlock(ctx.counterAt(index))
	if err != nil {
		return nil, err
	}
	return ctx.xorBlocks(keystream, block), nil
}

func (ctx *CipherContext) Encrypt(plaintext []uint8) ([]uint8, error) {
	padded, err := Pad(plaintext, ctx.blockSize, ctx.paddingMode)
	if err != nil {
		return nil, fmt.Errorf("padding failed: %w", err)
	}

	if ctx.canRunParallel() {
		if ctx.mode == CipherModeECB {
			return ctx.processParallel(padded, func(_ int, block []uint8) ([]uint8, error) {
				return ctx.cipher.EncryptBlock(block)
			})
		}
		return ctx.processParallel(padded, ctx.ctrBlock)
	}

	ciphertext := make([]uint8, 0, len(padded))

	currentBlock := make([]uint8, len(ctx.iv))
	copy(currentBlock, ctx.iv)

	for i := 0; i < len(padded); i += ctx.blockSize {
		block := padded[i : i+ctx.blockSize]

		var encryptedBlock []uint8

		switch ctx.mode {
		case CipherModeECB:
			encryptedBlock, err = ctx.cipher.EncryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("ECB encryption failed: %w", err)
			}

		case CipherModeCBC:
			encryptedBlock, err = ctx.cipher.EncryptBlock(ctx.xorBlocks(block, currentBlock))
			if err != nil {
				return nil, fmt.Errorf("CBC encryption failed: %w", err)
			}
			currentBlock = encryptedBlock

		case CipherModePCBC:
			encryptedBlock, err = ctx.cipher.EncryptBlock(ctx.xorBlocks(block, currentBlock))
			if err != nil {
				return nil, fmt.Errorf("PCBC encryption failed: %w", err)
			}
			currentBlock = ctx.xorBlocks(block, encryptedBlock)

		case CipherModeCFB:
			keystream, err := ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CFB encryption failed: %w", err)
			}
			encryptedBlock = ctx.xorBlocks(keystream, block)
			currentBlock = encryptedBlock

		case CipherModeOFB:
			currentBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("OFB encryption failed: %w", err)
			}
			encryptedBlock = ctx.xorBlocks(currentBlock, block)

		case CipherModeCTR:
			encryptedBlock, err = ctx.ctrBlock(i/ctx.blockSize, block)
			if err != nil {
				return nil, fmt.Errorf("CTR encryption failed: %w", err)
			}

		default:
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, ctx.mode)
		}

		ciphertext = append(ciphertext, encryptedBlock...)
	}

	return ciphertext, nil
}

func (ctx *CipherContext) Decrypt(ciphertext []uint8) ([]uint8, error) {
	if len(ciphertext)%ctx.blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not a multiple of %d",
			ErrInvalidDataLength, len(ciphertext), ctx.blockSize)
	}

	var plaintext []uint8
	var err error

	if ctx.canRunParallel() {
		if ctx.mode == CipherModeECB {
			plaintext, err = ctx.processParallel(ciphertext, func(_ int, block []uint8) ([]uint8, error) {
				return ctx.cipher.DecryptBlock(block)
			})
		} else {
			plaintext, err = ctx.processParallel(ciphertext, ctx.ctrBlock)
		}
		if err != nil {
			return nil, err
		}
		return Unpad(plaintext, ctx.blockSize, ctx.paddingMode)
	}

	plaintext = make([]uint8, 0, len(ciphertext))

	currentBlock := make([]uint8, len(ctx.iv))
	copy(currentBlock, ctx.iv)

	for i := 0; i < len(ciphertext); i += ctx.blockSize {
		block := ciphertext[i : i+ctx.blockSize]

		var decryptedBlock []uint8

		switch ctx.mode {
		case CipherModeECB:
			decryptedBlock, err = ctx.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("ECB decryption failed: %w", err)
			}

		case CipherModeCBC:
			decryptedBlock, err = ctx.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("CBC decryption failed: %w", err)
			}
			decryptedBlock = ctx.xorBlocks(decryptedBlock, currentBlock)
			currentBlock = block

		case CipherModePCBC:
			decryptedBlock, err = ctx.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("PCBC decryption failed: %w", err)
			}
			decryptedBlock = ctx.xorBlocks(decryptedBlock, currentBlock)
			currentBlock = ctx.xorBlocks(decryptedBlock, block)

		case CipherModeCFB:
			keystream, err := ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("CFB decryption failed: %w", err)
			}
			decryptedBlock = ctx.xorBlocks(keystream, block)
			currentBlock = block

		case CipherModeOFB:
			currentBlock, err = ctx.cipher.EncryptBlock(currentBlock)
			if err != nil {
				return nil, fmt.Errorf("OFB decryption failed: %w", err)
			}
			decryptedBlock = ctx.xorBlocks(currentBlock, block)

		case CipherModeCTR:
			decryptedBlock, err = ctx.ctrBlock(i/ctx.blockSize, block)
			if err != nil {
				return nil, fmt.Errorf("CTR decryption failed: %w", err)
			}

		default:
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, ctx.mode)
		}

		plaintext = append(plaintext, decryptedBlock...)
	}

	return Unpad(plaintext, ctx.blockSize, ctx.paddingMode)
}

func (ctx *CipherContext) EncryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	encrypted, err := ctx.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, encrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) DecryptFile(inputPath string, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	decrypted, err := ctx.Decrypt(data)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}

	err = os.WriteFile(outputPath, decrypted, 0644)
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (ctx *CipherContext) GetMode() CipherMode {
	return ctx.mode
}

func (ctx *CipherContext) GetPaddingMode() PaddingMode {
	return ctx.paddingMode
}

func (ctx *CipherContext) GetBlockSize() int {
	return ctx.blockSize
}

// GetIV returns a copy of the IV; nil in ECB mode.
func (ctx *CipherContext) GetIV() []uint8 {
	if ctx.iv == nil {
		return nil
	}
	iv := make([]uint8, len(ctx.iv))
	copy(iv, ctx.iv)
	return iv
}
