package cripta

// Bit vectors passed through these interfaces hold one bit per element,
// see BytesToBits.

type IKeySchedule interface {
	GenerateRoundKeys(masterKey []uint8) ([][]uint8, error)
}

type IRoundFunction interface {
	Apply(inputBlock []uint8, roundKey []uint8) ([]uint8, error)
}

type ISymmetricCipher interface {
	BlockSize() int
	EncryptBlock(plainBlock []uint8) ([]uint8, error)
	DecryptBlock(cipherBlock []uint8) ([]uint8, error)
}
