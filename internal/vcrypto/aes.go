package vcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// BlockSize is the AES block size in bytes.
const BlockSize = aes.BlockSize

// ErrBadPadding is returned when PKCS#7 padding fails to validate during
// decryption. Per spec this must not be distinguishable by the caller from
// a wrong key; callers that surface it to the user should fold it into the
// same error kind as a StreamStartBytes mismatch.
var ErrBadPadding = errors.New("vcrypto: invalid PKCS#7 padding")

// NewIV returns a fresh random AES block-sized initialization vector.
func NewIV() ([]byte, error) {
	iv := make([]byte, BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// EncryptCBC pads plaintext with PKCS#7 and encrypts it with AES-256-CBC
// under key/iv. key must be 32 bytes, iv must be BlockSize bytes.
func EncryptCBC(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != BlockSize {
		return nil, errors.New("vcrypto: bad IV length")
	}
	padded := pkcs7Pad(plaintext, BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// DecryptCBC decrypts an AES-256-CBC ciphertext under key/iv and strips
// PKCS#7 padding.
func DecryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != BlockSize {
		return nil, errors.New("vcrypto: bad IV length")
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrBadPadding
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out, BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-padLen], nil
}

// ECBEncryptBlocks encrypts data in place, one AES block at a time, with no
// chaining between blocks. This is only used for the key-strengthening
// self-encryption rounds (spec §4.1), never for bulk payload encryption; the
// lack of chaining is intentional there because each round re-encrypts the
// entire fixed-size state independently.
func ECBEncryptBlocks(block cipher.Block, data []byte) error {
	if len(data)%BlockSize != 0 {
		return errors.New("vcrypto: data is not a multiple of the block size")
	}
	for off := 0; off < len(data); off += BlockSize {
		block.Encrypt(data[off:off+BlockSize], data[off:off+BlockSize])
	}
	return nil
}
