package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// aesEncrypt encrypts src with the given key using AES-256 in ECB mode.
func aesEncrypt(src, key []byte) ([]byte, error) {
	block, err := newECBBlock(src, key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(src))
	for i := 0; i < len(src); i += aes.BlockSize {
		block.Encrypt(out[i:], src[i:i+aes.BlockSize])
	}
	return out, nil
}

// aesDecrypt decrypts src with the given key using AES-256 in ECB mode.
func aesDecrypt(src, key []byte) ([]byte, error) {
	block, err := newECBBlock(src, key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(src))
	for i := 0; i < len(src); i += aes.BlockSize {
		block.Decrypt(out[i:], src[i:i+aes.BlockSize])
	}
	return out, nil
}

func newECBBlock(src, key []byte) (cipher.Block, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: invalid AES-256 key length %d", errkind.ErrCrypto, len(key))
	}
	if len(src)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: input is not full blocks", errkind.ErrCrypto)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errkind.ErrCrypto, err)
	}
	return block, nil
}
