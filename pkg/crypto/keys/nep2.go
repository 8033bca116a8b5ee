package keys

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// NEP-2 standard implementation for encrypting and decrypting private keys.

// NEP-2 specified parameters used for cryptography.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 8
	keyLen  = 64
	nepFlag = 0xe0
	nepLen  = 39
)

var nepHeader = []byte{0x01, 0x42}

var (
	// ErrNEP2Format is returned for strings that are not NEP-2 encrypted keys.
	ErrNEP2Format = fmt.Errorf("%w: invalid NEP-2 key", errkind.ErrFormat)
	// ErrNEP2Password is returned when the decrypted key doesn't match the
	// address hash, which means a wrong passphrase.
	ErrNEP2Password = fmt.Errorf("%w: NEP-2 password mismatch", errkind.ErrCrypto)
)

// ScryptParams is a json-serializable container for scrypt KDF parameters.
type ScryptParams struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// NEP2ScryptParams returns scrypt parameters specified in the NEP-2.
func NEP2ScryptParams() ScryptParams {
	return ScryptParams{
		N: scryptN,
		R: scryptR,
		P: scryptP,
	}
}

// NEP2Encrypt encrypts the private key with the given passphrase
// implementing the NEP-2 standard.
func NEP2Encrypt(priv *PrivateKey, passphrase string, params ScryptParams) (s string, err error) {
	// AddressHash = first four bytes of the double SHA256 of the address.
	addrHash := hash.Checksum([]byte(priv.Address()))
	// Normalize the passphrase according to the NFC standard.
	phraseNorm := norm.NFC.Bytes([]byte(passphrase))
	derivedKey, err := scrypt.Key(phraseNorm, addrHash, params.N, params.R, params.P, keyLen)
	if err != nil {
		return s, fmt.Errorf("%w: %w", errkind.ErrCrypto, err)
	}
	defer clear(derivedKey)

	derivedKey1 := derivedKey[:32]
	derivedKey2 := derivedKey[32:]

	privBytes := priv.Bytes()
	defer clear(privBytes)
	xr := xor(privBytes, derivedKey1)
	defer clear(xr)

	encrypted, err := aesEncrypt(xr, derivedKey2)
	if err != nil {
		return s, err
	}

	buf := new(bytes.Buffer)
	buf.Write(nepHeader)
	buf.WriteByte(nepFlag)
	buf.Write(addrHash)
	buf.Write(encrypted)

	if buf.Len() != nepLen {
		return s, fmt.Errorf("%w: invalid buffer length: expecting %d bytes got %d",
			errkind.ErrCrypto, nepLen, buf.Len())
	}

	return base58.CheckEncode(buf.Bytes()), nil
}

// NEP2Decrypt decrypts an encrypted key using the given passphrase
// under the NEP-2 standard.
func NEP2Decrypt(key, passphrase string, params ScryptParams) (*PrivateKey, error) {
	b, err := base58.CheckDecode(key)
	if err != nil {
		return nil, err
	}
	if err := validateNEP2Format(b); err != nil {
		return nil, err
	}

	addrHash := b[3:7]
	// Normalize the passphrase according to the NFC standard.
	phraseNorm := norm.NFC.Bytes([]byte(passphrase))
	derivedKey, err := scrypt.Key(phraseNorm, addrHash, params.N, params.R, params.P, keyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errkind.ErrCrypto, err)
	}
	defer clear(derivedKey)

	derivedKey1 := derivedKey[:32]
	derivedKey2 := derivedKey[32:]
	encryptedBytes := b[7:]

	decrypted, err := aesDecrypt(encryptedBytes, derivedKey2)
	if err != nil {
		return nil, err
	}
	defer clear(decrypted)

	privBytes := xor(decrypted, derivedKey1)
	defer clear(privBytes)

	// Rebuild the private key.
	privKey, err := NewPrivateKeyFromBytes(privBytes)
	if err != nil {
		if errors.Is(err, ErrInvalidScalar) {
			return nil, ErrNEP2Password
		}
		return nil, err
	}

	if !compareAddressHash(privKey, addrHash) {
		privKey.Destroy()
		return nil, ErrNEP2Password
	}

	return privKey, nil
}

func validateNEP2Format(b []byte) error {
	if len(b) != nepLen {
		return fmt.Errorf("%w: invalid length: expecting %d got %d", ErrNEP2Format, nepLen, len(b))
	}
	if b[0] != nepHeader[0] || b[1] != nepHeader[1] {
		return fmt.Errorf("%w: invalid header", ErrNEP2Format)
	}
	if b[2] != nepFlag {
		return fmt.Errorf("%w: invalid flag", ErrNEP2Format)
	}
	return nil
}

func compareAddressHash(priv *PrivateKey, inhash []byte) bool {
	addrHash := hash.Checksum([]byte(priv.Address()))
	return subtle.ConstantTimeCompare(addrHash, inhash) == 1
}

func xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("cannot XOR non equal length arrays")
	}
	dst := make([]byte, len(a))
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
	return dst
}
