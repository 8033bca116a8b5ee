/*
Package base58 wraps the generic Base58 encoder with the checksummed variant
used for addresses and WIF keys.
*/
package base58

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/errkind"
)

var (
	// ErrInvalidString is returned for strings with characters outside of
	// the Base58 alphabet.
	ErrInvalidString = fmt.Errorf("%w: invalid base-58 string", errkind.ErrFormat)
	// ErrChecksum is returned when the checksum is missing or doesn't match.
	ErrChecksum = fmt.Errorf("%w: invalid base-58 check string", errkind.ErrFormat)
)

// Decode decodes the given base58 string without any checksum handling.
func Decode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidString, err)
	}
	return b, nil
}

// Encode encodes b into a base58 string without a checksum.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// CheckDecode implements base58-encoded string decoding with a hash-based
// checksum check. The checksum (4 bytes) is stripped from the result.
func CheckDecode(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < 5 {
		return nil, fmt.Errorf("%w: missing checksum", ErrChecksum)
	}

	if !bytes.Equal(hash.Checksum(b[:len(b)-4]), b[len(b)-4:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrChecksum)
	}
	return b[:len(b)-4], nil
}

// CheckEncode encodes the given byte slice into a base58 string with a
// hash-based checksum appended to it.
func CheckEncode(b []byte) string {
	buf := make([]byte, 0, len(b)+4)
	buf = append(buf, b...)
	buf = append(buf, hash.Checksum(b)...)
	return base58.Encode(buf)
}
