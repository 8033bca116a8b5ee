/*
Package address implements conversion of script hash to/from Neo N3 address
strings.
*/
package address

import (
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
)

const (
	// NEO2Prefix is the first byte of an address for NEO2.
	NEO2Prefix byte = 0x17
	// NEO3Prefix is the first byte of an address for NEO3.
	NEO3Prefix byte = 0x35
)

var (
	// ErrInvalidLength is returned for addresses with a payload of a wrong size.
	ErrInvalidLength = fmt.Errorf("%w: invalid address length", errkind.ErrFormat)
	// ErrWrongPrefix is returned when the address version doesn't match the
	// expected one.
	ErrWrongPrefix = fmt.Errorf("%w: wrong address prefix", errkind.ErrFormat)
)

// Uint160ToString returns the "NEO address" from the given Uint160 using
// the N3 address version.
func Uint160ToString(u util.Uint160) string {
	return EncodeWithPrefix(NEO3Prefix, u)
}

// StringToUint160 attempts to decode the given N3 address string into
// a Uint160.
func StringToUint160(s string) (util.Uint160, error) {
	return DecodeWithPrefix(NEO3Prefix, s)
}

// EncodeWithPrefix returns the address for the given version byte and
// script hash.
func EncodeWithPrefix(prefix byte, u util.Uint160) string {
	b := make([]byte, 0, 1+util.Uint160Size)
	b = append(b, prefix)
	b = append(b, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// DecodeWithPrefix decodes the address expecting the given version byte.
func DecodeWithPrefix(prefix byte, s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != 1+util.Uint160Size {
		return u, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(b))
	}
	if b[0] != prefix {
		return u, fmt.Errorf("%w: expected %#x, got %#x", ErrWrongPrefix, prefix, b[0])
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
