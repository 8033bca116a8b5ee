package keys

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
)

const (
	// WIFVersion is the version used to decode and encode WIF keys.
	WIFVersion = 0x80
	// wifLen is the size of the decoded WIF: version, key, compression flag
	// and checksum.
	wifLen = 1 + PrivateKeySize + 1 + 4
)

var (
	// ErrWIFLength is returned when the decoded WIF is not 38 bytes long.
	ErrWIFLength = fmt.Errorf("%w: invalid WIF length", errkind.ErrFormat)
	// ErrWIFVersion is returned for an unexpected WIF version byte.
	ErrWIFVersion = fmt.Errorf("%w: invalid WIF version", errkind.ErrFormat)
	// ErrWIFCompression is returned when the compression flag is not 0x01.
	ErrWIFCompression = fmt.Errorf("%w: invalid WIF compression flag", errkind.ErrFormat)
)

// WIF represents a wallet import format.
type WIF struct {
	// Version of the wallet import format. Default to 0x80.
	Version byte

	// Bool to determine if the WIF is compressed or not. Only compressed
	// keys are supported, so it's always true for decoded WIFs.
	Compressed bool

	// A reference to the PrivateKey which this WIF is created from.
	PrivateKey *PrivateKey

	// The string representation of the WIF.
	S string
}

// WIFEncode encodes the given private key into a WIF string. Zero version
// means WIFVersion.
func WIFEncode(key []byte, version byte) (s string, err error) {
	if version == 0x00 {
		version = WIFVersion
	}
	if len(key) != PrivateKeySize {
		return s, fmt.Errorf("%w: invalid private key length: %d", errkind.ErrFormat, len(key))
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(version)
	buf.Write(key)
	buf.WriteByte(0x01)

	s = base58.CheckEncode(buf.Bytes())
	clear(buf.Bytes())
	return
}

// WIFDecode decodes the given WIF string into a WIF struct. Zero version
// means WIFVersion. The length, version byte, compression flag and checksum
// are checked in this order, each with its own error.
func WIFDecode(wif string, version byte) (*WIF, error) {
	b, err := base58.Decode(wif)
	if err != nil {
		return nil, err
	}
	defer clear(b)

	if version == 0x00 {
		version = WIFVersion
	}
	if len(b) != wifLen {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWIFLength, len(b), wifLen)
	}
	if b[0] != version {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWIFVersion, b[0], version)
	}
	if b[33] != 0x01 {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWIFCompression, b[33], 0x01)
	}
	if !bytes.Equal(hash.Checksum(b[:34]), b[34:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", base58.ErrChecksum)
	}

	privKey, err := NewPrivateKeyFromBytes(b[1:33])
	if err != nil {
		return nil, err
	}
	return &WIF{
		Version:    version,
		Compressed: true,
		PrivateKey: privKey,
		S:          wif,
	}, nil
}
