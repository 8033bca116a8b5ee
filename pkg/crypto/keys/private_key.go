package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/util/slice"
	"github.com/nspcc-dev/rfc6979"
)

const (
	// PrivateKeySize is the size of the serialized private key scalar.
	PrivateKeySize = 32
	// SignatureLen is the length of a standard signature for 256-bit EC key.
	SignatureLen = 64
)

// ErrInvalidScalar is returned for private keys that are zero or not less
// than the curve order.
var ErrInvalidScalar = fmt.Errorf("%w: invalid private key scalar", errkind.ErrCrypto)

// PrivateKey represents a Neo private key and provides a high level API around
// ecdsa.PrivateKey.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey creates a new random Secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(elliptic.P256())
}

// NewSecp256k1PrivateKey creates a new random Secp256k1 private key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return newPrivateKeyOnCurve(secp256k1.S256())
}

// newPrivateKeyOnCurve creates a new random private key using curve c.
func newPrivateKeyOnCurve(c elliptic.Curve) (*PrivateKey, error) {
	pk, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errkind.ErrCrypto, err)
	}
	return &PrivateKey{*pk}, nil
}

// NewPrivateKeyFromHex returns a Secp256r1 PrivateKey created from the
// given hex string.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errkind.ErrFormat, err)
	}
	defer clear(b)
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes returns a Secp256r1 PrivateKey from the given
// byte slice. The slice is not retained.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(b, elliptic.P256())
}

// NewSecp256k1PrivateKeyFromBytes returns a Secp256k1 PrivateKey from the
// given byte slice.
func NewSecp256k1PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	return newPrivateKeyFromBytes(b, secp256k1.S256())
}

func newPrivateKeyFromBytes(b []byte, c elliptic.Curve) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: invalid byte length: expected %d bytes got %d",
			errkind.ErrFormat, PrivateKeySize, len(b))
	}
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(c.Params().N) >= 0 {
		return nil, ErrInvalidScalar
	}
	x, y := c.ScalarBaseMult(b)

	return &PrivateKey{
		ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{
				Curve: c,
				X:     x,
				Y:     y,
			},
			D: d,
		},
	}, nil
}

// NewPrivateKeyFromWIF returns a Neo PrivateKey from the given
// WIF (wallet import format).
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// PublicKey derives the public key from the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	result := PublicKey(p.PrivateKey.PublicKey)
	return &result
}

// WIF returns the (wallet import format) of the PrivateKey.
func (p *PrivateKey) WIF() string {
	pb := p.Bytes()
	defer slice.Clean(pb)
	w, err := WIFEncode(pb, WIFVersion)
	// The only way WIFEncode() can fail is if we're to give it a key of
	// wrong size, but we have a proper key here.
	if err != nil {
		panic(err)
	}
	return w
}

// Address derives the public Neo address that is coupled with the private key,
// and returns it as a string.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// GetScriptHash returns verification script hash for the public key associated
// with the private key.
func (p *PrivateKey) GetScriptHash() util.Uint160 {
	return p.PublicKey().GetScriptHash()
}

// Sign signs arbitrary length data using the private key. It uses double
// SHA256 to calculate the digest and then SignHash to create a signature.
func (p *PrivateKey) Sign(data []byte) ([]byte, error) {
	return p.SignHash(hash.DoubleSha256(data))
}

// SignHash signs a particular hash with the private key. The nonce is derived
// deterministically from the key and the digest (RFC 6979).
func (p *PrivateKey) SignHash(digest util.Uint256) ([]byte, error) {
	if p.D == nil || p.D.Sign() == 0 || p.D.Cmp(p.Curve.Params().N) >= 0 {
		return nil, ErrInvalidScalar
	}
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest[:], sha256.New)
	if r.Sign() == 0 || s.Sign() == 0 {
		return nil, fmt.Errorf("%w: degenerate signature", errkind.ErrCrypto)
	}
	return getSignatureSlice(p.Curve, r, s), nil
}

// SignHashable signs some Hashable item for the network specified using
// hash.NetSha256() with the private key.
func (p *PrivateKey) SignHashable(net uint32, hh hash.Hashable) ([]byte, error) {
	return p.SignHash(hash.NetSha256(net, hh))
}

func getSignatureSlice(curve elliptic.Curve, r, s *big.Int) []byte {
	params := curve.Params()
	curveOrderByteSize := params.P.BitLen() / 8
	signature := make([]byte, curveOrderByteSize*2)
	_ = r.FillBytes(signature[:curveOrderByteSize])
	_ = s.FillBytes(signature[curveOrderByteSize:])

	return signature
}

// String implements the stringer interface. It returns the hex-encoded
// scalar, so it must never be used for logging.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Bytes returns the underlying bytes of the PrivateKey.
func (p *PrivateKey) Bytes() []byte {
	result := make([]byte, PrivateKeySize)
	p.D.FillBytes(result)

	return result
}

// Destroy wipes the contents of the private key from memory. Any operations
// with the key after call to Destroy have undefined behavior.
func (p *PrivateKey) Destroy() {
	bits := p.D.Bits()
	clear(bits)
	p.D.SetInt64(0)
}
