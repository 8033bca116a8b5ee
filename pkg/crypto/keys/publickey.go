package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/encoding/address"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
)

const (
	// PublicKeySize is the size of a compressed public key.
	PublicKeySize = 33
	// UncompressedPublicKeySize is the size of an uncompressed public key.
	UncompressedPublicKeySize = 65

	// MaxPublicKeys is the maximum number of keys in a multisignature
	// account.
	MaxPublicKeys = 1024

	coordLen = 32
)

var (
	// ErrInvalidPublicKey is returned for wrongly sized or prefixed keys.
	ErrInvalidPublicKey = fmt.Errorf("%w: invalid public key", errkind.ErrFormat)
	// ErrNotOnCurve is returned for points that don't belong to the curve.
	ErrNotOnCurve = fmt.Errorf("%w: point is not on the curve", errkind.ErrCrypto)
)

// PublicKey is an ECDSA public key, secp256r1 unless created for another
// curve explicitly.
type PublicKey ecdsa.PublicKey

// PublicKeys is a list of public keys. Sorting it gives the order keys take
// in multisignature verification scripts.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int           { return len(keys) }
func (keys PublicKeys) Swap(i, j int)      { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool { return keys[i].Cmp(keys[j]) < 0 }

// Contains checks whether pKey is in the list.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	return slices.ContainsFunc(keys, pKey.Equal)
}

// Copy returns a shallow copy of the list.
func (keys PublicKeys) Copy() PublicKeys {
	return slices.Clone(keys)
}

// NewPublicKeyFromString decodes a hex-encoded secp256r1 key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return NewPublicKeyFromBytes(b, elliptic.P256())
}

// NewPublicKeyFromBytes decodes a compressed or uncompressed key on the
// given curve. Trailing data is an error.
func NewPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	p := new(PublicKey)
	if err := p.decodeBytes(b, curve); err != nil {
		return nil, err
	}
	return p, nil
}

// Equal checks whether both keys are the same point.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.X.Cmp(key.X) == 0 && p.Y.Cmp(key.Y) == 0
}

// Cmp compares keys by their compressed encoding.
func (p *PublicKey) Cmp(key *PublicKey) int {
	return bytes.Compare(p.Bytes(), key.Bytes())
}

// Bytes returns the compressed key encoding: 0x02 or 0x03 depending on Y
// parity followed by X. Nil is returned for an empty key.
func (p *PublicKey) Bytes() []byte {
	if p.X == nil || p.Y == nil {
		return nil
	}
	res := make([]byte, PublicKeySize)
	res[0] = 0x02 | byte(p.Y.Bit(0))
	p.X.FillBytes(res[1:])
	return res
}

// UncompressedBytes returns the 0x04-prefixed X‖Y encoding.
func (p *PublicKey) UncompressedBytes() []byte {
	if p.X == nil || p.Y == nil {
		return nil
	}
	res := make([]byte, UncompressedPublicKeySize)
	res[0] = 0x04
	p.X.FillBytes(res[1 : 1+coordLen])
	p.Y.FillBytes(res[1+coordLen:])
	return res
}

// DecodeBytes decodes a secp256r1 key, trailing data is an error.
func (p *PublicKey) DecodeBytes(data []byte) error {
	return p.decodeBytes(data, elliptic.P256())
}

func (p *PublicKey) decodeBytes(data []byte, curve elliptic.Curve) error {
	r := io.NewBinReaderFromBuf(data)
	p.decodeBinary(r, curve)
	if r.Err != nil {
		return r.Err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidPublicKey, r.Len())
	}
	return nil
}

// DecodeBinary implements the io.Serializable interface.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	p.decodeBinary(r, elliptic.P256())
}

func (p *PublicKey) decodeBinary(r *io.BinReader, curve elliptic.Curve) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	var (
		params = curve.Params()
		x, y   *big.Int
		coord  = make([]byte, coordLen)
	)
	switch prefix {
	case 0x02, 0x03:
		r.ReadBytes(coord)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(coord)
		if x.Cmp(params.P) >= 0 {
			r.Err = fmt.Errorf("%w: X is out of field", ErrNotOnCurve)
			return
		}
		var err error
		y, err = uncompressY(x, uint(prefix&1), curve)
		if err != nil {
			r.Err = err
			return
		}
	case 0x04:
		r.ReadBytes(coord)
		x = new(big.Int).SetBytes(coord)
		r.ReadBytes(coord)
		if r.Err != nil {
			return
		}
		y = new(big.Int).SetBytes(coord)
		if x.Cmp(params.P) >= 0 || y.Cmp(params.P) >= 0 || !curve.IsOnCurve(x, y) {
			r.Err = ErrNotOnCurve
			return
		}
	default:
		r.Err = fmt.Errorf("%w: unknown prefix %#x", ErrInvalidPublicKey, prefix)
		return
	}
	p.Curve, p.X, p.Y = curve, x, y
}

// uncompressY solves y² = x³ + ax + b for the given X picking the root with
// the requested parity. a is 0 for secp256k1 and -3 for secp256r1.
func uncompressY(x *big.Int, parity uint, curve elliptic.Curve) (*big.Int, error) {
	params := curve.Params()
	y2 := new(big.Int).Exp(x, big.NewInt(3), params.P)
	if _, ok := curve.(*secp256k1.KoblitzCurve); !ok {
		threeX := new(big.Int).Lsh(x, 1)
		threeX.Add(threeX, x)
		y2.Sub(y2, threeX)
	}
	y2.Add(y2, params.B)
	y2.Mod(y2, params.P)
	y := new(big.Int).ModSqrt(y2, params.P)
	if y == nil {
		return nil, fmt.Errorf("%w: no Y for the compressed point", ErrNotOnCurve)
	}
	if y.Bit(0) != parity {
		y.Neg(y)
		y.Mod(y, params.P)
	}
	return y, nil
}

// EncodeBinary implements the io.Serializable interface.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// GetVerificationScript returns the single-signature verification script of
// the key.
func (p *PublicKey) GetVerificationScript() []byte {
	buf := io.NewBufBinWriter()
	emit.CheckSig(buf.BinWriter, p.Bytes())
	return buf.Bytes()
}

// GetScriptHash returns the account script hash of the key.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns the account address of the key.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash())
}

// Verify checks a 64-byte r‖s signature of the digest. Malformed signatures
// and empty keys never verify.
func (p *PublicKey) Verify(signature []byte, digest []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != SignatureLen {
		return false
	}
	curve := p.Curve
	if curve == nil {
		curve = elliptic.P256()
	}
	r := new(big.Int).SetBytes(signature[:coordLen])
	s := new(big.Int).SetBytes(signature[coordLen:])
	return ecdsa.Verify(&ecdsa.PublicKey{Curve: curve, X: p.X, Y: p.Y}, digest, r, s)
}

// VerifyMessage checks the signature of the double SHA256 of msg, it's the
// counterpart of PrivateKey.Sign.
func (p *PublicKey) VerifyMessage(signature []byte, msg []byte) bool {
	digest := hash.DoubleSha256(msg)
	return p.Verify(signature, digest[:])
}

// VerifyHashable checks the signature of hh made for the given network.
func (p *PublicKey) VerifyHashable(signature []byte, net uint32, hh hash.Hashable) bool {
	digest := hash.NetSha256(net, hh)
	return p.Verify(signature, digest[:])
}

// StringCompressed returns the hex-encoded compressed key.
func (p *PublicKey) StringCompressed() string {
	return hex.EncodeToString(p.Bytes())
}

// String implements the fmt.Stringer interface.
func (p *PublicKey) String() string {
	return p.StringCompressed()
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringCompressed())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return p.DecodeBytes(b)
}
