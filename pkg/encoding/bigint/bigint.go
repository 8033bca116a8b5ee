/*
Package bigint converts integers to and from the little-endian two's
complement form used by the VM.
*/
package bigint

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neotx/pkg/util/slice"
)

// MaxBytesLen is the maximum length of a serialized integer suitable for Neo VM.
const MaxBytesLen = 32 // 256-bit signed integer

var bigOne = big.NewInt(1)

// FromBytes converts data in little-endian two's complement format to
// an integer. Empty data is zero.
func FromBytes(data []byte) *big.Int {
	if len(data) == 0 {
		return big.NewInt(0)
	}
	n := new(big.Int).SetBytes(slice.CopyReverse(data))
	if data[len(data)-1]&0x80 != 0 {
		mod := new(big.Int).Lsh(bigOne, uint(len(data)*8))
		n.Sub(n, mod)
	}
	return n
}

// FromBytesUnsigned converts data in little-endian format to an unsigned integer.
func FromBytesUnsigned(data []byte) *big.Int {
	bs := slice.CopyReverse(data)
	return new(big.Int).SetBytes(bs)
}

// ToBytes converts an integer to the shortest little-endian two's
// complement form. Zero is an empty slice.
func ToBytes(n *big.Int) []byte {
	sign := n.Sign()
	if sign == 0 {
		return []byte{}
	}

	var m = n
	if sign < 0 {
		// -n - 1 has the same bytes as n with all the bits inverted.
		m = new(big.Int).Neg(n)
		m.Sub(m, bigOne)
	}
	b := m.Bytes()
	if len(b) == 0 || b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	if sign < 0 {
		for i := range b {
			b[i] = ^b[i]
		}
	}
	slice.Reverse(b)
	return b
}

// Uint256FromBytes converts data in little-endian two's complement format
// to a 256-bit integer. Data longer than MaxBytesLen is truncated.
func Uint256FromBytes(data []byte) *uint256.Int {
	n := new(uint256.Int)
	if len(data) == 0 {
		return n
	}
	if len(data) > MaxBytesLen {
		data = data[:MaxBytesLen]
	}
	var buf [MaxBytesLen]byte
	copy(buf[:], data)
	if data[len(data)-1]&0x80 != 0 {
		for i := len(data); i < MaxBytesLen; i++ {
			buf[i] = 0xff
		}
	}
	slice.Reverse(buf[:])
	return n.SetBytes(buf[:])
}

// Uint256ToBytes converts a 256-bit integer treated as a two's complement
// signed value into the shortest little-endian form. Zero is an empty slice.
func Uint256ToBytes(n *uint256.Int) []byte {
	if n.IsZero() {
		return []byte{}
	}
	fill := true
	var filler byte
	b := n.Bytes()
	if n.Sign() < 0 {
		var sig int
		for ; sig < len(b); sig++ {
			if b[sig] < 0xff {
				if b[sig] >= 0x80 {
					fill = false
				}
				break
			}
		}
		b = b[sig:]
		filler = 0xff
	} else if b[0] < 0x80 {
		fill = false
	}
	slice.Reverse(b)
	if fill {
		b = append(b, filler)
	}
	return b
}
