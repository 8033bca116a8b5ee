package io

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// MaxArraySize is the maximum size of an array which can be decoded.
// It is taken from https://github.com/neo-project/neo/blob/master/neo/IO/Helper.cs#L130
const MaxArraySize = 0x1000000

var (
	// ErrUnexpectedEnd is set when data ends before the value being read.
	ErrUnexpectedEnd = fmt.Errorf("%w: unexpected end of data", errkind.ErrFormat)
	// ErrTooBig is set when a length prefix exceeds the allowed maximum.
	ErrTooBig = fmt.Errorf("%w: length exceeds limit", errkind.ErrFormat)
	// ErrNonCanonical is set for var-uints not encoded in the shortest form.
	ErrNonCanonical = fmt.Errorf("%w: non-canonical var-uint", errkind.ErrFormat)
)

// BinReader is a cursor over a byte slice with a sticky error. Used to
// simplify error handling when reading into a struct with many fields: once
// Err is set all subsequent reads return zero values and don't advance.
type BinReader struct {
	data []byte
	pos  int
	Err  error
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return &BinReader{data: b}
}

// Len returns the number of bytes not read yet.
func (r *BinReader) Len() int {
	return len(r.data) - r.pos
}

// next returns the next n bytes advancing the cursor or sets
// ErrUnexpectedEnd.
func (r *BinReader) next(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n < 0 || r.Len() < n {
		r.Err = ErrUnexpectedEnd
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadU64LE reads a little-endian encoded uint64 value.
func (r *BinReader) ReadU64LE() uint64 {
	if b := r.next(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// ReadU32LE reads a little-endian encoded uint32 value.
func (r *BinReader) ReadU32LE() uint32 {
	if b := r.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// ReadU16LE reads a little-endian encoded uint16 value.
func (r *BinReader) ReadU16LE() uint16 {
	if b := r.next(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

// ReadB reads a byte.
func (r *BinReader) ReadB() byte {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

// ReadBool reads a boolean value encoded in a zero/non-zero byte.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadArray reads an array into arr, which must be a pointer to a slice of
// Serializable-implementing values. maxSize limits the number of elements,
// MaxArraySize is used by default.
func ReadArray[E any, P interface {
	*E
	Serializable
}](r *BinReader, arr *[]E, maxSize ...int) {
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	lu := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if lu > uint64(ms) {
		r.Err = fmt.Errorf("%w: array of %d elements", ErrTooBig, lu)
		return
	}
	// Every element takes at least one byte.
	if lu > uint64(r.Len()) {
		r.Err = ErrUnexpectedEnd
		return
	}
	res := make([]E, lu)
	for i := range res {
		P(&res[i]).DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
	*arr = res
}

// ReadVarUint reads a variable-length-encoded integer from the
// underlying reader. The encoding must be the shortest possible one.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}

	var b = r.ReadB()
	var v uint64

	switch b {
	case 0xfd:
		v = uint64(r.ReadU16LE())
		if r.Err == nil && v < 0xfd {
			r.Err = ErrNonCanonical
		}
	case 0xfe:
		v = uint64(r.ReadU32LE())
		if r.Err == nil && v <= 0xFFFF {
			r.Err = ErrNonCanonical
		}
	case 0xff:
		v = r.ReadU64LE()
		if r.Err == nil && v <= 0xFFFFFFFF {
			r.Err = ErrNonCanonical
		}
	default:
		return uint64(b)
	}
	if r.Err != nil {
		return 0
	}
	return v
}

// ReadVarBytes reads the next set of bytes from the underlying reader.
// ReadVarUInt() is used to determine how large that slice is. The result is
// a copy, so it doesn't alias the source buffer.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if r.Err != nil {
		return nil
	}
	if n > uint64(ms) {
		r.Err = fmt.Errorf("%w: byte-slice of %d bytes", ErrTooBig, n)
		return nil
	}
	if n > uint64(r.Len()) {
		r.Err = ErrUnexpectedEnd
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadBytes copies fixed-size data into the given slice.
func (r *BinReader) ReadBytes(buf []byte) {
	if b := r.next(len(buf)); b != nil {
		copy(buf, b)
	}
}
