package io

import (
	"encoding/binary"
	"io"
)

// BinWriter writes little-endian primitives and var-length prefixed data to
// an io.Writer. The first write error is kept in Err and turns all
// subsequent writes into no-ops, so encoders check it once at the end.
type BinWriter struct {
	w   io.Writer
	Err error
	buf [9]byte
}

// NewBinWriterFromIO returns a BinWriter writing to iow.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteBytes writes b as is.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err == nil {
		_, w.Err = w.w.Write(b)
	}
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.buf[0] = b
	w.WriteBytes(w.buf[:1])
}

// WriteBool writes true as 1 and false as 0.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteU16LE writes a little-endian uint16.
func (w *BinWriter) WriteU16LE(v uint16) {
	w.WriteBytes(binary.LittleEndian.AppendUint16(w.buf[:0], v))
}

// WriteU32LE writes a little-endian uint32.
func (w *BinWriter) WriteU32LE(v uint32) {
	w.WriteBytes(binary.LittleEndian.AppendUint32(w.buf[:0], v))
}

// WriteU64LE writes a little-endian uint64.
func (w *BinWriter) WriteU64LE(v uint64) {
	w.WriteBytes(binary.LittleEndian.AppendUint64(w.buf[:0], v))
}

// WriteVarUint writes v in the shortest var-uint form: values below 0xfd
// take one byte, larger ones get a 0xfd, 0xfe or 0xff marker followed by
// 2, 4 or 8 bytes.
func (w *BinWriter) WriteVarUint(v uint64) {
	b := w.buf[:0]
	switch {
	case v < 0xfd:
		b = append(b, byte(v))
	case v <= 0xffff:
		b = binary.LittleEndian.AppendUint16(append(b, 0xfd), uint16(v))
	case v <= 0xffffffff:
		b = binary.LittleEndian.AppendUint32(append(b, 0xfe), uint32(v))
	default:
		b = binary.LittleEndian.AppendUint64(append(b, 0xff), v)
	}
	w.WriteBytes(b)
}

// WriteVarBytes writes b prefixed with its var-uint length.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteArray writes the var-uint length of arr followed by its elements.
// Nil and empty slices are encoded the same way.
func WriteArray[Slice ~[]E, E encodable](w *BinWriter, arr Slice) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		arr[i].EncodeBinary(w)
	}
}
