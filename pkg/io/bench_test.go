package io

import (
	"testing"
)

type somepoint struct {
	a int
	b int
}

func (s *somepoint) EncodeBinary(w *BinWriter) {
	w.WriteU64LE(uint64(s.a))
	w.WriteU64LE(uint64(s.b))
}

func BenchmarkWriteArray(b *testing.B) {
	const numElems = 10
	p := make([]*somepoint, numElems)
	for i := range p {
		p[i] = &somepoint{a: i, b: i}
	}

	w := NewBufBinWriter()

	b.Run("generic", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			w.Reset()
			WriteArray(w.BinWriter, p)
		}
	})
	b.Run("open-coded", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			w.Reset()
			w.WriteVarUint(uint64(len(p)))
			for i := range p {
				p[i].EncodeBinary(w.BinWriter)
			}
		}
	})
}

func BenchmarkReadVarBytes(b *testing.B) {
	w := NewBufBinWriter()
	w.WriteVarBytes(make([]byte, 1024))
	data := w.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewBinReaderFromBuf(data)
		_ = r.ReadVarBytes()
	}
}
