package io_test

import (
	"testing"

	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/stretchr/testify/assert"
)

type smthSerializable struct {
	some [42]byte
}

func (*smthSerializable) DecodeBinary(*io.BinReader) {}

func (ss *smthSerializable) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(ss.some[:])
}

func TestVarSize(t *testing.T) {
	testCases := []struct {
		value    uint64
		expected int
	}{
		{0, 1},
		{252, 1},
		{253, 3},
		{65535, 3},
		{65536, 5},
		{4294967295, 5},
		{4294967296, 9},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, io.GetVarSize(tc.value), "value %d", tc.value)

		w := io.NewBufBinWriter()
		w.WriteVarUint(tc.value)
		assert.Equal(t, tc.expected, len(w.Bytes()), "value %d", tc.value)
	}
}

func TestVarBytesSize(t *testing.T) {
	assert.Equal(t, 1, io.GetVarBytesSize(nil))
	assert.Equal(t, 253+3, io.GetVarBytesSize(make([]byte, 253)))
	assert.Equal(t, 1+5, io.GetVarStringSize("hello"))
}

func TestGetSize(t *testing.T) {
	assert.Equal(t, 42, io.GetSize(&smthSerializable{}))
}
