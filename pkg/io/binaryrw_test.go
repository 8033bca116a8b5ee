package io

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSerializable uint16

func (t testSerializable) EncodeBinary(w *BinWriter) {
	w.WriteU16LE(uint16(t))
}

func (t *testSerializable) DecodeBinary(r *BinReader) {
	*t = testSerializable(r.ReadU16LE())
}

type badRW struct{}

func (w *badRW) Write(p []byte) (int, error) {
	return 0, errors.New("it always fails")
}

func TestWriteVarUint(t *testing.T) {
	testCases := []struct {
		val uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{1000, []byte{0xfd, 0xe8, 0x03}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}
	for _, tc := range testCases {
		bw := NewBufBinWriter()
		bw.WriteVarUint(tc.val)
		require.NoError(t, bw.Err)
		buf := bw.Bytes()
		assert.Equal(t, tc.enc, buf, "value %d", tc.val)

		br := NewBinReaderFromBuf(buf)
		assert.Equal(t, tc.val, br.ReadVarUint())
		assert.NoError(t, br.Err)
		assert.Equal(t, 0, br.Len())
	}
}

func TestReadVarUintNonCanonical(t *testing.T) {
	for _, enc := range [][]byte{
		{0xfd, 0x01, 0x00},
		{0xfe, 0xff, 0xff, 0x00, 0x00},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
	} {
		br := NewBinReaderFromBuf(enc)
		br.ReadVarUint()
		require.ErrorIs(t, br.Err, ErrNonCanonical)
		require.ErrorIs(t, br.Err, errkind.ErrFormat)
	}
}

func TestWriteLE(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU64LE(0x0102030405060708)
	bw.WriteU32LE(0x01020304)
	bw.WriteU16LE(0x0102)
	bw.WriteBool(true)
	bw.WriteBool(false)
	bw.WriteB(0x42)
	require.NoError(t, bw.Err)
	buf := bw.Bytes()
	assert.Equal(t, []byte{
		8, 7, 6, 5, 4, 3, 2, 1,
		4, 3, 2, 1,
		2, 1,
		1, 0, 0x42}, buf)

	br := NewBinReaderFromBuf(buf)
	assert.Equal(t, uint64(0x0102030405060708), br.ReadU64LE())
	assert.Equal(t, uint32(0x01020304), br.ReadU32LE())
	assert.Equal(t, uint16(0x0102), br.ReadU16LE())
	assert.True(t, br.ReadBool())
	assert.False(t, br.ReadBool())
	assert.Equal(t, byte(0x42), br.ReadB())
	require.NoError(t, br.Err)
}

func TestReadPastEnd(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{1, 2, 3})
	assert.Equal(t, uint32(0), br.ReadU32LE())
	require.ErrorIs(t, br.Err, ErrUnexpectedEnd)
	// Sticky: further reads don't advance or succeed.
	assert.Equal(t, byte(0), br.ReadB())
	assert.Equal(t, 3, br.Len())
}

func TestWriterErrorIsSticky(t *testing.T) {
	bw := NewBinWriterFromIO(&badRW{})
	bw.WriteU32LE(1)
	require.Error(t, bw.Err)
	first := bw.Err
	bw.WriteVarBytes([]byte{1, 2, 3})
	bw.WriteVarUint(1 << 40)
	require.Equal(t, first, bw.Err)
}

func TestBufBinWriterDrain(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteB(1)
	assert.Equal(t, 1, bw.Len())
	assert.Equal(t, []byte{1}, bw.Bytes())
	bw.WriteB(2)
	require.ErrorIs(t, bw.Err, ErrDrained)
	assert.Nil(t, bw.Bytes())

	bw.Reset()
	bw.WriteB(3)
	assert.Equal(t, []byte{3}, bw.Bytes())
}

func TestVarBytesAndString(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes([]byte{0xde, 0xad})
	bw.WriteVarBytes([]byte("neo"))
	bw.WriteVarBytes(nil)
	buf := bw.Bytes()
	assert.Equal(t, []byte{2, 0xde, 0xad, 3, 'n', 'e', 'o', 0}, buf)

	br := NewBinReaderFromBuf(buf)
	b := br.ReadVarBytes()
	assert.Equal(t, []byte{0xde, 0xad}, b)
	assert.Equal(t, []byte("neo"), br.ReadVarBytes())
	assert.Equal(t, []byte{}, br.ReadVarBytes())
	require.NoError(t, br.Err)

	t.Run("copy", func(t *testing.T) {
		buf[1] = 0
		assert.Equal(t, byte(0xde), b[0])
	})
	t.Run("too big", func(t *testing.T) {
		br := NewBinReaderFromBuf([]byte{3, 1, 2, 3})
		br.ReadVarBytes(2)
		require.ErrorIs(t, br.Err, ErrTooBig)
	})
	t.Run("truncated", func(t *testing.T) {
		br := NewBinReaderFromBuf([]byte{3, 1, 2})
		br.ReadVarBytes()
		require.ErrorIs(t, br.Err, ErrUnexpectedEnd)
	})
}

func TestArray(t *testing.T) {
	arr := []testSerializable{1, 2, 0xffff}
	bw := NewBufBinWriter()
	WriteArray(bw.BinWriter, arr)
	WriteArray(bw.BinWriter, []testSerializable(nil))
	buf := bw.Bytes()
	assert.Equal(t, []byte{3, 1, 0, 2, 0, 0xff, 0xff, 0}, buf)

	br := NewBinReaderFromBuf(buf)
	var res, empty []testSerializable
	ReadArray(br, &res)
	ReadArray(br, &empty)
	require.NoError(t, br.Err)
	assert.Equal(t, arr, res)
	assert.Equal(t, 0, len(empty))

	t.Run("limit", func(t *testing.T) {
		br := NewBinReaderFromBuf(buf)
		ReadArray(br, &res, 2)
		require.ErrorIs(t, br.Err, ErrTooBig)
	})
	t.Run("truncated", func(t *testing.T) {
		br := NewBinReaderFromBuf(buf[:4])
		var res []testSerializable
		ReadArray(br, &res)
		require.ErrorIs(t, br.Err, ErrUnexpectedEnd)
		assert.Nil(t, res)
	})
}
