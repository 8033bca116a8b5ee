package hash

import (
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256(t *testing.T) {
	input := []byte("hello")
	data := Sha256(input)

	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	actual := hex.EncodeToString(data.BytesBE())

	assert.Equal(t, expected, actual)
}

func TestHashDoubleSha256(t *testing.T) {
	input := []byte("hello")
	data := DoubleSha256(input)

	firstSha := Sha256(input)
	doubleSha := Sha256(firstSha.BytesBE())
	expected := hex.EncodeToString(doubleSha.BytesBE())

	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
	assert.Equal(t, "9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50", actual)
}

func TestHashRipeMD160(t *testing.T) {
	input := []byte("hello")
	data := RipeMD160(input)

	expected := "108f07b8382412612c048d07d13f814118445acd"
	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
}

func TestHash160(t *testing.T) {
	input := "02cccafb41b220cab63fd77108d2d1ebcffa32be26da29a04dca4996afce5f75db"
	publicKeyBytes, _ := hex.DecodeString(input)
	data := Hash160(publicKeyBytes)

	expected := "c8e2b685cc70ec96743b55beb9449782f8f775d8"
	actual := hex.EncodeToString(data.BytesBE())
	assert.Equal(t, expected, actual)
}

func TestChecksum(t *testing.T) {
	input := []byte("hello")
	assert.Equal(t, DoubleSha256(input).BytesBE()[:4], Checksum(input))
	assert.Equal(t, []byte{0x95, 0x95, 0xc9, 0xdf}, Checksum(input))
}

type fixedHash util.Uint256

func (f fixedHash) Hash() util.Uint256 { return util.Uint256(f) }

func TestGetSignedData(t *testing.T) {
	var h fixedHash
	for i := range h {
		h[i] = byte(i)
	}
	data := GetSignedData(0x334f454e, h)
	require.Equal(t, 36, len(data))
	require.Equal(t, []byte{0x4e, 0x45, 0x4f, 0x33}, data[:4])
	require.Equal(t, h[:], data[4:])

	expected := "a0a090df891099f8a723c8b1e34caebf87fd1d931cdbc64682c8994983709c75"
	require.Equal(t, expected, hex.EncodeToString(NetSha256(0x334f454e, h).BytesBE()))
}
