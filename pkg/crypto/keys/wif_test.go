package keys

import (
	"encoding/hex"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wifTestCase struct {
	wif        string
	privateKey string
	version    byte
}

var wifTestCases = []wifTestCase{
	{
		wif:        "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn",
		privateKey: "0000000000000000000000000000000000000000000000000000000000000001",
		version:    0x80,
	},
	{
		wif:        "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o",
		privateKey: "2bfe58ab6d9fd575bdc3a624e4825dd2b375d64ac033fbc46ea79dbab4f69a3e",
		version:    0x80,
	},
	{
		wif:        "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o",
		privateKey: "2bfe58ab6d9fd575bdc3a624e4825dd2b375d64ac033fbc46ea79dbab4f69a3e",
		version:    0x00,
	},
	{
		wif:        "cP4Dg6QqQHxEwN8ZbYuxWCPRDXf1DvgnH3YEeFe24L82mfeJsqW3",
		privateKey: "2bfe58ab6d9fd575bdc3a624e4825dd2b375d64ac033fbc46ea79dbab4f69a3e",
		version:    0xef,
	},
}

func TestWIFEncodeDecode(t *testing.T) {
	for _, testCase := range wifTestCases {
		b, err := hex.DecodeString(testCase.privateKey)
		assert.Nil(t, err)
		wif, err := WIFEncode(b, testCase.version)
		assert.Nil(t, err)
		assert.Equal(t, testCase.wif, wif)

		WIF, err := WIFDecode(wif, testCase.version)
		assert.Nil(t, err)
		assert.Equal(t, testCase.privateKey, WIF.PrivateKey.String())
		assert.True(t, WIF.Compressed)
		assert.Equal(t, wif, WIF.S)
		if testCase.version != 0 {
			assert.Equal(t, testCase.version, WIF.Version)
		} else {
			assert.EqualValues(t, WIFVersion, WIF.Version)
		}
	}

	wifInv := []byte{0, 1, 2}
	_, err := WIFEncode(wifInv, 0)
	require.ErrorIs(t, err, errkind.ErrFormat)
}

func TestWIFDecodeErrors(t *testing.T) {
	testCases := map[string]struct {
		wif string
		err error
	}{
		"garbage":            {"garbage0OIl", base58.ErrInvalidString},
		"too long":           {"L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13Ahc7S", ErrWIFLength},
		"too short":          {"L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWML", ErrWIFLength},
		"uncompressed":       {"5JvBoUxaRZ1ddqjhKPLfh6Rug4w7vcWoyxX5Y9m26qnmFiz7MuQ", ErrWIFLength},
		"version":            {"M25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A", ErrWIFVersion},
		"version, good sum":  {"LAfPFKmChXCvg88DWDzha94RjsZXQ42JXqftax1PMG6hbqWTuL7c", ErrWIFVersion},
		"compression flag":   {"L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWSHA5oW", ErrWIFCompression},
		"checksum":           {"L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13B", base58.ErrChecksum},
		"empty check string": {base58.CheckEncode([]byte{}), ErrWIFLength},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := WIFDecode(tc.wif, 0)
			require.ErrorIs(t, err, tc.err)
			require.ErrorIs(t, err, errkind.ErrFormat)
		})
	}
}

func TestWIFDecodeFixture(t *testing.T) {
	w, err := WIFDecode("L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A", 0)
	require.NoError(t, err)
	require.Equal(t, "9117f4bf9be717c9a90994326897f4243503accd06712162267e77f18b49c3a3", w.PrivateKey.String())
	require.Equal(t, "L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A", w.PrivateKey.WIF())
}

func TestWIFByteFlips(t *testing.T) {
	const wif = "L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A"
	raw, err := base58.Decode(wif)
	require.NoError(t, err)
	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		_, err := WIFDecode(base58.Encode(mutated), 0)
		require.Error(t, err, "byte %d", i)
	}
}

func TestBadWIFDecode(t *testing.T) {
	compr := make([]byte, 34)
	compr[33] = 1
	compr[0] = WIFVersion
	compr[32] = 1

	s := base58.CheckEncode(compr)
	_, err := WIFDecode(s, 0)
	require.NoError(t, err)

	// Zero scalar.
	compr[32] = 0
	s = base58.CheckEncode(compr)
	_, err = WIFDecode(s, 0)
	require.ErrorIs(t, err, ErrInvalidScalar)
}
