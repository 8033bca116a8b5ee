package address

import (
	"testing"

	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160DecodeEncodeAddress(t *testing.T) {
	addrs := []string{
		"NL1H4he1ggRajT1ZVqn23zveMRaH9jDvfh",
		"NjFaAs6ZLk2KAQXgKezDBmhUzEuwLsBcxQ",
		"NKuyBkoGdZZSLyPbJEetheRhMjeznFZszf",
	}
	for _, addr := range addrs {
		val, err := StringToUint160(addr)
		require.NoError(t, err)
		assert.Equal(t, addr, Uint160ToString(val))
	}
}

func TestUint160DecodeKnownAddress(t *testing.T) {
	address := "NNnFn8iHWWnJe9QYoN1r4PeXMuVpfLVRS7"

	val, err := StringToUint160(address)
	require.NoError(t, err)

	assert.Equal(t, "b28427088a3729b2536d10122960394e8be6721f", val.StringLE())
	assert.Equal(t, "1f72e68b4e39602912106d53b229378a082784b2", val.String())
}

func TestEncodeWithPrefix(t *testing.T) {
	val, err := util.Uint160DecodeStringBE("1f72e68b4e39602912106d53b229378a082784b2")
	require.NoError(t, err)

	legacy := EncodeWithPrefix(NEO2Prefix, val)
	require.Equal(t, "AJeAEsmeD6t279Dx4n2HWdUvUmmXQ4iJvP", legacy)

	dec, err := DecodeWithPrefix(NEO2Prefix, legacy)
	require.NoError(t, err)
	require.Equal(t, val, dec)

	_, err = StringToUint160(legacy)
	require.ErrorIs(t, err, ErrWrongPrefix)
}

func TestUint160DecodeBadBase58(t *testing.T) {
	address := "NNnFn8iHWWnJe9QYoN1r4PeXMuVpfLVRS@"

	_, err := StringToUint160(address)
	require.ErrorIs(t, err, base58.ErrInvalidString)
}

func TestUint160DecodeBadPrefix(t *testing.T) {
	// The same NNnFn8iHWWnJe9QYoN1r4PeXMuVpfLVRS7 key encoded with 0x18 prefix.
	address := "AhymDz4vvHLtvaN36CMbzkki7H2U8ENb8F"

	_, err := StringToUint160(address)
	require.ErrorIs(t, err, ErrWrongPrefix)
	require.ErrorIs(t, err, errkind.ErrFormat)
}

func TestUint160DecodeBadLength(t *testing.T) {
	_, err := StringToUint160(base58.CheckEncode([]byte{NEO3Prefix, 1, 2, 3}))
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestCorruptedCharacterRejected(t *testing.T) {
	const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	addr := "NNnFn8iHWWnJe9QYoN1r4PeXMuVpfLVRS7"
	for i := range addr {
		for _, c := range []byte(alphabet) {
			if c == addr[i] {
				continue
			}
			b := []byte(addr)
			b[i] = c
			_, err := StringToUint160(string(b))
			require.Error(t, err, "position %d, char %c", i, c)
		}
	}
}
