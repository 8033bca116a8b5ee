package keys

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/nspcc-dev/neotx/internal/keytestcases"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKey(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		privKey, err := NewPrivateKeyFromHex(testCase.PrivateKey)
		if testCase.Invalid {
			require.Error(t, err)
			continue
		}

		require.NoError(t, err)
		address := privKey.Address()
		require.Equal(t, testCase.Address, address)

		wif := privKey.WIF()
		require.Equal(t, testCase.Wif, wif)
		pubKey := privKey.PublicKey()
		require.Equal(t, hex.EncodeToString(pubKey.Bytes()), testCase.PublicKey)
		oldD := new(big.Int).Set(privKey.D)
		privKey.Destroy()
		require.NotEqual(t, oldD, privKey.D)
	}
}

func TestNewPrivateKeyOnCurve(t *testing.T) {
	msg := []byte{1, 2, 3}
	h := hash.DoubleSha256(msg)
	t.Run("Secp256r1", func(t *testing.T) {
		p, err := NewPrivateKey()
		require.NoError(t, err)
		sig, err := p.Sign(msg)
		require.NoError(t, err)
		require.True(t, p.PublicKey().Verify(sig, h[:]))
	})
	t.Run("Secp256k1", func(t *testing.T) {
		p, err := NewSecp256k1PrivateKey()
		require.NoError(t, err)
		sig, err := p.Sign(msg)
		require.NoError(t, err)
		require.True(t, p.PublicKey().Verify(sig, h[:]))
	})
}

func TestPrivateKeyFromWIF(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		key, err := NewPrivateKeyFromWIF(testCase.Wif)
		if testCase.Invalid {
			assert.Error(t, err)
			continue
		}

		assert.Nil(t, err)
		assert.Equal(t, testCase.PrivateKey, key.String())
	}
}

func TestPrivateKeyFromBytesErrors(t *testing.T) {
	t.Run("length", func(t *testing.T) {
		_, err := NewPrivateKeyFromBytes(make([]byte, 31))
		require.ErrorIs(t, err, errkind.ErrFormat)
	})
	t.Run("zero", func(t *testing.T) {
		_, err := NewPrivateKeyFromBytes(make([]byte, 32))
		require.ErrorIs(t, err, ErrInvalidScalar)
		require.ErrorIs(t, err, errkind.ErrCrypto)
	})
	t.Run("order", func(t *testing.T) {
		n, err := hex.DecodeString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")
		require.NoError(t, err)
		_, err = NewPrivateKeyFromBytes(n)
		require.ErrorIs(t, err, ErrInvalidScalar)
	})
	t.Run("hex", func(t *testing.T) {
		_, err := NewPrivateKeyFromHex("zz")
		require.ErrorIs(t, err, errkind.ErrFormat)
	})
}

func TestSigning(t *testing.T) {
	// These were taken from the rfcPage:https://tools.ietf.org/html/rfc6979#page-33
	//   public key: U = xG
	//Ux = 60FED4BA255A9D31C961EB74C6356D68C049B8923B61FA6CE669622E60F29FB6
	//Uy = 7903FE1008B8BC99A41AE9E95628BC64F2F1B20C2D7E9F5177A3C294D4462299
	PrivateKey, _ := NewPrivateKeyFromHex("C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721")

	data, err := PrivateKey.SignHash(hash.Sha256([]byte("sample")))
	require.NoError(t, err)

	r := "EFD48B2AACB6A8FD1140DD9CD45E81D69D2C877B56AAF991C34D0EA84EAF3716"
	s := "F7CB1C942D657C41D436C7A1B6E29F65F3E900DBB9AFF4064DC4AB2F843ACDA8"
	assert.Equal(t, strings.ToLower(r+s), hex.EncodeToString(data))
}

func TestSignDeterministic(t *testing.T) {
	priv, err := NewPrivateKeyFromWIF("L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A")
	require.NoError(t, err)
	require.Equal(t, "NY6AaPfnk1HQP6HkShHHyLQ9KBKn78DAqu", priv.Address())

	sig, err := priv.Sign([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "3b0b86ca6a42985b399f87f35542a613555452215deb564af29a6cee76f3dd7e"+
		"66174632ebc4ca0c955b30b77ce53d7985ae5a01d6c869a1d96dcc3cb57a06a0", hex.EncodeToString(sig))

	sig2, err := priv.Sign([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, sig, sig2)
	require.True(t, priv.PublicKey().VerifyMessage(sig, []byte("hello")))
}

type hashed util.Uint256

func (h hashed) Hash() util.Uint256 { return util.Uint256(h) }

func TestSignHashable(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	item := hashed{1, 2, 3}
	sig, err := priv.SignHashable(42, item)
	require.NoError(t, err)
	require.True(t, priv.PublicKey().VerifyHashable(sig, 42, item))
	require.False(t, priv.PublicKey().VerifyHashable(sig, 43, item))

	// Signing magic||hash directly is the same thing.
	direct, err := priv.Sign(hash.GetSignedData(42, item))
	require.NoError(t, err)
	require.Equal(t, sig, direct)
}

func TestSignDestroyed(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)
	priv.Destroy()
	_, err = priv.Sign([]byte("msg"))
	require.ErrorIs(t, err, ErrInvalidScalar)
}
