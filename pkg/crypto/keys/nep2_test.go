package keys

import (
	"testing"

	"github.com/nspcc-dev/neotx/internal/keytestcases"
	"github.com/nspcc-dev/neotx/pkg/encoding/base58"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/stretchr/testify/require"
)

// Cheap parameters, the real ones are too slow for unit tests.
var testScrypt = ScryptParams{N: 2, R: 1, P: 1}

func TestNEP2EncryptDecrypt(t *testing.T) {
	for _, testCase := range keytestcases.Arr {
		if testCase.Invalid {
			continue
		}
		privKey, err := NewPrivateKeyFromHex(testCase.PrivateKey)
		require.NoError(t, err)

		encrypted, err := NEP2Encrypt(privKey, testCase.Passphrase, testScrypt)
		require.NoError(t, err)
		require.Equal(t, byte('6'), encrypted[0])

		decrypted, err := NEP2Decrypt(encrypted, testCase.Passphrase, testScrypt)
		require.NoError(t, err)
		require.Equal(t, testCase.PrivateKey, decrypted.String())
		require.Equal(t, testCase.Address, decrypted.Address())
		require.Equal(t, testCase.Wif, decrypted.WIF())

		_, err = NEP2Decrypt(encrypted, testCase.Passphrase+"x", testScrypt)
		require.ErrorIs(t, err, ErrNEP2Password)
	}
}

func TestNEP2Normalization(t *testing.T) {
	privKey, err := NewPrivateKeyFromHex(keytestcases.Arr[0].PrivateKey)
	require.NoError(t, err)

	// U+00E9 and e + U+0301 are the same in NFC.
	encrypted, err := NEP2Encrypt(privKey, "caf\u00e9", testScrypt)
	require.NoError(t, err)
	decrypted, err := NEP2Decrypt(encrypted, "cafe\u0301", testScrypt)
	require.NoError(t, err)
	require.Equal(t, privKey.String(), decrypted.String())
}

func TestNEP2DecryptErrors(t *testing.T) {
	_, err := NEP2Decrypt("garbage", "pass", testScrypt)
	require.Error(t, err)

	_, err = NEP2Decrypt(base58.CheckEncode(make([]byte, 38)), "pass", testScrypt)
	require.ErrorIs(t, err, ErrNEP2Format)

	b := make([]byte, 39)
	_, err = NEP2Decrypt(base58.CheckEncode(b), "pass", testScrypt)
	require.ErrorIs(t, err, ErrNEP2Format)
	require.ErrorIs(t, err, errkind.ErrFormat)

	b[0], b[1] = 0x01, 0x42
	_, err = NEP2Decrypt(base58.CheckEncode(b), "pass", testScrypt)
	require.ErrorIs(t, err, ErrNEP2Format)

	privKey, err := NewPrivateKey()
	require.NoError(t, err)
	_, err = NEP2Encrypt(privKey, "pass", ScryptParams{N: 3, R: 1, P: 1})
	require.ErrorIs(t, err, errkind.ErrCrypto)
}

func TestNEP2ScryptParams(t *testing.T) {
	require.Equal(t, ScryptParams{N: 16384, R: 8, P: 8}, NEP2ScryptParams())
}
