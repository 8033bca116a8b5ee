package wallet

import (
	"encoding/hex"
	"math/rand/v2"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/smartcontract"
	"github.com/nspcc-dev/neotx/pkg/smartcontract/scparser"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
	"github.com/stretchr/testify/require"
)

const fixtureWIF = "L25kgAQJXNHnhc7Sx9bomxxwVSMsZdkaNQ3m2VfHrnLzKWMLP13A"

func TestSingleSigWitness(t *testing.T) {
	priv, err := keys.NewPrivateKeyFromWIF(fixtureWIF)
	require.NoError(t, err)

	w, err := SingleSigWitness([]byte("hello"), priv)
	require.NoError(t, err)
	require.Equal(t, "0c40"+
		"3b0b86ca6a42985b399f87f35542a613555452215deb564af29a6cee76f3dd7e"+
		"66174632ebc4ca0c955b30b77ce53d7985ae5a01d6c869a1d96dcc3cb57a06a0",
		hex.EncodeToString(w.InvocationScript))
	require.Equal(t, "0c21"+"0265bf906bf385fbf3f777832e55a87991bcfbe19b097fb7c5ca2e4025a4d5e5d6"+"4156e7b327",
		hex.EncodeToString(w.VerificationScript))
	require.Equal(t, "2272016b55b0e0e779aa93ab10d78e35592d8f85", w.ScriptHash().StringLE())
	require.True(t, priv.PublicKey().VerifyMessage(w.InvocationScript[2:], []byte("hello")))

	_, err = SingleSigWitness([]byte("hello"), nil)
	require.ErrorIs(t, err, ErrMissingKey)
}

func genKeys(t *testing.T, n int) ([]*keys.PrivateKey, keys.PublicKeys) {
	privs := make([]*keys.PrivateKey, n)
	pubs := make(keys.PublicKeys, n)
	for i := range privs {
		p, err := keys.NewPrivateKey()
		require.NoError(t, err)
		privs[i] = p
		pubs[i] = p.PublicKey()
	}
	return privs, pubs
}

func pushedSignatures(t *testing.T, invoc []byte) [][]byte {
	var res [][]byte
	ctx := scparser.NewContext(invoc, 0)
	for ctx.NextIP() < len(invoc) {
		op, param, err := ctx.Next()
		require.NoError(t, err)
		require.Equal(t, opcode.PUSHDATA1, op)
		require.Equal(t, keys.SignatureLen, len(param))
		res = append(res, param)
	}
	return res
}

func TestMultiSigWitness(t *testing.T) {
	msg := []byte("multisig message")
	privs, pubs := genKeys(t, 4)
	sigs, err := SignMultiSig(msg, privs...)
	require.NoError(t, err)

	w, err := MultiSigWitness(3, pubs, sigs)
	require.NoError(t, err)
	expectedVerif, err := smartcontract.CreateMultiSigRedeemScript(3, pubs)
	require.NoError(t, err)
	require.Equal(t, expectedVerif, w.VerificationScript)

	pushed := pushedSignatures(t, w.InvocationScript)
	require.Equal(t, 3, len(pushed))

	_, sortedKeys, ok := smartcontract.ParseMultiSigContractKeys(w.VerificationScript)
	require.True(t, ok)
	// Signatures follow the key order of the verification script.
	var k int
	for _, sig := range pushed {
		for k < len(sortedKeys) && !sortedKeys[k].VerifyMessage(sig, msg) {
			k++
		}
		require.Less(t, k, len(sortedKeys))
		k++
	}

	t.Run("order doesn't depend on input", func(t *testing.T) {
		shuffledSigs := append([]KeySignature(nil), sigs...)
		shuffledPubs := pubs.Copy()
		for range 10 {
			rand.Shuffle(len(shuffledSigs), func(i, j int) {
				shuffledSigs[i], shuffledSigs[j] = shuffledSigs[j], shuffledSigs[i]
			})
			rand.Shuffle(len(shuffledPubs), func(i, j int) {
				shuffledPubs[i], shuffledPubs[j] = shuffledPubs[j], shuffledPubs[i]
			})
			other, err := MultiSigWitness(3, shuffledPubs, shuffledSigs)
			require.NoError(t, err)
			require.Equal(t, w, other)
		}
	})
	t.Run("not enough", func(t *testing.T) {
		_, err := MultiSigWitness(3, pubs, sigs[:2])
		require.ErrorIs(t, err, ErrNotEnoughSignatures)
		require.ErrorIs(t, err, errkind.ErrConfiguration)
	})
	t.Run("exact m", func(t *testing.T) {
		w, err := MultiSigWitness(2, pubs, sigs[1:3])
		require.NoError(t, err)
		require.Equal(t, 2, len(pushedSignatures(t, w.InvocationScript)))
	})
	t.Run("unknown key", func(t *testing.T) {
		stranger, _ := genKeys(t, 1)
		extra, err := SignMultiSig(msg, stranger[0])
		require.NoError(t, err)
		_, err = MultiSigWitness(3, pubs, append(sigs[:3:3], extra...))
		require.ErrorIs(t, err, ErrUnknownSigningKey)
	})
	t.Run("repeated key", func(t *testing.T) {
		_, err := MultiSigWitness(2, pubs, []KeySignature{sigs[0], sigs[0]})
		require.ErrorIs(t, err, ErrDuplicateSignature)
	})
	t.Run("bad signature length", func(t *testing.T) {
		bad := []KeySignature{{PublicKey: pubs[0], Signature: []byte{1, 2, 3}}}
		_, err := MultiSigWitness(1, pubs, bad)
		require.ErrorIs(t, err, errkind.ErrCrypto)
	})
	t.Run("bad threshold", func(t *testing.T) {
		_, err := MultiSigWitness(5, pubs, sigs)
		require.ErrorIs(t, err, smartcontract.ErrInvalidMultisig)
		_, err = MultiSigWitness(0, pubs, sigs)
		require.ErrorIs(t, err, smartcontract.ErrInvalidMultisig)
	})
	t.Run("nil key", func(t *testing.T) {
		withNil := append(pubs.Copy(), nil)
		require.NotPanics(t, func() {
			_, err := MultiSigWitness(1, withNil, sigs)
			require.ErrorIs(t, err, smartcontract.ErrInvalidMultisig)
		})
	})
}

func TestContractWitness(t *testing.T) {
	w, err := ContractWitness(nil)
	require.NoError(t, err)
	require.Empty(t, w.InvocationScript)
	require.Empty(t, w.VerificationScript)

	w, err = ContractWitness([]smartcontract.Parameter{
		smartcontract.NewIntegerParameter(5),
		smartcontract.NewStringParameter("ab"),
		smartcontract.NewHash160Parameter(util.Uint160{1}),
	})
	require.NoError(t, err)
	require.Equal(t, 0, len(w.VerificationScript))
	require.Equal(t, byte(opcode.PUSH5), w.InvocationScript[0])
	require.Equal(t, []byte{byte(opcode.PUSHDATA1), 2, 'a', 'b'}, w.InvocationScript[1:5])
	require.Equal(t, []byte{byte(opcode.PUSHDATA1), 20, 0x01}, w.InvocationScript[5:8])
	require.Equal(t, 1+4+22, len(w.InvocationScript))

	_, err = ContractWitness([]smartcontract.Parameter{{Type: smartcontract.InteropInterfaceType}})
	require.Error(t, err)
}
