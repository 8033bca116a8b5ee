package wallet

import (
	"fmt"
	"slices"

	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/smartcontract"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
)

// Witness construction errors.
var (
	ErrNotEnoughSignatures = fmt.Errorf("%w: not enough signatures", errkind.ErrConfiguration)
	ErrUnknownSigningKey   = fmt.Errorf("%w: signing key is not a part of the multisignature set", errkind.ErrConfiguration)
	ErrDuplicateSignature  = fmt.Errorf("%w: several signatures for the same key", errkind.ErrConfiguration)
	ErrMissingKey          = fmt.Errorf("%w: no key to sign with", errkind.ErrConfiguration)
)

// KeySignature is a signature paired with the public key it was made with.
type KeySignature struct {
	PublicKey *keys.PublicKey
	Signature []byte
}

// SingleSigWitness signs msg with priv and returns a standard signature
// contract witness for it.
func SingleSigWitness(msg []byte, priv *keys.PrivateKey) (transaction.Witness, error) {
	if priv == nil {
		return transaction.Witness{}, ErrMissingKey
	}
	sig, err := priv.Sign(msg)
	if err != nil {
		return transaction.Witness{}, err
	}
	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, sig)
	if w.Err != nil {
		return transaction.Witness{}, w.Err
	}
	return transaction.Witness{
		InvocationScript:   w.Bytes(),
		VerificationScript: smartcontract.CreateSignatureRedeemScript(priv.PublicKey()),
	}, nil
}

// SignMultiSig signs msg with every key given and pairs the results with
// the corresponding public keys.
func SignMultiSig(msg []byte, privs ...*keys.PrivateKey) ([]KeySignature, error) {
	res := make([]KeySignature, 0, len(privs))
	for _, p := range privs {
		if p == nil {
			return nil, ErrMissingKey
		}
		sig, err := p.Sign(msg)
		if err != nil {
			return nil, err
		}
		res = append(res, KeySignature{PublicKey: p.PublicKey(), Signature: sig})
	}
	return res, nil
}

// MultiSigWitness returns an m-out-of-len(pubs) multisignature witness.
// Signatures are pushed in the order of the sorted key set, only the first
// m of them are used. Every signature must belong to one of pubs and no key
// can be used twice.
func MultiSigWitness(m int, pubs keys.PublicKeys, sigs []KeySignature) (transaction.Witness, error) {
	verif, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return transaction.Witness{}, err
	}
	ordered, err := orderSignatures(pubs, sigs)
	if err != nil {
		return transaction.Witness{}, err
	}
	if len(ordered) < m {
		return transaction.Witness{}, fmt.Errorf("%w: %d out of %d", ErrNotEnoughSignatures, len(ordered), m)
	}
	invoc, err := pushSignatures(ordered[:m])
	if err != nil {
		return transaction.Witness{}, err
	}
	return transaction.Witness{
		InvocationScript:   invoc,
		VerificationScript: verif,
	}, nil
}

// orderSignatures returns signatures sorted by the canonical order of their
// keys.
func orderSignatures(pubs keys.PublicKeys, sigs []KeySignature) ([][]byte, error) {
	sorted := pubs.Copy()
	slices.SortFunc(sorted, (*keys.PublicKey).Cmp)
	bound := make([][]byte, len(sorted))
	for _, s := range sigs {
		if s.PublicKey == nil {
			return nil, ErrMissingKey
		}
		i := slices.IndexFunc(sorted, s.PublicKey.Equal)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSigningKey, s.PublicKey.StringCompressed())
		}
		if bound[i] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSignature, s.PublicKey.StringCompressed())
		}
		if len(s.Signature) != keys.SignatureLen {
			return nil, fmt.Errorf("%w: signature of %d bytes", errkind.ErrCrypto, len(s.Signature))
		}
		bound[i] = s.Signature
	}
	return slices.DeleteFunc(bound, func(b []byte) bool { return b == nil }), nil
}

func pushSignatures(sigs [][]byte) ([]byte, error) {
	w := io.NewBufBinWriter()
	for _, sig := range sigs {
		emit.Bytes(w.BinWriter, sig)
	}
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// ContractWitness returns a witness for a deployed contract account. The
// verification script is empty, so the contract's verify method is used and
// the invocation script pushes params for it.
func ContractWitness(params []smartcontract.Parameter) (transaction.Witness, error) {
	w := io.NewBufBinWriter()
	for i := range params {
		v, err := smartcontract.ExpandParameterToEmitable(params[i])
		if err != nil {
			return transaction.Witness{}, fmt.Errorf("parameter %d: %w", i, err)
		}
		emit.Any(w.BinWriter, v)
	}
	if w.Err != nil {
		return transaction.Witness{}, w.Err
	}
	return transaction.Witness{
		InvocationScript:   w.Bytes(),
		VerificationScript: []byte{},
	}, nil
}
