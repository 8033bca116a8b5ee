package txbuilder

import (
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/smartcontract"
	"github.com/nspcc-dev/neotx/pkg/wallet"
)

// SignerKind is the type of the contract witnessing the transaction for a
// signer.
type SignerKind byte

// Signer kinds.
const (
	// KindAccount is a standard single-key signature contract.
	KindAccount SignerKind = iota
	// KindMultisig is a standard m-out-of-n multisignature contract.
	KindMultisig
	// KindContract is a deployed contract with a verify method.
	KindContract
)

// String implements the fmt.Stringer interface.
func (k SignerKind) String() string {
	switch k {
	case KindAccount:
		return "Account"
	case KindMultisig:
		return "Multisig"
	case KindContract:
		return "Contract"
	default:
		return fmt.Sprintf("SignerKind(%d)", byte(k))
	}
}

// MultisigAccount describes a multisignature signer. Keys are the private
// keys available for signing, at least Threshold of them are needed to
// produce a witness.
type MultisigAccount struct {
	Threshold  int
	PublicKeys keys.PublicKeys
	Keys       []*keys.PrivateKey
}

// ContractAccount describes a deployed contract signer, Params are pushed
// for its verify method.
type ContractAccount struct {
	Params []smartcontract.Parameter
}

// SignerAccount represents combination of the transaction.Signer and the
// data needed to witness it, only the part matching Kind is used.
type SignerAccount struct {
	Kind     SignerKind
	Signer   transaction.Signer
	Key      *keys.PrivateKey
	Multisig *MultisigAccount
	Contract *ContractAccount
}

// NewAccountSigner creates a single-key signer with the given scopes. A nil
// key gives a signer that Builder rejects with wallet.ErrMissingKey.
func NewAccountSigner(key *keys.PrivateKey, scopes transaction.WitnessScope) SignerAccount {
	sa := SignerAccount{
		Kind:   KindAccount,
		Signer: transaction.Signer{Scopes: scopes},
		Key:    key,
	}
	if key != nil {
		sa.Signer.Account = key.GetScriptHash()
	}
	return sa
}

// NewMultisigSigner creates an m-out-of-len(pubs) signer with the given
// scopes, signing with privs.
func NewMultisigSigner(m int, pubs keys.PublicKeys, privs []*keys.PrivateKey, scopes transaction.WitnessScope) (SignerAccount, error) {
	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return SignerAccount{}, err
	}
	return SignerAccount{
		Kind: KindMultisig,
		Signer: transaction.Signer{
			Account: hash.Hash160(script),
			Scopes:  scopes,
		},
		Multisig: &MultisigAccount{
			Threshold:  m,
			PublicKeys: pubs.Copy(),
			Keys:       privs,
		},
	}, nil
}

// NewContractSigner creates a signer for the deployed contract.
func NewContractSigner(signer transaction.Signer, params ...smartcontract.Parameter) SignerAccount {
	return SignerAccount{
		Kind:     KindContract,
		Signer:   signer,
		Contract: &ContractAccount{Params: params},
	}
}

// NewWalletSigner creates a signer from the wallet account. Multisignature
// accounts sign with the account key only.
func NewWalletSigner(acc *wallet.Account, scopes transaction.WitnessScope) (SignerAccount, error) {
	if !acc.CanSign() {
		return SignerAccount{}, wallet.ErrAccountClosed
	}
	if m, pubs, ok := smartcontract.ParseMultiSigContractKeys(acc.Contract.Script); ok {
		return NewMultisigSigner(m, pubs, []*keys.PrivateKey{acc.PrivateKey()}, scopes)
	}
	return NewAccountSigner(acc.PrivateKey(), scopes), nil
}

// validate checks that signer data is consistent with the account.
func (s *SignerAccount) validate() error {
	if err := s.Signer.Validate(); err != nil {
		return err
	}
	switch s.Kind {
	case KindAccount:
		if s.Key == nil {
			return wallet.ErrMissingKey
		}
		if s.Key.GetScriptHash() != s.Signer.Account {
			return fmt.Errorf("%w: key of %s for %s", ErrSignerMismatch,
				s.Key.GetScriptHash().StringLE(), s.Signer.Account.StringLE())
		}
	case KindMultisig:
		if s.Multisig == nil {
			return wallet.ErrMissingKey
		}
		script, err := smartcontract.CreateMultiSigRedeemScript(s.Multisig.Threshold, s.Multisig.PublicKeys)
		if err != nil {
			return err
		}
		if hash.Hash160(script) != s.Signer.Account {
			return fmt.Errorf("%w: multisig contract for %s", ErrSignerMismatch, s.Signer.Account.StringLE())
		}
		for _, k := range s.Multisig.Keys {
			if k == nil {
				return wallet.ErrMissingKey
			}
			if !s.Multisig.PublicKeys.Contains(k.PublicKey()) {
				return fmt.Errorf("%w: %s", wallet.ErrUnknownSigningKey, k.PublicKey().StringCompressed())
			}
		}
	case KindContract:
		if s.Contract == nil {
			s.Contract = &ContractAccount{}
		}
		for i := range s.Contract.Params {
			if _, err := smartcontract.ExpandParameterToEmitable(s.Contract.Params[i]); err != nil {
				return fmt.Errorf("contract parameter %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}
	return nil
}

// witness creates the witness for the signed message.
func (s *SignerAccount) witness(msg []byte) (transaction.Witness, error) {
	switch s.Kind {
	case KindAccount:
		return wallet.SingleSigWitness(msg, s.Key)
	case KindMultisig:
		sigs, err := wallet.SignMultiSig(msg, s.Multisig.Keys...)
		if err != nil {
			return transaction.Witness{}, err
		}
		return wallet.MultiSigWitness(s.Multisig.Threshold, s.Multisig.PublicKeys, sigs)
	case KindContract:
		return wallet.ContractWitness(s.Contract.Params)
	default:
		return transaction.Witness{}, fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}
}

// witnessPlaceholder returns a witness of the same size as the one witness
// will produce.
func (s *SignerAccount) witnessPlaceholder() (transaction.Witness, error) {
	switch s.Kind {
	case KindAccount:
		return transaction.Witness{
			InvocationScript:   make([]byte, 2+keys.SignatureLen),
			VerificationScript: smartcontract.CreateSignatureRedeemScript(s.Key.PublicKey()),
		}, nil
	case KindMultisig:
		script, err := smartcontract.CreateMultiSigRedeemScript(s.Multisig.Threshold, s.Multisig.PublicKeys)
		if err != nil {
			return transaction.Witness{}, err
		}
		return transaction.Witness{
			InvocationScript:   make([]byte, s.Multisig.Threshold*(2+keys.SignatureLen)),
			VerificationScript: script,
		}, nil
	default:
		return s.witness(nil)
	}
}

func (s *SignerAccount) copy() SignerAccount {
	res := *s
	res.Signer = *s.Signer.Copy()
	if s.Multisig != nil {
		ms := *s.Multisig
		ms.PublicKeys = s.Multisig.PublicKeys.Copy()
		ms.Keys = append([]*keys.PrivateKey(nil), s.Multisig.Keys...)
		res.Multisig = &ms
	}
	if s.Contract != nil {
		res.Contract = &ContractAccount{Params: append([]smartcontract.Parameter(nil), s.Contract.Params...)}
	}
	return res
}
