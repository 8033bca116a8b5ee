package wallet

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/encoding/address"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/smartcontract"
	"github.com/nspcc-dev/neotx/pkg/smartcontract/scparser"
	"github.com/nspcc-dev/neotx/pkg/util"
)

// Account errors.
var (
	ErrAccountClosed   = fmt.Errorf("%w: account has no private key", errkind.ErrConfiguration)
	ErrKeyNotInSet     = fmt.Errorf("%w: own public key was not found among multisig keys", errkind.ErrConfiguration)
	ErrSignerNotFound  = fmt.Errorf("%w: account is not a transaction signer", errkind.ErrConfiguration)
	ErrUnsupportedCode = fmt.Errorf("%w: account contract is neither signature nor multisignature one", errkind.ErrConfiguration)
)

// Account represents a Neo account. It holds the private and public key
// along with the verification contract of the account.
type Account struct {
	// Neo private key.
	privateKey *keys.PrivateKey

	// Neo public key.
	publicKey *keys.PublicKey

	// Neo N3 address (version 0x35), the form NEP-2 and NEP-6 use.
	Address string

	// Encrypted WIF of the account also known as the key.
	EncryptedWIF string

	// Contract is a Contract object which describes the details of the contract.
	Contract *Contract
}

// Contract represents a verification contract of an Account.
type Contract struct {
	// Script of the contract.
	Script []byte

	// A list of parameters needed to invoke the verification script.
	Parameters []ContractParam
}

// ContractParam is a named verification script parameter.
type ContractParam struct {
	Name string
	Type smartcontract.ParamType
}

// ScriptHash returns the hash of contract's script.
func (c Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// NewAccount creates a new Account with a random generated PrivateKey.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// Decrypt decrypts the EncryptedWIF with the given passphrase returning error
// if anything goes wrong.
func (a *Account) Decrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.EncryptedWIF == "" {
		return errors.New("no encrypted wif in the account")
	}
	priv, err := keys.NEP2Decrypt(a.EncryptedWIF, passphrase, scrypt)
	if err != nil {
		return err
	}
	a.setKey(priv)
	return nil
}

// Encrypt encrypts the wallet's PrivateKey with the given passphrase
// under the NEP-2 standard.
func (a *Account) Encrypt(passphrase string, scrypt keys.ScryptParams) error {
	if a.privateKey == nil {
		return ErrAccountClosed
	}
	wif, err := keys.NEP2Encrypt(a.privateKey, passphrase, scrypt)
	if err != nil {
		return err
	}
	a.EncryptedWIF = wif
	return nil
}

// PrivateKey returns private key corresponding to the account.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns public key corresponding to the account.
func (a *Account) PublicKey() *keys.PublicKey {
	return a.publicKey
}

// ScriptHash returns the script hash (account) of the verification
// contract.
func (a *Account) ScriptHash() util.Uint160 {
	if a.Contract == nil {
		return util.Uint160{}
	}
	return a.Contract.ScriptHash()
}

// CanSign returns true when account has a private key that can be used
// to produce signatures.
func (a *Account) CanSign() bool {
	return a.privateKey != nil
}

// NewAccountFromWIF creates a new Account from the given WIF.
func NewAccountFromWIF(wif string) (*Account, error) {
	privKey, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(privKey), nil
}

// NewAccountFromEncryptedWIF creates a new Account from the given encrypted WIF.
func NewAccountFromEncryptedWIF(wif string, pass string, scrypt keys.ScryptParams) (*Account, error) {
	priv, err := keys.NEP2Decrypt(wif, pass, scrypt)
	if err != nil {
		return nil, err
	}

	a := NewAccountFromPrivateKey(priv)
	a.EncryptedWIF = wif

	return a, nil
}

// ConvertMultisig sets a's contract to multisig contract with m sufficient signatures.
func (a *Account) ConvertMultisig(m int, pubs []*keys.PublicKey) error {
	if a.publicKey == nil {
		return ErrAccountClosed
	}
	if !keys.PublicKeys(pubs).Contains(a.publicKey) {
		return ErrKeyNotInSet
	}

	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	if err != nil {
		return err
	}

	a.Address = address.Uint160ToString(hash.Hash160(script))
	a.Contract = &Contract{
		Script:     script,
		Parameters: getContractParams(m),
	}

	return nil
}

// SignTx signs the transaction for the given network and sets the witness of
// the account's signer. Multisignature accounts add their signature to the
// ones already present in the witness, the witness gets the full verification
// script once enough signatures are collected.
func (a *Account) SignTx(net uint32, t *transaction.Transaction) error {
	if a.privateKey == nil {
		return ErrAccountClosed
	}
	if a.Contract == nil {
		return ErrUnsupportedCode
	}
	var (
		pos = -1
		sh  = a.ScriptHash()
	)
	for i := range t.Signers {
		if t.Signers[i].Account.Equals(sh) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrSignerNotFound, sh.StringLE())
	}
	for len(t.Scripts) < len(t.Signers) {
		t.Scripts = append(t.Scripts, transaction.Witness{})
	}
	msg := hash.GetSignedData(net, t)

	if smartcontract.IsSignatureContract(a.Contract.Script) {
		w, err := SingleSigWitness(msg, a.privateKey)
		if err != nil {
			return err
		}
		t.Scripts[pos] = w
		return nil
	}
	m, pubs, ok := smartcontract.ParseMultiSigContractKeys(a.Contract.Script)
	if !ok {
		return ErrUnsupportedCode
	}
	sigs, err := collectSignatures(t.Scripts[pos].InvocationScript, pubs, net, t)
	if err != nil {
		return err
	}
	for _, s := range sigs {
		if s.PublicKey.Equal(a.publicKey) {
			return nil
		}
	}
	own, err := SignMultiSig(msg, a.privateKey)
	if err != nil {
		return err
	}
	sigs = append(sigs, own...)
	if len(sigs) >= m {
		w, err := MultiSigWitness(m, pubs, sigs)
		if err != nil {
			return err
		}
		t.Scripts[pos] = w
		return nil
	}
	ordered, err := orderSignatures(pubs, sigs)
	if err != nil {
		return err
	}
	invoc, err := pushSignatures(ordered)
	if err != nil {
		return err
	}
	t.Scripts[pos] = transaction.Witness{
		InvocationScript:   invoc,
		VerificationScript: a.Contract.Script,
	}
	return nil
}

// collectSignatures extracts signatures pushed by a partially built
// multisignature invocation script and matches them with their keys.
func collectSignatures(invoc []byte, pubs keys.PublicKeys, net uint32, hh hash.Hashable) ([]KeySignature, error) {
	var res []KeySignature
	ctx := scparser.NewContext(invoc, 0)
	for ctx.NextIP() < len(invoc) {
		op, param, err := ctx.Next()
		if err != nil {
			return nil, err
		}
		sig, err := scparser.GetSignatureFromInstr(scparser.Instruction{Op: op, Param: param})
		if err != nil {
			return nil, fmt.Errorf("invocation script: %w", err)
		}
		var matched bool
		for _, p := range pubs {
			if p.VerifyHashable(sig, net, hh) {
				res = append(res, KeySignature{PublicKey: p, Signature: sig})
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: signature doesn't match any key", errkind.ErrCrypto)
		}
	}
	return res, nil
}

// Close cleans up the private key used by Account and disassociates it from
// Account. The Account can no longer sign anything after this call, but it
// can still be used to get its address or public key.
func (a *Account) Close() {
	if a.privateKey == nil {
		return
	}
	a.privateKey.Destroy()
	a.privateKey = nil
}

// NewAccountFromPrivateKey creates a wallet from the given PrivateKey.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	a := &Account{}
	a.setKey(p)
	a.Address = p.Address()
	a.Contract = &Contract{
		Script:     a.publicKey.GetVerificationScript(),
		Parameters: getContractParams(1),
	}
	return a
}

func (a *Account) setKey(p *keys.PrivateKey) {
	a.privateKey = p
	a.publicKey = p.PublicKey()
}

func getContractParams(n int) []ContractParam {
	params := make([]ContractParam, n)
	for i := range params {
		params[i].Name = fmt.Sprintf("parameter%d", i)
		params[i].Type = smartcontract.SignatureType
	}

	return params
}
