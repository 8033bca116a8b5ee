package smartcontract

import (
	"crypto/elliptic"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/nspcc-dev/neotx/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/smartcontract/scparser"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
)

// ErrInvalidMultisig is returned for multisignature parameters violating
// 1 <= m <= n <= keys.MaxPublicKeys.
var ErrInvalidMultisig = fmt.Errorf("%w: invalid multisignature parameters", errkind.ErrConfiguration)

var (
	checkSigID      = interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	checkMultisigID = interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig))
)

// CreateSignatureRedeemScript creates a standard verification script for the
// given public key. It's the same as pub.GetVerificationScript().
func CreateSignatureRedeemScript(pub *keys.PublicKey) []byte {
	return pub.GetVerificationScript()
}

// CreateMultiSigRedeemScript creates an "m out of n" type verification script
// where n is the length of publicKeys. Keys are sorted by their compressed
// representation in the script, the slice passed is not reordered.
func CreateMultiSigRedeemScript(m int, publicKeys keys.PublicKeys) ([]byte, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: m cannot be less than 1, got %d", ErrInvalidMultisig, m)
	}
	if m > len(publicKeys) {
		return nil, fmt.Errorf("%w: length of the signatures (%d) is higher then the number of public keys", ErrInvalidMultisig, m)
	}
	if len(publicKeys) > keys.MaxPublicKeys {
		return nil, fmt.Errorf("%w: too many public keys (%d)", ErrInvalidMultisig, len(publicKeys))
	}
	for i, pub := range publicKeys {
		if pub == nil || pub.X == nil || pub.Y == nil {
			return nil, fmt.Errorf("%w: empty public key #%d", ErrInvalidMultisig, i)
		}
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	sorted := publicKeys.Copy()
	slices.SortFunc(sorted, (*keys.PublicKey).Cmp)
	for _, pubKey := range sorted {
		emit.Bytes(buf.BinWriter, pubKey.Bytes())
	}
	emit.Int(buf.BinWriter, int64(len(publicKeys)))
	emit.Syscall(buf.BinWriter, interopnames.SystemCryptoCheckMultisig)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// CreateDefaultMultiSigRedeemScript creates an "m out of n" type verification
// script using publicKeys length with the default BFT assumptions of (n - (n-1)/3)
// for m.
func CreateDefaultMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	return CreateMultiSigRedeemScript(GetDefaultHonestNodeCount(len(publicKeys)), publicKeys)
}

// CreateMajorityMultiSigRedeemScript creates an "m out of n" type verification
// script using publicKeys length with m set to majority.
func CreateMajorityMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	return CreateMultiSigRedeemScript(GetMajorityHonestNodeCount(len(publicKeys)), publicKeys)
}

// GetDefaultHonestNodeCount returns minimum number of honest nodes
// required for network of size n.
func GetDefaultHonestNodeCount(n int) int {
	return n - (n-1)/3
}

// GetMajorityHonestNodeCount returns minimum number of honest nodes
// required for majority-style agreement.
func GetMajorityHonestNodeCount(n int) int {
	return n - (n-1)/2
}

func getNumOfThingsFromInstr(instr opcode.Opcode, param []byte) (int, bool) {
	n, err := scparser.GetInt64FromInstr(scparser.Instruction{Op: instr, Param: param})
	if err != nil || n < 1 || n > keys.MaxPublicKeys {
		return 0, false
	}
	return int(n), true
}

func isSyscall(instr opcode.Opcode, param []byte, id uint32) bool {
	return instr == opcode.SYSCALL && len(param) == 4 && binary.LittleEndian.Uint32(param) == id
}

// IsMultiSigContract checks whether the passed script is a multi-signature
// contract.
func IsMultiSigContract(script []byte) bool {
	_, _, ok := ParseMultiSigContract(script)
	return ok
}

// ParseMultiSigContract returns the number of signatures and a list of public
// keys from the verification script of the contract.
func ParseMultiSigContract(script []byte) (int, [][]byte, bool) {
	var nsigs, nkeys int
	if len(script) < 42 {
		return 0, nil, false
	}

	ctx := scparser.NewContext(script, 0)
	instr, param, err := ctx.Next()
	if err != nil {
		return 0, nil, false
	}
	nsigs, ok := getNumOfThingsFromInstr(instr, param)
	if !ok {
		return 0, nil, false
	}
	var pubs [][]byte
	for {
		instr, param, err = ctx.Next()
		if err != nil {
			return 0, nil, false
		}
		if instr != opcode.PUSHDATA1 {
			break
		}
		if len(param) != keys.PublicKeySize {
			return 0, nil, false
		}
		pubs = append(pubs, param)
		nkeys++
		if nkeys > keys.MaxPublicKeys {
			return 0, nil, false
		}
	}
	if nkeys < nsigs {
		return 0, nil, false
	}
	nkeys2, ok := getNumOfThingsFromInstr(instr, param)
	if !ok || nkeys2 != nkeys {
		return 0, nil, false
	}
	instr, param, err = ctx.Next()
	if err != nil || !isSyscall(instr, param, checkMultisigID) {
		return 0, nil, false
	}
	if ctx.NextIP() != len(script) {
		return 0, nil, false
	}
	return nsigs, pubs, true
}

// ParseMultiSigContractKeys works like ParseMultiSigContract but also decodes
// public keys.
func ParseMultiSigContractKeys(script []byte) (int, keys.PublicKeys, bool) {
	m, pubs, ok := ParseMultiSigContract(script)
	if !ok {
		return 0, nil, false
	}
	res := make(keys.PublicKeys, len(pubs))
	for i := range pubs {
		pub, err := keys.NewPublicKeyFromBytes(pubs[i], elliptic.P256())
		if err != nil {
			return 0, nil, false
		}
		res[i] = pub
	}
	return m, res, true
}

// IsSignatureContract checks whether the passed script is a signature check
// contract.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}

// ParseSignatureContract parses a simple signature contract and returns
// a public key.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != 40 {
		return nil, false
	}

	ctx := scparser.NewContext(script, 0)
	instr, param, err := ctx.Next()
	if err != nil || instr != opcode.PUSHDATA1 || len(param) != keys.PublicKeySize {
		return nil, false
	}
	pub := param
	instr, param, err = ctx.Next()
	if err != nil || !isSyscall(instr, param, checkSigID) {
		return nil, false
	}
	return pub, true
}

// IsStandardContract checks whether the passed script is a signature or
// multi-signature contract.
func IsStandardContract(script []byte) bool {
	return IsSignatureContract(script) || IsMultiSigContract(script)
}
