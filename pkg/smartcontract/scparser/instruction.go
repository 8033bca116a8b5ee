package scparser

import (
	"crypto/elliptic"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/encoding/bigint"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
)

// ErrUnexpectedInstruction is returned when an instruction doesn't push the
// kind of value requested.
var ErrUnexpectedInstruction = fmt.Errorf("%w: unexpected instruction", errkind.ErrFormat)

// Instruction is a single opcode with its parameter. Param points into the
// parsed script and must not be modified.
type Instruction struct {
	Op    opcode.Opcode
	Param []byte
}

// String implements the fmt.Stringer interface.
func (i Instruction) String() string {
	if len(i.Param) == 0 {
		return i.Op.String()
	}
	return fmt.Sprintf("%s %x", i.Op, i.Param)
}

func unexpected(instr Instruction, want string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedInstruction, want, instr)
}

// GetInt64FromInstr returns the integer pushed by a PUSHM1..PUSH16 or
// PUSHINT* instruction, failing if it doesn't fit into int64.
func GetInt64FromInstr(instr Instruction) (int64, error) {
	n, err := GetBigIntFromInstr(instr)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: %s is not an int64", ErrUnexpectedInstruction, n)
	}
	return n.Int64(), nil
}

// GetBigIntFromInstr returns the integer pushed by a PUSHM1..PUSH16 or
// PUSHINT* instruction.
func GetBigIntFromInstr(instr Instruction) (*big.Int, error) {
	switch {
	case opcode.PUSHM1 <= instr.Op && instr.Op <= opcode.PUSH16:
		return big.NewInt(int64(instr.Op) - int64(opcode.PUSH0)), nil
	case instr.Op <= opcode.PUSHINT256:
		if len(instr.Param) != 1<<instr.Op {
			return nil, fmt.Errorf("%w: %s needs %d bytes", ErrNoInstParam, instr.Op, 1<<instr.Op)
		}
		if instr.Op <= opcode.PUSHINT64 {
			var v int64
			switch instr.Op {
			case opcode.PUSHINT8:
				v = int64(int8(instr.Param[0]))
			case opcode.PUSHINT16:
				v = int64(int16(binary.LittleEndian.Uint16(instr.Param)))
			case opcode.PUSHINT32:
				v = int64(int32(binary.LittleEndian.Uint32(instr.Param)))
			default:
				v = int64(binary.LittleEndian.Uint64(instr.Param))
			}
			return big.NewInt(v), nil
		}
		return bigint.FromBytes(instr.Param), nil
	default:
		return nil, unexpected(instr, "integer push")
	}
}

// GetBytesFromInstr returns the data pushed by a PUSHDATA* instruction.
func GetBytesFromInstr(instr Instruction) ([]byte, error) {
	if instr.Op < opcode.PUSHDATA1 || instr.Op > opcode.PUSHDATA4 {
		return nil, unexpected(instr, "PUSHDATA")
	}
	return instr.Param, nil
}

// GetStringFromInstr is like GetBytesFromInstr but returns a string.
func GetStringFromInstr(instr Instruction) (string, error) {
	b, err := GetBytesFromInstr(instr)
	return string(b), err
}

// GetBoolFromInstr returns the boolean pushed by PUSHT/PUSHF or PUSH1/PUSH0.
func GetBoolFromInstr(instr Instruction) (bool, error) {
	switch instr.Op {
	case opcode.PUSHT, opcode.PUSH1:
		return true, nil
	case opcode.PUSHF, opcode.PUSH0:
		return false, nil
	}
	return false, unexpected(instr, "boolean push")
}

// GetUint160FromInstr returns the big-endian hash pushed by PUSHDATA1, the
// way contract calls carry script hashes.
func GetUint160FromInstr(instr Instruction) (util.Uint160, error) {
	b, err := getData1(instr, util.Uint160Size)
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// GetSignatureFromInstr returns the signature pushed by PUSHDATA1.
func GetSignatureFromInstr(instr Instruction) ([]byte, error) {
	return getData1(instr, keys.SignatureLen)
}

// GetPublicKeyFromInstr decodes the compressed key pushed by PUSHDATA1.
func GetPublicKeyFromInstr(instr Instruction) (*keys.PublicKey, error) {
	b, err := getData1(instr, keys.PublicKeySize)
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b, elliptic.P256())
}

func getData1(instr Instruction, size int) ([]byte, error) {
	if instr.Op != opcode.PUSHDATA1 {
		return nil, unexpected(instr, opcode.PUSHDATA1.String())
	}
	if len(instr.Param) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrUnexpectedInstruction, size, len(instr.Param))
	}
	return instr.Param, nil
}
