/*
Package emit implements helpers emitting VM instructions into a BinWriter.
Errors (unsupported values, out of range integers or data) are reported via
the Err field of the writer, so a script is built with a sequence of calls
and checked once at the end.
*/
package emit

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neotx/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neotx/pkg/encoding/bigint"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
)

var (
	// ErrIntTooBig is set when the integer doesn't fit into 256 bits.
	ErrIntTooBig = fmt.Errorf("%w: integer doesn't fit into 256 bits", errkind.ErrValidation)
	// ErrDataTooLong is set for byte data longer than PUSHDATA4 allows.
	ErrDataTooLong = fmt.Errorf("%w: data is too long", errkind.ErrValidation)
	// ErrUnsupportedType is set by Array, Map and Any for values of unknown types.
	ErrUnsupportedType = fmt.Errorf("%w: unsupported type", errkind.ErrValidation)
	// ErrEmptySyscall is set for syscalls with an empty name.
	ErrEmptySyscall = fmt.Errorf("%w: syscall api cannot be of length 0", errkind.ErrValidation)
)

// KeyValue is a single entry of a map emitted with Map.
type KeyValue struct {
	Key   any
	Value any
}

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcodes emits a single VM Instruction without arguments to the given buffer.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	if ok {
		Opcodes(w, opcode.PUSHT)
		return
	}
	Opcodes(w, opcode.PUSHF)
}

// Int emits the shortest push of i.
func Int(w *io.BinWriter, i int64) {
	if !smallInt(w, i) {
		intBytes(w, bigint.ToBytes(big.NewInt(i)))
	}
}

// BigInt emits the shortest push of n. Values that don't fit into 256 bits
// set ErrIntTooBig.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() && smallInt(w, n.Int64()) {
		return
	}
	intBytes(w, bigint.ToBytes(n))
}

// Int256 emits n treated as a two's complement signed 256-bit value.
func Int256(w *io.BinWriter, n *uint256.Int) {
	buf := bigint.Uint256ToBytes(n)
	switch len(buf) {
	case 0:
		Opcodes(w, opcode.PUSH0)
	case 1:
		if !smallInt(w, int64(int8(buf[0]))) {
			intBytes(w, buf)
		}
	default:
		intBytes(w, buf)
	}
}

// smallInt emits PUSHM1..PUSH16 for i in range and reports whether it did.
func smallInt(w *io.BinWriter, i int64) bool {
	if i < -1 || i > 16 {
		return false
	}
	Opcodes(w, opcode.PUSH0+opcode.Opcode(i))
	return true
}

// intBytes emits the PUSHINT* of the smallest width (1 to 32 bytes) holding
// the two's complement LE number, sign-extending it to that width.
func intBytes(w *io.BinWriter, num []byte) {
	if w.Err != nil {
		return
	}
	if len(num) > bigint.MaxBytesLen {
		w.Err = fmt.Errorf("%w: %d bytes", ErrIntTooBig, len(num))
		return
	}
	op := opcode.PUSHINT8
	for width := 1; width < len(num); width <<= 1 {
		op++
	}
	buf := make([]byte, 1<<op)
	copy(buf, num)
	if num[len(num)-1]&0x80 != 0 {
		for i := len(num); i < len(buf); i++ {
			buf[i] = 0xff
		}
	}
	Instruction(w, op, buf)
}

// Array emits an array of elements to the given buffer. Elements are pushed
// in reverse order followed by their number and PACK, so the first element
// ends up at index 0. An empty array is a single NEWARRAY0.
func Array(w *io.BinWriter, es ...any) {
	if len(es) == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := len(es) - 1; i >= 0; i-- {
		Any(w, es[i])
		if w.Err != nil {
			return
		}
	}
	Int(w, int64(len(es)))
	Opcodes(w, opcode.PACK)
}

// Map emits a map of the given entries to the given buffer. Entries are
// pushed in reverse order, value first, so that PACKMAP restores the
// original order. An empty map is a single NEWMAP.
func Map(w *io.BinWriter, kvs ...KeyValue) {
	if len(kvs) == 0 {
		Opcodes(w, opcode.NEWMAP)
		return
	}
	for i := len(kvs) - 1; i >= 0; i-- {
		Any(w, kvs[i].Value)
		Any(w, kvs[i].Key)
		if w.Err != nil {
			return
		}
	}
	Int(w, int64(len(kvs)))
	Opcodes(w, opcode.PACKMAP)
}

// Any emits a single value of any supported type: Go integers, *big.Int,
// *uint256.Int, bool, string, []byte, hashes (nil hash pointers are null),
// nil, and nested []any (array) or []KeyValue (map).
func Any(w *io.BinWriter, e any) {
	if w.Err != nil {
		return
	}
	switch e := e.(type) {
	case nil:
		Opcodes(w, opcode.PUSHNULL)
	case bool:
		Bool(w, e)
	case string:
		String(w, e)
	case []byte:
		Bytes(w, e)
	case []any:
		Array(w, e...)
	case []KeyValue:
		Map(w, e...)
	case *big.Int:
		BigInt(w, e)
	case *uint256.Int:
		Int256(w, e)
	case util.Uint160:
		Bytes(w, e.BytesBE())
	case util.Uint256:
		Bytes(w, e.BytesBE())
	case *util.Uint160:
		if e == nil {
			Opcodes(w, opcode.PUSHNULL)
		} else {
			Bytes(w, e.BytesBE())
		}
	case *util.Uint256:
		if e == nil {
			Opcodes(w, opcode.PUSHNULL)
		} else {
			Bytes(w, e.BytesBE())
		}
	default:
		n, ok := goInteger(e)
		if !ok {
			w.Err = fmt.Errorf("%w: %T", ErrUnsupportedType, e)
			return
		}
		BigInt(w, n)
	}
}

func goInteger(e any) (*big.Int, bool) {
	switch v := e.(type) {
	case int:
		return big.NewInt(int64(v)), true
	case int8:
		return big.NewInt(int64(v)), true
	case int16:
		return big.NewInt(int64(v)), true
	case int32:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint8:
		return big.NewInt(int64(v)), true
	case uint16:
		return big.NewInt(int64(v)), true
	case uint32:
		return big.NewInt(int64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	}
	return nil, false
}

// String emits s as bytes.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits b with the shortest PUSHDATA form.
func Bytes(w *io.BinWriter, b []byte) {
	var (
		n   = uint64(len(b))
		hdr []byte
	)
	switch {
	case n <= 0xff:
		hdr = []byte{byte(opcode.PUSHDATA1), byte(n)}
	case n <= 0xffff:
		hdr = binary.LittleEndian.AppendUint16([]byte{byte(opcode.PUSHDATA2)}, uint16(n))
	case n <= 0xffffffff:
		hdr = binary.LittleEndian.AppendUint32([]byte{byte(opcode.PUSHDATA4)}, uint32(n))
	default:
		if w.Err == nil {
			w.Err = fmt.Errorf("%w: %d bytes", ErrDataTooLong, n)
		}
		return
	}
	w.WriteBytes(hdr)
	w.WriteBytes(b)
}

// Syscall emits SYSCALL with the ID of the named interop.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	}
	if len(api) == 0 {
		w.Err = ErrEmptySyscall
		return
	}
	Instruction(w, opcode.SYSCALL, binary.LittleEndian.AppendUint32(nil, interopnames.ToID([]byte(api))))
}

// AppCall emits SYSCALL with System.Contract.Call parameter for given contract, method and arguments.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag, args ...any) {
	Array(w, args...)
	AppCallNoArgs(w, scriptHash, operation, f)
}

// AppCallNoArgs emits call to the provided contract expecting the argument
// array to be already on the stack.
func AppCallNoArgs(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag) {
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}

// CheckSig emits a single-key signature check for the given compressed
// public key.
func CheckSig(w *io.BinWriter, key []byte) {
	Bytes(w, key)
	Syscall(w, interopnames.SystemCryptoCheckSig)
}
