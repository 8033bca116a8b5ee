/*
Package scparser walks VM scripts without executing them. It's used to
recognize standard verification scripts and to pick signatures out of
invocation scripts.
*/
package scparser

import (
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
)

// maxItemSize is the maximum PUSHDATA4 parameter size.
const maxItemSize = 0xFFFF * 2

var (
	// ErrNoInstParam is returned for instructions truncated by the script end.
	ErrNoInstParam = fmt.Errorf("%w: failed to read instruction parameter", errkind.ErrFormat)
	// ErrIncorrectOpcode is returned for bytes that are not valid opcodes.
	ErrIncorrectOpcode = fmt.Errorf("%w: incorrect opcode", errkind.ErrFormat)
	// ErrParamTooBig is returned for PUSHDATA4 exceeding the item size limit.
	ErrParamTooBig = fmt.Errorf("%w: parameter is too big", errkind.ErrFormat)
)

// Context is a cursor over the script instructions.
type Context struct {
	prog   []byte
	ip     int
	nextip int
}

// NewContext returns a new parsing context for the program starting at the
// given instruction pointer.
func NewContext(prog []byte, ip int) *Context {
	return &Context{
		prog:   prog,
		ip:     ip,
		nextip: ip,
	}
}

// IP returns the current instruction offset.
func (c *Context) IP() int {
	return c.ip
}

// NextIP returns the next instruction pointer.
func (c *Context) NextIP() int {
	return c.nextip
}

// Next returns the instruction at the next instruction pointer with its
// parameter and moves IP to it. The parameter points into the script and
// must not be modified. RET is returned past the end of the script.
func (c *Context) Next() (opcode.Opcode, []byte, error) {
	c.ip = c.nextip
	if c.ip >= len(c.prog) {
		return opcode.RET, nil, nil
	}
	op := opcode.Opcode(c.prog[c.ip])
	if !opcode.IsValid(op) {
		return op, nil, fmt.Errorf("%w: %#x", ErrIncorrectOpcode, byte(op))
	}
	pos := c.ip + 1

	size, prefix := operandSize(op)
	if prefix != 0 {
		if pos+prefix > len(c.prog) {
			return op, nil, ErrNoInstParam
		}
		var n uint64
		for i := prefix - 1; i >= 0; i-- {
			n = n<<8 | uint64(c.prog[pos+i])
		}
		if n > maxItemSize {
			return op, nil, fmt.Errorf("%w: %s parameter of %d bytes", ErrParamTooBig, op, n)
		}
		size = int(n)
		pos += prefix
	}
	if pos+size > len(c.prog) {
		return op, nil, ErrNoInstParam
	}
	c.nextip = pos + size
	if size == 0 && prefix == 0 {
		return op, nil, nil
	}
	return op, c.prog[pos:c.nextip], nil
}

// operandSize returns either the fixed operand size of the opcode or the
// size of its little-endian length prefix for PUSHDATA*.
func operandSize(op opcode.Opcode) (size int, prefix int) {
	switch op {
	case opcode.PUSHDATA1:
		return 0, 1
	case opcode.PUSHDATA2:
		return 0, 2
	case opcode.PUSHDATA4:
		return 0, 4
	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT, opcode.JMPEQ, opcode.JMPNE,
		opcode.JMPGT, opcode.JMPGE, opcode.JMPLT, opcode.JMPLE,
		opcode.CALL, opcode.ENDTRY, opcode.ISTYPE, opcode.CONVERT, opcode.NEWARRAYT,
		opcode.INITSSLOT, opcode.LDSFLD, opcode.STSFLD, opcode.LDARG, opcode.STARG,
		opcode.LDLOC, opcode.STLOC:
		return 1, 0
	case opcode.INITSLOT, opcode.TRY, opcode.CALLT:
		return 2, 0
	case opcode.JMPL, opcode.JMPIFL, opcode.JMPIFNOTL, opcode.JMPEQL, opcode.JMPNEL,
		opcode.JMPGTL, opcode.JMPGEL, opcode.JMPLTL, opcode.JMPLEL,
		opcode.CALLL, opcode.ENDTRYL, opcode.SYSCALL, opcode.PUSHA:
		return 4, 0
	case opcode.TRYL:
		return 8, 0
	}
	if op <= opcode.PUSHINT256 {
		return 1 << op, 0
	}
	return 0, 0
}
