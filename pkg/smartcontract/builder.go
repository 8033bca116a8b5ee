package smartcontract

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
	"github.com/nspcc-dev/neotx/pkg/vm/opcode"
)

// ErrNoInvocations is returned by Builder.Script for a script with nothing
// emitted into it.
var ErrNoInvocations = fmt.Errorf("%w: no invocations in the script", errkind.ErrValidation)

// Builder creates transaction entry scripts out of contract invocations.
// Every call is emitted with callflag.All. Arguments can be plain Go values
// accepted by emit.Any or Parameter values (also *Parameter and []Parameter)
// which are expanded with ExpandParameterToEmitable.
//
// The first failing invocation makes the error sticky: further calls are
// no-op and Script returns it. Emitting errors wrap errkind.ErrValidation.
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new Builder instance.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod packs args into an array and calls method of contract. The
// number and types of arguments aren't checked against the contract, the
// value returned by the method stays on the stack.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, args ...any) {
	if b.bw.Err != nil {
		return
	}
	expanded, err := expandArgs(args)
	if err != nil {
		b.bw.Err = fmt.Errorf("%s.%s: %w", contract.StringLE(), method, err)
		return
	}
	emit.AppCall(b.bw.BinWriter, contract, method, callflag.All, expanded...)
}

// Assert emits an ASSERT failing the script if the value on top of the stack
// is not true.
func (b *Builder) Assert() {
	emit.Opcodes(b.bw.BinWriter, opcode.ASSERT)
}

// InvokeWithAssert emits InvokeMethod followed by an ASSERT, it's the way to
// call methods returning success as a Boolean (NEP-17 and NEP-11 transfers,
// NEO vote).
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, args ...any) {
	b.InvokeMethod(contract, method, args...)
	b.Assert()
}

// Transfer emits an asserted NEP-17 transfer of amount token units from one
// account to another. data is passed to the recipient's onNEP17Payment.
func (b *Builder) Transfer(token util.Uint160, from util.Uint160, to util.Uint160, amount *big.Int, data any) {
	if amount == nil || amount.Sign() < 0 {
		if b.bw.Err == nil {
			b.bw.Err = fmt.Errorf("%w: bad transfer amount %v", ErrInvalidParameter, amount)
		}
		return
	}
	b.InvokeWithAssert(token, "transfer", from, to, amount, data)
}

// Script returns the script built. The Builder can't be used after that
// unless it's Reset.
func (b *Builder) Script() ([]byte, error) {
	if b.bw.Err == nil && b.bw.Len() == 0 {
		return nil, ErrNoInvocations
	}
	err := b.bw.Err
	return b.bw.Bytes(), err
}

// Len returns the current length of the script.
func (b *Builder) Len() int {
	return b.bw.Len()
}

// Reset drops the script and the error, the buffer returned by Script is
// reused.
func (b *Builder) Reset() {
	b.bw.Reset()
}

func expandArgs(args []any) ([]any, error) {
	res := make([]any, len(args))
	for i, arg := range args {
		var err error
		switch a := arg.(type) {
		case Parameter:
			res[i], err = ExpandParameterToEmitable(a)
		case *Parameter:
			if a != nil {
				res[i], err = ExpandParameterToEmitable(*a)
			}
		case []Parameter:
			res[i], err = ExpandParameterToEmitable(Parameter{Type: ArrayType, Value: a})
		case []any:
			res[i], err = expandArgs(a)
		default:
			res[i] = arg
		}
		if err != nil {
			return nil, fmt.Errorf("argument #%d: %w", i, err)
		}
	}
	return res, nil
}
