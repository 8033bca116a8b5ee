package transaction

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
)

// Script limits, both fit an 11-of-21 committee multisignature.
const (
	MaxInvocationScript   = 1024
	MaxVerificationScript = 1024
)

// Witness is an invocation script (signatures or other arguments) paired with
// the verification script of the signer it proves.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// EncodeBinary implements the io.Serializable interface.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// DecodeBinary implements the io.Serializable interface.
func (w *Witness) DecodeBinary(br *io.BinReader) {
	w.InvocationScript = br.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = br.ReadVarBytes(MaxVerificationScript)
}

// Validate checks script lengths against the decoder limits.
func (w *Witness) Validate() error {
	if len(w.InvocationScript) > MaxInvocationScript {
		return fmt.Errorf("%w: invocation script of %d bytes", ErrWitnessTooBig, len(w.InvocationScript))
	}
	if len(w.VerificationScript) > MaxVerificationScript {
		return fmt.Errorf("%w: verification script of %d bytes", ErrWitnessTooBig, len(w.VerificationScript))
	}
	return nil
}

// Size returns the serialized witness size.
func (w *Witness) Size() int {
	return io.GetVarBytesSize(w.InvocationScript) + io.GetVarBytesSize(w.VerificationScript)
}

// ScriptHash returns the script hash of the verification script, it's the
// account the witness is provided for.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy returns a deep copy of the witness.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   bytes.Clone(w.InvocationScript),
		VerificationScript: bytes.Clone(w.VerificationScript),
	}
}
