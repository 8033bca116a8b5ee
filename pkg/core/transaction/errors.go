package transaction

import (
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// Structural errors, they're returned both by validation methods and by
// decoders.
var (
	ErrInvalidScope      = fmt.Errorf("%w: invalid witness scope", errkind.ErrValidation)
	ErrTooManySubitems   = fmt.Errorf("%w: too many signer subitems", errkind.ErrValidation)
	ErrConditionNesting  = fmt.Errorf("%w: witness condition nesting is too deep", errkind.ErrValidation)
	ErrEmptyCondition    = fmt.Errorf("%w: missing witness condition", errkind.ErrValidation)
	ErrInvalidVersion    = fmt.Errorf("%w: only version 0 is supported", errkind.ErrValidation)
	ErrNegativeFee       = fmt.Errorf("%w: negative fee", errkind.ErrValidation)
	ErrTooBigFees        = fmt.Errorf("%w: too big fees: int64 overflow", errkind.ErrValidation)
	ErrEmptySigners      = fmt.Errorf("%w: signers array should contain sender", errkind.ErrValidation)
	ErrNonUniqueSigners  = fmt.Errorf("%w: transaction signers should be unique", errkind.ErrValidation)
	ErrTooManyAttributes = fmt.Errorf("%w: too many signers and attributes", errkind.ErrValidation)
	ErrInvalidAttribute  = fmt.Errorf("%w: invalid attribute", errkind.ErrValidation)
	ErrEmptyScript       = fmt.Errorf("%w: no script", errkind.ErrValidation)
	ErrTxTooBig          = fmt.Errorf("%w: transaction is too big", errkind.ErrValidation)
	ErrWitnessCount      = fmt.Errorf("%w: number of witnesses doesn't match the number of signers", errkind.ErrValidation)
	ErrWitnessTooBig     = fmt.Errorf("%w: witness script is too long", errkind.ErrValidation)
)

// Encoding errors.
var (
	ErrInvalidConditionType = fmt.Errorf("%w: unknown witness condition type", errkind.ErrFormat)
	ErrInvalidAction        = fmt.Errorf("%w: unknown witness rule action", errkind.ErrFormat)
	ErrInvalidAttrType      = fmt.Errorf("%w: unknown attribute type", errkind.ErrFormat)
	ErrInvalidResponseCode  = fmt.Errorf("%w: invalid oracle response code", errkind.ErrFormat)
	ErrInvalidResult        = fmt.Errorf("%w: oracle response != success, but result is not empty", errkind.ErrFormat)
)
