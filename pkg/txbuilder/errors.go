package txbuilder

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// Validation errors returned by Builder.
var (
	ErrNoScript             = fmt.Errorf("%w: no script set", errkind.ErrValidation)
	ErrEmptyScript          = fmt.Errorf("%w: empty script", errkind.ErrValidation)
	ErrNoSigners            = fmt.Errorf("%w: no signers", errkind.ErrValidation)
	ErrTooManySigners       = fmt.Errorf("%w: too many signers", errkind.ErrValidation)
	ErrDuplicateSigner      = fmt.Errorf("%w: duplicate signer", errkind.ErrValidation)
	ErrTooManyAttributes    = fmt.Errorf("%w: too many signers and attributes", errkind.ErrValidation)
	ErrMultipleHighPriority = fmt.Errorf("%w: more than one HighPriority attribute", errkind.ErrValidation)
	ErrDuplicateAttribute   = fmt.Errorf("%w: duplicate attribute", errkind.ErrValidation)
	ErrTxTooLarge           = fmt.Errorf("%w: transaction is too large", errkind.ErrValidation)
	ErrValidUntilOverflow   = fmt.Errorf("%w: ValidUntilBlock overflows uint32", errkind.ErrValidation)
	ErrFeeOverflow          = fmt.Errorf("%w: fee overflows int64", errkind.ErrValidation)
	ErrNegativeFee          = fmt.Errorf("%w: negative fee", errkind.ErrValidation)
)

// Errors related to builder state and signer setup.
var (
	ErrFrozen         = fmt.Errorf("%w: transaction is already signed", errkind.ErrConfiguration)
	ErrSignerMismatch = fmt.Errorf("%w: signer account doesn't match the signing contract", errkind.ErrConfiguration)
	ErrUnknownKind    = fmt.Errorf("%w: unknown signer kind", errkind.ErrConfiguration)
)

// failureReasons maps validation errors to metric labels.
var failureReasons = []struct {
	err    error
	reason string
}{
	{ErrNoScript, "no_script"},
	{ErrEmptyScript, "empty_script"},
	{ErrNoSigners, "no_signers"},
	{ErrTooManySigners, "too_many_signers"},
	{ErrDuplicateSigner, "duplicate_signer"},
	{ErrTooManyAttributes, "too_many_attributes"},
	{ErrMultipleHighPriority, "multiple_high_priority"},
	{ErrDuplicateAttribute, "duplicate_attribute"},
	{ErrTxTooLarge, "too_large"},
	{ErrValidUntilOverflow, "valid_until_overflow"},
	{ErrFeeOverflow, "fee_overflow"},
	{ErrNegativeFee, "negative_fee"},
	{ErrSignerMismatch, "signer_mismatch"},
}

func failureReason(err error) string {
	for _, fr := range failureReasons {
		if errors.Is(err, fr.err) {
			return fr.reason
		}
	}
	return "other"
}
