/*
Package errkind defines error categories shared by all packages of the module.

Every sentinel error exported by other packages wraps exactly one of these, so
callers can tell caller-correctable conditions from fatal ones with errors.Is
without knowing every specific error:

	if errors.Is(err, errkind.ErrConfiguration) {
		// ask for more signatures
	}
*/
package errkind

import "errors"

var (
	// ErrFormat is returned for truncated or malformed binary data, bad
	// Base58Check checksums and wrongly sized keys. It's always reported at
	// the point of decoding.
	ErrFormat = errors.New("format error")
	// ErrValidation is returned when structural transaction invariants are
	// violated. It's raised before any signing attempt.
	ErrValidation = errors.New("validation error")
	// ErrCrypto is returned for invalid keys or points and signing failures.
	ErrCrypto = errors.New("crypto error")
	// ErrConfiguration is returned for caller-correctable setup problems like
	// insufficient signatures for a multisig threshold.
	ErrConfiguration = errors.New("configuration error")
)
