package config

import (
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/config/netmode"
	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/encoding/address"
	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// DefaultValidUntilBlockIncrement is the number of blocks a transaction stays
// valid for when no explicit ValidUntilBlock is set.
const DefaultValidUntilBlockIncrement = 100

// ErrInvalidConfig is returned for protocol configurations that can't be used
// to build transactions.
var ErrInvalidConfig = fmt.Errorf("%w: invalid protocol configuration", errkind.ErrConfiguration)

// ProtocolConfiguration represents the protocol config.
type ProtocolConfiguration struct {
	// Magic is the network magic transactions are signed for.
	Magic netmode.Magic `yaml:"Magic"`
	// AddressVersion is the version byte of addresses.
	AddressVersion byte `yaml:"AddressVersion"`
	// ValidUntilBlockIncrement is added to the current chain height to get
	// the default ValidUntilBlock of a transaction.
	ValidUntilBlockIncrement uint32 `yaml:"ValidUntilBlockIncrement"`
	// MaxTransactionSize is the maximum size of a signed transaction in bytes.
	MaxTransactionSize int `yaml:"MaxTransactionSize"`
	// MaxAttributes is the maximum number of signers and attributes.
	MaxAttributes int `yaml:"MaxAttributes"`
}

// DefaultProtocol returns the standard N3 protocol configuration for the
// given network.
func DefaultProtocol(magic netmode.Magic) ProtocolConfiguration {
	return ProtocolConfiguration{
		Magic:                    magic,
		AddressVersion:           address.NEO3Prefix,
		ValidUntilBlockIncrement: DefaultValidUntilBlockIncrement,
		MaxTransactionSize:       transaction.MaxTransactionSize,
		MaxAttributes:            transaction.MaxAttributes,
	}
}

// Validate checks the limits of the configuration, they can be narrowed
// compared to the protocol ones, but can't be extended.
func (p ProtocolConfiguration) Validate() error {
	if p.ValidUntilBlockIncrement == 0 {
		return fmt.Errorf("%w: zero ValidUntilBlockIncrement", ErrInvalidConfig)
	}
	if p.MaxTransactionSize <= 0 || p.MaxTransactionSize > transaction.MaxTransactionSize {
		return fmt.Errorf("%w: MaxTransactionSize %d is out of (0, %d] range", ErrInvalidConfig,
			p.MaxTransactionSize, transaction.MaxTransactionSize)
	}
	if p.MaxAttributes <= 0 || p.MaxAttributes > transaction.MaxAttributes {
		return fmt.Errorf("%w: MaxAttributes %d is out of (0, %d] range", ErrInvalidConfig,
			p.MaxAttributes, transaction.MaxAttributes)
	}
	return nil
}
