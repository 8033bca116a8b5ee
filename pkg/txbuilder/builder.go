/*
Package txbuilder creates and signs Neo N3 transactions.

Builder collects transaction fields and signers, validates them and produces
witnesses for every signer. Once signed, Builder can't be changed anymore.
*/
package txbuilder

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/nspcc-dev/neotx/pkg/config"
	"github.com/nspcc-dev/neotx/pkg/config/netmode"
	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/encoding/address"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/smartcontract"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/util/slice"
	"go.uber.org/zap"
)

// SigningContext contains parameters of the signing process.
type SigningContext struct {
	// Network is the magic of the network the transaction is signed for,
	// zero means the one from the configuration.
	Network netmode.Magic
}

// Option is a Builder option.
type Option func(*Builder)

// WithLogger sets the logger used by Builder.
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithAddressBook sets native contract hashes used by SetGASTransfer and
// SetNEOTransfer, config.DefaultAddressBook is used by default.
func WithAddressBook(book config.AddressBook) Option {
	return func(b *Builder) {
		b.book = book
	}
}

// Builder is a transaction builder. It's not safe for concurrent use.
type Builder struct {
	cfg  config.ProtocolConfiguration
	book config.AddressBook
	log  *zap.Logger

	version          uint8
	nonce            *uint32
	systemFee        int64
	networkFee       int64
	additionalSysFee int64
	additionalNetFee int64
	validUntilBlock  *uint32
	currentHeight    uint32
	script           []byte
	signers          []SignerAccount
	attributes       []transaction.Attribute

	signed *transaction.Transaction
}

// New creates a Builder for the given protocol configuration.
func New(cfg config.ProtocolConfiguration, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:  cfg,
		book: config.DefaultAddressBook(),
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// NewFromConfig creates a Builder using both the protocol configuration and
// the address book of cfg. Options passed override the address book.
func NewFromConfig(cfg config.Config, opts ...Option) (*Builder, error) {
	return New(cfg.ProtocolConfiguration, append([]Option{WithAddressBook(cfg.AddressBook)}, opts...)...)
}

// Address returns the address of h for the configured address version.
func (b *Builder) Address(h util.Uint160) string {
	return address.EncodeWithPrefix(b.cfg.AddressVersion, h)
}

func (b *Builder) checkDraft() error {
	if b.signed != nil {
		return ErrFrozen
	}
	return nil
}

// SetScript sets the script to be executed, nil script unsets it.
func (b *Builder) SetScript(script []byte) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	b.script = slice.Copy(script)
	return nil
}

// SetTransfer sets the script to an asserted NEP-17 transfer of amount token
// units from the sender (the first signer) to the recipient. Signers must be
// set before.
func (b *Builder) SetTransfer(token util.Uint160, to util.Uint160, amount *big.Int, data any) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	if len(b.signers) == 0 {
		return b.fail(ErrNoSigners)
	}
	sb := smartcontract.NewBuilder()
	sb.Transfer(token, b.signers[0].Signer.Account, to, amount, data)
	script, err := sb.Script()
	if err != nil {
		return b.fail(fmt.Errorf("transfer to %s: %w", b.Address(to), err))
	}
	return b.SetScript(script)
}

// SetGASTransfer is SetTransfer for the GAS contract of the address book.
func (b *Builder) SetGASTransfer(to util.Uint160, amount *big.Int, data any) error {
	return b.SetTransfer(b.book.GAS, to, amount, data)
}

// SetNEOTransfer is SetTransfer for the NEO contract of the address book.
func (b *Builder) SetNEOTransfer(to util.Uint160, amount *big.Int, data any) error {
	return b.SetTransfer(b.book.NEO, to, amount, data)
}

// SetSigners replaces the set of signers, the first one is the sender
// paying fees.
func (b *Builder) SetSigners(signers ...SignerAccount) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	if err := b.checkSigners(signers); err != nil {
		return b.fail(err)
	}
	b.signers = make([]SignerAccount, len(signers))
	for i := range signers {
		b.signers[i] = signers[i].copy()
	}
	return nil
}

func (b *Builder) checkSigners(signers []SignerAccount) error {
	if len(signers) > b.cfg.MaxAttributes {
		return fmt.Errorf("%w: %d", ErrTooManySigners, len(signers))
	}
	if len(signers)+len(b.attributes) > b.cfg.MaxAttributes {
		return fmt.Errorf("%w: %d signers and %d attributes", ErrTooManyAttributes, len(signers), len(b.attributes))
	}
	seen := make(map[util.Uint160]struct{}, len(signers))
	for i := range signers {
		acc := signers[i].Signer.Account
		if _, ok := seen[acc]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSigner, b.Address(acc))
		}
		seen[acc] = struct{}{}
		cp := signers[i].copy()
		if err := cp.validate(); err != nil {
			return fmt.Errorf("signer #%d (%s): %w", i, b.Address(acc), err)
		}
	}
	return nil
}

// SetAttributes replaces the set of attributes.
func (b *Builder) SetAttributes(attrs ...transaction.Attribute) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	if err := b.checkAttributes(attrs); err != nil {
		return b.fail(err)
	}
	b.attributes = make([]transaction.Attribute, len(attrs))
	for i := range attrs {
		b.attributes[i] = *attrs[i].Copy()
	}
	return nil
}

func (b *Builder) checkAttributes(attrs []transaction.Attribute) error {
	if len(b.signers)+len(attrs) > b.cfg.MaxAttributes {
		return fmt.Errorf("%w: %d signers and %d attributes", ErrTooManyAttributes, len(b.signers), len(attrs))
	}
	seen := make(map[transaction.AttrType]struct{}, len(attrs))
	for i := range attrs {
		typ := attrs[i].Type
		if _, ok := seen[typ]; ok {
			if typ == transaction.HighPriority {
				return ErrMultipleHighPriority
			}
			return fmt.Errorf("%w: %s", ErrDuplicateAttribute, typ)
		}
		seen[typ] = struct{}{}
		if err := attrs[i].Validate(); err != nil {
			return fmt.Errorf("attribute #%d: %w", i, err)
		}
	}
	return nil
}

// SetValidUntilBlock sets the height the transaction is valid until.
func (b *Builder) SetValidUntilBlock(height uint32) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	b.validUntilBlock = &height
	return nil
}

// SetCurrentHeight sets the current chain height. If ValidUntilBlock is not
// set explicitly, it's the current height plus ValidUntilBlockIncrement.
func (b *Builder) SetCurrentHeight(height uint32) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	b.currentHeight = height
	return nil
}

// SetNonce sets the transaction nonce, a random one is used if not set.
func (b *Builder) SetNonce(nonce uint32) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	b.nonce = &nonce
	return nil
}

// SetVersion sets the transaction version.
func (b *Builder) SetVersion(v uint8) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	b.version = v
	return nil
}

// SetSystemFee sets the system fee.
func (b *Builder) SetSystemFee(fee int64) error {
	return b.setFee(&b.systemFee, fee)
}

// SetNetworkFee sets the network fee.
func (b *Builder) SetNetworkFee(fee int64) error {
	return b.setFee(&b.networkFee, fee)
}

// SetAdditionalSystemFee sets the amount added to the system fee.
func (b *Builder) SetAdditionalSystemFee(fee int64) error {
	return b.setFee(&b.additionalSysFee, fee)
}

// SetAdditionalNetworkFee sets the amount added to the network fee.
func (b *Builder) SetAdditionalNetworkFee(fee int64) error {
	return b.setFee(&b.additionalNetFee, fee)
}

func (b *Builder) setFee(dst *int64, fee int64) error {
	if err := b.checkDraft(); err != nil {
		return err
	}
	if fee < 0 {
		return b.fail(fmt.Errorf("%w: %d", ErrNegativeFee, fee))
	}
	*dst = fee
	return nil
}

// IsHighPriority returns true if the transaction has HighPriority attribute.
func (b *Builder) IsHighPriority() bool {
	for i := range b.attributes {
		if b.attributes[i].Type == transaction.HighPriority {
			return true
		}
	}
	return false
}

// IsSigned returns true if the transaction has already been signed.
func (b *Builder) IsSigned() bool {
	return b.signed != nil
}

// Unsigned returns the validated transaction without witnesses.
func (b *Builder) Unsigned() (*transaction.Transaction, error) {
	if b.signed != nil {
		tx := b.signed.Copy()
		tx.Scripts = nil
		return tx, nil
	}
	tx, err := b.build()
	if err != nil {
		return nil, b.fail(err)
	}
	return tx, nil
}

// Sign creates witnesses for all signers and returns the signed
// transaction. Builder can't be modified after this.
func (b *Builder) Sign(ctx SigningContext) (*transaction.Transaction, error) {
	if err := b.checkDraft(); err != nil {
		return nil, err
	}
	tx, err := b.build()
	if err != nil {
		return nil, b.fail(err)
	}
	net := ctx.Network
	if net == 0 {
		net = b.cfg.Magic
	}
	msg := hash.GetSignedData(uint32(net), tx)
	tx.Scripts = make([]transaction.Witness, len(b.signers))
	for i := range b.signers {
		tx.Scripts[i], err = b.signers[i].witness(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to create witness for signer #%d (%s, %s): %w",
				i, b.signers[i].Kind, b.Address(b.signers[i].Signer.Account), err)
		}
	}
	if size := tx.Size(); size > b.cfg.MaxTransactionSize {
		return nil, b.fail(fmt.Errorf("%w: %d bytes", ErrTxTooLarge, size))
	}
	b.signed = tx
	incSigned()
	b.log.Info("transaction signed",
		zap.String("hash", tx.Hash().StringLE()),
		zap.String("sender", b.Address(tx.Sender())),
		zap.Stringer("network", net),
		zap.Int("signers", len(tx.Signers)),
		zap.Int("size", tx.Size()))
	return tx.Copy(), nil
}

// build creates an unsigned transaction from the current state.
func (b *Builder) build() (*transaction.Transaction, error) {
	if b.script == nil {
		return nil, ErrNoScript
	}
	if len(b.script) == 0 {
		return nil, ErrEmptyScript
	}
	if len(b.signers) == 0 {
		return nil, ErrNoSigners
	}
	if err := b.checkSigners(b.signers); err != nil {
		return nil, err
	}
	if err := b.checkAttributes(b.attributes); err != nil {
		return nil, err
	}
	if len(b.script) > transaction.MaxScriptLength {
		return nil, fmt.Errorf("%w: script is %d bytes", ErrTxTooLarge, len(b.script))
	}
	sysFee, err := addFees(b.systemFee, b.additionalSysFee)
	if err != nil {
		return nil, err
	}
	netFee, err := addFees(b.networkFee, b.additionalNetFee)
	if err != nil {
		return nil, err
	}
	vub, err := b.getValidUntilBlock()
	if err != nil {
		return nil, err
	}
	if b.nonce == nil {
		nonce, err := randomNonce()
		if err != nil {
			return nil, err
		}
		b.nonce = &nonce
	}

	tx := &transaction.Transaction{
		Version:         b.version,
		Nonce:           *b.nonce,
		SystemFee:       sysFee,
		NetworkFee:      netFee,
		ValidUntilBlock: vub,
		Script:          slice.Copy(b.script),
		Signers:         make([]transaction.Signer, len(b.signers)),
	}
	for i := range b.signers {
		tx.Signers[i] = *b.signers[i].Signer.Copy()
	}
	if len(b.attributes) != 0 {
		tx.Attributes = make([]transaction.Attribute, len(b.attributes))
		for i := range b.attributes {
			tx.Attributes[i] = *b.attributes[i].Copy()
		}
	}
	if err := tx.Validate(); err != nil {
		if errors.Is(err, transaction.ErrTxTooBig) {
			return nil, fmt.Errorf("%w: %w", ErrTxTooLarge, err)
		}
		return nil, err
	}
	size, err := b.estimateSize(tx)
	if err != nil {
		return nil, err
	}
	if size > b.cfg.MaxTransactionSize {
		return nil, fmt.Errorf("%w: %d bytes with witnesses", ErrTxTooLarge, size)
	}
	return tx, nil
}

// estimateSize returns the size of the transaction with witnesses of all
// signers.
func (b *Builder) estimateSize(tx *transaction.Transaction) (int, error) {
	cp := *tx
	cp.Scripts = make([]transaction.Witness, len(b.signers))
	for i := range b.signers {
		w, err := b.signers[i].witnessPlaceholder()
		if err != nil {
			return 0, fmt.Errorf("signer #%d: %w", i, err)
		}
		cp.Scripts[i] = w
	}
	size := io.GetSize(&cp)
	if size < 0 {
		return 0, fmt.Errorf("%w: failed to serialize transaction", ErrTxTooLarge)
	}
	return size, nil
}

func (b *Builder) getValidUntilBlock() (uint32, error) {
	if b.validUntilBlock != nil {
		return *b.validUntilBlock, nil
	}
	vub := uint64(b.currentHeight) + uint64(b.cfg.ValidUntilBlockIncrement)
	if vub > math.MaxUint32 {
		return 0, fmt.Errorf("%w: height %d", ErrValidUntilOverflow, b.currentHeight)
	}
	return uint32(vub), nil
}

func addFees(fee, additional int64) (int64, error) {
	if fee > math.MaxInt64-additional {
		return 0, fmt.Errorf("%w: %d + %d", ErrFeeOverflow, fee, additional)
	}
	return fee + additional, nil
}

func randomNonce() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (b *Builder) fail(err error) error {
	incValidationFailure(err)
	b.log.Debug("transaction validation failed", zap.Error(err))
	return err
}
