package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/nspcc-dev/neotx/pkg/crypto/hash"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
)

const (
	// MaxScriptLength is the limit for transaction's script length.
	MaxScriptLength = math.MaxUint16
	// MaxTransactionSize is the upper limit size in bytes that a transaction can reach. It is
	// set to be 102400.
	MaxTransactionSize = 102400
	// MaxAttributes is the maximum number of attributes including signers that can be contained
	// within a transaction. It is set to be 16.
	MaxAttributes = 16
)

// Transaction is a process recorded in the Neo blockchain.
type Transaction struct {
	// Incremented each time the transaction format changes. Only 0 is
	// supported.
	Version uint8

	// Random number to avoid hash collision.
	Nonce uint32

	// Fee to be burned.
	SystemFee int64

	// Fee to be distributed to consensus nodes.
	NetworkFee int64

	// Maximum blockchain height exceeding which
	// transaction should fail verification.
	ValidUntilBlock uint32

	// Code to run in NeoVM for this transaction.
	Script []byte

	// Transaction attributes.
	Attributes []Attribute

	// Transaction signers list (starts with Sender).
	Signers []Signer

	// The scripts that come with this transaction.
	// Scripts exist out of the verification script
	// and invocation script.
	Scripts []Witness

	// size is transaction's serialized size.
	size int

	// Hash of the transaction (double SHA256 of the unsigned part).
	hash util.Uint256

	// Whether hash is correct.
	hashed bool
}

// NewTransactionFromBytes decodes byte array into *Transaction. The whole
// buffer must be consumed.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.decodeBinaryNoSize(r, b)
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left unread", errkind.ErrFormat, r.Len())
	}
	tx.size = len(b)
	return tx, nil
}

// New returns a new transaction to execute given script and pay given system
// fee. The nonce is random.
func New(script []byte, gas int64) *Transaction {
	return &Transaction{
		Version:   0,
		Nonce:     rand.Uint32(),
		Script:    script,
		SystemFee: gas,
	}
}

// Hash returns the hash of the transaction. It only covers the unsigned
// part, so it doesn't change when witnesses are added. A transaction without
// a script can't be serialized and has a zero hash.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashed && t.createHash() != nil {
		return util.Uint256{}
	}
	return t.hash
}

// HasAttribute returns true iff t has an attribute of type typ.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns the list of transaction's attributes of the given type.
// Returns nil in case if attributes not found.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var result []Attribute
	for _, attr := range t.Attributes {
		if attr.Type == typ {
			result = append(result, attr)
		}
	}
	return result
}

// decodeHashableFields decodes the fields that are used for signing the
// transaction, which are all fields except the scripts.
func (t *Transaction) decodeHashableFields(br *io.BinReader, buf []byte) {
	var start, end int

	if buf != nil {
		start = len(buf) - br.Len()
	}
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	if br.Err != nil {
		return
	}
	if t.Version != 0 {
		br.Err = fmt.Errorf("%w: %d", ErrInvalidVersion, t.Version)
		return
	}
	nsigners := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nsigners > MaxAttributes {
		br.Err = fmt.Errorf("%w: %d signers", ErrTooManyAttributes, nsigners)
		return
	} else if nsigners == 0 {
		br.Err = ErrEmptySigners
		return
	}
	t.Signers = make([]Signer, nsigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
	}
	nattrs := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nattrs > MaxAttributes-nsigners {
		br.Err = fmt.Errorf("%w: %d signers and %d attributes", ErrTooManyAttributes, nsigners, nattrs)
		return
	}
	t.Attributes = make([]Attribute, nattrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
	}
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil {
		br.Err = t.isValid()
	}
	if buf != nil && br.Err == nil {
		end = len(buf) - br.Len()
		t.hash = hash.DoubleSha256(buf[start:end])
		t.hashed = true
	}
}

func (t *Transaction) decodeBinaryNoSize(br *io.BinReader, buf []byte) {
	t.decodeHashableFields(br, buf)
	if br.Err != nil {
		return
	}
	nscripts := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if nscripts != uint64(len(t.Signers)) {
		br.Err = fmt.Errorf("%w: %d witnesses and %d signers", ErrWitnessCount, nscripts, len(t.Signers))
		return
	}
	t.Scripts = make([]Witness, nscripts)
	for i := range t.Scripts {
		t.Scripts[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
	}

	// Create the hash of the transaction at decode, so we dont need
	// to do it anymore.
	if br.Err == nil && buf == nil {
		br.Err = t.createHash()
	}
}

// DecodeBinary implements the Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeBinaryNoSize(br, nil)

	if br.Err == nil {
		_ = t.Size()
	}
}

// EncodeBinary implements the Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.EncodeHashableFields(bw)
	bw.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(bw)
	}
}

// EncodeHashableFields encodes the fields that are used for signing the
// transaction, which are all fields except the scripts.
func (t *Transaction) EncodeHashableFields(bw *io.BinWriter) {
	if len(t.Script) == 0 {
		bw.Err = ErrEmptyScript
		return
	}
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	bw.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(bw)
	}
	bw.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(bw)
	}
	bw.WriteVarBytes(t.Script)
}

// encodeHashableFields returns serialized transaction's fields which are hashed.
func (t *Transaction) encodeHashableFields() ([]byte, error) {
	if len(t.Script) == 0 {
		return nil, ErrEmptyScript
	}
	var (
		b   []byte
		buf = io.NewBufBinWriter()
	)
	t.EncodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	b = buf.Bytes()
	return b, nil
}

// createHash creates the hash of the transaction.
func (t *Transaction) createHash() error {
	shaHash, err := t.hashableFieldsHash()
	if err != nil {
		return err
	}
	t.hash = shaHash
	t.hashed = true
	return nil
}

func (t *Transaction) hashableFieldsHash() (util.Uint256, error) {
	b, err := t.encodeHashableFields()
	if err != nil {
		return util.Uint256{}, err
	}
	return hash.DoubleSha256(b), nil
}

// UnsignedBytes returns the serialization of the transaction without
// witnesses, the data its hash is computed over.
func (t *Transaction) UnsignedBytes() ([]byte, error) {
	return t.encodeHashableFields()
}

// Bytes converts the transaction to []byte.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

// FeePerByte returns NetworkFee of the transaction divided by
// its size.
func (t *Transaction) FeePerByte() int64 {
	return t.NetworkFee / int64(t.Size())
}

// Size returns size of the serialized transaction.
func (t *Transaction) Size() int {
	if t.size == 0 {
		t.size = io.GetSize(t)
	}
	return t.size
}

// Sender returns the sender of the transaction which is always on the first place
// in the transaction's signers list, zero hash if there are no signers.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		return util.Uint160{}
	}
	return t.Signers[0].Account
}

// Invalidate drops the cached hash and size, it must be called after any
// modification of a transaction that was already hashed.
func (t *Transaction) Invalidate() {
	t.hashed = false
	t.size = 0
}

// Copy creates a deep copy of the Transaction, including all slice fields.
// Cached values like 'hashed' and 'size' are reset to ensure the copy can be
// modified independently of the original.
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Attributes != nil {
		cp.Attributes = make([]Attribute, len(t.Attributes))
		for i := range t.Attributes {
			cp.Attributes[i] = *t.Attributes[i].Copy()
		}
	}
	if t.Signers != nil {
		cp.Signers = make([]Signer, len(t.Signers))
		for i := range t.Signers {
			cp.Signers[i] = *t.Signers[i].Copy()
		}
	}
	if t.Scripts != nil {
		cp.Scripts = make([]Witness, len(t.Scripts))
		for i := range t.Scripts {
			cp.Scripts[i] = t.Scripts[i].Copy()
		}
	}
	cp.Script = append([]byte(nil), t.Script...)
	cp.hashed = false
	cp.size = 0
	cp.hash = util.Uint256{}
	return &cp
}

// Validate checks the structure of the transaction: version, fees, signers,
// attributes, script and serialized size. Witnesses aren't executed.
func (t *Transaction) Validate() error {
	if err := t.isValid(); err != nil {
		return err
	}
	for i := range t.Signers {
		if err := t.Signers[i].Validate(); err != nil {
			return fmt.Errorf("signer %d: %w", i, err)
		}
	}
	if len(t.Scripts) != 0 && len(t.Scripts) != len(t.Signers) {
		return fmt.Errorf("%w: %d witnesses and %d signers", ErrWitnessCount, len(t.Scripts), len(t.Signers))
	}
	for i := range t.Scripts {
		if err := t.Scripts[i].Validate(); err != nil {
			return fmt.Errorf("witness %d: %w", i, err)
		}
	}
	size := io.GetSize(t)
	if size < 0 {
		return fmt.Errorf("%w: unencodable transaction", ErrInvalidAttribute)
	}
	if size > MaxTransactionSize {
		return fmt.Errorf("%w: %d bytes", ErrTxTooBig, size)
	}
	return nil
}

// isValid checks whether decoded/unmarshalled transaction has all fields valid.
func (t *Transaction) isValid() error {
	if t.Version > 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, t.Version)
	}
	if t.SystemFee < 0 {
		return fmt.Errorf("%w: system fee %d", ErrNegativeFee, t.SystemFee)
	}
	if t.NetworkFee < 0 {
		return fmt.Errorf("%w: network fee %d", ErrNegativeFee, t.NetworkFee)
	}
	if t.NetworkFee+t.SystemFee < t.SystemFee {
		return ErrTooBigFees
	}
	if len(t.Signers) == 0 {
		return ErrEmptySigners
	}
	for i := range t.Signers {
		for j := i + 1; j < len(t.Signers); j++ {
			if t.Signers[i].Account.Equals(t.Signers[j].Account) {
				return fmt.Errorf("%w: %s", ErrNonUniqueSigners, t.Signers[i].Account.StringLE())
			}
		}
	}
	if len(t.Signers)+len(t.Attributes) > MaxAttributes {
		return fmt.Errorf("%w: %d signers and %d attributes", ErrTooManyAttributes, len(t.Signers), len(t.Attributes))
	}
	seen := make(map[AttrType]bool, len(t.Attributes))
	for i := range t.Attributes {
		typ := t.Attributes[i].Type
		if seen[typ] {
			return fmt.Errorf("%w: multiple %s attributes", ErrInvalidAttribute, typ)
		}
		seen[typ] = true
		if err := t.Attributes[i].Validate(); err != nil {
			return err
		}
	}
	if len(t.Script) == 0 {
		return ErrEmptyScript
	}
	return nil
}

// transactionJSON is a wrapper for Transaction and
// used for correct marshalling of transaction.Data.
type transactionJSON struct {
	TxID            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         uint8        `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          string       `json:"sender"`
	SystemFee       int64        `json:"sysfee,string"`
	NetworkFee      int64        `json:"netfee,string"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Attributes      []Attribute  `json:"attributes"`
	Signers         []Signer     `json:"signers"`
	Script          []byte       `json:"script"`
	Scripts         []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface. The sender is
// rendered as a script hash in LE hex form, address encoding needs a
// network-specific prefix and is left to the caller.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	if len(t.Signers) == 0 {
		return nil, ErrEmptySigners
	}
	if len(t.Script) == 0 {
		return nil, ErrEmptyScript
	}
	tx := transactionJSON{
		TxID:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          "0x" + t.Sender().StringLE(),
		ValidUntilBlock: t.ValidUntilBlock,
		Attributes:      t.Attributes,
		Signers:         t.Signers,
		Script:          t.Script,
		Scripts:         t.Scripts,
		SystemFee:       t.SystemFee,
		NetworkFee:      t.NetworkFee,
	}
	return json.Marshal(tx)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	tx := new(transactionJSON)
	if err := json.Unmarshal(data, tx); err != nil {
		return err
	}
	t.Version = tx.Version
	t.Nonce = tx.Nonce
	t.ValidUntilBlock = tx.ValidUntilBlock
	t.Attributes = tx.Attributes
	t.Signers = tx.Signers
	t.Scripts = tx.Scripts
	t.SystemFee = tx.SystemFee
	t.NetworkFee = tx.NetworkFee
	t.Script = tx.Script
	if err := t.isValid(); err != nil {
		return err
	}
	t.Invalidate()
	if t.Hash() != tx.TxID {
		return errors.New("txid doesn't match transaction hash")
	}
	if t.Size() != tx.Size {
		return errors.New("'size' doesn't match transaction size")
	}
	return nil
}
