package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
)

// WitnessConditionType encodes a type of witness condition.
type WitnessConditionType byte

const (
	// WitnessBoolean is a generic boolean condition.
	WitnessBoolean WitnessConditionType = 0x00 // Boolean
	// WitnessNot reverses another condition.
	WitnessNot WitnessConditionType = 0x01 // Not
	// WitnessAnd means that all conditions must be met.
	WitnessAnd WitnessConditionType = 0x02 // And
	// WitnessOr means that any of conditions must be met.
	WitnessOr WitnessConditionType = 0x03 // Or
	// WitnessScriptHash matches executing contract's script hash.
	WitnessScriptHash WitnessConditionType = 0x18 // ScriptHash
	// WitnessGroup matches executing contract's group key.
	WitnessGroup WitnessConditionType = 0x19 // Group
	// WitnessCalledByEntry matches when current script is an entry script or is called by an entry script.
	WitnessCalledByEntry WitnessConditionType = 0x20 // CalledByEntry
	// WitnessCalledByContract matches when current script is called by the specified contract.
	WitnessCalledByContract WitnessConditionType = 0x28 // CalledByContract
	// WitnessCalledByGroup matches when current script is called by contract belonging to the specified group.
	WitnessCalledByGroup WitnessConditionType = 0x29 // CalledByGroup

	// MaxConditionNesting limits the maximum allowed witness condition nesting depth.
	MaxConditionNesting = 2
)

var conditionTypeNames = map[WitnessConditionType]string{
	WitnessBoolean:          "Boolean",
	WitnessNot:              "Not",
	WitnessAnd:              "And",
	WitnessOr:               "Or",
	WitnessScriptHash:       "ScriptHash",
	WitnessGroup:            "Group",
	WitnessCalledByEntry:    "CalledByEntry",
	WitnessCalledByContract: "CalledByContract",
	WitnessCalledByGroup:    "CalledByGroup",
}

func (t WitnessConditionType) String() string {
	if s, ok := conditionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("WitnessConditionType(%d)", byte(t))
}

// WitnessCondition is a condition of WitnessRule.
type WitnessCondition interface {
	// Type returns a type of this condition.
	Type() WitnessConditionType
	// EncodeBinary allows to serialize condition to its binary
	// representation (including type data).
	EncodeBinary(*io.BinWriter)
	// DecodeBinarySpecific decodes type-specific binary data from the given
	// reader (not including type data).
	DecodeBinarySpecific(*io.BinReader, int)
	// Copy returns a deep copy of the condition.
	Copy() WitnessCondition

	json.Marshaler
}

type conditionAux struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
}

type (
	// ConditionBoolean is a boolean condition type.
	ConditionBoolean bool
	// ConditionNot inverses the meaning of contained condition.
	ConditionNot struct {
		Condition WitnessCondition
	}
	// ConditionAnd is a set of conditions required to match.
	ConditionAnd []WitnessCondition
	// ConditionOr is a set of conditions one of which is required to match.
	ConditionOr []WitnessCondition
	// ConditionScriptHash is a condition matching executing script hash.
	ConditionScriptHash util.Uint160
	// ConditionGroup is a condition matching executing script group.
	ConditionGroup keys.PublicKey
	// ConditionCalledByEntry is a condition matching entry script or one directly called by it.
	ConditionCalledByEntry struct{}
	// ConditionCalledByContract is a condition matching calling script hash.
	ConditionCalledByContract util.Uint160
	// ConditionCalledByGroup is a condition matching calling script group.
	ConditionCalledByGroup keys.PublicKey
)

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionBoolean) Type() WitnessConditionType {
	return WitnessBoolean
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionBoolean) DecodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	boolJSON, _ := json.Marshal(bool(*c))
	aux := conditionAux{
		Type:       c.Type().String(),
		Expression: json.RawMessage(boolJSON),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionBoolean) Copy() WitnessCondition {
	cc := *c
	return &cc
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionNot) Type() WitnessConditionType {
	return WitnessNot
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	if c.Condition == nil {
		w.Err = ErrEmptyCondition
		return
	}
	c.Condition.EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionNot) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	c.Condition = decodeBinaryCondition(r, maxDepth-1)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	if c.Condition == nil {
		return nil, ErrEmptyCondition
	}
	cond, err := c.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	aux := conditionAux{
		Expression: cond,
		Type:       c.Type().String(),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionNot) Copy() WitnessCondition {
	if c.Condition == nil {
		return &ConditionNot{}
	}
	return &ConditionNot{Condition: c.Condition.Copy()}
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionAnd) Type() WitnessConditionType {
	return WitnessAnd
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditions(w, *c)
}

func encodeConditions(w *io.BinWriter, cs []WitnessCondition) {
	w.WriteVarUint(uint64(len(cs)))
	for i := range cs {
		if cs[i] == nil {
			w.Err = ErrEmptyCondition
			return
		}
		cs[i].EncodeBinary(w)
	}
}

func readConditions(r *io.BinReader, maxDepth int) []WitnessCondition {
	l := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if l == 0 {
		r.Err = fmt.Errorf("%w: empty condition list", ErrEmptyCondition)
		return nil
	}
	if l > maxSubitems {
		r.Err = fmt.Errorf("%w: %d conditions", ErrTooManySubitems, l)
		return nil
	}
	res := make([]WitnessCondition, l)
	for i := range res {
		res[i] = decodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return nil
		}
	}
	return res
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionAnd) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	*c = readConditions(r, maxDepth)
}

func arrayToJSON(c WitnessCondition, a []WitnessCondition) ([]byte, error) {
	exprs := make([]json.RawMessage, len(a))
	for i := range a {
		if a[i] == nil {
			return nil, ErrEmptyCondition
		}
		b, err := a[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	aux := conditionAux{
		Type:        c.Type().String(),
		Expressions: exprs,
	}
	return json.Marshal(aux)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

func copyConditions(cs []WitnessCondition) []WitnessCondition {
	res := make([]WitnessCondition, len(cs))
	for i := range cs {
		if cs[i] != nil {
			res[i] = cs[i].Copy()
		}
	}
	return res
}

// Copy implements the WitnessCondition interface.
func (c *ConditionAnd) Copy() WitnessCondition {
	res := ConditionAnd(copyConditions(*c))
	return &res
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionOr) Type() WitnessConditionType {
	return WitnessOr
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditions(w, *c)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionOr) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	*c = readConditions(r, maxDepth)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return arrayToJSON(c, []WitnessCondition(*c))
}

// Copy implements the WitnessCondition interface.
func (c *ConditionOr) Copy() WitnessCondition {
	res := ConditionOr(copyConditions(*c))
	return &res
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionScriptHash) Type() WitnessConditionType {
	return WitnessScriptHash
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionScriptHash) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionScriptHash) Copy() WitnessCondition {
	cc := *c
	return &cc
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionGroup) Type() WitnessConditionType {
	return WitnessGroup
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionGroup) Copy() WitnessCondition {
	cc := *c
	return &cc
}

// Type implements the WitnessCondition interface and returns condition type.
func (c ConditionCalledByEntry) Type() WitnessConditionType {
	return WitnessCalledByEntry
}

// EncodeBinary implements the WitnessCondition interface.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c ConditionCalledByEntry) DecodeBinarySpecific(_ *io.BinReader, _ int) {
}

// MarshalJSON implements the json.Marshaler interface.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c ConditionCalledByEntry) Copy() WitnessCondition {
	return ConditionCalledByEntry{}
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByContract) Type() WitnessConditionType {
	return WitnessCalledByContract
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(c[:])
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *io.BinReader, _ int) {
	r.ReadBytes(c[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type: c.Type().String(),
		Hash: (*util.Uint160)(c),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionCalledByContract) Copy() WitnessCondition {
	cc := *c
	return &cc
}

// Type implements the WitnessCondition interface and returns condition type.
func (c *ConditionCalledByGroup) Type() WitnessConditionType {
	return WitnessCalledByGroup
}

// EncodeBinary implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	(*keys.PublicKey)(c).EncodeBinary(w)
}

// DecodeBinarySpecific implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	(*keys.PublicKey)(c).DecodeBinary(r)
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	aux := conditionAux{
		Type:  c.Type().String(),
		Group: (*keys.PublicKey)(c),
	}
	return json.Marshal(aux)
}

// Copy implements the WitnessCondition interface.
func (c *ConditionCalledByGroup) Copy() WitnessCondition {
	cc := *c
	return &cc
}

// DecodeBinaryCondition decodes and returns condition from the given binary
// stream.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, MaxConditionNesting)
}

func newConditionOfType(t WitnessConditionType) WitnessCondition {
	switch t {
	case WitnessBoolean:
		var v ConditionBoolean
		return &v
	case WitnessNot:
		return &ConditionNot{}
	case WitnessAnd:
		return &ConditionAnd{}
	case WitnessOr:
		return &ConditionOr{}
	case WitnessScriptHash:
		return &ConditionScriptHash{}
	case WitnessGroup:
		return &ConditionGroup{}
	case WitnessCalledByEntry:
		return ConditionCalledByEntry{}
	case WitnessCalledByContract:
		return &ConditionCalledByContract{}
	case WitnessCalledByGroup:
		return &ConditionCalledByGroup{}
	default:
		return nil
	}
}

func isComposite(t WitnessConditionType) bool {
	return t == WitnessNot || t == WitnessAnd || t == WitnessOr
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	res := newConditionOfType(t)
	if res == nil {
		r.Err = fmt.Errorf("%w: %d", ErrInvalidConditionType, t)
		return nil
	}
	if isComposite(t) && maxDepth <= 0 {
		r.Err = ErrConditionNesting
		return nil
	}
	res.DecodeBinarySpecific(r, maxDepth)
	if r.Err != nil {
		return nil
	}
	return res
}

// ValidateCondition checks that the condition tree is complete, doesn't
// exceed MaxConditionNesting and has no more than 16 subitems in any
// And/Or node.
func ValidateCondition(c WitnessCondition) error {
	return validateCondition(c, MaxConditionNesting)
}

func validateCondition(c WitnessCondition, maxDepth int) error {
	if c == nil {
		return ErrEmptyCondition
	}
	if isComposite(c.Type()) && maxDepth <= 0 {
		return ErrConditionNesting
	}
	var subs []WitnessCondition
	switch v := c.(type) {
	case *ConditionNot:
		subs = []WitnessCondition{v.Condition}
	case *ConditionAnd:
		subs = *v
	case *ConditionOr:
		subs = *v
	default:
		return nil
	}
	if len(subs) == 0 {
		return fmt.Errorf("%w: empty %s", ErrEmptyCondition, c.Type())
	}
	if len(subs) > maxSubitems {
		return fmt.Errorf("%w: %d conditions", ErrTooManySubitems, len(subs))
	}
	for i := range subs {
		if err := validateCondition(subs[i], maxDepth-1); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalConditionJSON unmarshalls condition from the given JSON data.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, MaxConditionNesting)
}

func unmarshalConditionJSON(data []byte, maxDepth int) (WitnessCondition, error) {
	aux := new(conditionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return nil, err
	}
	var t WitnessConditionType
	var found bool
	for k, v := range conditionTypeNames {
		if v == aux.Type {
			t, found = k, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConditionType, aux.Type)
	}
	if isComposite(t) && maxDepth <= 0 {
		return nil, ErrConditionNesting
	}
	var res WitnessCondition
	switch t {
	case WitnessBoolean:
		var v bool
		if err := json.Unmarshal(aux.Expression, &v); err != nil {
			return nil, err
		}
		res = (*ConditionBoolean)(&v)
	case WitnessNot:
		if len(aux.Expression) == 0 {
			return nil, ErrEmptyCondition
		}
		sub, err := unmarshalConditionJSON(aux.Expression, maxDepth-1)
		if err != nil {
			return nil, err
		}
		res = &ConditionNot{Condition: sub}
	case WitnessAnd, WitnessOr:
		if len(aux.Expressions) == 0 {
			return nil, ErrEmptyCondition
		}
		if len(aux.Expressions) > maxSubitems {
			return nil, ErrTooManySubitems
		}
		subs := make([]WitnessCondition, len(aux.Expressions))
		for i := range aux.Expressions {
			sub, err := unmarshalConditionJSON(aux.Expressions[i], maxDepth-1)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		if t == WitnessAnd {
			res = (*ConditionAnd)(&subs)
		} else {
			res = (*ConditionOr)(&subs)
		}
	case WitnessScriptHash, WitnessCalledByContract:
		if aux.Hash == nil {
			return nil, errors.New("no hash specified")
		}
		if t == WitnessScriptHash {
			res = (*ConditionScriptHash)(aux.Hash)
		} else {
			res = (*ConditionCalledByContract)(aux.Hash)
		}
	case WitnessGroup, WitnessCalledByGroup:
		if aux.Group == nil {
			return nil, errors.New("no group specified")
		}
		if t == WitnessGroup {
			res = (*ConditionGroup)(aux.Group)
		} else {
			res = (*ConditionCalledByGroup)(aux.Group)
		}
	case WitnessCalledByEntry:
		res = ConditionCalledByEntry{}
	}
	return res, nil
}
