package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/io"
)

// Attribute represents a Transaction attribute.
type Attribute struct {
	Type  AttrType
	Value interface {
		io.Serializable
		// toJSONMap is used for embedded json struct marshalling.
		// Anonymous interface fields are not considered anonymous by
		// json lib and marshaling Value together with type makes code
		// harder to follow.
		toJSONMap(map[string]any)
	}
}

// attrJSON is used for JSON I/O of Attribute.
type attrJSON struct {
	Type string `json:"type"`
}

// DecodeBinary implements the Serializable interface.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	if br.Err != nil {
		return
	}

	switch t := attr.Type; t {
	case HighPriority:
		attr.Value = nil
		return
	case OracleResponseT:
		attr.Value = new(OracleResponse)
	default:
		br.Err = fmt.Errorf("%w: %d", ErrInvalidAttrType, byte(t))
		return
	}
	attr.Value.DecodeBinary(br)
}

// EncodeBinary implements the Serializable interface.
func (attr *Attribute) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(attr.Type))
	switch t := attr.Type; t {
	case HighPriority:
	case OracleResponseT:
		if attr.Value == nil {
			bw.Err = fmt.Errorf("%w: missing %s value", ErrInvalidAttribute, t)
			return
		}
		attr.Value.EncodeBinary(bw)
	default:
		bw.Err = fmt.Errorf("%w: %d", ErrInvalidAttrType, byte(t))
	}
}

// Validate checks that the attribute type is known and its value matches
// the type.
func (attr *Attribute) Validate() error {
	switch attr.Type {
	case HighPriority:
		if attr.Value != nil {
			return fmt.Errorf("%w: %s carries a value", ErrInvalidAttribute, attr.Type)
		}
		return nil
	case OracleResponseT:
		res, ok := attr.Value.(*OracleResponse)
		if !ok || res == nil {
			return fmt.Errorf("%w: %s without a response", ErrInvalidAttribute, attr.Type)
		}
		return res.Validate()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidAttrType, byte(attr.Type))
	}
}

// Copy creates a deep copy of the Attribute.
func (attr *Attribute) Copy() *Attribute {
	cp := &Attribute{Type: attr.Type}
	if res, ok := attr.Value.(*OracleResponse); ok && res != nil {
		cp.Value = res.Copy()
	}
	return cp
}

// MarshalJSON implements the json Marshaller interface.
func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": attr.Type.String()}
	if attr.Value != nil {
		attr.Value.toJSONMap(m)
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	aj := new(attrJSON)
	err := json.Unmarshal(data, aj)
	if err != nil {
		return err
	}
	t, ok := attrTypeFromString(aj.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAttrType, aj.Type)
	}
	attr.Type = t
	attr.Value = nil
	if t == OracleResponseT {
		res := new(OracleResponse)
		if err := json.Unmarshal(data, res); err != nil {
			return err
		}
		attr.Value = res
	}
	return nil
}
