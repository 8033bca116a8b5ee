package smartcontract

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neotx/pkg/encoding/bigint"
	"github.com/nspcc-dev/neotx/pkg/io"
)

// ParamType represents the Type of the smart contract parameter.
type ParamType int

// A list of supported smart contract parameter types.
const (
	UnknownType          ParamType = -1
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

var paramTypeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// Alternative names accepted by ParseParamType.
var paramTypeAliases = map[string]ParamType{
	"bool":       BoolType,
	"int":        IntegerType,
	"bytes":      ByteArrayType,
	"bytestring": ByteArrayType,
	"key":        PublicKeyType,
	"struct":     ArrayType,
}

// String implements the stringer interface. Unknown types are represented
// by an empty string.
func (pt ParamType) String() string {
	return paramTypeNames[pt]
}

// IsValid checks whether pt is one of the known types.
func (pt ParamType) IsValid() bool {
	_, ok := paramTypeNames[pt]
	return ok
}

// ParseParamType converts the type name (as returned by String) or one of its
// short aliases (like "int" or "bytes") to ParamType, it's case-insensitive.
func ParseParamType(typ string) (ParamType, error) {
	for pt, name := range paramTypeNames {
		if strings.EqualFold(name, typ) {
			return pt, nil
		}
	}
	if pt, ok := paramTypeAliases[strings.ToLower(typ)]; ok {
		return pt, nil
	}
	return UnknownType, fmt.Errorf("%w: bad parameter type: %s", ErrInvalidParameter, typ)
}

// MarshalJSON implements the json.Marshaler interface.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(pt.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p, err := ParseParamType(s)
	if err != nil {
		return err
	}
	*pt = p
	return nil
}

// MarshalYAML implements the YAML Marshaler interface.
func (pt ParamType) MarshalYAML() (any, error) {
	return pt.String(), nil
}

// UnmarshalYAML implements the YAML Unmarshaler interface.
func (pt *ParamType) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	p, err := ParseParamType(name)
	if err != nil {
		return err
	}
	*pt = p
	return nil
}

// EncodeBinary implements the io.Serializable interface.
func (pt ParamType) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(pt))
}

// DecodeBinary implements the io.Serializable interface.
func (pt *ParamType) DecodeBinary(r *io.BinReader) {
	*pt = ParamType(r.ReadB())
	if r.Err == nil && !pt.IsValid() {
		r.Err = fmt.Errorf("%w: unknown parameter type %d", ErrInvalidParameter, byte(*pt))
	}
}

// fitsInteger checks that the value can be pushed as a VM integer.
func fitsInteger(bi *big.Int) bool {
	return len(bigint.ToBytes(bi)) <= bigint.MaxBytesLen
}
