package smartcontract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
)

// ErrInvalidParameter is returned for parameters that can't be converted to
// a script push.
var ErrInvalidParameter = fmt.Errorf("%w: invalid contract parameter", errkind.ErrValidation)

// Parameter represents a smart contract parameter.
type Parameter struct {
	// Type of the parameter.
	Type ParamType `json:"type"`
	// The actual value of the parameter.
	Value any `json:"value"`
}

// ParameterPair represents key-value pair, a slice of which is stored in
// MapType Parameter.
type ParameterPair struct {
	Key   Parameter `json:"key"`
	Value Parameter `json:"value"`
}

// NewParameter returns a Parameter with proper initialized Value
// of the given ParamType.
func NewParameter(t ParamType) Parameter {
	return Parameter{
		Type:  t,
		Value: nil,
	}
}

// NewBoolParameter returns a Boolean parameter.
func NewBoolParameter(b bool) Parameter {
	return Parameter{Type: BoolType, Value: b}
}

// NewIntegerParameter returns an Integer parameter.
func NewIntegerParameter(i int64) Parameter {
	return Parameter{Type: IntegerType, Value: big.NewInt(i)}
}

// NewBigIntegerParameter returns an Integer parameter holding a copy of i.
func NewBigIntegerParameter(i *big.Int) Parameter {
	return Parameter{Type: IntegerType, Value: new(big.Int).Set(i)}
}

// NewStringParameter returns a String parameter.
func NewStringParameter(s string) Parameter {
	return Parameter{Type: StringType, Value: s}
}

// NewByteArrayParameter returns a ByteArray parameter.
func NewByteArrayParameter(b []byte) Parameter {
	return Parameter{Type: ByteArrayType, Value: bytes.Clone(b)}
}

// NewSignatureParameter returns a Signature parameter.
func NewSignatureParameter(sig []byte) Parameter {
	return Parameter{Type: SignatureType, Value: bytes.Clone(sig)}
}

// NewHash160Parameter returns a Hash160 parameter.
func NewHash160Parameter(h util.Uint160) Parameter {
	return Parameter{Type: Hash160Type, Value: h}
}

// NewHash256Parameter returns a Hash256 parameter.
func NewHash256Parameter(h util.Uint256) Parameter {
	return Parameter{Type: Hash256Type, Value: h}
}

// NewPublicKeyParameter returns a PublicKey parameter holding the compressed
// key.
func NewPublicKeyParameter(pub *keys.PublicKey) Parameter {
	return Parameter{Type: PublicKeyType, Value: pub.Bytes()}
}

// NewArrayParameter returns an Array parameter.
func NewArrayParameter(items ...Parameter) Parameter {
	return Parameter{Type: ArrayType, Value: items}
}

// NewMapParameter returns a Map parameter.
func NewMapParameter(pairs ...ParameterPair) Parameter {
	return Parameter{Type: MapType, Value: pairs}
}

type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface. Integers are strings,
// byte arrays and signatures are base64 and public keys are hex.
func (p Parameter) MarshalJSON() ([]byte, error) {
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("%w: can't marshal %s", ErrInvalidParameter, p.Type)
	}
	raw := rawParameter{Type: p.Type}
	if p.Value != nil {
		v, err := p.jsonValue()
		if err != nil {
			return nil, err
		}
		if v != nil {
			if raw.Value, err = json.Marshal(v); err != nil {
				return nil, err
			}
		}
	}
	return json.Marshal(raw)
}

func (p Parameter) jsonValue() (any, error) {
	switch p.Type {
	case BoolType, StringType, Hash160Type, Hash256Type, MapType:
		return p.Value, nil
	case ArrayType:
		if arr, ok := p.Value.([]Parameter); ok && arr == nil {
			return []Parameter{}, nil
		}
		return p.Value, nil
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not an integer", ErrInvalidParameter, p.Value)
		}
		return n.String(), nil
	case PublicKeyType:
		b, err := publicKeyBytes(p.Value)
		if err != nil {
			return nil, err
		}
		return hex.EncodeToString(b), nil
	case ByteArrayType, SignatureType:
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: invalid %s value %T", ErrInvalidParameter, p.Type, p.Value)
		}
		return b, nil
	case AnyType, InteropInterfaceType:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s can't have a value", ErrInvalidParameter, p.Type)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface. Integers are
// accepted both as numbers and as strings.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var r rawParameter
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	p.Type, p.Value = r.Type, nil
	if len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
		return nil
	}
	var (
		v   any
		err error
	)
	switch r.Type {
	case BoolType:
		v, err = unmarshalAs[bool](r.Value)
	case StringType:
		v, err = unmarshalAs[string](r.Value)
	case ByteArrayType, SignatureType:
		v, err = unmarshalAs[[]byte](r.Value)
	case PublicKeyType:
		v, err = unmarshalHex(r.Value)
	case IntegerType:
		v, err = unmarshalInteger(r.Value)
	case Hash160Type:
		v, err = unmarshalAs[util.Uint160](r.Value)
	case Hash256Type:
		v, err = unmarshalAs[util.Uint256](r.Value)
	case ArrayType:
		v, err = unmarshalAs[[]Parameter](r.Value)
	case MapType:
		v, err = unmarshalAs[[]ParameterPair](r.Value)
	case AnyType, InteropInterfaceType:
	default:
		err = fmt.Errorf("%w: can't unmarshal %s", ErrInvalidParameter, r.Type)
	}
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

func unmarshalAs[T any](data json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func unmarshalHex(data json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return hex.DecodeString(s)
}

func unmarshalInteger(data json.RawMessage) (any, error) {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		return big.NewInt(i), nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidParameter, s)
	}
	if !fitsInteger(n) {
		return nil, fmt.Errorf("%w: integer is too big", ErrInvalidParameter)
	}
	return n, nil
}

// ExpandParameterToEmitable converts parameter to a type which can be handled
// by emit.Any: arrays become []any, maps become []emit.KeyValue and public
// keys are pushed as their compressed representation.
func ExpandParameterToEmitable(param Parameter) (any, error) {
	var err error
	switch t := param.Type; t {
	case PublicKeyType:
		return publicKeyBytes(param.Value)
	case ArrayType:
		arr, ok := param.Value.([]Parameter)
		if !ok && param.Value != nil {
			return nil, fmt.Errorf("%w: invalid %s value %T", ErrInvalidParameter, t, param.Value)
		}
		res := make([]any, len(arr))
		for i := range arr {
			res[i], err = ExpandParameterToEmitable(arr[i])
			if err != nil {
				return nil, err
			}
		}
		return res, nil
	case MapType:
		pairs, ok := param.Value.([]ParameterPair)
		if !ok && param.Value != nil {
			return nil, fmt.Errorf("%w: invalid %s value %T", ErrInvalidParameter, t, param.Value)
		}
		res := make([]emit.KeyValue, len(pairs))
		for i := range pairs {
			if pairs[i].Key.Type == ArrayType || pairs[i].Key.Type == MapType {
				return nil, fmt.Errorf("%w: map key can't be %s", ErrInvalidParameter, pairs[i].Key.Type)
			}
			if res[i].Key, err = ExpandParameterToEmitable(pairs[i].Key); err != nil {
				return nil, err
			}
			if res[i].Value, err = ExpandParameterToEmitable(pairs[i].Value); err != nil {
				return nil, err
			}
		}
		return res, nil
	case AnyType:
		if param.Value != nil {
			return nil, fmt.Errorf("%w: Any parameter can only be null", ErrInvalidParameter)
		}
		return nil, nil
	case InteropInterfaceType, UnknownType, VoidType:
		return nil, fmt.Errorf("%w: unsupported parameter type: %s", ErrInvalidParameter, t.String())
	default:
		return param.Value, nil
	}
}

func publicKeyBytes(v any) ([]byte, error) {
	switch pub := v.(type) {
	case *keys.PublicKey:
		return pub.Bytes(), nil
	case []byte:
		return pub, nil
	default:
		return nil, fmt.Errorf("%w: invalid public key value %T", ErrInvalidParameter, v)
	}
}
