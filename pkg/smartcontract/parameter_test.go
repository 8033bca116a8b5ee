package smartcontract

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/nspcc-dev/neotx/pkg/vm/emit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marshalJSONTestCases = []struct {
	input  Parameter
	result string
}{
	{
		input:  Parameter{Type: IntegerType, Value: big.NewInt(12345)},
		result: `{"type":"Integer","value":"12345"}`,
	},
	{
		input:  Parameter{Type: IntegerType, Value: new(big.Int).Lsh(big.NewInt(1), 254)},
		result: `{"type":"Integer","value":"` + new(big.Int).Lsh(big.NewInt(1), 254).String() + `"}`,
	},
	{
		input:  Parameter{Type: StringType, Value: "Some string"},
		result: `{"type":"String","value":"Some string"}`,
	},
	{
		input:  Parameter{Type: BoolType, Value: true},
		result: `{"type":"Boolean","value":true}`,
	},
	{
		input:  Parameter{Type: ByteArrayType, Value: []byte{0x01, 0x02, 0x03}},
		result: `{"type":"ByteArray","value":"` + hexToBase64("010203") + `"}`,
	},
	{
		input:  Parameter{Type: ByteArrayType},
		result: `{"type":"ByteArray"}`,
	},
	{
		input:  Parameter{Type: SignatureType},
		result: `{"type":"Signature"}`,
	},
	{
		input: Parameter{
			Type:  PublicKeyType,
			Value: mustHex("03b3bf1502fbdc05449b506aaf04579724024b06542e49262bfaa3f70e200040a9"),
		},
		result: `{"type":"PublicKey","value":"03b3bf1502fbdc05449b506aaf04579724024b06542e49262bfaa3f70e200040a9"}`,
	},
	{
		input: Parameter{
			Type: ArrayType,
			Value: []Parameter{
				{Type: StringType, Value: "str 1"},
				{Type: IntegerType, Value: big.NewInt(2)},
			},
		},
		result: `{"type":"Array","value":[{"type":"String","value":"str 1"},{"type":"Integer","value":"2"}]}`,
	},
	{
		input: Parameter{
			Type: MapType,
			Value: []ParameterPair{
				{
					Key:   Parameter{Type: StringType, Value: "key1"},
					Value: Parameter{Type: IntegerType, Value: big.NewInt(1)},
				},
				{
					Key:   Parameter{Type: StringType, Value: "key2"},
					Value: Parameter{Type: StringType, Value: "two"},
				},
			},
		},
		result: `{"type":"Map","value":[{"key":{"type":"String","value":"key1"},"value":{"type":"Integer","value":"1"}},{"key":{"type":"String","value":"key2"},"value":{"type":"String","value":"two"}}]}`,
	},
	{
		input: Parameter{
			Type: Hash160Type,
			Value: util.Uint160{
				0xd6, 0x24, 0x87, 0x12, 0xff, 0x97, 0x22, 0x80, 0xa0, 0xae,
				0xf5, 0x24, 0x1c, 0x96, 0x4d, 0x63, 0x78, 0x29, 0xcd, 0xb,
			},
		},
		result: `{"type":"Hash160","value":"0x0bcd2978634d961c24f5aea0802297ff128724d6"}`,
	},
	{
		input: Parameter{
			Type: Hash256Type,
			Value: util.Uint256{
				0x2d, 0xf3, 0x45, 0xf2, 0x45, 0xc5, 0x98, 0x9e,
				0x69, 0x95, 0x45, 0x06, 0xa5, 0x9e, 0x40, 0x12,
				0xc1, 0x68, 0x54, 0x48, 0x08, 0xfc, 0xcc, 0x5b,
				0x15, 0x18, 0xab, 0xa0, 0x8f, 0x30, 0x37, 0xf0,
			},
		},
		result: `{"type":"Hash256","value":"0xf037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"}`,
	},
	{
		input:  Parameter{Type: InteropInterfaceType},
		result: `{"type":"InteropInterface"}`,
	},
	{
		input:  Parameter{Type: ArrayType, Value: []Parameter{}},
		result: `{"type":"Array","value":[]}`,
	},
}

var marshalJSONErrorCases = []Parameter{
	{Type: UnknownType},
	{Type: IntegerType, Value: math.Inf(1)},
	{Type: PublicKeyType, Value: "not a key"},
	{Type: ByteArrayType, Value: "not bytes"},
	{Type: VoidType, Value: 1},
}

func TestParam_MarshalJSON(t *testing.T) {
	for _, tc := range marshalJSONTestCases {
		res, err := json.Marshal(tc.input)
		require.NoError(t, err)
		require.JSONEq(t, tc.result, string(res))
	}

	for _, input := range marshalJSONErrorCases {
		_, err := json.Marshal(input)
		require.ErrorIs(t, err, ErrInvalidParameter, input.Type)
	}
}

func TestParam_UnmarshalJSON(t *testing.T) {
	for _, tc := range marshalJSONTestCases {
		var p Parameter
		require.NoError(t, json.Unmarshal([]byte(tc.result), &p))
		require.Equal(t, tc.input, p, tc.result)
	}

	t.Run("integer number", func(t *testing.T) {
		var p Parameter
		require.NoError(t, json.Unmarshal([]byte(`{"type":"Integer","value":12345}`), &p))
		require.Equal(t, NewIntegerParameter(12345), p)
	})
	t.Run("null value", func(t *testing.T) {
		p := NewBoolParameter(true)
		require.NoError(t, json.Unmarshal([]byte(`{"type":"Boolean","value":null}`), &p))
		require.Equal(t, NewParameter(BoolType), p)
	})

	for _, input := range []string{
		`{"type": "ByteArray","value":`,
		`{"type": "Boolean","value":"qwerty"}`,
		`{"type": "Integer","value":"qwerty"}`,
		`{"type": "Integer","value":"` + strings.Repeat("9", 100) + `"}`,
		`{"type": "ByteArray","value":"@@@"}`,
		`{"type": "PublicKey","value":"zz"}`,
		`{"type": "Hash160","value":"0xzz"}`,
		`{"type": "Hash256","value":"0x01"}`,
		`{"type": "Array","value":1}`,
		`{"type": "Map","value":1}`,
		`{"type": "Nope","value":1}`,
	} {
		var p Parameter
		assert.Error(t, json.Unmarshal([]byte(input), &p), input)
	}
}

func TestNewTypedParameters(t *testing.T) {
	pk, err := keys.NewPrivateKey()
	require.NoError(t, err)

	b := []byte{1, 2, 3}
	p := NewByteArrayParameter(b)
	b[0] = 0xff
	require.Equal(t, []byte{1, 2, 3}, p.Value)

	i := big.NewInt(100500)
	p = NewBigIntegerParameter(i)
	i.SetInt64(1)
	require.Equal(t, big.NewInt(100500), p.Value)

	require.Equal(t, Parameter{Type: PublicKeyType, Value: pk.PublicKey().Bytes()}, NewPublicKeyParameter(pk.PublicKey()))
	require.Equal(t, Parameter{Type: Hash160Type, Value: util.Uint160{1}}, NewHash160Parameter(util.Uint160{1}))
	require.Equal(t, Parameter{Type: Hash256Type, Value: util.Uint256{2}}, NewHash256Parameter(util.Uint256{2}))
	require.Equal(t, Parameter{Type: SignatureType, Value: []byte{4}}, NewSignatureParameter([]byte{4}))
	require.Equal(t, Parameter{Type: BoolType, Value: true}, NewBoolParameter(true))
	require.Equal(t, Parameter{Type: StringType, Value: "s"}, NewStringParameter("s"))
	require.Equal(t, Parameter{Type: ArrayType, Value: []Parameter{NewBoolParameter(false)}}, NewArrayParameter(NewBoolParameter(false)))
	require.Equal(t, Parameter{Type: MapType, Value: []ParameterPair{{Key: NewStringParameter("k"), Value: NewIntegerParameter(1)}}},
		NewMapParameter(ParameterPair{Key: NewStringParameter("k"), Value: NewIntegerParameter(1)}))
}

func hexToBase64(s string) string {
	b, _ := hex.DecodeString(s)
	return base64.StdEncoding.EncodeToString(b)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestExpandParameterToEmitable(t *testing.T) {
	pk, _ := keys.NewPrivateKey()
	testCases := []struct {
		In       Parameter
		Expected any
	}{
		{
			In:       Parameter{Type: BoolType, Value: true},
			Expected: true,
		},
		{
			In:       Parameter{Type: IntegerType, Value: big.NewInt(123)},
			Expected: big.NewInt(123),
		},
		{
			In:       Parameter{Type: ByteArrayType, Value: []byte{1, 2, 3}},
			Expected: []byte{1, 2, 3},
		},
		{
			In:       Parameter{Type: StringType, Value: "writing's on the wall"},
			Expected: "writing's on the wall",
		},
		{
			In:       Parameter{Type: Hash160Type, Value: util.Uint160{1, 2, 3}},
			Expected: util.Uint160{1, 2, 3},
		},
		{
			In:       Parameter{Type: Hash256Type, Value: util.Uint256{1, 2, 3}},
			Expected: util.Uint256{1, 2, 3},
		},
		{
			In:       Parameter{Type: PublicKeyType, Value: pk.PublicKey()},
			Expected: pk.PublicKey().Bytes(),
		},
		{
			In:       NewPublicKeyParameter(pk.PublicKey()),
			Expected: pk.PublicKey().Bytes(),
		},
		{
			In:       Parameter{Type: SignatureType, Value: []byte{1, 2, 3}},
			Expected: []byte{1, 2, 3},
		},
		{
			In:       Parameter{Type: AnyType},
			Expected: nil,
		},
		{
			In: NewArrayParameter(
				NewIntegerParameter(123),
				NewByteArrayParameter([]byte{1, 2, 3}),
				NewArrayParameter(NewBoolParameter(true)),
			),
			Expected: []any{big.NewInt(123), []byte{1, 2, 3}, []any{true}},
		},
		{
			In: NewMapParameter(
				ParameterPair{Key: NewStringParameter("a"), Value: NewIntegerParameter(1)},
				ParameterPair{Key: NewIntegerParameter(2), Value: NewArrayParameter()},
			),
			Expected: []emit.KeyValue{
				{Key: "a", Value: big.NewInt(1)},
				{Key: big.NewInt(2), Value: []any{}},
			},
		},
	}
	bw := io.NewBufBinWriter()
	for _, testCase := range testCases {
		actual, err := ExpandParameterToEmitable(testCase.In)
		require.NoError(t, err)
		require.Equal(t, testCase.Expected, actual)

		emit.Array(bw.BinWriter, actual)
		require.NoError(t, bw.Err)
	}
	errCases := []Parameter{
		{Type: AnyType, Value: 1},
		{Type: UnknownType},
		{Type: VoidType},
		{Type: InteropInterfaceType},
		{Type: PublicKeyType, Value: 42},
		{Type: ArrayType, Value: "str"},
		{Type: MapType, Value: 1},
		NewMapParameter(ParameterPair{Key: NewArrayParameter(), Value: NewIntegerParameter(1)}),
		NewArrayParameter(Parameter{Type: VoidType}),
	}
	for _, errCase := range errCases {
		_, err := ExpandParameterToEmitable(errCase)
		require.Error(t, err)
		require.True(t, errors.Is(err, errkind.ErrValidation))
	}
}
