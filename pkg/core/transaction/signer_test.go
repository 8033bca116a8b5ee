package transaction

import (
	"testing"

	"github.com/nspcc-dev/neotx/internal/testserdes"
	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestCosignerEncodeDecode(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3, 4, 5},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{1, 2, 3, 4}, {6, 7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestCosignerMarshallUnmarshallJSON(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3, 4, 5},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{1, 2, 3, 4}, {6, 7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.MarshalUnmarshalJSON(t, expected, actual)
}

func TestSignerWithRulesEncodeDecode(t *testing.T) {
	var b = true
	expected := &Signer{
		Account: util.Uint160{1, 2, 3, 4, 5},
		Scopes:  CalledByEntry | WitnessRules,
		Rules: []WitnessRule{
			{Action: WitnessDeny, Condition: &ConditionCalledByContract{7}},
			{Action: WitnessAllow, Condition: &ConditionOr{(*ConditionBoolean)(&b), ConditionCalledByEntry{}}},
		},
	}
	testserdes.EncodeDecodeBinary(t, expected, &Signer{})
	testserdes.MarshalUnmarshalJSON(t, expected, &Signer{})
	require.NoError(t, expected.Validate())
}

func TestSignerGroupsEncodeDecode(t *testing.T) {
	pub := testGroupKey(t)
	s := &Signer{
		Account:       util.Uint160{1},
		Scopes:        CustomGroups,
		AllowedGroups: []*keys.PublicKey{pub},
	}
	data, err := testserdes.EncodeBinary(s)
	require.NoError(t, err)
	require.Equal(t, 20+1+1+33, len(data))
	actual := &Signer{}
	require.NoError(t, testserdes.DecodeBinary(data, actual))
	require.Equal(t, 1, len(actual.AllowedGroups))
	require.True(t, pub.Equal(actual.AllowedGroups[0]))
}

func TestSignerEncodingSkipsDisabledLists(t *testing.T) {
	s := &Signer{
		Account:          util.Uint160{1},
		Scopes:           CalledByEntry,
		AllowedContracts: []util.Uint160{{2}},
	}
	data, err := testserdes.EncodeBinary(s)
	require.NoError(t, err)
	require.Equal(t, 21, len(data))
}

func TestSignerValidate(t *testing.T) {
	var b bool
	tooMany := make([]util.Uint160, maxSubitems+1)
	var testCases = map[string]struct {
		signer Signer
		err    error
	}{
		"unknown scope":  {Signer{Scopes: 0x02}, ErrInvalidScope},
		"global combined": {Signer{Scopes: Global | CustomContracts}, ErrInvalidScope},
		"too many contracts": {Signer{Scopes: CustomContracts, AllowedContracts: tooMany}, ErrTooManySubitems},
		"nil group":          {Signer{Scopes: CustomGroups, AllowedGroups: []*keys.PublicKey{nil}}, ErrInvalidScope},
		"bad action": {Signer{Scopes: WitnessRules, Rules: []WitnessRule{
			{Action: 3, Condition: (*ConditionBoolean)(&b)},
		}}, ErrInvalidAction},
		"no condition": {Signer{Scopes: WitnessRules, Rules: []WitnessRule{{Action: WitnessAllow}}}, ErrEmptyCondition},
		"ignored list":  {Signer{Scopes: CalledByEntry, AllowedContracts: tooMany}, nil},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.signer.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSignerDecodeLimits(t *testing.T) {
	s := &Signer{
		Account:          util.Uint160{1},
		Scopes:           CustomContracts,
		AllowedContracts: make([]util.Uint160, maxSubitems+1),
	}
	data, err := testserdes.EncodeBinary(s)
	require.NoError(t, err)
	err = testserdes.DecodeBinary(data, &Signer{})
	require.ErrorIs(t, err, ErrTooManySubitems)

	data[20] = byte(Global | CalledByEntry)
	err = testserdes.DecodeBinary(data, &Signer{})
	require.ErrorIs(t, err, ErrInvalidScope)
}

func TestSignerCopy(t *testing.T) {
	var b bool
	s := &Signer{
		Account:          util.Uint160{1},
		Scopes:           CustomContracts | WitnessRules,
		AllowedContracts: []util.Uint160{{2}},
		Rules:            []WitnessRule{{Action: WitnessAllow, Condition: (*ConditionBoolean)(&b)}},
	}
	cp := s.Copy()
	require.Equal(t, s, cp)
	cp.AllowedContracts[0] = util.Uint160{3}
	*cp.Rules[0].Condition.(*ConditionBoolean) = true
	require.Equal(t, util.Uint160{2}, s.AllowedContracts[0])
	require.False(t, bool(*s.Rules[0].Condition.(*ConditionBoolean)))
}
