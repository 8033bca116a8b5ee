package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope represents set of witness flags for Transaction signer.
type WitnessScope byte

const (
	// None specifies that no contract was witnessed. Only sign the transaction.
	None WitnessScope = 0
	// CalledByEntry witness is only valid in entry script and ones directly called by it.
	// No params is needed, as the witness/permission/signature given on first invocation will
	// automatically expire if entering deeper internal invokes. This can be default safe
	// choice for native NEO/GAS (previously used on Neo 2 as "attach" mode).
	CalledByEntry WitnessScope = 0x01
	// CustomContracts define custom hash for contract-specific.
	CustomContracts WitnessScope = 0x10
	// CustomGroups define custom pubkey for group members.
	CustomGroups WitnessScope = 0x20
	// WitnessRules is a set of conditions with boolean operators.
	WitnessRules WitnessScope = 0x40
	// Global allows this witness in all contexts (default Neo2 behavior).
	// This cannot be combined with other flags.
	Global WitnessScope = 0x80
)

const validScopes = CalledByEntry | CustomContracts | CustomGroups | WitnessRules | Global

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{WitnessRules, "WitnessRules"},
	{Global, "Global"},
}

// IsValid checks that the scope only has known flags set and Global is not
// combined with anything else.
func (s WitnessScope) IsValid() bool {
	if s&^validScopes != 0 {
		return false
	}
	return s&Global == 0 || s == Global
}

// String implements the fmt.Stringer interface. Combined scopes are
// separated with ", ".
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var res []string
	for _, sn := range scopeNames {
		if s&sn.scope != 0 {
			res = append(res, sn.name)
		}
	}
	if rest := s &^ validScopes; rest != 0 {
		res = append(res, fmt.Sprintf("WitnessScope(%d)", byte(rest)))
	}
	return strings.Join(res, ", ")
}

// ScopesFromString converts string of comma-separated scopes to a set of scopes
// (case-sensitive). String can combine several scopes, e.g. be any of: 'Global',
// 'CalledByEntry,CustomGroups' etc. In case of an empty string an error will be
// returned.
func ScopesFromString(s string) (WitnessScope, error) {
	var result WitnessScope
	dict := map[string]WitnessScope{"None": None}
	for _, sn := range scopeNames {
		dict[sn.name] = sn.scope
	}
	for _, scopeStr := range strings.Split(s, ",") {
		scope, ok := dict[strings.TrimSpace(scopeStr)]
		if !ok {
			return result, fmt.Errorf("%w: invalid witness scope: %v", ErrInvalidScope, scopeStr)
		}
		result |= scope
	}
	if !result.IsValid() {
		return result, fmt.Errorf("%w: Global scope can not be combined with other scopes", ErrInvalidScope)
	}
	return result, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
