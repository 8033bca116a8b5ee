package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neotx/pkg/io"
)

// WitnessAction represents an action to perform in WitnessRule if
// witness condition matches.
type WitnessAction byte

const (
	// WitnessDeny rejects current witness if condition is met.
	WitnessDeny WitnessAction = 0 // Deny
	// WitnessAllow approves current witness if condition is met.
	WitnessAllow WitnessAction = 1 // Allow
)

// WitnessRule represents a single rule for Rules witness scope.
type WitnessRule struct {
	Action    WitnessAction    `json:"action"`
	Condition WitnessCondition `json:"condition"`
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("WitnessAction(%d)", byte(a))
	}
}

// IsValid checks that the action is either Allow or Deny.
func (a WitnessAction) IsValid() bool {
	return a == WitnessDeny || a == WitnessAllow
}

// Validate checks the rule action and its condition tree.
func (w *WitnessRule) Validate() error {
	if !w.Action.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidAction, w.Action)
	}
	return ValidateCondition(w.Condition)
}

// EncodeBinary implements the Serializable interface.
func (w *WitnessRule) EncodeBinary(bw *io.BinWriter) {
	bw.WriteB(byte(w.Action))
	if w.Condition == nil {
		bw.Err = ErrEmptyCondition
		return
	}
	w.Condition.EncodeBinary(bw)
}

// DecodeBinary implements the Serializable interface.
func (w *WitnessRule) DecodeBinary(br *io.BinReader) {
	w.Action = WitnessAction(br.ReadB())
	if br.Err == nil && !w.Action.IsValid() {
		br.Err = fmt.Errorf("%w: %d", ErrInvalidAction, w.Action)
		return
	}
	w.Condition = DecodeBinaryCondition(br)
}

// MarshalJSON implements the json.Marshaler interface.
func (w *WitnessRule) MarshalJSON() ([]byte, error) {
	if w.Condition == nil {
		return nil, ErrEmptyCondition
	}
	cond, err := w.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	aux := &witnessRuleAux{
		Action:    w.Action.String(),
		Condition: cond,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *WitnessRule) UnmarshalJSON(data []byte) error {
	aux := &witnessRuleAux{}
	err := json.Unmarshal(data, aux)
	if err != nil {
		return err
	}
	var action WitnessAction
	switch aux.Action {
	case WitnessAllow.String():
		action = WitnessAllow
	case WitnessDeny.String():
		action = WitnessDeny
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, aux.Action)
	}
	if len(aux.Condition) == 0 {
		return ErrEmptyCondition
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return fmt.Errorf("failed to parse condition: %w", err)
	}
	w.Action = action
	w.Condition = cond
	return nil
}

// Copy creates a deep copy of the WitnessRule.
func (w *WitnessRule) Copy() *WitnessRule {
	res := &WitnessRule{Action: w.Action}
	if w.Condition != nil {
		res.Condition = w.Condition.Copy()
	}
	return res
}
