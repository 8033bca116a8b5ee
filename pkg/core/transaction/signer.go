package transaction

import (
	"fmt"
	"slices"

	"github.com/nspcc-dev/neotx/pkg/crypto/keys"
	"github.com/nspcc-dev/neotx/pkg/io"
	"github.com/nspcc-dev/neotx/pkg/util"
)

// The maximum number of AllowedContracts, AllowedGroups, Rules or
// composite condition subitems.
const maxSubitems = 16

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// Validate checks the scope value and that every scope-specific list fits
// into the limits. Lists that aren't enabled by the scope are ignored on
// encoding and are not checked.
func (c *Signer) Validate() error {
	if !c.Scopes.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidScope, c.Scopes)
	}
	if c.Scopes&CustomContracts != 0 && len(c.AllowedContracts) > maxSubitems {
		return fmt.Errorf("%w: %d allowed contracts", ErrTooManySubitems, len(c.AllowedContracts))
	}
	if c.Scopes&CustomGroups != 0 {
		if len(c.AllowedGroups) > maxSubitems {
			return fmt.Errorf("%w: %d allowed groups", ErrTooManySubitems, len(c.AllowedGroups))
		}
		if slices.Contains(c.AllowedGroups, nil) {
			return fmt.Errorf("%w: nil allowed group", ErrInvalidScope)
		}
	}
	if c.Scopes&WitnessRules != 0 {
		if len(c.Rules) > maxSubitems {
			return fmt.Errorf("%w: %d rules", ErrTooManySubitems, len(c.Rules))
		}
		for i := range c.Rules {
			if err := c.Rules[i].Validate(); err != nil {
				return fmt.Errorf("rule %d: %w", i, err)
			}
		}
	}
	return nil
}

// EncodeBinary implements the Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(c.Account[:])
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedContracts)))
		for i := range c.AllowedContracts {
			bw.WriteBytes(c.AllowedContracts[i][:])
		}
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedGroups)))
		for i := range c.AllowedGroups {
			c.AllowedGroups[i].EncodeBinary(bw)
		}
	}
	if c.Scopes&WitnessRules != 0 {
		bw.WriteVarUint(uint64(len(c.Rules)))
		for i := range c.Rules {
			c.Rules[i].EncodeBinary(bw)
		}
	}
}

// DecodeBinary implements the Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	c.Scopes = WitnessScope(br.ReadB())
	if br.Err != nil {
		return
	}
	if !c.Scopes.IsValid() {
		br.Err = fmt.Errorf("%w: %d", ErrInvalidScope, byte(c.Scopes))
		return
	}
	c.AllowedContracts = nil
	c.AllowedGroups = nil
	c.Rules = nil
	if c.Scopes&CustomContracts != 0 {
		n := readSubitemCount(br)
		c.AllowedContracts = make([]util.Uint160, n)
		for i := range c.AllowedContracts {
			br.ReadBytes(c.AllowedContracts[i][:])
		}
	}
	if c.Scopes&CustomGroups != 0 {
		n := readSubitemCount(br)
		c.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range c.AllowedGroups {
			c.AllowedGroups[i] = new(keys.PublicKey)
			c.AllowedGroups[i].DecodeBinary(br)
			if br.Err != nil {
				return
			}
		}
	}
	if c.Scopes&WitnessRules != 0 {
		n := readSubitemCount(br)
		c.Rules = make([]WitnessRule, n)
		for i := range c.Rules {
			c.Rules[i].DecodeBinary(br)
			if br.Err != nil {
				return
			}
		}
	}
}

func readSubitemCount(br *io.BinReader) int {
	n := br.ReadVarUint()
	if br.Err != nil {
		return 0
	}
	if n > maxSubitems {
		br.Err = fmt.Errorf("%w: %d", ErrTooManySubitems, n)
		return 0
	}
	return int(n)
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.AllowedContracts = slices.Clone(c.AllowedContracts)
	if c.AllowedGroups != nil {
		cp.AllowedGroups = make([]*keys.PublicKey, len(c.AllowedGroups))
		for i, g := range c.AllowedGroups {
			if g != nil {
				k := *g
				cp.AllowedGroups[i] = &k
			}
		}
	}
	if c.Rules != nil {
		cp.Rules = make([]WitnessRule, len(c.Rules))
		for i := range c.Rules {
			cp.Rules[i] = *c.Rules[i].Copy()
		}
	}
	return &cp
}
