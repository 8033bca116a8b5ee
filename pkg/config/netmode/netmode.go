package netmode

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MainNet contains magic code used in the Neo main official network.
	MainNet Magic = 0x334f454e // NEO3
	// TestNet contains magic code used in the Neo testing network.
	TestNet Magic = 0x3554334e // N3T5
	// PrivNet contains magic code usually used for Neo private networks.
	PrivNet Magic = 56753 // docker privnet
	// UnitTestNet is a stub magic code used for testing purposes.
	UnitTestNet Magic = 42
)

// Magic describes the network the transactions are signed for.
type Magic uint32

var names = map[Magic]string{
	MainNet:     "mainnet",
	TestNet:     "testnet",
	PrivNet:     "privnet",
	UnitTestNet: "unit_testnet",
}

// String implements the stringer interface.
func (n Magic) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return "net 0x" + strconv.FormatUint(uint64(n), 16)
}

// FromString parses a network name (as returned by String) or a decimal or
// 0x-prefixed hexadecimal magic number.
func FromString(s string) (Magic, error) {
	s = strings.TrimSpace(s)
	for m, name := range names {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	s = strings.TrimPrefix(s, "net ")
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid network magic %q: %w", s, err)
	}
	return Magic(v), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface, both numbers and
// network names are accepted.
func (n *Magic) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	m, err := FromString(s)
	if err != nil {
		return err
	}
	*n = m
	return nil
}
