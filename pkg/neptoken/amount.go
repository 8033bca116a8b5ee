package neptoken

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neotx/pkg/errkind"
)

// ErrInvalidAmount is returned when a decimal amount can't be represented in
// token units.
var ErrInvalidAmount = fmt.Errorf("%w: invalid token amount", errkind.ErrValidation)

// ParseAmount converts a decimal string like "1.5" to integer token units
// using the number of decimals of the token.
func (i *Info) ParseAmount(s string) (*big.Int, error) {
	ip, fp, found := strings.Cut(s, ".")
	if ip == "" || (found && fp == "") || len(fp) > i.Decimals {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	res, ok := new(big.Int).SetString(ip+fp+strings.Repeat("0", i.Decimals-len(fp)), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return res, nil
}

// FormatAmount converts integer token units to a decimal string.
func (i *Info) FormatAmount(n *big.Int) string {
	if i.Decimals == 0 {
		return n.String()
	}
	abs := new(big.Int).Abs(n).String()
	if len(abs) <= i.Decimals {
		abs = strings.Repeat("0", i.Decimals-len(abs)+1) + abs
	}
	ip, fp := abs[:len(abs)-i.Decimals], strings.TrimRight(abs[len(abs)-i.Decimals:], "0")
	res := ip
	if fp != "" {
		res += "." + fp
	}
	if n.Sign() < 0 {
		res = "-" + res
	}
	return res
}
