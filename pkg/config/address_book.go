package config

import (
	"github.com/nspcc-dev/neotx/pkg/util"
)

// AddressBook contains hashes of well-known contracts.
type AddressBook struct {
	NEO                util.Uint160 `yaml:"NEO"`
	GAS                util.Uint160 `yaml:"GAS"`
	Policy             util.Uint160 `yaml:"Policy"`
	ContractManagement util.Uint160 `yaml:"ContractManagement"`
	RoleManagement     util.Uint160 `yaml:"RoleManagement"`
	Oracle             util.Uint160 `yaml:"Oracle"`
	Ledger             util.Uint160 `yaml:"Ledger"`
	StdLib             util.Uint160 `yaml:"StdLib"`
	CryptoLib          util.Uint160 `yaml:"CryptoLib"`
}

// DefaultAddressBook returns hashes of N3 native contracts, they're the
// same for every network.
func DefaultAddressBook() AddressBook {
	return AddressBook{
		NEO:                mustUint160("ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5"),
		GAS:                mustUint160("d2a4cff31913016155e38e474a2c06d08be276cf"),
		Policy:             mustUint160("cc5e4edd9f5f8dba8bb65734541df7a1c081c67b"),
		ContractManagement: mustUint160("fffdc93764dbaddd97c48f252a53ea4643faa3fd"),
		RoleManagement:     mustUint160("49cf4e5378ffcd4dec034fd98a174c5491e395e2"),
		Oracle:             mustUint160("fe924b7cfe89ddd271abaf7210a80a7e11178758"),
		Ledger:             mustUint160("da65b600f7124ce6c79950c1772a36403104f2be"),
		StdLib:             mustUint160("acce6fd80d44e1796aa0c2c625e9e4e0ce39efc0"),
		CryptoLib:          mustUint160("726cb6e0cd8628a1350a611384688911ab75f51b"),
	}
}

func mustUint160(s string) util.Uint160 {
	u, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		panic(err)
	}
	return u
}
