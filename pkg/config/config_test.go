package config

import (
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neotx/pkg/config/netmode"
	"github.com/nspcc-dev/neotx/pkg/core/transaction"
	"github.com/nspcc-dev/neotx/pkg/encoding/address"
	"github.com/nspcc-dev/neotx/pkg/errkind"
	"github.com/nspcc-dev/neotx/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "protocol.testnet.yml"))
	require.NoError(t, err)
	require.Equal(t, netmode.TestNet, cfg.ProtocolConfiguration.Magic)
	require.Equal(t, uint32(5760), cfg.ProtocolConfiguration.ValidUntilBlockIncrement)
	require.Equal(t, 8, cfg.ProtocolConfiguration.MaxAttributes)
	require.Equal(t, transaction.MaxTransactionSize, cfg.ProtocolConfiguration.MaxTransactionSize)
	require.Equal(t, address.NEO3Prefix, cfg.ProtocolConfiguration.AddressVersion)
	require.Equal(t, DefaultAddressBook(), cfg.AddressBook)

	_, err = Load(filepath.Join("testdata", "missing.yml"))
	require.Error(t, err)
}

func TestLoadBytes(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadBytes([]byte("ProtocolConfiguration:\n  Magic: 42\n"))
		require.NoError(t, err)
		require.Equal(t, DefaultProtocol(netmode.UnitTestNet), cfg.ProtocolConfiguration)
	})
	t.Run("empty", func(t *testing.T) {
		cfg, err := LoadBytes(nil)
		require.NoError(t, err)
		require.Equal(t, DefaultProtocol(netmode.MainNet), cfg.ProtocolConfiguration)
	})
	t.Run("custom contracts", func(t *testing.T) {
		cfg, err := LoadBytes([]byte("Contracts:\n  Oracle: \"0x0102000000000000000000000000000000000000\"\n"))
		require.NoError(t, err)
		require.Equal(t, util.Uint160{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 1}, cfg.AddressBook.Oracle)
		require.Equal(t, DefaultAddressBook().GAS, cfg.AddressBook.GAS)
	})
	var bad = map[string]string{
		"unknown field":  "ProtocolConfiguration:\n  Unknown: 1\n",
		"bad magic":      "ProtocolConfiguration:\n  Magic: nowhere\n",
		"bad hash":       "Contracts:\n  NEO: \"0x01\"\n",
		"zero increment": "ProtocolConfiguration:\n  ValidUntilBlockIncrement: 0\n",
		"huge tx":        "ProtocolConfiguration:\n  MaxTransactionSize: 102401\n",
		"many attrs":     "ProtocolConfiguration:\n  MaxAttributes: 17\n",
		"not yaml":       "[",
	}
	for name, data := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBytes([]byte(data))
			require.ErrorIs(t, err, errkind.ErrConfiguration)
		})
	}
}

func TestDefaultAddressBook(t *testing.T) {
	book := DefaultAddressBook()
	require.Equal(t, "0xd2a4cff31913016155e38e474a2c06d08be276cf", "0x"+book.GAS.StringLE())
	require.NotEqual(t, book.NEO, book.GAS)
	require.NoError(t, DefaultProtocol(netmode.MainNet).Validate())
}
