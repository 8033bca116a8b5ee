package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neotx/pkg/config/netmode"
	"gopkg.in/yaml.v3"
)

// Config top level struct representing the config of the transaction
// builder.
type Config struct {
	ProtocolConfiguration ProtocolConfiguration `yaml:"ProtocolConfiguration"`
	AddressBook           AddressBook           `yaml:"Contracts"`
}

// Load attempts to load the config from the given path. Missing values are
// taken from DefaultProtocol for the configured magic (MainNet if not
// set) and from DefaultAddressBook.
func Load(path string) (Config, error) {
	configData, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return LoadBytes(configData)
}

// LoadBytes loads the config from the given YAML data, see Load.
func LoadBytes(configData []byte) (Config, error) {
	var magicOnly struct {
		ProtocolConfiguration struct {
			Magic *netmode.Magic `yaml:"Magic"`
		} `yaml:"ProtocolConfiguration"`
	}
	if err := yaml.Unmarshal(configData, &magicOnly); err != nil {
		return Config{}, fmt.Errorf("%w: failed to unmarshal config YAML: %w", ErrInvalidConfig, err)
	}

	magic := netmode.MainNet
	if magicOnly.ProtocolConfiguration.Magic != nil {
		magic = *magicOnly.ProtocolConfiguration.Magic
	}
	config := Config{
		ProtocolConfiguration: DefaultProtocol(magic),
		AddressBook:           DefaultAddressBook(),
	}
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: failed to unmarshal config YAML: %w", ErrInvalidConfig, err)
	}

	err = config.ProtocolConfiguration.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
