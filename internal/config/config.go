// Package config loads the command line configuration from an optional YAML
// file, an optional .env file and the environment.
package config

import (
	"io"
	"io/fs"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/mahdiidarabi/sigutil/internal/logging"
	"github.com/mahdiidarabi/sigutil/pkg/sigutil"
)

// Message prefix names accepted in the configuration.
const (
	PrefixEthereum = "ethereum"
	PrefixVapory   = "vapory"
)

// Config is the configuration of the sigutil command.
type Config struct {
	Log           logging.Config `yaml:"log"`
	MessagePrefix string         `yaml:"message_prefix" env:"SIGUTIL_MESSAGE_PREFIX" env-default:"vapory" env-description:"personal message prefix: ethereum or vapory" validate:"oneof=ethereum vapory"`
	Workers       int            `yaml:"workers" env:"SIGUTIL_WORKERS" env-description:"batch recovery workers, 0 for one per CPU" validate:"gte=0"`

	// PrivateKey is only ever read from the environment.
	PrivateKey string `yaml:"-" env:"SIGUTIL_PRIVATE_KEY" env-description:"hex private key used by the signing commands"`
}

// Load reads the configuration. A non-empty dotEnvPath is loaded into the
// environment first (a missing file is ignored, existing variables win); a
// non-empty configPath names a YAML file whose values the environment
// overrides.
func Load(configPath, dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to load %s", dotEnvPath)
		}
	}

	var cfg Config
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", configPath)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// Prefix returns the personal message prefix selected by MessagePrefix.
func (c *Config) Prefix() string {
	if c.MessagePrefix == PrefixEthereum {
		return sigutil.EthereumMessagePrefix
	}
	return sigutil.VaporyMessagePrefix
}

// PrivateKeyBytes decodes PrivateKey. The 0x prefix is optional.
func (c *Config) PrivateKeyBytes() ([]byte, error) {
	if c.PrivateKey == "" {
		return nil, errors.New("SIGUTIL_PRIVATE_KEY is not set")
	}
	key := c.PrivateKey
	if !strings.HasPrefix(key, "0x") && !strings.HasPrefix(key, "0X") {
		key = "0x" + key
	}
	b, err := hexutil.Decode(key)
	if err != nil {
		return nil, errors.Wrap(sigutil.ErrInvalidPrivateKey, "SIGUTIL_PRIVATE_KEY is not valid hex")
	}
	return b, nil
}

// Usage writes the environment variables understood by Load.
func Usage(w io.Writer) error {
	var cfg Config
	header := "Environment variables:"
	text, err := cleanenv.GetDescription(&cfg, &header)
	if err != nil {
		return errors.Wrap(err, "failed to describe config")
	}
	_, err = io.WriteString(w, text+"\n")
	return err
}
