package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/pairswap/errors"
)

// ConfigFile is the name of the daemon configuration file inside of the
// config directory of the home.
const ConfigFile = "swapd.toml"

// Config holds the daemon settings. Values declared on the command line take
// precedence over the file.
type Config struct {
	// Home is the directory holding the database.
	Home string `toml:"home"`
	// ABCIAddr is the address the ABCI socket server listens on.
	ABCIAddr string `toml:"abci_addr"`
	// MetricsAddr is the address of the prometheus endpoint. Empty
	// disables it.
	MetricsAddr string `toml:"metrics_addr"`
	// LogLevel is a tendermint log level filter, for example "info" or
	// "main:info,*:error".
	LogLevel string `toml:"log_level"`
	// Debug returns the full error information to clients.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration used for values missing in the
// file.
func DefaultConfig(home string) Config {
	return Config{
		Home:        home,
		ABCIAddr:    "tcp://localhost:46658",
		MetricsAddr: "localhost:9090",
		LogLevel:    "info",
	}
}

// ConfigPath returns the location of the configuration file for given home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", ConfigFile)
}

// LoadConfig reads the configuration file on top of the defaults. A missing
// file is not an error.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig(home)
	path := ConfigPath(home)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return conf, nil
	}
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	if keys := meta.Undecoded(); len(keys) != 0 {
		return conf, errors.Wrapf(errors.ErrInput, "config %s: unknown key %q", path, keys[0].String())
	}
	if conf.Home == "" {
		conf.Home = home
	}
	return conf, nil
}

// SaveConfig writes the configuration file, creating the config directory
// if needed.
func SaveConfig(home string, conf Config) error {
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
