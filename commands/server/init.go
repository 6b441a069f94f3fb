package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/pairswap/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file for given home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will add the app_state to an existing tendermint genesis file,
// and write the default daemon configuration if there is none yet.
//
// The genesis file must have been created by `tendermint init`.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := GenesisPath(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	if _, err := os.Stat(ConfigPath(home)); os.IsNotExist(err) {
		if err := SaveConfig(home, DefaultConfig(home)); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", ConfigPath(home))
	}

	// Now, we want to add the custom app_state
	state, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, state); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, state json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis file: %s", err)
	}
	if raw, ok := doc["app_state"]; ok && len(raw) != 0 && string(raw) != "null" && string(raw) != "{}" {
		return errors.Wrap(errors.ErrAlreadyExists, "app_state already set in genesis file")
	}

	doc["app_state"] = state
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
