package swap

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/gconf"
)

// Initializer stores the swap configuration declared in the genesis file.
type Initializer struct{}

var _ pairswap.Initializer = Initializer{}

// FromGenesis reads the "swap" entry of the "conf" section. Without one the
// default configuration with no owner is stored.
func (Initializer) FromGenesis(opts pairswap.Options, kv pairswap.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(kv, opts, confPkg, &conf)
	if !errors.ErrNotFound.Is(err) {
		return err
	}
	conf = DefaultConfiguration(nil)
	if err := gconf.Save(kv, confPkg, &conf); err != nil {
		return errors.Wrap(err, "save default configuration")
	}
	return nil
}
