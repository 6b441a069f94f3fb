package identity

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

const optKey = "identity"

// Initializer registers participants listed in the genesis file.
type Initializer struct{}

var _ pairswap.Initializer = Initializer{}

// FromGenesis registers every address listed under the "identity" key.
func (Initializer) FromGenesis(opts pairswap.Options, kv pairswap.KVStore) error {
	var participants []pairswap.Address
	if err := opts.ReadOptions(optKey, &participants); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for i, p := range participants {
		if _, err := ctrl.Register(kv, p); err != nil {
			return errors.Wrapf(err, "participant %d", i)
		}
	}
	return nil
}
