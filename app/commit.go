package app

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// CommitStore keeps two independent cache layers on top of the committed
// state. Transactions of the current block are delivered into one and
// checked against the other. Only the deliver layer is ever persisted.
type CommitStore struct {
	committed pairswap.CommitKVStore
	deliver   pairswap.KVCacheWrap
	check     pairswap.KVCacheWrap
}

// NewCommitStore loads the latest committed version or panics.
func NewCommitStore(store pairswap.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (pairswap.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered in this block. Pending check state is
// dropped, so the mempool is checked against the new state.
func (cs *CommitStore) Commit() (pairswap.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return pairswap.CommitID{}, errors.Wrap(err, "flush deliver store")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() pairswap.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() pairswap.CacheableKVStore {
	return cs.deliver
}

// QueryStore returns a read only view of the last committed state.
func (cs *CommitStore) QueryStore() pairswap.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// The chain id is written once, at genesis, under a key no extension bucket
// can produce.
var chainIDKey = []byte("_ps:chainID")

func mustLoadChainID(kv pairswap.ReadOnlyKVStore) string {
	v, err := kv.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(v)
}

func saveChainID(kv pairswap.KVStore, chainID string) error {
	if !pairswap.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrImmutable, "chain id is set at genesis")
	}
	return errors.Wrap(kv.Set(chainIDKey, []byte(chainID)), "save chain id")
}
