package app

import (
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStore(t *testing.T) {
	db, err := store.MemLevelStore()
	require.NoError(t, err)
	cs := NewCommitStore(db)

	key := []byte("swap:1")
	require.NoError(t, cs.CheckStore().Set(key, []byte("checked")))
	require.NoError(t, cs.DeliverStore().Set(key, []byte("delivered")))

	// nothing is visible before commit
	val, err := cs.QueryStore().Get(key)
	require.NoError(t, err)
	assert.Nil(t, val)

	id, err := cs.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 1, id.Version)

	for _, kv := range []interface {
		Get([]byte) ([]byte, error)
	}{cs.QueryStore(), cs.CheckStore(), cs.DeliverStore()} {
		val, err := kv.Get(key)
		require.NoError(t, err)
		assert.Equal(t, []byte("delivered"), val)
	}

	info, err := cs.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, id, info)
}

func TestChainID(t *testing.T) {
	kv := store.MemStore()
	assert.Equal(t, "", mustLoadChainID(kv))

	err := saveChainID(kv, "x")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	require.NoError(t, saveChainID(kv, "swap-chain"))
	assert.Equal(t, "swap-chain", mustLoadChainID(kv))

	err = saveChainID(kv, "other-chain")
	assert.True(t, errors.ErrImmutable.Is(err), "%+v", err)
}
