package store

import "github.com/iov-one/pairswap"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = pairswap.ReadOnlyKVStore
	KVStore          = pairswap.KVStore
	SetDeleter       = pairswap.SetDeleter
	Batch            = pairswap.Batch
	Iterator         = pairswap.Iterator
	CacheableKVStore = pairswap.CacheableKVStore
	KVCacheWrap      = pairswap.KVCacheWrap
	CommitKVStore    = pairswap.CommitKVStore
	CommitID         = pairswap.CommitID
	Model            = pairswap.Model
)

// Pair constructs a model from a key-value pair
var Pair = pairswap.Pair
