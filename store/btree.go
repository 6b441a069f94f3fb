package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the number of btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore a btree based cache layer.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty, non persistent store. Writes to it are never
// flushed anywhere.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps all changes in a btree in front of a read only store.
// Every change is recorded in the batch as well, so Write replays them on
// the backing store.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv writing through batch. free may
// be nil. Nested caches share the free list of their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all changes to the backing store and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached changes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

// cached returns the cached change of the key, if any.
func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool) {
	item := b.bt.Get(cacheItem{key: key})
	if item == nil {
		return cacheItem{}, false
	}
	return item.(cacheItem), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if c, ok := b.cached(key); ok {
		if c.deleted {
			return nil, nil
		}
		return c.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if c, ok := b.cached(key); ok {
		return !c.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator merges cached changes with the backing store, in ascending key
// order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(b.collect(start, end), parent, false)
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := b.collect(start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newCacheIterator(items, parent, true)
}

// collect returns the cached changes within [start, end) in ascending order.
// A nil bound is open.
func (b BTreeCacheWrap) collect(start, end []byte) []cacheItem {
	var items []cacheItem
	visit := func(i btree.Item) bool {
		items = append(items, i.(cacheItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(visit)
	case start == nil:
		b.bt.AscendLessThan(cacheItem{key: end}, visit)
	case end == nil:
		b.bt.AscendGreaterOrEqual(cacheItem{key: start}, visit)
	default:
		b.bt.AscendRange(cacheItem{key: start}, cacheItem{key: end}, visit)
	}
	return items
}

// cacheItem is a single cached change: either a new value or a deletion.
// A bare key is used as a btree pivot.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

func (c cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cacheItem).key) < 0
}
