package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/iov-one/pairswap/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// metaKey holds the latest committed version and app hash. The leading zero
// byte keeps it outside of any bucket namespace.
var metaKey = []byte("\x00commit")

// LevelStore is a CommitKVStore persisting state in a goleveldb database.
//
// All changes are first collected in a cache wrap. Writing the cache wrap
// flushes a single leveldb batch. Commit chains the hash of every change
// written since the previous commit into the new app hash.
type LevelStore struct {
	db *leveldb.DB

	mu      sync.Mutex
	latest  CommitID
	pending []byte
}

var _ CommitKVStore = (*LevelStore)(nil)

// OpenLevelStore opens (or creates) a leveldb database in the given directory
// and loads the latest committed version.
func OpenLevelStore(dir string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open leveldb %q: %s", dir, err)
	}
	return newLevelStore(db)
}

// MemLevelStore returns a LevelStore backed by memory only storage. Useful for
// tests and throw away nodes.
func MemLevelStore() (*LevelStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory leveldb: %s", err)
	}
	return newLevelStore(db)
}

func newLevelStore(db *leveldb.DB) (*LevelStore, error) {
	s := &LevelStore{db: db}
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *LevelStore) Close() error {
	return s.db.Close()
}

// Get returns the value at last written state.
func (s *LevelStore) Get(key []byte) ([]byte, error) {
	return s.reader().Get(key)
}

// CacheWrap returns a cache on top of the database. Writing it persists all
// changes in one atomic leveldb batch.
func (s *LevelStore) CacheWrap() KVCacheWrap {
	r := s.reader()
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// Commit seals all changes written since the previous commit under a new
// version.
func (s *LevelStore) Commit() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := sha256.New()
	h.Write(s.latest.Hash)
	h.Write(s.pending)
	next := CommitID{
		Version: s.latest.Version + 1,
		Hash:    h.Sum(nil),
	}

	raw := make([]byte, 8, 8+len(next.Hash))
	binary.BigEndian.PutUint64(raw, uint64(next.Version))
	raw = append(raw, next.Hash...)
	if err := s.db.Put(metaKey, raw, &opt.WriteOptions{Sync: true}); err != nil {
		return CommitID{}, errors.Wrapf(errors.ErrDatabase, "write commit: %s", err)
	}
	s.latest = next
	s.pending = nil
	return next, nil
}

// LoadLatestVersion reads the latest commit information from the database.
func (s *LevelStore) LoadLatestVersion() error {
	raw, err := s.db.Get(metaKey, nil)
	if err == leveldb.ErrNotFound {
		s.latest = CommitID{}
		return nil
	}
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "read commit: %s", err)
	}
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrDatabase, "malformed commit information")
	}
	s.mu.Lock()
	s.latest = CommitID{
		Version: int64(binary.BigEndian.Uint64(raw[:8])),
		Hash:    append([]byte(nil), raw[8:]...),
	}
	s.mu.Unlock()
	return nil
}

// LatestVersion returns the latest committed version.
func (s *LevelStore) LatestVersion() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

func (s *LevelStore) reader() levelKV {
	return levelKV{store: s}
}

// record feeds written operations into the pending commit hash.
func (s *LevelStore) record(ops []Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var size [4]byte
	for _, op := range ops {
		s.pending = append(s.pending, byte(op.kind))
		binary.BigEndian.PutUint32(size[:], uint32(len(op.key)))
		s.pending = append(s.pending, size[:]...)
		s.pending = append(s.pending, op.key...)
		binary.BigEndian.PutUint32(size[:], uint32(len(op.value)))
		s.pending = append(s.pending, size[:]...)
		s.pending = append(s.pending, op.value...)
	}
	digest := sha256.Sum256(s.pending)
	s.pending = digest[:]
}

// levelKV is a KVStore view over the database.
type levelKV struct {
	store *LevelStore
}

var _ KVStore = levelKV{}

func (l levelKV) Get(key []byte) ([]byte, error) {
	val, err := l.store.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (l levelKV) Has(key []byte) (bool, error) {
	ok, err := l.store.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

func (l levelKV) Set(key, value []byte) error {
	b := l.NewBatch()
	if err := b.Set(key, value); err != nil {
		return err
	}
	return b.Write()
}

func (l levelKV) Delete(key []byte) error {
	b := l.NewBatch()
	if err := b.Delete(key); err != nil {
		return err
	}
	return b.Write()
}

func (l levelKV) Iterator(start, end []byte) (Iterator, error) {
	it := l.store.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{it: it}, nil
}

func (l levelKV) ReverseIterator(start, end []byte) (Iterator, error) {
	it := l.store.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelIterator{it: it, reverse: true}, nil
}

func (l levelKV) NewBatch() Batch {
	return &levelBatch{store: l.store, batch: new(leveldb.Batch)}
}

// levelBatch writes all collected operations in one atomic leveldb write.
type levelBatch struct {
	store *LevelStore
	batch *leveldb.Batch
	ops   []Op
}

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(key, value)
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *levelBatch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	if err := b.store.db.Write(b.batch, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write batch: %s", err)
	}
	b.store.record(b.ops)
	b.batch.Reset()
	b.ops = nil
	return nil
}

// levelIterator adapts a leveldb iterator. Returned keys and values are
// copies because leveldb reuses its buffers.
type levelIterator struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (i *levelIterator) Next() (key, value []byte, err error) {
	for {
		if !i.move() {
			if err := i.it.Error(); err != nil {
				return nil, nil, errors.Wrapf(errors.ErrDatabase, "iterate: %s", err)
			}
			return nil, nil, errors.ErrIteratorDone
		}
		if bytes.Equal(i.it.Key(), metaKey) {
			continue
		}
		key = append([]byte(nil), i.it.Key()...)
		value = append([]byte(nil), i.it.Value()...)
		return key, value, nil
	}
}

func (i *levelIterator) move() bool {
	defer func() { i.started = true }()
	switch {
	case !i.started && i.reverse:
		return i.it.Last()
	case !i.started:
		return i.it.First()
	case i.reverse:
		return i.it.Prev()
	default:
		return i.it.Next()
	}
}

func (i *levelIterator) Release() {
	i.it.Release()
}
