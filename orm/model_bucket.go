package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	pairswap.Persistent
	Validate() error
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db pairswap.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists, and
	// ErrNotFound otherwise.
	Has(db pairswap.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all models referenced by the given index value. Result
	// is loaded into the destination slice and the primary keys of all
	// found entities are returned.
	ByIndex(db pairswap.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database. If key is nil and the bucket
	// was created with an ID sequence, a new key is allocated.
	// Returned is the key under which the model was stored.
	Put(db pairswap.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db pairswap.KVStore, key []byte) error

	// PrefixScan iterates over all models which primary key starts with
	// given prefix. Nil prefix iterates over the whole bucket.
	PrefixScan(db pairswap.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Register registers this bucket and all its indexes in the query
	// router.
	Register(name string, r pairswap.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. Indexer returning nil value excludes the entity from
// the index. A unique index allows only one entity per value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q declared twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer, unique)
	}
}

// WithIDSequence configures the bucket to use the given sequence instance for
// generating ID when a model is stored without a key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = &s
	}
}

// NewModelBucket returns a ModelBucket instance. Given model is used to
// learn the type of entities stored in the bucket.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", m))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		model:   tp,
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	idSeq   *Sequence
	indexes map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix. A new array is
// allocated so consecutive calls never share memory.
func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model.Elem()).Interface().(Model)
}

func (mb *modelBucket) One(db pairswap.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot deserialize %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db pairswap.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s key %q", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db pairswap.ReadOnlyKVStore, indexName string, key []byte, destination ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", indexName)
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.IsNil() || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", destination)
	}
	slice := dest.Elem()
	elemType := slice.Type().Elem()
	switch {
	case elemType == mb.model:
	case elemType == mb.model.Elem():
	default:
		return nil, errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", mb.model, elemType)
	}

	pks, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}
	for _, pk := range pks {
		m := mb.newModel()
		if err := mb.One(db, pk, m); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %q points to a missing entity: %s", indexName, err)
		}
		val := reflect.ValueOf(m)
		if elemType.Kind() != reflect.Ptr {
			val = val.Elem()
		}
		slice = reflect.Append(slice, val)
	}
	dest.Elem().Set(slice)
	return pks, nil
}

func (mb *modelBucket) Put(db pairswap.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		if mb.idSeq == nil {
			return nil, errors.Wrap(errors.ErrHuman, "bucket without an ID sequence requires a key")
		}
		next, err := mb.idSeq.NextVal(db)
		if err != nil {
			return nil, errors.Wrap(err, "ID sequence")
		}
		key = next
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize model")
	}

	if len(mb.indexes) > 0 {
		prev, err := mb.previous(db, key)
		if err != nil {
			return nil, err
		}
		for _, idx := range mb.indexes {
			if err := idx.update(db, key, prev, m); err != nil {
				return nil, errors.Wrapf(err, "index %q", idx.name)
			}
		}
	}

	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db pairswap.KVStore, key []byte) error {
	prev, err := mb.previous(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s key %q", mb.name, key)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// previous returns the currently stored entity or nil.
func (mb *modelBucket) previous(db pairswap.ReadOnlyKVStore, key []byte) (Model, error) {
	m := mb.newModel()
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) PrefixScan(db pairswap.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	start := mb.dbKey(prefix)
	end := prefixEnd(start)
	var (
		it  pairswap.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	return &modelIterator{iterator: it, bucketPrefix: mb.prefix}, nil
}

// prefixEnd returns the smallest key that is greater than all keys with
// given prefix, or nil if there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
