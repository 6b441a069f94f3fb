package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// Indexer calculates the secondary index value for a model. Returning a nil
// value excludes the model from the index.
type Indexer func(Model) ([]byte, error)

// index maintains references from an index value to primary keys. Each
// reference is stored as a separate key:
//
//	_i.<bucket>_<name>:<value length><value><primary key>
//
// Length prefixing makes a lookup for "ab" never match an entry for "abc".
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

func newIndex(bucket, name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		prefix:  []byte("_i." + bucket + "_" + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

func (i *index) valuePrefix(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+4+len(value))
	out = append(out, i.prefix...)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(value)))
	out = append(out, size[:]...)
	return append(out, value...)
}

func (i *index) refKey(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

func (i *index) valueOf(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return i.indexer(m)
}

// update moves the reference of the primary key from the previous index value
// to the new one. Nil prev means insert, nil next means removal.
func (i *index) update(db pairswap.KVStore, pk []byte, prev, next Model) error {
	oldVal, err := i.valueOf(prev)
	if err != nil {
		return errors.Wrap(err, "cannot index previous model")
	}
	newVal, err := i.valueOf(next)
	if err != nil {
		return errors.Wrap(err, "cannot index model")
	}
	if prev != nil && next != nil && bytes.Equal(oldVal, newVal) {
		return nil
	}

	if oldVal != nil {
		if err := db.Delete(i.refKey(oldVal, pk)); err != nil {
			return err
		}
	}
	if newVal == nil {
		return nil
	}
	if i.unique {
		pks, err := i.keys(db, newVal)
		if err != nil {
			return err
		}
		for _, other := range pks {
			if !bytes.Equal(other, pk) {
				return errors.Wrapf(errors.ErrAlreadyExists, "unique index value %X taken", newVal)
			}
		}
	}
	return db.Set(i.refKey(newVal, pk), []byte{1})
}

// keys returns all primary keys referenced by given index value.
func (i *index) keys(db pairswap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start := i.valuePrefix(value)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate index")
	}
	defer it.Release()

	var pks [][]byte
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return pks, nil
		}
		if err != nil {
			return nil, err
		}
		pks = append(pks, append([]byte(nil), key[len(start):]...))
	}
}
