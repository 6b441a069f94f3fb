package orm

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// ModelIterator iterates over models of a single bucket.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
type ModelIterator interface {
	// LoadNext moves the iterator to the next entity and loads it into
	// the destination. The primary key of the entity is returned.
	// ErrIteratorDone is returned when there are no more entities.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}

type modelIterator struct {
	// this is the raw KVStoreIterator
	iterator pairswap.Iterator
	// this is the bucketPrefix to strip from each key
	bucketPrefix []byte
}

var _ ModelIterator = (*modelIterator)(nil)

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := i.iterator.Next()
	if err != nil {
		return nil, err
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot deserialize %T: %s", dest, err)
	}
	return key[len(i.bucketPrefix):], nil
}

func (i *modelIterator) Release() {
	i.iterator.Release()
}
