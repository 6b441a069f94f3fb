package store

import (
	"bytes"

	"github.com/iov-one/pairswap/errors"
)

// cacheIterator merges cached changes with an iterator of the backing store.
// A cached change hides the parent entry with the same key, and a cached
// deletion is never returned.
type cacheIterator struct {
	items   []cacheItem
	reverse bool

	parent Iterator
	// head is the next parent entry. It is nil once the parent is done.
	head *Model
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []cacheItem, parent Iterator, reverse bool) (*cacheIterator, error) {
	it := &cacheIterator{items: items, reverse: reverse, parent: parent}
	if err := it.advance(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

// advance loads the next parent entry into head.
func (i *cacheIterator) advance() error {
	key, value, err := i.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		i.head = nil
		return nil
	case err != nil:
		return err
	}
	i.head = &Model{Key: key, Value: value}
	return nil
}

// before reports whether key a comes before key b in iteration order.
func (i *cacheIterator) before(a, b []byte) bool {
	if i.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (i *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if len(i.items) == 0 {
			if i.head == nil {
				return nil, nil, errors.ErrIteratorDone
			}
			return i.popParent()
		}

		own := i.items[0]
		if i.head != nil {
			if i.before(i.head.Key, own.key) {
				return i.popParent()
			}
			if bytes.Equal(i.head.Key, own.key) {
				if err := i.advance(); err != nil {
					return nil, nil, err
				}
			}
		}
		i.items = i.items[1:]
		if !own.deleted {
			return own.key, own.value, nil
		}
	}
}

func (i *cacheIterator) popParent() ([]byte, []byte, error) {
	m := i.head
	if err := i.advance(); err != nil {
		return nil, nil, err
	}
	return m.Key, m.Value, nil
}

func (i *cacheIterator) Release() {
	i.parent.Release()
	i.items = nil
}
