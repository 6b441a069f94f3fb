package orm

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// Register registers this bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (mb *modelBucket) Register(name string, r pairswap.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, bucketQuery{mb})
	for idxName, idx := range mb.indexes {
		r.Register(root+"/"+idxName, indexQuery{bucket: mb, idx: idx})
	}
}

type bucketQuery struct {
	mb *modelBucket
}

// Query handles queries from the QueryRouter
func (q bucketQuery) Query(db pairswap.ReadOnlyKVStore, mod string, data []byte) ([]pairswap.Model, error) {
	switch mod {
	case pairswap.KeyQueryMod:
		key := q.mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []pairswap.Model{pairswap.Pair(key, value)}, nil
	case pairswap.PrefixQueryMod:
		return queryPrefix(db, q.mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

type indexQuery struct {
	bucket *modelBucket
	idx    *index
}

// Query returns all entities referenced by the index value given as data.
// Returned keys are full database keys of the entities.
func (q indexQuery) Query(db pairswap.ReadOnlyKVStore, mod string, data []byte) ([]pairswap.Model, error) {
	if mod != pairswap.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported mod for an index: %s", mod)
	}
	pks, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]pairswap.Model, 0, len(pks))
	for _, pk := range pks {
		key := q.bucket.dbKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %q points to a missing entity", q.idx.name)
		}
		res = append(res, pairswap.Pair(key, value))
	}
	return res, nil
}

func queryPrefix(db pairswap.ReadOnlyKVStore, prefix []byte) ([]pairswap.Model, error) {
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []pairswap.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, pairswap.Pair(key, value))
	}
}
