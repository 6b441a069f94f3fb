package orm

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/iov-one/pairswap/swaptest/assert"
)

// tally is a minimal model used only by tests.
type tally struct {
	Owner string
	Count int64
}

func (t *tally) Marshal() ([]byte, error)   { return json.Marshal(t) }
func (t *tally) Unmarshal(raw []byte) error { return json.Unmarshal(raw, t) }
func (t *tally) Validate() error {
	if t.Owner == "" {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

func byOwner(m Model) ([]byte, error) {
	t, ok := m.(*tally)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return []byte(t.Owner), nil
}

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{})

	_, err := b.Put(db, []byte("c1"), &tally{Owner: "alice", Count: 1})
	assert.Nil(t, err)

	var c1 tally
	assert.Nil(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)
	assert.Nil(t, b.Has(db, []byte("c1")))

	assert.Nil(t, b.Delete(db, []byte("c1")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("unknown")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("c1"), &c1))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("c1")))
}

func TestModelBucketRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{})

	_, err := b.Put(db, []byte("c1"), &tally{})
	assert.IsErr(t, errors.ErrEmpty, err)

	_, err = b.Put(db, nil, &tally{Owner: "alice"})
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestModelBucketSequence(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{}, WithIDSequence(NewSequence("tallies", "id")))

	k1, err := b.Put(db, nil, &tally{Owner: "alice"})
	assert.Nil(t, err)
	k2, err := b.Put(db, nil, &tally{Owner: "bob"})
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(1), k1)
	assert.Equal(t, EncodeSequence(2), k2)

	it, err := b.PrefixScan(db, nil, true)
	assert.Nil(t, err)
	defer it.Release()
	var got tally
	key, err := it.LoadNext(&got)
	assert.Nil(t, err)
	assert.Equal(t, k2, key)
	assert.Equal(t, "bob", got.Owner)
	key, err = it.LoadNext(&got)
	assert.Nil(t, err)
	assert.Equal(t, k1, key)
	_, err = it.LoadNext(&got)
	assert.IsErr(t, errors.ErrIteratorDone, err)
}

func TestModelBucketByIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{}, WithIndex("owner", byOwner, false))

	_, err := b.Put(db, []byte("a1"), &tally{Owner: "alice", Count: 1})
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("a2"), &tally{Owner: "alice", Count: 2})
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("b1"), &tally{Owner: "alicex", Count: 3})
	assert.Nil(t, err)

	var found []tally
	keys, err := b.ByIndex(db, "owner", []byte("alice"), &found)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a1"), []byte("a2")}, keys)
	assert.Equal(t, []tally{{Owner: "alice", Count: 1}, {Owner: "alice", Count: 2}}, found)

	// Moving an entity to another owner updates the index.
	_, err = b.Put(db, []byte("a2"), &tally{Owner: "bob", Count: 2})
	assert.Nil(t, err)
	var ptrs []*tally
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a1")}, keys)
	assert.Equal(t, 1, len(ptrs))

	assert.Nil(t, b.Delete(db, []byte("a1")))
	ptrs = nil
	keys, err = b.ByIndex(db, "owner", []byte("alice"), &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(keys))

	_, err = b.ByIndex(db, "missing", []byte("alice"), &ptrs)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = b.ByIndex(db, "owner", []byte("alice"), ptrs)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{}, WithIndex("owner", byOwner, true))

	_, err := b.Put(db, []byte("a1"), &tally{Owner: "alice"})
	assert.Nil(t, err)
	// Updating the same entity is fine.
	_, err = b.Put(db, []byte("a1"), &tally{Owner: "alice", Count: 7})
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("a2"), &tally{Owner: "alice"})
	assert.IsErr(t, errors.ErrAlreadyExists, err)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("tallies", &tally{}, WithIndex("owner", byOwner, false))
	_, err := b.Put(db, []byte("a1"), &tally{Owner: "alice"})
	assert.Nil(t, err)
	_, err = b.Put(db, []byte("b1"), &tally{Owner: "bob"})
	assert.Nil(t, err)

	qr := pairswap.NewQueryRouter()
	b.Register("", qr)

	res, err := qr.Handler("/tallies").Query(db, pairswap.KeyQueryMod, []byte("a1"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("tallies:a1"), res[0].Key)

	res, err = qr.Handler("/tallies").Query(db, pairswap.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/tallies/owner").Query(db, pairswap.KeyQueryMod, []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("tallies:b1"), res[0].Key)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("swaps", "id")

	latest, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	n, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)
	v, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(2), v)

	latest, err = s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), latest)

	assert.IsErr(t, errors.ErrInput, ValidateSequence([]byte{1, 2}))
	assert.IsErr(t, errors.ErrEmpty, ValidateSequence(nil))
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
