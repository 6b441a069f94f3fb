package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/stretchr/testify/require"
)

// storeConstructor returns an empty store and a function releasing it.
type storeConstructor func() (CacheableKVStore, func())

// runStoreSuite checks the cache wrapping and iteration contract every
// CacheableKVStore implementation must fulfil.
func runStoreSuite(t *testing.T, newStore storeConstructor) {
	t.Run("cache layers", func(t *testing.T) { testCacheLayers(t, newStore) })
	t.Run("cache overrides parent", func(t *testing.T) { testCacheOverrides(t, newStore) })
	t.Run("iterate ranges", func(t *testing.T) { testIterateRanges(t, newStore) })
	t.Run("iterate with conflicts", func(t *testing.T) { testIterateConflicts(t, newStore) })
}

func requireStored(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, want, got, "value of %q", key)
	has, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, want != nil, has, "presence of %q", key)
}

func testCacheLayers(t *testing.T, newStore storeConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	swapKey, swapVal := []byte("swap:alice"), []byte("funding")
	vaultKey, vaultVal := []byte("vault:usdc"), []byte("100")
	idKey := []byte("identity:bob")

	requireStored(t, base, swapKey, nil)
	require.NoError(t, base.Set(swapKey, swapVal))
	requireStored(t, base, swapKey, swapVal)

	cache := base.CacheWrap()
	requireStored(t, cache, swapKey, swapVal)
	require.NoError(t, cache.Set(vaultKey, vaultVal))
	requireStored(t, cache, vaultKey, vaultVal)
	requireStored(t, base, vaultKey, nil)
	require.NoError(t, cache.Write())
	requireStored(t, base, vaultKey, vaultVal)

	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(idKey, []byte("offeree")))
	discarded.Discard()
	requireStored(t, base, idKey, nil)

	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(swapKey))
	require.NoError(t, deleting.Write())
	requireStored(t, base, swapKey, nil)
	requireStored(t, base, vaultKey, vaultVal)
}

func testCacheOverrides(t *testing.T, newStore storeConstructor) {
	parent, cleanup := newStore()
	defer cleanup()

	k1, k2, k3 := []byte("leg:a"), []byte("leg:b"), []byte("leg:c")
	require.NoError(t, parent.Set(k1, []byte("offeror")))
	require.NoError(t, parent.Set(k2, []byte("offeree")))

	child := parent.CacheWrap()
	require.NoError(t, child.Set(k1, []byte("settled")))
	require.NoError(t, child.Set(k3, []byte("pending")))
	require.NoError(t, child.Delete(k2))

	requireStored(t, parent, k1, []byte("offeror"))
	requireStored(t, parent, k2, []byte("offeree"))
	requireStored(t, parent, k3, nil)

	requireChildState := func(kv ReadOnlyKVStore) {
		t.Helper()
		requireStored(t, kv, k1, []byte("settled"))
		requireStored(t, kv, k2, nil)
		requireStored(t, kv, k3, []byte("pending"))
	}
	requireChildState(child)
	require.NoError(t, child.Write())
	requireChildState(parent)
}

type rangeQuery struct {
	start, end []byte
	reverse    bool
	want       []Model
}

// iterCase applies parent operations directly to the store and child
// operations to a cache on top of it. Queries run against the cache.
type iterCase struct {
	parent  []Op
	child   []Op
	queries []rangeQuery
}

func (c iterCase) run(t *testing.T, base CacheableKVStore) {
	for _, op := range c.parent {
		require.NoError(t, op.Apply(base))
	}
	cache := base.CacheWrap()
	for _, op := range c.child {
		require.NoError(t, op.Apply(cache))
	}

	for n, q := range c.queries {
		var (
			it  Iterator
			err error
		)
		if q.reverse {
			it, err = cache.ReverseIterator(q.start, q.end)
		} else {
			it, err = cache.Iterator(q.start, q.end)
		}
		require.NoError(t, err)

		for i, want := range q.want {
			key, value, err := it.Next()
			require.NoError(t, err, "query %d, item %d", n, i)
			require.Equal(t, want.Key, key, "query %d, item %d", n, i)
			require.Equal(t, want.Value, value, "query %d, item %d", n, i)
		}
		_, _, err = it.Next()
		require.True(t, errors.ErrIteratorDone.Is(err), "query %d: %+v", n, err)
		it.Release()
	}
}

func testIterateRanges(t *testing.T, newStore storeConstructor) {
	const size = 50
	r := rand.New(rand.NewSource(7))

	childSet, childDel := genModels(r, size), genModels(r, 20)
	parentSet, parentDel := genModels(r, size), genModels(r, 20)
	child := sortModels(childSet)
	both := sortModels(append(childSet, parentSet...))

	// Forward and reverse queries without bounds, with a start, with an
	// end and with both.
	queries := func(m []Model) []rangeQuery {
		return []rangeQuery{
			{nil, nil, false, m},
			{m[10].Key, nil, false, m[10:]},
			{nil, m[size-8].Key, false, m[:size-8]},
			{m[17].Key, m[28].Key, false, m[17:28]},
			{nil, nil, true, reverse(m)},
			{m[34].Key, nil, true, reverse(m[34:])},
			{nil, m[19].Key, true, reverse(m[:19])},
			{m[6].Key, m[26].Key, true, reverse(m[6:26])},
		}
	}

	cases := map[string]iterCase{
		"child over empty parent": {
			child:   append(setOps(childSet...), delOps(childDel...)...),
			queries: queries(child),
		},
		"child merged with parent": {
			parent:  append(setOps(parentSet...), delOps(parentDel...)...),
			child:   append(setOps(childSet...), delOps(childDel...)...),
			queries: queries(both),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := newStore()
			defer cleanup()
			tc.run(t, base)
		})
	}
}

func testIterateConflicts(t *testing.T, newStore storeConstructor) {
	ms := genModels(rand.New(rand.NewSource(11)), 6)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key, b2.Key = a.Key, b.Key

	abc := sortModels([]Model{a, b, c})
	overwritten := sortModels([]Model{a2, b2, c, d})
	basic := []rangeQuery{
		{nil, nil, false, abc},
		{abc[1].Key, abc[2].Key, false, abc[1:2]},
		{nil, nil, true, reverse(abc)},
	}

	cases := map[string]iterCase{
		"child only":  {child: setOps(a, b, c), queries: basic},
		"parent only": {parent: setOps(a, b, c), queries: basic},
		"split":       {parent: setOps(a, b), child: setOps(c), queries: basic},
		"child overwrites parent": {
			parent: setOps(a, b, c),
			child:  setOps(a2, b2, d),
			queries: []rangeQuery{
				{nil, nil, false, overwritten},
				{overwritten[1].Key, overwritten[3].Key, false, overwritten[1:3]},
				{nil, nil, true, reverse(overwritten)},
			},
		},
		"child deletes parent": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			queries: []rangeQuery{
				{nil, nil, false, []Model{c}},
				{nil, c.Key, false, nil},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := newStore()
			defer cleanup()
			tc.run(t, base)
		})
	}
}

// genModels returns models with unique keys shaped like the ones
// extensions write.
func genModels(r *rand.Rand, count int) []Model {
	buckets := []string{"swap", "vault", "identity", "bank"}
	ms := make([]Model, count)
	for i := range ms {
		key := make([]byte, 8)
		r.Read(key)
		ms[i] = Model{
			Key:   []byte(fmt.Sprintf("%s:%x", buckets[i%len(buckets)], key)),
			Value: []byte(fmt.Sprintf("%d", r.Int63())),
		}
	}
	return ms
}

func reverse(ms []Model) []Model {
	res := make([]Model, len(ms))
	for i, m := range ms {
		res[len(ms)-1-i] = m
	}
	return res
}

func sortModels(ms []Model) []Model {
	res := append([]Model(nil), ms...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = SetOp(m.Key, m.Value)
	}
	return ops
}

func delOps(ms ...Model) []Op {
	ops := make([]Op, len(ms))
	for i, m := range ms {
		ops[i] = DelOp(m.Key)
	}
	return ops
}
