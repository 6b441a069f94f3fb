package bundle

import (
	"strings"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// Decorator unpacks bundle transactions and passes every message down the
// stack. Other transactions pass through unchanged.
type Decorator struct {
	decode pairswap.MsgDecoder
}

var _ pairswap.Decorator = Decorator{}

// NewDecorator returns a bundle decorator building messages with given
// decoder.
func NewDecorator(decode pairswap.MsgDecoder) Decorator {
	return Decorator{decode: decode}
}

// entryTx presents a single bundled message as a transaction, keeping the
// authentication information of the bundle.
type entryTx struct {
	pairswap.Tx
	msg pairswap.Msg
}

func (tx *entryTx) GetMsg() (pairswap.Msg, error) {
	return tx.msg, nil
}

// Check validates the entries in order. Every entry but the last is also
// delivered on a discarded cache of the store, so that an entry is checked
// against the state left by the previous ones. This requires next to be a
// Handler, which is always the case inside of an app.Decorators chain.
func (d Decorator) Check(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error) {
	msgs, ok, err := d.unpack(tx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return next.Check(ctx, store, tx)
	}

	db := store
	sim, canDeliver := next.(pairswap.Deliverer)
	if cstore, ok := store.(pairswap.CacheableKVStore); ok {
		cache := cstore.CacheWrap()
		defer cache.Discard()
		db = cache
	} else {
		canDeliver = false
	}
	simCtx := pairswap.WithLogger(ctx, log.NewNopLogger())

	results := make([]*pairswap.CheckResult, len(msgs))
	for i, msg := range msgs {
		etx := &entryTx{Tx: tx, msg: msg}
		res, err := next.Check(ctx, db, etx)
		if err != nil {
			return nil, errors.Wrapf(err, "bundle entry %d (%s)", i, msg.Path())
		}
		results[i] = res
		if canDeliver && i < len(msgs)-1 {
			if _, err := sim.Deliver(simCtx, db, etx); err != nil {
				return nil, errors.Wrapf(err, "bundle entry %d (%s)", i, msg.Path())
			}
		}
	}
	return combineChecks(results)
}

func (d Decorator) Deliver(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error) {
	msgs, ok, err := d.unpack(tx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	db, commit, discard := isolate(store)
	results := make([]*pairswap.DeliverResult, len(msgs))
	for i, msg := range msgs {
		res, err := next.Deliver(ctx, db, &entryTx{Tx: tx, msg: msg})
		if err != nil {
			discard()
			return nil, errors.Wrapf(err, "bundle entry %d (%s)", i, msg.Path())
		}
		results[i] = res
	}
	if err := commit(); err != nil {
		return nil, err
	}
	return combineDelivers(results)
}

// unpack returns the decoded messages if tx is a bundle.
func (d Decorator) unpack(tx pairswap.Tx) ([]pairswap.Msg, bool, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, false, err
	}
	bundle, ok := msg.(*ExecuteBundleMsg)
	if !ok {
		return nil, false, nil
	}
	if err := bundle.Validate(); err != nil {
		return nil, true, errors.Wrap(err, "invalid bundle")
	}
	msgs := make([]pairswap.Msg, len(bundle.Entries))
	for i, e := range bundle.Entries {
		m, err := d.decode(e.Path, e.Payload)
		if err != nil {
			return nil, true, errors.Wrapf(err, "bundle entry %d", i)
		}
		msgs[i] = m
	}
	return msgs, true, nil
}

// isolate returns a store that collects all writes until commit is called.
// Stores without cache support are written directly.
func isolate(store pairswap.KVStore) (pairswap.KVStore, func() error, func()) {
	cstore, ok := store.(pairswap.CacheableKVStore)
	if !ok {
		return store, func() error { return nil }, func() {}
	}
	cache := cstore.CacheWrap()
	commit := func() error {
		return errors.Wrap(cache.Write(), "write bundle")
	}
	return cache, commit, cache.Discard
}

// combineChecks joins the data of all results as a Results list and all
// logs with a new line.
func combineChecks(checks []*pairswap.CheckResult) (*pairswap.CheckResult, error) {
	datas := make([][]byte, len(checks))
	logs := make([]string, len(checks))
	var allocated, payments int64
	for i, r := range checks {
		datas[i] = r.Data
		logs[i] = r.Log
		allocated += r.GasAllocated
		payments += r.GasPayment
	}
	data, err := (&Results{Data: datas}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "combine results")
	}
	return &pairswap.CheckResult{
		Data:         data,
		Log:          strings.Join(logs, "\n"),
		GasAllocated: allocated,
		GasPayment:   payments,
	}, nil
}

func combineDelivers(delivers []*pairswap.DeliverResult) (*pairswap.DeliverResult, error) {
	datas := make([][]byte, len(delivers))
	logs := make([]string, len(delivers))
	var used int64
	var tags []common.KVPair
	for i, r := range delivers {
		datas[i] = r.Data
		logs[i] = r.Log
		used += r.GasUsed
		tags = append(tags, r.Tags...)
	}
	data, err := (&Results{Data: datas}).Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "combine results")
	}
	return &pairswap.DeliverResult{
		Data:    data,
		Log:     strings.Join(logs, "\n"),
		GasUsed: used,
		Tags:    tags,
	}, nil
}
