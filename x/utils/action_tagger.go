package utils

import (
	"strings"

	"github.com/iov-one/pairswap"
	"github.com/tendermint/tendermint/libs/common"
)

// Tag keys attached to every successfully delivered message. Clients search
// and subscribe by them, for example action='swap/accept'.
const (
	ActionKey = "action"
	ModuleKey = "module"
)

// ActionTagger tags the delivery result with the message path and the
// extension that handled it. Placed after the bundle decorator it tags every
// bundled message on its own.
type ActionTagger struct{}

var _ pairswap.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error) {
	// Fail before the handler runs if there is nothing to tag.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(ActionKey), Value: []byte(path)},
		common.KVPair{Key: []byte(ModuleKey), Value: []byte(moduleOf(path))},
	)
	return res, nil
}

// moduleOf returns the first segment of a message path.
func moduleOf(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
