package identity

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

const registerCost = 50

// RegisterRoutes registers handlers for identity message processing.
func RegisterRoutes(r pairswap.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&RegisterMsg{}, &RegisterHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register this bucket as "/identities"
func RegisterQuery(qr pairswap.QueryRouter) {
	NewBucket().Register("identities", qr)
}

// RegisterHandler creates identity entries. Only the participant can
// register itself.
type RegisterHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ pairswap.Handler = (*RegisterHandler)(nil)

func (h *RegisterHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: registerCost}, nil
}

func (h *RegisterHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.Register(db, msg.Participant); err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{Data: msg.Participant}, nil
}

func (h *RegisterHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*RegisterMsg, error) {
	var msg RegisterMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Participant) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "participant signature required")
	}
	return &msg, nil
}
