package bank

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r pairswap.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/accounts"
func RegisterQuery(qr pairswap.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// SendHandler will handle sending assets
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ pairswap.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	var msg SendMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &pairswap.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the assets from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	var msg SendMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	if err := h.control.Transfer(ctx, store, h.auth, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &pairswap.DeliverResult{}, nil
}
