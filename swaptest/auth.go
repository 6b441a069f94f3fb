package swaptest

import (
	"context"
	"fmt"

	"github.com/iov-one/pairswap"
)

// Auth is a static x.Authenticator. Every listed condition, Signer and
// Signers alike, is considered to have signed the transaction.
type Auth struct {
	// Signer is the usual single participant signing a message.
	Signer pairswap.Condition
	// Signers lists any additional signatures, for example both parties of
	// a bundled accept.
	Signers []pairswap.Condition
}

func (a *Auth) conditions() []pairswap.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]pairswap.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) GetConditions(pairswap.Context) []pairswap.Condition {
	return a.conditions()
}

func (a *Auth) HasAddress(_ pairswap.Context, addr pairswap.Address) bool {
	return hasAddress(a.conditions(), addr)
}

// CtxAuth is an x.Authenticator that reads the signers from the context, so
// a single handler instance can be called by different participants.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

// SetConditions returns a context in which conds are the signers.
func (a *CtxAuth) SetConditions(ctx pairswap.Context, conds ...pairswap.Condition) pairswap.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx pairswap.Context) []pairswap.Condition {
	switch conds := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []pairswap.Condition:
		return conds
	default:
		panic(fmt.Sprintf("want []pairswap.Condition under %q, got %T", a.Key, conds))
	}
}

func (a *CtxAuth) HasAddress(ctx pairswap.Context, addr pairswap.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []pairswap.Condition, addr pairswap.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
