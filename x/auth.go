package x

import (
	"github.com/iov-one/pairswap"
)

// Authenticator tells a handler who authorized the current transaction.
// Handlers receive it in their constructor instead of reading signatures
// directly, so programs such as the swap engine can authorize transfers out
// of addresses they control.
type Authenticator interface {
	// GetConditions returns every condition satisfied by the transaction.
	GetConditions(pairswap.Context) []pairswap.Condition
	// HasAddress reports whether any satisfied condition has the address.
	HasAddress(pairswap.Context, pairswap.Address) bool
}

// MultiAuth is satisfied by the union of its authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all authenticators without
// duplicates, in order of first appearance.
func (m MultiAuth) GetConditions(ctx pairswap.Context) []pairswap.Condition {
	var res []pairswap.Condition
	for _, impl := range m {
		for _, c := range impl.GetConditions(ctx) {
			if !containsCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

func (m MultiAuth) HasAddress(ctx pairswap.Context, addr pairswap.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GrantConditions returns an Authenticator satisfied by exactly the given
// conditions, whatever the context. A program uses it to move funds out of a
// derived address once it verified the derivation.
func GrantConditions(conds ...pairswap.Condition) Authenticator {
	return grantAuth(conds)
}

type grantAuth []pairswap.Condition

func (g grantAuth) GetConditions(pairswap.Context) []pairswap.Condition {
	return g
}

func (g grantAuth) HasAddress(_ pairswap.Context, addr pairswap.Address) bool {
	for _, c := range g {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

// HasAllAddresses reports whether every required address authorized the
// transaction.
func HasAllAddresses(ctx pairswap.Context, auth Authenticator, required []pairswap.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

func containsCondition(conds []pairswap.Condition, c pairswap.Condition) bool {
	for _, got := range conds {
		if got.Equals(c) {
			return true
		}
	}
	return false
}
