package x

import (
	"context"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/swaptest/assert"
)

func TestChainAuth(t *testing.T) {
	a := pairswap.NewCondition("sigs", "ed25519", []byte("alice"))
	b := pairswap.NewCondition("sigs", "ed25519", []byte("bob"))
	c := pairswap.NewCondition("sigs", "ed25519", []byte("carol"))
	ctx := context.Background()

	auth := ChainAuth(GrantConditions(a, b), GrantConditions(b))

	assert.Equal(t, []pairswap.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, true, auth.HasAddress(ctx, a.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, c.Address()))

	assert.Equal(t, true, HasAllAddresses(ctx, auth, []pairswap.Address{a.Address(), b.Address()}))
	assert.Equal(t, false, HasAllAddresses(ctx, auth, []pairswap.Address{a.Address(), c.Address()}))
}

func TestEmptyChainAuth(t *testing.T) {
	auth := ChainAuth()
	ctx := context.Background()
	assert.Nil(t, auth.GetConditions(ctx))
	assert.Equal(t, false, auth.HasAddress(ctx, pairswap.NewCondition("sigs", "ed25519", []byte("dave")).Address()))
	assert.Equal(t, true, HasAllAddresses(ctx, auth, nil))
}
