package vault

import (
	"context"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/iov-one/pairswap/x/bank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       pairswap.KVStore
	bank     bank.BaseController
	ctrl     BaseController
	offeror  pairswap.Condition
	offeree  pairswap.Condition
	auth     *swaptest.Auth
	proof    AuthorityProof
	rent     coin.Coin
	ctx      context.Context
	swapAddr pairswap.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:      store.MemStore(),
		bank:    bank.NewController(bank.NewBucket()),
		offeror: swaptest.NewCondition(),
		offeree: swaptest.NewCondition(),
		rent:    coin.NewCoin(1, "RENT"),
		ctx:     context.Background(),
	}
	f.ctrl = NewController(NewBucket(), f.bank)
	f.auth = &swaptest.Auth{Signer: f.offeror}

	require.NoError(t, f.bank.Issue(f.db, f.offeror.Address(), coin.NewCoin(10, "ETH")))
	require.NoError(t, f.bank.Issue(f.db, f.offeror.Address(), coin.NewCoin(3, "RENT")))

	swapAddr, swapBump, err := pairswap.FindDerivedAddress(SwapSeeds(f.offeror.Address(), f.offeree.Address())...)
	require.NoError(t, err)
	_, vaultBump, err := pairswap.FindDerivedAddress(VaultSeeds(f.offeror.Address(), f.offeree.Address(), "ETH")...)
	require.NoError(t, err)
	f.swapAddr = swapAddr
	f.proof = AuthorityProof{
		Offeror:   f.offeror.Address(),
		Offeree:   f.offeree.Address(),
		SwapBump:  swapBump,
		VaultBump: vaultBump,
	}
	return f
}

func (f *fixture) open(t *testing.T) *Vault {
	t.Helper()
	v, err := f.ctrl.Open(f.ctx, f.db, f.auth, f.offeror.Address(), f.offeree.Address(), "ETH", f.offeror.Address(), f.rent)
	require.NoError(t, err)
	return v
}

func (f *fixture) balance(t *testing.T, owner pairswap.Address, ticker string) int64 {
	t.Helper()
	c, err := f.bank.Balance(f.db, owner, ticker)
	require.NoError(t, err)
	return c.Amount
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	v := f.open(t)

	assert.Equal(t, f.swapAddr, v.Authority)
	assert.EqualValues(t, f.proof.VaultBump, v.Bump)
	assert.Equal(t, pairswap.DeriveAddress(f.proof.VaultBump, VaultSeeds(f.offeror.Address(), f.offeree.Address(), "ETH")...), v.Address)
	assert.EqualValues(t, 2, f.balance(t, f.offeror.Address(), "RENT"))

	bal, err := f.ctrl.Balance(f.db, v.Address)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	_, err = f.ctrl.Open(f.ctx, f.db, f.auth, f.offeror.Address(), f.offeree.Address(), "ETH", f.offeror.Address(), f.rent)
	assert.True(t, errors.ErrAlreadyExists.Is(err))

	vaults, err := f.ctrl.ByAuthority(f.db, f.swapAddr)
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	assert.Equal(t, v.Address, vaults[0].Address)
}

func TestOpenAdoptsExistingAccount(t *testing.T) {
	f := newFixture(t)
	addr := pairswap.DeriveAddress(f.proof.VaultBump, VaultSeeds(f.offeror.Address(), f.offeree.Address(), "ETH")...)
	require.NoError(t, f.bank.Issue(f.db, addr, coin.NewCoin(1, "ETH")))

	v := f.open(t)
	assert.Equal(t, addr, v.Address)
	assert.EqualValues(t, 3, f.balance(t, f.offeror.Address(), "RENT"))
	assert.EqualValues(t, 0, v.Funded)
}

func TestDepositWithdrawClose(t *testing.T) {
	f := newFixture(t)
	v := f.open(t)

	// depositor must sign
	err := f.ctrl.Deposit(f.ctx, f.db, &swaptest.Auth{Signer: f.offeree}, v.Address, f.offeror.Address(), coin.NewCoin(4, "ETH"))
	assert.True(t, bank.ErrInvalidAuthority.Is(err))

	err = f.ctrl.Deposit(f.ctx, f.db, f.auth, v.Address, f.offeror.Address(), coin.NewCoin(4, "BTC"))
	assert.True(t, errors.ErrCurrency.Is(err))

	require.NoError(t, f.ctrl.Deposit(f.ctx, f.db, f.auth, v.Address, f.offeror.Address(), coin.NewCoin(4, "ETH")))
	assert.EqualValues(t, 6, f.balance(t, f.offeror.Address(), "ETH"))
	assert.EqualValues(t, 4, f.balance(t, v.Address, "ETH"))

	loaded, err := f.ctrl.Get(f.db, v.Address)
	require.NoError(t, err)
	assert.EqualValues(t, 4, loaded.Funded)

	// not empty yet
	closed, err := f.ctrl.CloseIfEmpty(f.ctx, f.db, v.Address, f.proof)
	require.NoError(t, err)
	assert.False(t, closed)

	require.NoError(t, f.ctrl.Withdraw(f.ctx, f.db, v.Address, f.offeree.Address(), coin.NewCoin(4, "ETH"), f.proof))
	assert.EqualValues(t, 4, f.balance(t, f.offeree.Address(), "ETH"))

	closed, err = f.ctrl.CloseIfEmpty(f.ctx, f.db, v.Address, f.proof)
	require.NoError(t, err)
	assert.True(t, closed)

	// rent is back with the funder
	assert.EqualValues(t, 3, f.balance(t, f.offeror.Address(), "RENT"))
	_, err = f.ctrl.Get(f.db, v.Address)
	assert.True(t, errors.ErrNotFound.Is(err))
	ok, err := f.bank.Exists(f.db, v.Address, "ETH")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithdrawAuthorityMismatch(t *testing.T) {
	f := newFixture(t)
	v := f.open(t)
	require.NoError(t, f.ctrl.Deposit(f.ctx, f.db, f.auth, v.Address, f.offeror.Address(), coin.NewCoin(4, "ETH")))

	stranger := swaptest.RandomAddr(t)
	cases := map[string]func(p AuthorityProof) AuthorityProof{
		"wrong swap bump": func(p AuthorityProof) AuthorityProof {
			p.SwapBump--
			return p
		},
		"wrong vault bump": func(p AuthorityProof) AuthorityProof {
			p.VaultBump--
			return p
		},
		"wrong offeror": func(p AuthorityProof) AuthorityProof {
			p.Offeror = stranger
			return p
		},
		"swapped participants": func(p AuthorityProof) AuthorityProof {
			p.Offeror, p.Offeree = p.Offeree, p.Offeror
			return p
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			proof := mutate(f.proof)
			err := f.ctrl.Withdraw(f.ctx, f.db, v.Address, stranger, coin.NewCoin(4, "ETH"), proof)
			assert.True(t, ErrAuthorityMismatch.Is(err), "got %+v", err)

			_, err = f.ctrl.CloseIfEmpty(f.ctx, f.db, v.Address, proof)
			assert.True(t, ErrAuthorityMismatch.Is(err), "got %+v", err)

			assert.EqualValues(t, 4, f.balance(t, v.Address, "ETH"))
		})
	}
}

func TestWithdrawInsufficient(t *testing.T) {
	f := newFixture(t)
	v := f.open(t)
	require.NoError(t, f.ctrl.Deposit(f.ctx, f.db, f.auth, v.Address, f.offeror.Address(), coin.NewCoin(2, "ETH")))

	err := f.ctrl.Withdraw(f.ctx, f.db, v.Address, f.offeree.Address(), coin.NewCoin(3, "ETH"), f.proof)
	assert.True(t, errors.ErrInsufficientBalance.Is(err))
}
