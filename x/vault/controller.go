package vault

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x"
	"github.com/iov-one/pairswap/x/bank"
)

// Controller manages vault custody.
type Controller interface {
	// Open allocates a zero balance vault controlled by the authority of
	// the swap between offeror and offeree. The funder pays the rent.
	Open(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, offeror, offeree pairswap.Address, ticker string, funder pairswap.Address, rent coin.Coin) (*Vault, error)
	// Deposit moves amount from the contributor into the vault. The
	// contributor must authorize the transfer.
	Deposit(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, vault, from pairswap.Address, amount coin.Coin) error
	// Withdraw moves amount out of the vault. The proof must reproduce
	// the addresses recorded at open time.
	Withdraw(ctx pairswap.Context, db pairswap.KVStore, vault, to pairswap.Address, amount coin.Coin, proof AuthorityProof) error
	// CloseIfEmpty removes the vault if its balance is zero and returns
	// the rent to the funder. It returns whether the vault was closed.
	CloseIfEmpty(ctx pairswap.Context, db pairswap.KVStore, vault pairswap.Address, proof AuthorityProof) (bool, error)
	// Get returns the vault record.
	Get(db pairswap.ReadOnlyKVStore, vault pairswap.Address) (*Vault, error)
	// Balance returns the amount actually held by the vault.
	Balance(db pairswap.ReadOnlyKVStore, vault pairswap.Address) (coin.Coin, error)
	// ByAuthority returns all vaults controlled by given swap authority.
	ByAuthority(db pairswap.ReadOnlyKVStore, authority pairswap.Address) ([]*Vault, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
	bank   bank.Controller
}

var _ Controller = BaseController{}

// NewController returns a vault controller that holds balances in the given
// bank.
func NewController(bucket orm.ModelBucket, b bank.Controller) BaseController {
	return BaseController{bucket: bucket, bank: b}
}

func (c BaseController) Open(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, offeror, offeree pairswap.Address, ticker string, funder pairswap.Address, rent coin.Coin) (*Vault, error) {
	authority, _, err := pairswap.FindDerivedAddress(SwapSeeds(offeror, offeree)...)
	if err != nil {
		return nil, errors.Wrap(err, "swap authority")
	}
	addr, bump, err := pairswap.FindDerivedAddress(VaultSeeds(offeror, offeree, ticker)...)
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	switch err := c.bucket.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "%s vault", ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	// Anyone can send assets to a predictable address before the vault
	// is opened. Such an account is adopted without charging rent.
	switch exists, err := c.bank.Exists(db, addr, ticker); {
	case err != nil:
		return nil, err
	case !exists:
		if err := c.bank.Open(ctx, db, auth, addr, ticker, funder, rent); err != nil {
			return nil, errors.Wrap(err, "open vault account")
		}
	}
	v := &Vault{
		Address:   addr,
		Ticker:    ticker,
		Authority: authority,
		Bump:      uint32(bump),
		Funder:    funder,
	}
	if _, err := c.bucket.Put(db, addr, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	return v, nil
}

func (c BaseController) Deposit(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, vault, from pairswap.Address, amount coin.Coin) error {
	v, err := c.Get(db, vault)
	if err != nil {
		return err
	}
	if amount.Ticker != v.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "%s vault cannot hold %s", v.Ticker, amount.Ticker)
	}
	if err := c.bank.Transfer(ctx, db, auth, from, v.Address, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	v.Funded += amount.Amount
	if _, err := c.bucket.Put(db, v.Address, v); err != nil {
		return errors.Wrap(err, "save vault")
	}
	return nil
}

func (c BaseController) Withdraw(ctx pairswap.Context, db pairswap.KVStore, vault, to pairswap.Address, amount coin.Coin, proof AuthorityProof) error {
	v, err := c.Get(db, vault)
	if err != nil {
		return err
	}
	grant, err := proof.verify(v)
	if err != nil {
		return err
	}
	if amount.Ticker != v.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "%s vault cannot release %s", v.Ticker, amount.Ticker)
	}
	if err := c.bank.Transfer(ctx, db, grant, v.Address, to, amount); err != nil {
		return errors.Wrap(err, "withdraw")
	}
	v.Funded -= amount.Amount
	if v.Funded < 0 {
		// Assets sent to the vault directly are not tracked.
		v.Funded = 0
	}
	if _, err := c.bucket.Put(db, v.Address, v); err != nil {
		return errors.Wrap(err, "save vault")
	}
	return nil
}

func (c BaseController) CloseIfEmpty(ctx pairswap.Context, db pairswap.KVStore, vault pairswap.Address, proof AuthorityProof) (bool, error) {
	v, err := c.Get(db, vault)
	if err != nil {
		return false, err
	}
	grant, err := proof.verify(v)
	if err != nil {
		return false, err
	}
	balance, err := c.bank.Balance(db, v.Address, v.Ticker)
	if err != nil {
		return false, err
	}
	if !balance.IsZero() {
		return false, nil
	}
	if err := c.bank.Close(ctx, db, grant, v.Address, v.Ticker, v.Funder); err != nil {
		return false, errors.Wrap(err, "close vault account")
	}
	if err := c.bucket.Delete(db, v.Address); err != nil {
		return false, errors.Wrap(err, "delete vault")
	}
	return true, nil
}

func (c BaseController) Get(db pairswap.ReadOnlyKVStore, vault pairswap.Address) (*Vault, error) {
	var v Vault
	if err := c.bucket.One(db, vault, &v); err != nil {
		return nil, errors.Wrapf(err, "vault %s", vault)
	}
	return &v, nil
}

func (c BaseController) Balance(db pairswap.ReadOnlyKVStore, vault pairswap.Address) (coin.Coin, error) {
	v, err := c.Get(db, vault)
	if err != nil {
		return coin.Coin{}, err
	}
	return c.bank.Balance(db, v.Address, v.Ticker)
}

func (c BaseController) ByAuthority(db pairswap.ReadOnlyKVStore, authority pairswap.Address) ([]*Vault, error) {
	var vaults []*Vault
	if _, err := c.bucket.ByIndex(db, "authority", authority, &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// RegisterQuery will register this bucket as "/vaults"
func RegisterQuery(qr pairswap.QueryRouter) {
	NewBucket().Register("vaults", qr)
}
