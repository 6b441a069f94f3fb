package bank

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x"
)

// Controller is the asset transfer service.
type Controller interface {
	// Transfer moves amount from the source account to the destination
	// account. The authenticator must authorize the source owner.
	Transfer(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, from, to pairswap.Address, amount coin.Coin) error

	// Open creates an empty account for given owner and ticker. Rent is
	// charged from the payer and held by the account until it is closed.
	// A zero rent opens the account for free.
	Open(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, owner pairswap.Address, ticker string, payer pairswap.Address, rent coin.Coin) error

	// Close removes an empty account and returns its rent to the rent
	// destination. The authenticator must authorize the account owner.
	Close(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, owner pairswap.Address, ticker string, rentDest pairswap.Address) error

	// Balance returns the amount of given asset held by the owner.
	Balance(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (coin.Coin, error)

	// Exists returns true if an account for given owner and ticker exists.
	Exists(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (bool, error)

	// Issue creates new assets on the destination account.
	Issue(db pairswap.KVStore, dest pairswap.Address, amount coin.Coin) error
}

// BaseController is the default implementation of the Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Transfer(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, from, to pairswap.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive transfer %s", amount)
	}
	if !auth.HasAddress(ctx, from) {
		return errors.Wrapf(ErrInvalidAuthority, "no authority over %s", from)
	}

	sender, err := c.load(db, from, amount.Ticker)
	if err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(errors.ErrInsufficientBalance, "%s has no %s account", from, amount.Ticker)
		}
		return err
	}
	if sender.Amount < amount.Amount {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s holds %s, needs %s", from, sender.Balance(), amount)
	}

	recipient, err := c.loadOrCreate(db, to, amount.Ticker)
	if err != nil {
		return err
	}

	sender.Amount -= amount.Amount
	if _, err := c.bucket.Put(db, AccountKey(from, amount.Ticker), sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if from.Equals(to) {
		recipient = sender
	}
	recipient.Amount += amount.Amount
	if recipient.Amount > coin.MaxInt {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	if _, err := c.bucket.Put(db, AccountKey(to, amount.Ticker), recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) Open(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, owner pairswap.Address, ticker string, payer pairswap.Address, rent coin.Coin) error {
	switch ok, err := c.Exists(db, owner, ticker); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(errors.ErrAlreadyExists, "%s account of %s", ticker, owner)
	}

	acc := NewAccount(owner, ticker)
	if !rent.IsZero() {
		// Rent is parked on the account itself and can be recovered
		// only by closing it.
		if err := c.debit(ctx, db, auth, payer, rent); err != nil {
			return errors.Wrap(err, "rent")
		}
		acc.Rent = rent.Clone()
		acc.RentPayer = payer
	}
	if _, err := c.bucket.Put(db, AccountKey(owner, ticker), acc); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}

func (c BaseController) Close(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, owner pairswap.Address, ticker string, rentDest pairswap.Address) error {
	if !auth.HasAddress(ctx, owner) {
		return errors.Wrapf(ErrInvalidAuthority, "no authority over %s", owner)
	}
	acc, err := c.load(db, owner, ticker)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "cannot close account holding %s", acc.Balance())
	}
	if err := c.bucket.Delete(db, AccountKey(owner, ticker)); err != nil {
		return errors.Wrap(err, "delete account")
	}
	if acc.Rent != nil {
		if err := c.Issue(db, rentDest, *acc.Rent); err != nil {
			return errors.Wrap(err, "return rent")
		}
	}
	return nil
}

func (c BaseController) Balance(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (coin.Coin, error) {
	acc, err := c.load(db, owner, ticker)
	switch {
	case err == nil:
		return acc.Balance(), nil
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, ticker), nil
	default:
		return coin.Coin{}, err
	}
}

func (c BaseController) Exists(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (bool, error) {
	switch err := c.bucket.Has(db, AccountKey(owner, ticker)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (c BaseController) Issue(db pairswap.KVStore, dest pairswap.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	acc, err := c.loadOrCreate(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	acc.Amount += amount.Amount
	if acc.Amount > coin.MaxInt {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	if acc.Amount < 0 {
		return errors.Wrapf(errors.ErrInsufficientBalance, "cannot take %s", amount.Negative())
	}
	if _, err := c.bucket.Put(db, AccountKey(dest, amount.Ticker), acc); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}

// debit removes amount from the owner account without crediting anyone.
func (c BaseController) debit(ctx pairswap.Context, db pairswap.KVStore, auth x.Authenticator, owner pairswap.Address, amount coin.Coin) error {
	if !auth.HasAddress(ctx, owner) {
		return errors.Wrapf(ErrInvalidAuthority, "no authority over %s", owner)
	}
	if err := c.Issue(db, owner, amount.Negative()); err != nil {
		return err
	}
	return nil
}

func (c BaseController) load(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (*Account, error) {
	var acc Account
	if err := c.bucket.One(db, AccountKey(owner, ticker), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c BaseController) loadOrCreate(db pairswap.ReadOnlyKVStore, owner pairswap.Address, ticker string) (*Account, error) {
	acc, err := c.load(db, owner, ticker)
	switch {
	case err == nil:
		return acc, nil
	case errors.ErrNotFound.Is(err):
		return NewAccount(owner, ticker), nil
	default:
		return nil, err
	}
}
