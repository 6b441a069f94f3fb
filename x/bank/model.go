package bank

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
)

// BucketName is where we store the balances
const BucketName = "accounts"

var _ orm.Model = (*Account)(nil)

// NewAccount returns an empty account of given owner and ticker.
func NewAccount(owner pairswap.Address, ticker string) *Account {
	return &Account{Owner: owner, Ticker: ticker}
}

// Validate ensures the account is consistent.
func (a *Account) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(a.Owner.Validate(), "owner"))
	if !coin.IsCC(a.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "ticker %q", a.Ticker))
	}
	if a.Amount < 0 || a.Amount > coin.MaxInt {
		err = errors.Append(err, errors.Wrapf(errors.ErrAmount, "balance %d", a.Amount))
	}
	if a.Rent != nil {
		if e := a.Rent.Validate(); e != nil {
			err = errors.Append(err, errors.Wrap(e, "rent"))
		} else if !a.Rent.IsPositive() {
			err = errors.Append(err, errors.Wrap(errors.ErrAmount, "rent must be positive"))
		}
		err = errors.Append(err, errors.Wrap(a.RentPayer.Validate(), "rent payer"))
	}
	return err
}

// Balance returns the account balance as a coin.
func (a *Account) Balance() coin.Coin {
	return coin.NewCoin(a.Amount, a.Ticker)
}

// AccountKey returns the primary key of the account of given owner and
// ticker.
func AccountKey(owner pairswap.Address, ticker string) []byte {
	key := make([]byte, 0, len(owner)+len(ticker))
	key = append(key, owner...)
	return append(key, ticker...)
}

// NewBucket returns a bucket for storing accounts. Accounts are indexed by
// their owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Account{},
		orm.WithIndex("owner", ownerIndexer, false),
	)
}

func ownerIndexer(m orm.Model) ([]byte, error) {
	a, ok := m.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return a.Owner, nil
}
