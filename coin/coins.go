package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/pairswap/errors"
)

// Coins represents a set of coins, at most one per ticker, sorted by the
// ticker. Zero value coins are never stored.
type Coins []*Coin

// CombineCoins creates a Coins containing all given coins, combining
// duplicates to produce a normalized form regardless of input.
func CombineCoins(cs ...Coin) (Coins, error) {
	var (
		coins Coins
		err   error
	)
	for _, c := range cs {
		coins, err = coins.Add(c)
		if err != nil {
			return nil, err
		}
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}
	return coins, nil
}

// Clone returns a copy that can be safely modified
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set increased by c. The receiver is not modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	res := cs.Clone()
	if c.IsZero() {
		return res, nil
	}

	has, i := res.findCoin(c.ID())
	if has != nil {
		sum, err := has.Add(c)
		if err != nil {
			return nil, err
		}
		if sum.IsZero() {
			return append(res[:i], res[i+1:]...), nil
		}
		res[i] = &sum
		return res, nil
	}

	res = append(res, nil)
	copy(res[i+1:], res[i:])
	res[i] = &c
	return res, nil
}

// Subtract returns a new set decreased by c.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Get returns the amount held of given ticker. A zero coin is returned if the
// ticker is not present.
func (cs Coins) Get(ticker string) Coin {
	if c, _ := cs.findCoin(ticker); c != nil {
		return *c
	}
	return Coin{Ticker: ticker}
}

// Contains returns true if the set holds at least the given amount.
func (cs Coins) Contains(c Coin) bool {
	return cs.Get(c.Ticker).IsGTE(c)
}

// Tickers returns the tickers of all coins in the set, in order.
func (cs Coins) Tickers() []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.Ticker
	}
	return res
}

// IsEmpty returns true if the set holds no value.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// Equals returns true if both sets hold exactly the same coins.
func (cs Coins) Equals(other Coins) bool {
	if len(cs) != len(other) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*other[i]) {
			return false
		}
	}
	return true
}

// Validate requires that all coins are valid and positive, and that the set
// is sorted without duplicates.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrapf(errors.ErrEmpty, "coin %d", i)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "non positive %s", c)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrap(errors.ErrCurrency, "not sorted or duplicate")
		}
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// findCoin returns the coin with given ticker and its position, or nil and
// the position it should be inserted at.
func (cs Coins) findCoin(ticker string) (*Coin, int) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	if i < len(cs) && cs[i].Ticker == ticker {
		return cs[i], i
	}
	return nil, i
}
