/*
Package coin defines the asset amounts moved around by the application.

Every asset is identified by its ticker. Fungible assets carry any positive
amount, a non fungible asset is represented by a unique ticker with an amount
of exactly one.
*/
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/iov-one/pairswap/errors"
)

// IsCC is the RegExp to ensure valid asset tickers
var IsCC = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,11}$`).MatchString

const (
	// MaxInt is the largest amount we accept
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest amount we accept
	MinInt = -MaxInt
)

// Coin is an amount of a single asset.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount int64  `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount int64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount int64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// currencies, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins represents no value and does not have a ticker
	// set then it has no influence on the addition result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}

	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", c.Ticker, o.Ticker)
	}

	c.Amount += o.Amount
	if c.Amount < MinInt || c.Amount > MaxInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

// Negative returns the opposite coins value
//
//	c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return Coin{
		Ticker: c.Ticker,
		Amount: -c.Amount,
	}
}

// Subtract given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{Ticker: c.Ticker, Amount: c.Amount}
}

// Validate ensures that the coin is in the valid range
// and valid currency code. It accepts negative values,
// so you may want to make other checks in your business
// logic
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid ticker: %q", c.Ticker))
	}
	if c.Amount < MinInt || c.Amount > MaxInt {
		err = errors.Append(err, errors.ErrOverflow)
	}
	return err
}

// String returns the human readable format of the coin, for example
// "12 ETH".
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatInt(c.Amount, 10)
	}
	return strconv.FormatInt(c.Amount, 10) + " " + c.Ticker
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format that is a string in format
	// "<amount> <ticker>"
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string `json:"ticker"`
		Amount int64  `json:"amount"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?\d+)\s*([A-Z][A-Z0-9]{2,11})$`)

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//
//	"<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	m := humanCoinFormatRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrap(errors.ErrInput, fmt.Sprintf("invalid amount: %s", err))
	}
	return Coin{Ticker: m[2], Amount: amount}, nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
