package bank

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Account holds a balance of a single asset.
type Account struct {
	Owner  pairswap.Address
	Ticker string
	Amount int64
	// Rent is the storage deposit paid when the account was opened. It
	// is zero for accounts created implicitly by a transfer.
	Rent *coin.Coin
	// RentPayer receives the rent back when the account is closed.
	RentPayer pairswap.Address
}

func (a *Account) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(a) }

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	return cdc.UnmarshalBinaryBare(raw, a)
}

// SendMsg moves assets between two accounts.
type SendMsg struct {
	Source      pairswap.Address
	Destination pairswap.Address
	Amount      *coin.Coin
	Memo        string
}

func (m *SendMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}
