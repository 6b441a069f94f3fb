package vault

import (
	"github.com/iov-one/pairswap"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Vault is the custody record of escrowed assets. The balance itself is held
// by the bank account owned by the vault address.
type Vault struct {
	Address pairswap.Address
	Ticker  string
	// Authority is the derived address of the swap that controls the
	// vault.
	Authority pairswap.Address
	// Bump is the canonical discriminant of the vault address.
	Bump uint32
	// Funder paid the storage rent and receives it back on close.
	Funder pairswap.Address
	// Funded is the total amount deposited and not yet withdrawn.
	Funded int64
}

func (v *Vault) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(v) }

func (v *Vault) Unmarshal(raw []byte) error {
	*v = Vault{}
	return cdc.UnmarshalBinaryBare(raw, v)
}
