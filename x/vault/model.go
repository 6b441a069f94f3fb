package vault

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
)

// BucketName is where vault records are stored.
const BucketName = "vaults"

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(v.Address.Validate(), "address"))
	err = errors.Append(err, errors.Wrap(v.Authority.Validate(), "authority"))
	err = errors.Append(err, errors.Wrap(v.Funder.Validate(), "funder"))
	if !coin.IsCC(v.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "ticker %q", v.Ticker))
	}
	if v.Bump > 255 {
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "bump %d", v.Bump))
	}
	if v.Funded < 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrAmount, "negative funded amount"))
	}
	return err
}

// FundedCoin returns the recorded escrow as a coin.
func (v *Vault) FundedCoin() coin.Coin {
	return coin.NewCoin(v.Funded, v.Ticker)
}

// NewBucket returns a bucket of vault records, keyed by the vault address
// and indexed by the controlling authority.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Vault{},
		orm.WithIndex("authority", authorityIndexer, false),
	)
}

func authorityIndexer(m orm.Model) ([]byte, error) {
	v, ok := m.(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return v.Authority, nil
}

// SwapSeeds returns the seeds of the swap authority address.
func SwapSeeds(offeror, offeree pairswap.Address) [][]byte {
	return [][]byte{[]byte("swap"), offeror, offeree}
}

// VaultSeeds returns the seeds of the address of the vault holding given
// asset for a swap.
func VaultSeeds(offeror, offeree pairswap.Address, ticker string) [][]byte {
	return [][]byte{[]byte("vault"), offeror, offeree, []byte(ticker)}
}
