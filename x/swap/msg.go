package swap

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
)

var (
	_ pairswap.Msg = (*CreateMsg)(nil)
	_ pairswap.Msg = (*FundMsg)(nil)
	_ pairswap.Msg = (*AddOffereeAssetMsg)(nil)
	_ pairswap.Msg = (*InitiateMsg)(nil)
	_ pairswap.Msg = (*CancelMsg)(nil)
	_ pairswap.Msg = (*AcceptMsg)(nil)
	_ pairswap.Msg = (*AcceptLegAMsg)(nil)
	_ pairswap.Msg = (*AcceptLegBMsg)(nil)
)

func (CreateMsg) Path() string { return "swap/create" }

func (m *CreateMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(m.Offeror.Validate(), "offeror"))
	err = errors.Append(err, errors.Wrap(m.Offeree.Validate(), "offeree"))
	if m.Offeror.Equals(m.Offeree) {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "offeror and offeree must differ"))
	}
	return err
}

func (FundMsg) Path() string { return "swap/fund" }

func (m *FundMsg) Validate() error {
	return errors.Append(
		errors.Wrap(m.Swap.Validate(), "swap"),
		validAmount(m.Amount),
	)
}

func (AddOffereeAssetMsg) Path() string { return "swap/add_offeree_asset" }

func (m *AddOffereeAssetMsg) Validate() error {
	return errors.Append(
		errors.Wrap(m.Swap.Validate(), "swap"),
		validAmount(m.Amount),
	)
}

func validAmount(c *coin.Coin) error {
	if coin.IsEmpty(c) || !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non positive amount: %v", c)
	}
	return errors.Wrap(c.Validate(), "amount")
}

func (InitiateMsg) Path() string { return "swap/initiate" }

func (m *InitiateMsg) Validate() error {
	return errors.Wrap(m.Swap.Validate(), "swap")
}

func (CancelMsg) Path() string { return "swap/cancel" }

func (m *CancelMsg) Validate() error {
	return validParties(m.Swap, m.Offeror, m.Offeree)
}

func (AcceptMsg) Path() string { return "swap/accept" }

func (m *AcceptMsg) Validate() error {
	return validParties(m.Swap, m.Offeror, m.Offeree)
}

func (AcceptLegAMsg) Path() string { return "swap/accept_leg_a" }

func (m *AcceptLegAMsg) Validate() error {
	return validParties(m.Swap, m.Offeror, m.Offeree)
}

func (AcceptLegBMsg) Path() string { return "swap/accept_leg_b" }

func (m *AcceptLegBMsg) Validate() error {
	return validParties(m.Swap, m.Offeror, m.Offeree)
}

func validParties(swap, offeror, offeree pairswap.Address) error {
	var err error
	err = errors.Append(err, errors.Wrap(swap.Validate(), "swap"))
	err = errors.Append(err, errors.Wrap(offeror.Validate(), "offeror"))
	err = errors.Append(err, errors.Wrap(offeree.Validate(), "offeree"))
	return err
}
