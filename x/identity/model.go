package identity

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
)

// BucketName is where identity entries are stored.
const BucketName = "identity"

var _ orm.Model = (*Identity)(nil)

// Validate ensures the role is known and the counterparty is present
// exactly when the participant is engaged.
func (i *Identity) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(i.Participant.Validate(), "participant"))
	if e := i.Role.Validate(); e != nil {
		return errors.Append(err, e)
	}
	if i.Role == RoleNone {
		if len(i.Counterparty) != 0 {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "disengaged participant with a counterparty"))
		}
	} else {
		err = errors.Append(err, errors.Wrap(i.Counterparty.Validate(), "counterparty"))
		if i.Counterparty.Equals(i.Participant) {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "participant is its own counterparty"))
		}
	}
	if i.Bump > 255 {
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "bump %d", i.Bump))
	}
	return err
}

// Engaged returns true if the participant takes part in a swap.
func (i *Identity) Engaged() bool {
	return i.Role != RoleNone
}

// NewBucket returns a bucket for identity entries, keyed by the participant
// address and indexed by the counterparty.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Identity{},
		orm.WithIndex("counterparty", counterpartyIndexer, false),
	)
}

func counterpartyIndexer(m orm.Model) ([]byte, error) {
	i, ok := m.(*Identity)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	if i.Role == RoleNone {
		return nil, nil
	}
	return i.Counterparty, nil
}

// IdentitySeeds returns the seeds the derived address of an identity entry
// is computed from.
func IdentitySeeds(participant pairswap.Address) [][]byte {
	return [][]byte{[]byte("identity"), participant}
}
