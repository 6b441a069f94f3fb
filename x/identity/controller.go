package identity

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
)

// Controller exposes the identity store operations to the swap engine.
type Controller interface {
	// Register creates a disengaged entry for the participant.
	Register(db pairswap.KVStore, participant pairswap.Address) (*Identity, error)
	// Get returns the entry of the participant.
	Get(db pairswap.ReadOnlyKVStore, participant pairswap.Address) (*Identity, error)
	// Engage assigns a role and a counterparty. The participant must be
	// disengaged.
	Engage(db pairswap.KVStore, participant pairswap.Address, role Role, counterparty pairswap.Address) error
	// Disengage resets the role to none. Calling it for a disengaged
	// participant is a noop.
	Disengage(db pairswap.KVStore, participant pairswap.Address) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Register(db pairswap.KVStore, participant pairswap.Address) (*Identity, error) {
	if err := participant.Validate(); err != nil {
		return nil, errors.Wrap(err, "participant")
	}
	switch err := c.bucket.Has(db, participant); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "identity of %s", participant)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	_, bump, err := pairswap.FindDerivedAddress(IdentitySeeds(participant)...)
	if err != nil {
		return nil, errors.Wrap(err, "derive identity address")
	}
	id := &Identity{
		Participant: participant,
		Role:        RoleNone,
		Bump:        uint32(bump),
	}
	if _, err := c.bucket.Put(db, participant, id); err != nil {
		return nil, errors.Wrap(err, "save identity")
	}
	return id, nil
}

func (c BaseController) Get(db pairswap.ReadOnlyKVStore, participant pairswap.Address) (*Identity, error) {
	var id Identity
	if err := c.bucket.One(db, participant, &id); err != nil {
		return nil, errors.Wrapf(err, "identity of %s", participant)
	}
	return &id, nil
}

func (c BaseController) Engage(db pairswap.KVStore, participant pairswap.Address, role Role, counterparty pairswap.Address) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if role == RoleNone {
		return errors.Wrap(ErrInvalidRole, "cannot engage with no role")
	}
	id, err := c.Get(db, participant)
	if err != nil {
		return err
	}
	if id.Engaged() {
		return errors.Wrapf(ErrParticipantBusy, "%s is %s of %s", participant, id.Role, id.Counterparty)
	}
	id.Role = role
	id.Counterparty = counterparty
	if _, err := c.bucket.Put(db, participant, id); err != nil {
		return errors.Wrap(err, "save identity")
	}
	return nil
}

func (c BaseController) Disengage(db pairswap.KVStore, participant pairswap.Address) error {
	id, err := c.Get(db, participant)
	if err != nil {
		return err
	}
	if !id.Engaged() {
		return nil
	}
	id.Role = RoleNone
	id.Counterparty = nil
	if _, err := c.bucket.Put(db, participant, id); err != nil {
		return errors.Wrap(err, "save identity")
	}
	return nil
}
