package identity

import "github.com/iov-one/pairswap/errors"

// x/identity reserves 40 ~ 49.
var (
	// ErrInvalidRole is returned for a role code outside of the defined
	// set.
	ErrInvalidRole = errors.Register(40, "invalid role")

	// ErrParticipantBusy is returned when a participant is already
	// engaged in another swap.
	ErrParticipantBusy = errors.Register(41, "participant busy")
)
