package bank

import "github.com/iov-one/pairswap/errors"

// x/bank reserves 30 ~ 39.
var (
	// ErrInvalidAuthority is returned when a movement is not authorized by
	// the source account owner.
	ErrInvalidAuthority = errors.Register(30, "invalid authority")
)
