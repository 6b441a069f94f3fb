package vault

import "github.com/iov-one/pairswap/errors"

// x/vault reserves 50 ~ 59.
var (
	// ErrAuthorityMismatch is returned when the authority proof does not
	// reproduce the addresses recorded at open time.
	ErrAuthorityMismatch = errors.Register(50, "authority mismatch")
)
