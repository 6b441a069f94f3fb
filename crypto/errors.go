package crypto

import "github.com/iov-one/pairswap/errors"

var errInvalidKey = errors.Wrap(errors.ErrInput, "invalid ed25519 key")
