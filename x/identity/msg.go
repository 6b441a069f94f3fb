package identity

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

var _ pairswap.Msg = (*RegisterMsg)(nil)

func (RegisterMsg) Path() string {
	return "identity/register"
}

func (m *RegisterMsg) Validate() error {
	return errors.Wrap(m.Participant.Validate(), "participant")
}
