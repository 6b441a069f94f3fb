package identity

import (
	"github.com/iov-one/pairswap"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Identity is the engagement record of a single participant.
type Identity struct {
	Participant  pairswap.Address
	Role         Role
	Counterparty pairswap.Address
	// Bump is the canonical discriminant of the derived address of this
	// entry.
	Bump uint32
}

func (i *Identity) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(i) }

func (i *Identity) Unmarshal(raw []byte) error {
	*i = Identity{}
	return cdc.UnmarshalBinaryBare(raw, i)
}

// RegisterMsg creates an identity entry for the participant.
type RegisterMsg struct {
	Participant pairswap.Address
}

func (m *RegisterMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }

func (m *RegisterMsg) Unmarshal(raw []byte) error {
	*m = RegisterMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}
