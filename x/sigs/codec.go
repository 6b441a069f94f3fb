package sigs

import (
	"github.com/iov-one/pairswap/crypto"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// UserData is the replay protection state of a single public key.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

func (u *UserData) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(u) }

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	return cdc.UnmarshalBinaryBare(raw, u)
}

// StdSignature carries a signature together with the public key and the
// sequence it was created for.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}
