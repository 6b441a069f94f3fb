package app

import (
	"github.com/iov-one/pairswap/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Tx is the transaction format of swapd. The message is carried serialized
// together with its path, so a decoder can rebuild it.
type Tx struct {
	Envelope   *MsgEnvelope
	Signatures []*sigs.StdSignature
}

// MsgEnvelope is a serialized message with the path it is routed by.
type MsgEnvelope struct {
	Path    string
	Payload []byte
}

func (tx *Tx) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(tx) }

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	return cdc.UnmarshalBinaryBare(raw, tx)
}
