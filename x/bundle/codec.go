package bundle

import (
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ExecuteBundleMsg holds the messages to execute in order.
type ExecuteBundleMsg struct {
	Entries []*Entry
}

// Entry is a single serialized message of a bundle. Path selects the
// message type the payload is decoded into.
type Entry struct {
	Path    string
	Payload []byte
}

func (m *ExecuteBundleMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }

func (m *ExecuteBundleMsg) Unmarshal(raw []byte) error {
	*m = ExecuteBundleMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

// Results is the combined data of all bundled messages, in order.
type Results struct {
	Data [][]byte
}

func (r *Results) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(r) }

func (r *Results) Unmarshal(raw []byte) error {
	*r = Results{}
	return cdc.UnmarshalBinaryBare(raw, r)
}
