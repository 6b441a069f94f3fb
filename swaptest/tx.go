package swaptest

import "github.com/iov-one/pairswap"

// Tx wraps a single message. It cannot be serialized.
type Tx struct {
	Msg pairswap.Msg
	// Err, when set, is returned by GetMsg.
	Err error
}

var _ pairswap.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (pairswap.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("test transaction cannot be decoded")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("test transaction cannot be encoded")
}

// Msg is an opaque message routed by RoutePath. Its serialized form is kept
// as is, which makes it usable with routers that decode messages.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err, when set, fails validation and both serialization methods.
	Err error
}

var _ pairswap.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Validate() error { return m.Err }
