package app

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/app"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x/bundle"
	"github.com/iov-one/pairswap/x/sigs"
)

// decodedTx is a transaction together with its decoded message.
type decodedTx struct {
	*Tx
	msg pairswap.Msg
}

// make sure tx fulfills all interfaces
var _ pairswap.Tx = (*decodedTx)(nil)
var _ sigs.SignedTx = (*decodedTx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

func (tx *decodedTx) GetMsg() (pairswap.Msg, error) {
	return tx.msg, nil
}

// TxDecoder returns a decoder that unmarshals a Tx and builds its message
// using given message decoder.
func TxDecoder(decode pairswap.MsgDecoder) pairswap.TxDecoder {
	return func(raw []byte) (pairswap.Tx, error) {
		var tx Tx
		if err := tx.Unmarshal(raw); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		if tx.Envelope == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "message envelope")
		}
		msg, err := decode(tx.Envelope.Path, tx.Envelope.Payload)
		if err != nil {
			return nil, err
		}
		return &decodedTx{Tx: &tx, msg: msg}, nil
	}
}

// MsgDecoder decodes bundles and every message registered with the router.
// Messages inside of a bundle are decoded by the router only, so bundles
// cannot be nested.
func MsgDecoder(r *app.Router) pairswap.MsgDecoder {
	return func(path string, payload []byte) (pairswap.Msg, error) {
		if path != bundle.PathExecuteBundleMsg {
			return r.Decode(path, payload)
		}
		var msg bundle.ExecuteBundleMsg
		if err := msg.Unmarshal(payload); err != nil {
			return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %s: %s", path, err)
		}
		return &msg, nil
	}
}

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg pairswap.Msg) (*Tx, error) {
	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal message")
	}
	return &Tx{
		Envelope: &MsgEnvelope{Path: msg.Path(), Payload: payload},
	}, nil
}

// NewBundleTx returns an unsigned transaction executing all messages, in
// order, as one unit.
func NewBundleTx(msgs ...pairswap.Msg) (*Tx, error) {
	entries := make([]*bundle.Entry, len(msgs))
	for i, m := range msgs {
		payload, err := m.Marshal()
		if err != nil {
			return nil, errors.Wrapf(err, "marshal entry %d", i)
		}
		entries[i] = &bundle.Entry{Path: m.Path(), Payload: payload}
	}
	return NewTx(&bundle.ExecuteBundleMsg{Entries: entries})
}

// GetSignBytes returns the bytes to sign. Signatures are never part of the
// signed content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Envelope: tx.Envelope}
	return unsigned.Marshal()
}

// GetSignatures returns the signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}
