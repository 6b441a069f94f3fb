package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/crypto"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTx is a minimal transaction carrying signatures.
type signedTx struct {
	swaptest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*signedTx)(nil)

func (s *signedTx) GetSignBytes() ([]byte, error) {
	return s.Tx.Msg.Marshal()
}

func (s *signedTx) GetSignatures() []*StdSignature {
	return s.Signatures
}

func newSignedTx(payload string) *signedTx {
	return &signedTx{
		Tx: swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/msg", Serialized: []byte(payload)}},
	}
}

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")

	a, err := BuildSignBytes(bz, "chain-one", 17)
	require.NoError(t, err)
	b, err := BuildSignBytes(bz, "chain-one", 17)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	c, err := BuildSignBytes(bz, "chain-two", 17)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := BuildSignBytes(bz, "chain-one", 18)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)

	_, err = BuildSignBytes(bz, "chain-one", -1)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = BuildSignBytes(bz, "ch", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	addr := pub.Address()

	msg := []byte("foobar")
	sign := func(chainID string, seq int64) *StdSignature {
		t.Helper()
		toSign, err := BuildSignBytes(msg, chainID, seq)
		require.NoError(t, err)
		sig, err := priv.Sign(toSign)
		require.NoError(t, err)
		return &StdSignature{Pubkey: pub, Signature: sig, Sequence: seq}
	}

	chainID := "emo-music-2345"
	sig0 := sign(chainID, 0)
	sig1 := sign(chainID, 1)
	sig2 := sign(chainID, 2)
	sig13 := sign(chainID, 13)
	sigOther := sign("foobar-rocks", 1)

	_, err := VerifySignature(kv, &StdSignature{Sequence: 0}, msg, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	seq, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 0, seq)

	// sequence must start at 0
	_, err = VerifySignature(kv, sig1, msg, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	cond, err := VerifySignature(kv, sig0, msg, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), cond)

	seq, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq)

	// cannot replay, cannot skip ahead
	_, err = VerifySignature(kv, sig0, msg, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig13, msg, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// signature for another chain is rejected
	_, err = VerifySignature(kv, sigOther, msg, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(kv, sig1, msg, chainID)
	require.NoError(t, err)
	_, err = VerifySignature(kv, sig2, msg, chainID)
	require.NoError(t, err)

	seq, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 3, seq)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "hot_summer_days"

	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	tx := newSignedTx("some payload")
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	// no signatures is fine for the controller, the decorator decides
	conds, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, conds)

	tx.Signatures = []*StdSignature{sig}
	conds, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, conds, 1)
	assert.Equal(t, priv.PublicKey().Condition(), conds[0])

	// sequence was consumed
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	sig, err = SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig, sig2}
	conds, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Len(t, conds, 2)

	// a signature over different content is rejected
	other := newSignedTx("another payload")
	sig, err = SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	other.Signatures = []*StdSignature{sig}
	_, err = VerifyTxSignatures(kv, other, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := &UserData{Sequence: 4}
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(3)))
	require.NoError(t, u.CheckAndIncrementSequence(4))
	assert.EqualValues(t, 5, u.Sequence)

	u = &UserData{Sequence: (1 << 53) - 1}
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence((1<<53)-1)))
}

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	chainID := "deco-rate"
	ctx := pairswap.WithChainID(context.Background(), chainID)
	priv := crypto.GenPrivKeyEd25519()

	var h swaptest.Handler
	signers := new(signerHandler)
	auth := Authenticate{}

	d := NewDecorator()
	tx := newSignedTx("payload")

	// unsigned is rejected by default
	_, err := d.Check(ctx, kv, tx, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// a tx that cannot carry signatures at all
	_, err = d.Check(ctx, kv, &swaptest.Tx{}, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = d.AllowMissingSigs().Check(ctx, kv, &swaptest.Tx{}, &h)
	require.NoError(t, err)

	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := d.Check(ctx, kv, tx, &h)
	require.NoError(t, err)
	assert.EqualValues(t, signatureVerifyCost, res.GasPayment)

	sig, err = SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}
	signers.auth = auth
	_, err = d.Deliver(ctx, kv, tx, signers)
	require.NoError(t, err)
	require.Len(t, signers.seen, 1)
	assert.Equal(t, priv.PublicKey().Condition(), signers.seen[0])
	assert.True(t, signers.hasAddr)
}

// signerHandler records the conditions authenticated for a delivered tx.
type signerHandler struct {
	swaptest.Handler
	auth    Authenticate
	seen    []pairswap.Condition
	hasAddr bool
}

func (s *signerHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s.seen = s.auth.GetConditions(ctx)
	if len(s.seen) > 0 {
		s.hasAddr = s.auth.HasAddress(ctx, s.seen[0].Address())
	}
	return &pairswap.DeliverResult{}, nil
}
