package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/app"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/crypto"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x/bank"
	"github.com/iov-one/pairswap/x/bundle"
	"github.com/iov-one/pairswap/x/identity"
	"github.com/iov-one/pairswap/x/sigs"
	"github.com/iov-one/pairswap/x/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "test-chain"

type testChain struct {
	t      *testing.T
	app    app.BaseApp
	height int64
	seqs   map[string]int64
}

func newTestChain(t *testing.T, appState interface{}) *testChain {
	t.Helper()
	stack, decoder := Stack()
	base, err := Application("swapd", stack, decoder, "", false)
	require.NoError(t, err)
	base.WithInit(Initializers())

	raw, err := json.Marshal(appState)
	require.NoError(t, err)
	base.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: raw})
	base.Commit()
	return &testChain{t: t, app: base, seqs: make(map[string]int64)}
}

// block delivers all transactions in a new block and returns their results.
func (c *testChain) block(txs ...[]byte) []abci.ResponseDeliverTx {
	c.t.Helper()
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: c.height, Time: time.Now().UTC()},
	})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = c.app.DeliverTx(tx)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

// check runs the transactions through CheckTx against the pending state of
// the current block, as the mempool does.
func (c *testChain) check(txs ...[]byte) []abci.ResponseCheckTx {
	c.t.Helper()
	res := make([]abci.ResponseCheckTx, len(txs))
	for i, tx := range txs {
		res[i] = c.app.CheckTx(tx)
	}
	return res
}

// sign signs the transaction with the next sequence of the key and returns
// its serialized form.
func (c *testChain) sign(key *crypto.PrivateKey, tx *Tx) []byte {
	c.t.Helper()
	addr := key.PublicKey().Address().String()
	sig, err := sigs.SignTx(key, tx, chainID, c.seqs[addr])
	require.NoError(c.t, err)
	c.seqs[addr]++
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	require.NoError(c.t, err)
	return raw
}

func (c *testChain) deliver(key *crypto.PrivateKey, msg pairswap.Msg) abci.ResponseDeliverTx {
	c.t.Helper()
	tx, err := NewTx(msg)
	require.NoError(c.t, err)
	return c.block(c.sign(key, tx))[0]
}

func (c *testChain) mustDeliver(key *crypto.PrivateKey, msg pairswap.Msg) abci.ResponseDeliverTx {
	c.t.Helper()
	res := c.deliver(key, msg)
	require.Equal(c.t, uint32(0), res.Code, "%s: %s", msg.Path(), res.Log)
	return res
}

func (c *testChain) query(path string, data []byte) []pairswap.Model {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	var keys, values app.ResultSet
	require.NoError(c.t, keys.Unmarshal(res.Key))
	require.NoError(c.t, values.Unmarshal(res.Value))
	models, err := app.JoinResults(&keys, &values)
	require.NoError(c.t, err)
	return models
}

func (c *testChain) balance(owner pairswap.Address, ticker string) int64 {
	c.t.Helper()
	models := c.query("/accounts", bank.AccountKey(owner, ticker))
	if len(models) == 0 {
		return 0
	}
	var acct bank.Account
	require.NoError(c.t, acct.Unmarshal(models[0].Value))
	return acct.Amount
}

type participants struct {
	offeror *crypto.PrivateKey
	offeree *crypto.PrivateKey
}

func newParticipants() participants {
	return participants{
		offeror: crypto.GenPrivKeyEd25519(),
		offeree: crypto.GenPrivKeyEd25519(),
	}
}

func (p participants) genesis() map[string]interface{} {
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()
	return map[string]interface{}{
		"bank": []bank.GenesisAccount{
			{Address: offeror, Coins: []coin.Coin{coin.NewCoin(10, "ETH"), coin.NewCoin(10, "BTC")}},
			{Address: offeree, Coins: []coin.Coin{coin.NewCoin(100, "IOV")}},
		},
		"identity": []pairswap.Address{offeror},
		"conf": map[string]interface{}{
			"swap": swap.DefaultConfiguration(offeror),
		},
	}
}

// propose runs a swap up to the proposed state, escrowing 1 ETH and 1 BTC
// against 5 IOV.
func (p participants) propose(c *testChain) pairswap.Address {
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()

	res := c.mustDeliver(p.offeror, &swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	addr := pairswap.Address(res.Data)
	c.mustDeliver(p.offeror, &swap.FundMsg{Swap: addr, Amount: coin.NewCoinp(1, "ETH")})
	c.mustDeliver(p.offeror, &swap.FundMsg{Swap: addr, Amount: coin.NewCoinp(1, "BTC")})
	c.mustDeliver(p.offeror, &swap.AddOffereeAssetMsg{Swap: addr, Amount: coin.NewCoinp(5, "IOV")})
	c.mustDeliver(p.offeror, &swap.InitiateMsg{Swap: addr})
	return addr
}

func TestSwapLifecycle(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()

	// only the offeror is registered at genesis
	c.mustDeliver(p.offeree, &identity.RegisterMsg{Participant: offeree})
	assert.Len(t, c.query("/identities", offeree), 1)

	addr := p.propose(c)
	assert.EqualValues(t, 9, c.balance(offeror, "ETH"))
	assert.EqualValues(t, 9, c.balance(offeror, "BTC"))
	assert.Len(t, c.query("/vaults/authority", addr), 2)

	// two vaults and one expected asset do not fit a single operation
	res := c.deliver(p.offeree, &swap.AcceptMsg{Swap: addr, Offeror: offeror, Offeree: offeree})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code, res.Log)

	// leg A alone is refused while consent comes first
	res = c.deliver(p.offeree, &swap.AcceptLegAMsg{Swap: addr, Offeror: offeror, Offeree: offeree})
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code, res.Log)

	tx, err := NewBundleTx(
		&swap.AcceptLegBMsg{Swap: addr, Offeror: offeror, Offeree: offeree},
		&swap.AcceptLegAMsg{Swap: addr, Offeror: offeror, Offeree: offeree},
	)
	require.NoError(t, err)
	res = c.block(c.sign(p.offeree, tx))[0]
	require.Equal(t, uint32(0), res.Code, res.Log)

	var results bundle.Results
	require.NoError(t, results.Unmarshal(res.Data))
	assert.Len(t, results.Data, 2)

	assert.EqualValues(t, 1, c.balance(offeree, "ETH"))
	assert.EqualValues(t, 1, c.balance(offeree, "BTC"))
	assert.EqualValues(t, 95, c.balance(offeree, "IOV"))
	assert.EqualValues(t, 5, c.balance(offeror, "IOV"))

	assert.Len(t, c.query("/swaps", addr), 0)
	hist := c.query("/swaphist/address", addr)
	require.Len(t, hist, 1)
	var archived swap.Swap
	require.NoError(t, archived.Unmarshal(hist[0].Value))
	assert.Equal(t, swap.StateAccepted, archived.State)
	assert.True(t, archived.LegADone)
	assert.True(t, archived.LegBDone)
}

func TestBundleIsAllOrNothing(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()
	c.mustDeliver(p.offeree, &identity.RegisterMsg{Participant: offeree})
	addr := p.propose(c)

	// the second entry fails, so the payment of the first is reverted
	tx, err := NewBundleTx(
		&swap.AcceptLegBMsg{Swap: addr, Offeror: offeror, Offeree: offeree},
		&swap.AcceptLegBMsg{Swap: addr, Offeror: offeror, Offeree: offeree},
	)
	require.NoError(t, err)
	res := c.block(c.sign(p.offeree, tx))[0]
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code, res.Log)

	assert.EqualValues(t, 100, c.balance(offeree, "IOV"))
	live := c.query("/swaps", addr)
	require.Len(t, live, 1)
	var s swap.Swap
	require.NoError(t, s.Unmarshal(live[0].Value))
	assert.Equal(t, swap.StateProposed, s.State)
	assert.False(t, s.LegBDone)

	// cancel returns the escrow
	c.mustDeliver(p.offeror, &swap.CancelMsg{Swap: addr, Offeror: offeror, Offeree: offeree})
	assert.EqualValues(t, 10, c.balance(offeror, "ETH"))
	assert.EqualValues(t, 10, c.balance(offeror, "BTC"))
}

func TestSignatureRequired(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()

	tx, err := NewTx(&swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	require.NoError(t, err)
	raw, err := tx.Marshal()
	require.NoError(t, err)
	res := c.block(raw)[0]
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	// signed by the wrong participant
	res = c.deliver(p.offeree, &swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	// replayed transaction is rejected
	tx, err = NewTx(&swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	require.NoError(t, err)
	raw = c.sign(p.offeror, tx)
	res = c.block(raw)[0]
	require.Equal(t, uint32(0), res.Code, res.Log)
	res = c.block(raw)[0]
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code, res.Log)
}

func TestDecodeErrors(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())

	res := c.block([]byte("not a transaction"))[0]
	assert.NotEqual(t, uint32(0), res.Code)

	tx := &Tx{Envelope: &MsgEnvelope{Path: "swap/unknown", Payload: nil}}
	raw, err := tx.Marshal()
	require.NoError(t, err)
	res = c.block(raw)[0]
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code, res.Log)
}

func TestGenInitOptions(t *testing.T) {
	addr := crypto.GenPrivKeyEd25519().PublicKey().Address()
	raw, err := GenInitOptions([]string{"ETH", addr.String()})
	require.NoError(t, err)

	var state pairswap.Options
	require.NoError(t, json.Unmarshal(raw, &state))

	var accts []bank.GenesisAccount
	require.NoError(t, state.ReadOptions("bank", &accts))
	require.Len(t, accts, 1)
	assert.Equal(t, addr, accts[0].Address)
	assert.Equal(t, "ETH", accts[0].Coins[0].Ticker)

	// the generated state is a valid genesis
	newTestChain(t, state)

	_, err = GenInitOptions([]string{"not a ticker"})
	assert.Error(t, err)
}

func TestSplitAcceptBundleCheckTx(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()
	c.mustDeliver(p.offeree, &identity.RegisterMsg{Participant: offeree})
	addr := p.propose(c)

	legB := &swap.AcceptLegBMsg{Swap: addr, Offeror: offeror, Offeree: offeree}
	legA := &swap.AcceptLegAMsg{Swap: addr, Offeror: offeror, Offeree: offeree}

	// escrow release before the payment fails on check as on deliver
	tx, err := NewBundleTx(legA, legB)
	require.NoError(t, err)
	res := c.check(c.sign(p.offeree, tx))[0]
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code, res.Log)
	// the rejected transaction did not consume its sequence
	c.seqs[offeree.String()]--

	tx, err = NewBundleTx(legB, legA)
	require.NoError(t, err)
	raw := c.sign(p.offeree, tx)
	res = c.check(raw)[0]
	require.Equal(t, uint32(0), res.Code, res.Log)

	// checking leaves the swap untouched
	assert.EqualValues(t, 100, c.balance(offeree, "IOV"))
	assert.Len(t, c.query("/swaps", addr), 1)

	dres := c.block(raw)[0]
	require.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.EqualValues(t, 95, c.balance(offeree, "IOV"))
	assert.EqualValues(t, 1, c.balance(offeree, "ETH"))
	assert.Len(t, c.query("/swaps", addr), 0)
}

func TestCheckTx(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeror, offeree := p.offeror.PublicKey().Address(), p.offeree.PublicKey().Address()
	// the block context carries the chain id from the first block on
	c.block()

	tx, err := NewTx(&swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	require.NoError(t, err)
	unsigned, err := tx.Marshal()
	require.NoError(t, err)
	res := c.check(unsigned)[0]
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	tx, err = NewTx(&swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	require.NoError(t, err)
	res = c.check(c.sign(p.offeror, tx))[0]
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.True(t, res.GasWanted > 0)

	// signed by the wrong participant
	tx, err = NewTx(&swap.CreateMsg{Offeror: offeror, Offeree: offeree})
	require.NoError(t, err)
	res = c.check(c.sign(p.offeree, tx))[0]
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code, res.Log)

	// checking does not create the swap
	addr, _, err := swap.SwapAddress(offeror, offeree)
	require.NoError(t, err)
	assert.Len(t, c.query("/swaps", addr), 0)
}

func TestCheckTxSequence(t *testing.T) {
	p := newParticipants()
	c := newTestChain(t, p.genesis())
	offeree := p.offeree.PublicKey().Address()
	c.block()

	tx, err := NewTx(&identity.RegisterMsg{Participant: offeree})
	require.NoError(t, err)
	first := c.sign(p.offeree, tx)
	tx, err = NewTx(&bank.SendMsg{Source: offeree, Destination: p.offeror.PublicKey().Address(), Amount: coin.NewCoinp(1, "IOV")})
	require.NoError(t, err)
	second := c.sign(p.offeree, tx)

	// the check state tracks the sequence of pending transactions
	res := c.check(first, first, second)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res[1].Code, res[1].Log)
	require.Equal(t, uint32(0), res[2].Code, res[2].Log)

	// a transaction checked out of order is refused
	c.block()
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), c.check(second)[0].Code)

	// delivering consumes the sequence, and the check state is reset on
	// commit
	dres := c.block(first, second)
	require.Equal(t, uint32(0), dres[0].Code, dres[0].Log)
	require.Equal(t, uint32(0), dres[1].Code, dres[1].Log)
	for _, r := range c.check(first, second) {
		assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), r.Code, r.Log)
	}
	assert.EqualValues(t, 99, c.balance(offeree, "IOV"))
}
