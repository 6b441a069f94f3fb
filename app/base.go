package app

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through the handler stack and the ticker at the
// end of every block. Storage and queries are served by the StoreApp.
type BaseApp struct {
	*StoreApp
	decoder pairswap.TxDecoder
	handler pairswap.Handler
	ticker  pairswap.Ticker
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. The ticker, if given, is
// run at the end of every block.
func NewBaseApp(
	store *StoreApp,
	decoder pairswap.TxDecoder,
	handler pairswap.Handler,
	ticker pairswap.Ticker,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		ticker:   ticker,
		debug:    debug,
	}
}

// DeliverTx executes the transaction on the deliver store.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return pairswap.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return pairswap.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the check store.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return pairswap.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return pairswap.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx pairswap.Tx) pairswap.Context {
	return pairswap.WithLogInfo(b.BlockContext(), "call", call, "path", pairswap.GetPath(tx))
}

// EndBlock runs the ticker, if any, on the deliver store. A failing ticker
// is logged and never halts the chain.
func (b BaseApp) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	res := b.StoreApp.EndBlock(req)
	if b.ticker == nil {
		return res
	}
	ctx := pairswap.WithLogInfo(b.BlockContext(), "call", "end_block")
	if err := b.ticker.Tick(ctx, b.DeliverStore()); err != nil {
		pairswap.GetLogger(ctx).Error("ticker failed", "err", err)
	}
	return res
}

// loadTx decodes the transaction. A panicking decoder is reported as
// ErrPanic.
func (b BaseApp) loadTx(txBytes []byte) (tx pairswap.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
