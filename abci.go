package pairswap

import (
	"github.com/iov-one/pairswap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is a machine readable result, for example the id of a created swap.
	Data []byte
	Log  string
	// Tags are indexed by tendermint, so clients can search the transaction
	// history by them.
	Tags    []common.KVPair
	GasUsed int64
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a transaction accepted into the mempool.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the maximum amount of work the transaction may take.
	GasAllocated int64
	// GasPayment is the part of the work already paid for, for example by
	// signature verification.
	GasPayment int64
}

// NewCheck returns a result with only the allocation and the log set.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{Log: log, GasAllocated: gasAllocated}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError builds the DeliverTx response of a handler call.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	switch {
	case err != nil:
		return DeliverTxError(err, debug)
	case result == nil:
		return abci.ResponseDeliverTx{}
	default:
		return result.ToABCI()
	}
}

// CheckOrError builds the CheckTx response of a handler call.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	switch {
	case err != nil:
		return CheckTxError(err, debug)
	case result == nil:
		return abci.ResponseCheckTx{}
	default:
		return result.ToABCI()
	}
}

// DeliverTxError reports err with its registered code. Errors without one
// are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError is DeliverTxError for CheckTx responses.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}
