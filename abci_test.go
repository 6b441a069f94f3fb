package pairswap

import (
	"fmt"
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverOrError(t *testing.T) {
	cases := map[string]struct {
		res      *DeliverResult
		err      error
		wantCode uint32
		wantLog  string
	}{
		"success": {
			res:      &DeliverResult{Data: []byte("id"), Log: "created", Tags: []common.KVPair{{Key: []byte("action"), Value: []byte("swap/create")}}},
			wantCode: 0,
			wantLog:  "created",
		},
		"registered error": {
			err:      errors.Wrap(errors.ErrState, "swap is settled"),
			wantCode: errors.ErrState.ABCICode(),
			wantLog:  "swap is settled: invalid state",
		},
		"internal error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res := DeliverOrError(tc.res, tc.err, false)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantLog, res.Log)
			if tc.res != nil {
				assert.Equal(t, tc.res.Data, res.Data)
				assert.Equal(t, tc.res.Tags, res.Tags)
			}
		})
	}
}

func TestCheckOrError(t *testing.T) {
	res := CheckOrError(NewCheck(100, "ok"), nil, false)
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, int64(100), res.GasWanted)
	assert.Equal(t, "ok", res.Log)

	res = CheckOrError(nil, errors.ErrUnauthorized, false)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
	assert.Equal(t, "unauthorized", res.Log)
}

func TestEmptyResults(t *testing.T) {
	assert.Equal(t, uint32(0), DeliverOrError(nil, nil, false).Code)
	assert.Equal(t, uint32(0), CheckOrError(nil, nil, false).Code)

	res := DeliverOrError(nil, errors.Wrap(errors.ErrNotFound, "vault"), true)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}
