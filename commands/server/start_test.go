package server

import (
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestServe(t *testing.T) {
	var gotHome string
	gen := func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		gotHome = home
		return abci.NewBaseApplication(), nil
	}

	conf := DefaultConfig(tempHome(t))
	conf.ABCIAddr = "tcp://127.0.0.1:0"
	conf.MetricsAddr = ""

	stop, err := Serve(gen, log.NewNopLogger(), conf)
	require.NoError(t, err)
	stop()
	assert.Equal(t, conf.Home, gotHome)
}

func TestServeGeneratorError(t *testing.T) {
	gen := func(string, log.Logger, bool) (abci.Application, error) {
		return nil, errors.ErrDatabase
	}
	_, err := Serve(gen, log.NewNopLogger(), DefaultConfig(tempHome(t)))
	assert.True(t, errors.ErrDatabase.Is(err), "%+v", err)
}

func TestFilterLogger(t *testing.T) {
	_, err := filterLogger(log.NewNopLogger(), "loud")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	logger, err := filterLogger(log.NewNopLogger(), "main:info,*:error")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
