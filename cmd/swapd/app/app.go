/*
Package app links together all the various components
to construct the swapd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/app"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/store"
	"github.com/iov-one/pairswap/x"
	"github.com/iov-one/pairswap/x/bank"
	"github.com/iov-one/pairswap/x/bundle"
	"github.com/iov-one/pairswap/x/identity"
	"github.com/iov-one/pairswap/x/sigs"
	"github.com/iov-one/pairswap/x/swap"
	"github.com/iov-one/pairswap/x/utils"
	"github.com/iov-one/pairswap/x/vault"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// bundles, logging, and recovery
func Chain(r *app.Router) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(),
		swap.NewTransitionCounter(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// signatures are verified once for the whole bundle
		sigs.NewDecorator(),
		bundle.NewDecorator(r.Decode),
		utils.NewActionTagger(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to every swapd extension.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bankCtrl := bank.NewController(bank.NewBucket())
	bank.RegisterRoutes(r, authFn, bankCtrl)
	identity.RegisterRoutes(r, authFn, identity.NewController(identity.NewBucket()))
	swap.RegisterRoutes(r, authFn,
		bankCtrl,
		identity.NewController(identity.NewBucket()),
		vault.NewController(vault.NewBucket(), bankCtrl),
	)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts", "/auth", "/identities", "/vaults",
// "/swaps" and "/swaphist"
func QueryRouter() pairswap.QueryRouter {
	r := pairswap.NewQueryRouter()
	r.RegisterAll(
		bank.RegisterQuery,
		sigs.RegisterQuery,
		identity.RegisterQuery,
		vault.RegisterQuery,
		swap.RegisterQuery,
	)
	return r
}

// Reconciler returns the end of block audit of open swaps.
func Reconciler() pairswap.Ticker {
	bankCtrl := bank.NewController(bank.NewBucket())
	return swap.NewReconciler(vault.NewController(vault.NewBucket(), bankCtrl))
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp. The returned decoder
// understands every message the stack can handle.
func Stack() (pairswap.Handler, pairswap.TxDecoder) {
	authFn := Authenticator()
	r := Router(authFn)
	return Chain(r).WithHandler(r), TxDecoder(MsgDecoder(r))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h pairswap.Handler,
	tx pairswap.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, Reconciler(), debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (pairswap.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return store.MemLevelStore()
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return store.OpenLevelStore(path + ".db")
}
