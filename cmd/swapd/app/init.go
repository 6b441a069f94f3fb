package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/app"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/crypto"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x/bank"
	"github.com/iov-one/pairswap/x/identity"
	"github.com/iov-one/pairswap/x/swap"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions produces the app state of a development chain. One rich
// account is registered as a participant and owns the swap configuration.
//
// Optional arguments are the ticker of the issued asset and the hex address
// of the account. Without an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
	}
	if err := coin.NewCoin(1, ticker).Validate(); err != nil {
		return nil, errors.Wrapf(err, "ticker %q", ticker)
	}

	var addr pairswap.Address
	if len(args) > 1 {
		a, err := pairswap.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"bank": []bank.GenesisAccount{
			{Address: addr, Coins: []coin.Coin{coin.NewCoin(123456789, ticker)}},
		},
		"identity": []pairswap.Address{addr},
		"conf": map[string]interface{}{
			"swap": swap.DefaultConfiguration(addr),
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// Initializers returns the genesis loaders of every swapd extension.
func Initializers() pairswap.Initializer {
	return app.ChainInitializers(
		bank.Initializer{},
		identity.Initializer{},
		swap.Initializer{},
	)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "swapd.db")
	}

	stack, decoder := Stack()
	application, err := Application("swapd", stack, decoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (pairswap.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}

	return addr, string(keys), nil
}
