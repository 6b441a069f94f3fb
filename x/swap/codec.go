package swap

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Swap is the record of a swap between two participants.
type Swap struct {
	// Address is the derived authority of the swap. It is also the
	// primary key of the record.
	Address pairswap.Address
	// Bump is the canonical discriminant of the authority address.
	Bump     uint32
	Offeror  pairswap.Address
	Offeree  pairswap.Address
	State    State
	Escrowed coin.Coins
	Expected coin.Coins
	Vaults   []*VaultRef
	LegADone bool
	LegBDone bool
}

func (s *Swap) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(s) }

func (s *Swap) Unmarshal(raw []byte) error {
	*s = Swap{}
	return cdc.UnmarshalBinaryBare(raw, s)
}

// VaultRef points to the vault holding one escrowed asset.
type VaultRef struct {
	Ticker  string
	Address pairswap.Address
	Bump    uint32
}

// Configuration is the on chain configuration of the swap extension.
type Configuration struct {
	// Owner may update the configuration.
	Owner pairswap.Address `json:"owner"`
	// MaxResources is the maximum number of resources a single operation
	// may reference.
	MaxResources int32 `json:"max_resources"`
	// LegOrder constrains the order of the acceptance legs.
	LegOrder LegOrder `json:"leg_order"`
	// VaultRent is charged to the offeror for every vault opened and
	// returned when the vault is closed. Nil means no rent.
	VaultRent *coin.Coin `json:"vault_rent,omitempty"`
}

func (c *Configuration) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(c) }

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return cdc.UnmarshalBinaryBare(raw, c)
}

// CreateMsg creates an empty swap between two participants.
type CreateMsg struct {
	Offeror pairswap.Address
	Offeree pairswap.Address
}

// FundMsg escrows an offeror asset.
type FundMsg struct {
	Swap   pairswap.Address
	Amount *coin.Coin
}

// AddOffereeAssetMsg lists an asset expected from the offeree.
type AddOffereeAssetMsg struct {
	Swap   pairswap.Address
	Amount *coin.Coin
}

// InitiateMsg freezes the swap terms and engages both participants.
type InitiateMsg struct {
	Swap pairswap.Address
}

// CancelMsg returns the escrow to the offeror.
type CancelMsg struct {
	Swap    pairswap.Address
	Offeror pairswap.Address
	Offeree pairswap.Address
}

// AcceptMsg applies both acceptance legs at once.
type AcceptMsg struct {
	Swap    pairswap.Address
	Offeror pairswap.Address
	Offeree pairswap.Address
}

// AcceptLegAMsg releases the escrow to the offeree.
type AcceptLegAMsg struct {
	Swap    pairswap.Address
	Offeror pairswap.Address
	Offeree pairswap.Address
}

// AcceptLegBMsg moves the offeree assets to the offeror.
type AcceptLegBMsg struct {
	Swap    pairswap.Address
	Offeror pairswap.Address
	Offeree pairswap.Address
}

// UpdateConfigurationMsg patches the configuration. Zero value fields are
// left unchanged.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

func (m *CreateMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *FundMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *FundMsg) Unmarshal(raw []byte) error {
	*m = FundMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *AddOffereeAssetMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *AddOffereeAssetMsg) Unmarshal(raw []byte) error {
	*m = AddOffereeAssetMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *InitiateMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *InitiateMsg) Unmarshal(raw []byte) error {
	*m = InitiateMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *CancelMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *CancelMsg) Unmarshal(raw []byte) error {
	*m = CancelMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *AcceptMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *AcceptMsg) Unmarshal(raw []byte) error {
	*m = AcceptMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *AcceptLegAMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *AcceptLegAMsg) Unmarshal(raw []byte) error {
	*m = AcceptLegAMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *AcceptLegBMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *AcceptLegBMsg) Unmarshal(raw []byte) error {
	*m = AcceptLegBMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) { return cdc.MarshalBinaryBare(m) }
func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	return cdc.UnmarshalBinaryBare(raw, m)
}
