package app

import (
	"fmt"

	"cosmossdk.io/core/address"
	"cosmossdk.io/x/tx/signing"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/x/auth/tx"
	"github.com/cosmos/gogoproto/proto"
)

// EncodingConfig bundles the codecs shared by the lendq app, its CLI and the
// keepers. AddressCodec is the same codec the account keeper is built with.
type EncodingConfig struct {
	InterfaceRegistry types.InterfaceRegistry
	Codec             codec.Codec
	TxConfig          client.TxConfig
	Amino             *codec.LegacyAmino
	AddressCodec      address.Codec
}

// MakeEncodingConfig builds the codecs for the current sdk.Config prefixes.
// The oracle and liquidation msgs are hand-written and resolve through the
// gogoproto hybrid registry.
func MakeEncodingConfig() EncodingConfig {
	signingOptions := bech32SigningOptions(sdk.GetConfig())

	interfaceRegistry, err := types.NewInterfaceRegistryWithOptions(types.InterfaceRegistryOptions{
		ProtoFiles:     proto.HybridResolver,
		SigningOptions: signingOptions,
	})
	if err != nil {
		panic(fmt.Errorf("lendq interface registry: %w", err))
	}
	cdc := codec.NewProtoCodec(interfaceRegistry)

	txCfg, err := tx.NewTxConfigWithOptions(cdc, tx.ConfigOptions{
		EnabledSignModes: tx.DefaultSignModes,
		SigningOptions:   &signingOptions,
	})
	if err != nil {
		panic(fmt.Errorf("lendq tx config: %w", err))
	}

	amino := codec.NewLegacyAmino()
	registerCodecs(amino, interfaceRegistry)

	return EncodingConfig{
		InterfaceRegistry: interfaceRegistry,
		Codec:             cdc,
		TxConfig:          txCfg,
		Amino:             amino,
		AddressCodec:      signingOptions.AddressCodec,
	}
}

func bech32SigningOptions(cfg *sdk.Config) signing.Options {
	return signing.Options{
		AddressCodec:          addresscodec.NewBech32Codec(cfg.GetBech32AccountAddrPrefix()),
		ValidatorAddressCodec: addresscodec.NewBech32Codec(cfg.GetBech32ValidatorAddrPrefix()),
	}
}

// registerCodecs wires the std types plus every module in ModuleBasics.
func registerCodecs(amino *codec.LegacyAmino, registry types.InterfaceRegistry) {
	std.RegisterLegacyAminoCodec(amino)
	std.RegisterInterfaces(registry)
	ModuleBasics.RegisterLegacyAminoCodec(amino)
	ModuleBasics.RegisterInterfaces(registry)
}
