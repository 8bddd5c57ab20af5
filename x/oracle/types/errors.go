package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Oracle module errors
var (
	ErrUnauthorizedFeeder = errorsmod.Register(ModuleName, 2, "address is not a registered feeder")
	ErrInvalidParams      = errorsmod.Register(ModuleName, 10, "invalid oracle params")
	ErrInvalidPrice       = errorsmod.Register(ModuleName, 11, "invalid price")
	ErrInvalidDenom       = errorsmod.Register(ModuleName, 12, "invalid denom")
	ErrPriceNotFound      = errorsmod.Register(ModuleName, 50, "price not found")
)
