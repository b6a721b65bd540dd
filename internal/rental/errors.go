package rental

import "errors"

var (
	ErrInvalidMetadata        = errors.New("invalid metadata uri")
	ErrInvalidTerms           = errors.New("invalid terms")
	ErrNotFound               = errors.New("property not found")
	ErrBelowMinimumInvestment = errors.New("below minimum investment of 1 percent")
	ErrInsufficientSupply     = errors.New("insufficient supply")
	ErrInsufficientBalance    = errors.New("insufficient stablecoin balance")
	ErrMintingPaused          = errors.New("minting is paused")
	ErrAlreadyHasOpenPlan     = errors.New("holder already has an open installment plan")
	ErrNoOpenPlan             = errors.New("no open installment plan")
	ErrNoRentToDistribute     = errors.New("no rent to distribute")
	ErrUnauthorized           = errors.New("unauthorized")
)
