package stablecoin

import "errors"

var (
	ErrInvalidAmount          = errors.New("stablecoin: amount must be positive")
	ErrInvalidAddress         = errors.New("stablecoin: invalid address")
	ErrInsufficientBalance    = errors.New("stablecoin: transfer amount exceeds balance")
	ErrInsufficientAllowance  = errors.New("stablecoin: insufficient allowance")
	ErrBalanceOverflow        = errors.New("stablecoin: balance would overflow")
	ErrSelfTransfer           = errors.New("stablecoin: sender and recipient are the same address")
	ErrDepositAlreadyRecorded = errors.New("stablecoin: deposit already recorded")
)
