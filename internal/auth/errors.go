package auth

import "errors"

var (
	ErrAddressPasswordRequired = errors.New("Address and password are required")
	ErrInvalidAddress          = errors.New("Invalid Address")
	ErrWeakPassword            = errors.New("Password must be at least 8 characters and contain a letter, a number and a symbol")
	ErrAddressTaken            = errors.New("Address already registered")
	ErrReservedAddress         = errors.New("Address is reserved")
	ErrIncorrectPassword       = errors.New("Incorrect Password")
	ErrNotAuthenticated        = errors.New("Not authenticated")
)
