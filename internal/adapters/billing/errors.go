package billing

import "errors"

// Sentinel kinds for billing errors.
var (
	ErrNoSecretKey = errors.New("stripe secret key not provided")
	ErrStripe      = errors.New("stripe request failed")
)
