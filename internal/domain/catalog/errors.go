package catalog

import "errors"

// ErrInvalidAmount is returned when a price cannot be expressed in whole minor units.
var ErrInvalidAmount = errors.New("invalid price amount")
