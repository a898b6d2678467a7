package service

import "errors"

// ErrNoDeployers is returned by Deploy when the service was built without drivers.
var ErrNoDeployers = errors.New("no platform drivers configured")
