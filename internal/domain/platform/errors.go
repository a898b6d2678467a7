package platform

import "errors"

// ErrUnsupported is returned for platform names the tool cannot deploy to.
var ErrUnsupported = errors.New("unsupported platform")
