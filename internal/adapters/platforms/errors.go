package platforms

import "errors"

// Sentinel kinds for driver errors.
var (
	ErrCLIMissing   = errors.New("platform CLI not installed")
	ErrDeployFailed = errors.New("deployment failed")
)
