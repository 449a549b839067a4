package errs

import (
	"github.com/m-mizutani/goerr/v2"
)

// Messages returned to clients for conditions that carry no detail of their own.
const (
	MsgInvalidSession     = "invalid session"
	MsgInvalidCredentials = "invalid credentials"
	MsgAlertNotFound      = "alert not found"
	MsgRouteNotFound      = "route not available"
	MsgInternal           = "internal server error"
	MsgTooManyRequests    = "too many login attempts"
)

// Validation returns a client-facing 400 error whose message is msg.
func Validation(msg string) error {
	return goerr.New(msg, goerr.T(TagValidation))
}

// InvalidRequest marks a request that could not be decoded at all.
func InvalidRequest(msg string) error {
	return goerr.New(msg, goerr.T(TagInvalidRequest))
}
