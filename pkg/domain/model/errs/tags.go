package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound       = goerr.NewTag("not_found")       // 404
	TagValidation     = goerr.NewTag("validation")      // 400
	TagInvalidRequest = goerr.NewTag("invalid_request") // 400
	TagUnauthorized   = goerr.NewTag("unauthorized")    // 401
	TagRateLimit      = goerr.NewTag("rate_limit")      // 429

	// Server errors (5xx)
	TagInternal = goerr.NewTag("internal") // 500
)
