package api

import "errors"

var (
	// ErrInvalidRequestBody is returned when the request body cannot be decoded
	ErrInvalidRequestBody = errors.New("invalid request body")
	// ErrMultipleJSONObjects is returned when the request body contains more than one JSON object
	ErrMultipleJSONObjects = errors.New("request body must contain a single JSON object")
	// ErrRateLimited is returned when the global request budget is exhausted
	ErrRateLimited = errors.New("too many requests, slow down")
	// ErrCheckerNotConfigured is returned when a route has no checker behind it
	ErrCheckerNotConfigured = errors.New("checker not configured")
)
