// Package client is the authenticated HTTP client for the platform API.
//
// Calls go through resty on top of a retryablehttp transport that accepts
// gzip responses. A client-side token bucket and a circuit breaker sit in
// front of every call. The bearer token is acquired lazily with the
// organization API key, cached, and refreshed once when a call returns 401.
//
// Errors surface as ErrAPIKey (the key was rejected), ErrParse (the response
// did not have the expected shape) or *RequestError for everything else.
package client
