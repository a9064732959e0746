// Package http implements the REST transport of the todo API.
//
// It wires the chi router, the access guard that resolves bearer tokens to
// an identity, per-address rate limiting of the credential endpoints, request
// tracing and access logging, and the JSON mapping between requests, service
// calls and error responses.
package http
