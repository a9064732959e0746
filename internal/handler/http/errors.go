// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the access guard when the
	// request carries no "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidJSON is returned when a request body cannot be decoded into
	// the expected model.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrTooManyRequests is returned when a client exceeds the rate of the
	// credential endpoints.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrRouteNotFound is returned for unknown paths and unsupported methods.
	ErrRouteNotFound = errors.New("route not found")
)
