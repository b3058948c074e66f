// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"
	"net/url"
)

// Options carries the per-request knobs SendJSONRequest accepts: extra
// HTTP headers and extra query-string parameters.
type Options struct {
	headers     http.Header
	queryParams url.Values
}

// Option mutates an in-progress Options.
type Option func(*Options)

// NewOptions builds an Options from a slice of Option, starting from
// empty headers and query params.
func NewOptions(options []Option) *Options {
	ops := &Options{
		headers:     make(http.Header),
		queryParams: make(url.Values),
	}
	for _, opt := range options {
		opt(ops)
	}
	return ops
}

// WithHeader sets an additional HTTP header on the outgoing request.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		o.headers.Set(key, value)
	}
}

// WithQueryParam sets an additional query-string parameter on the
// outgoing request's URI.
func WithQueryParam(key, value string) Option {
	return func(o *Options) {
		o.queryParams.Set(key, value)
	}
}
