package server

import (
	"time"

	"github.com/xxxsen/tldx/internal/parser"
)

// Option configures the servers.
type Option func(*options)

type options struct {
	bind     string
	httpBind string
	parser   parser.IDomainParser
	ttl      uint32
	timeout  time.Duration
}

// WithBind configures the DNS bind address.
func WithBind(bind string) Option {
	return func(o *options) {
		o.bind = bind
	}
}

// WithHTTPBind configures the HTTP bind address, empty disables it.
func WithHTTPBind(bind string) Option {
	return func(o *options) {
		o.httpBind = bind
	}
}

func WithParser(p parser.IDomainParser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithTTL sets the TTL of TXT answers.
func WithTTL(ttl uint32) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}
