// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire backend.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and login-throttling keys.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "petclinic-api"
	AppVersion = "1.1.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "petclinic.app"

	// HeaderXRequestID is the correlation header for log tracing.
	HeaderXRequestID = "X-Request-ID"

	// AuthCookieName is the optional cookie mirror of the bearer token, used
	// by browser clients. Logout clears it.
	AuthCookieName = "petclinic_token"

	// AuthCookiePath restricts the token cookie to the API surface.
	AuthCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
)

// # Database Schemas

const (
	SchemaUsers  = "users"
	SchemaClinic = "clinic"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixLoginAttempts tracks failed login counters per client.
	RedisPrefixLoginAttempts = "auth:login_attempts:"
)
