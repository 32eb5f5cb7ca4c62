package model

import (
	"errors"
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ErrOracleUnavailable marks exhaustion of the whole provider fallback
// chain. The engine answers it with a degraded neutral analysis instead of
// failing the batch.
var ErrOracleUnavailable = errors.New("scoring oracle unavailable")

// ErrProfileMissing marks candidate text too short to score. The engine
// answers it with a zero-confidence analysis, not a failed call.
var ErrProfileMissing = errors.New("candidate profile missing")

// ConfigError reports a missing or partial configuration input. Callers
// treat it as advisory and fall back to permissive defaults.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError carries the raw oracle response that could not be coerced into
// the expected structure, for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse oracle response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CacheWriteError marks a failed persistence attempt. Non-fatal: the
// computed analysis is still returned to the caller.
type CacheWriteError struct {
	Key string
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write %q: %v", e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
