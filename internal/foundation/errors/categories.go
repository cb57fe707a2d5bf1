package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryVault represents document store access errors.
	CategoryVault      ErrorCategory = "vault"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryRender represents parsing and rendering errors.
	CategoryRender       ErrorCategory = "render"
	CategoryTransclusion ErrorCategory = "transclusion"

	// CategoryCache and CategoryEvents represent supporting infrastructure errors.
	CategoryCache  ErrorCategory = "cache"
	CategoryEvents ErrorCategory = "events"

	// CategoryRuntime represents runtime and infrastructure errors.
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy indicates how an error should be handled in retry scenarios.
type RetryStrategy string

const (
	RetryNever     RetryStrategy = "never"     // Permanent failure, don't retry
	RetryImmediate RetryStrategy = "immediate" // Retry immediately
	RetryBackoff   RetryStrategy = "backoff"   // Retry with exponential backoff
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	out := maps.Clone(c)
	out[key] = value
	return out
}

// Merge combines this context with another, the other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if len(other) == 0 {
		return c
	}
	out := maps.Clone(c)
	if out == nil {
		out = make(ErrorContext, len(other))
	}
	maps.Copy(out, other)
	return out
}
