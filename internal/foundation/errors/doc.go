// Package errors provides foundational, type-safe error primitives used across Transclude.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, vault, render, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, immediate, backoff)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP adapter for error presentation in the preview server
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryVault, "read document").
//		WithContext("path", doc.Path).
//		Build()
package errors
