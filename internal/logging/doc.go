// Package logging provides structured logging utilities for gmailkit.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(logger, "gmail.search")
//	logger.Info("searching messages", logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("message sent", logging.UserHash(recipient))
//
// # Security Considerations
//
// Email addresses are hashed before logging to prevent PII leakage while
// still allowing correlation. OAuth tokens are never logged.
package logging
