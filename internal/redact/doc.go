// Package redact scrubs secret-looking values from source code before it is
// sent to an external model provider.
package redact
