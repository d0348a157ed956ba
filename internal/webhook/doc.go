// Package webhook normalizes incoming GitHub webhook deliveries into the
// small event shape the review flow needs.
package webhook
