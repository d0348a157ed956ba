// Package server exposes the webhook HTTP endpoint that drives the full
// review flow: parse the delivery, fetch the repository files, fan out the
// per-file reviews, compose the report, and post it back to GitHub.
package server
