// Package codectx extracts structural context from source files to enrich
// review prompts.
//
// JavaScript-family files are routed through Tree-sitter parsers bound to
// the JavaScript grammar; other languages use a generic line heuristic.
package codectx
