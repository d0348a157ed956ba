// Package providers implements the model-provider abstraction used by the
// review pipeline.
//
// Anthropic, OpenAI, and Ollama/LM Studio backends are supported over plain
// HTTP with a shared retry policy: rate limits and 5xx responses are retried
// with exponential backoff, auth failures are surfaced immediately as typed
// errors. A Mock provider is available for deterministic tests.
package providers
