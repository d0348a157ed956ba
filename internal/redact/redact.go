package redact

import "regexp"

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for secrets that must never reach an
// external model provider, even when the static analyzer missed them.
var secretPatterns = []*regexp.Regexp{
	// Assignments of passwords, tokens, API keys, and similar credentials
	regexp.MustCompile(`(?i)(password|passwd|secret|token|api[_-]?key|apikey|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Anthropic and OpenAI API keys
	regexp.MustCompile(`sk-(ant-)?[A-Za-z0-9_-]{20,}`),
}

// Secrets replaces detected secret values in code with [REDACTED].
// The static analyzer runs on the original content; only the copy sent to
// the model provider is scrubbed.
func Secrets(code string) string {
	out := code
	for _, pat := range secretPatterns {
		out = pat.ReplaceAllString(out, placeholder)
	}
	return out
}
