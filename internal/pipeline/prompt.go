package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/reviewhook/internal/analysis"
	"github.com/dshills/reviewhook/internal/codectx"
	"github.com/dshills/reviewhook/internal/providers"
	"github.com/dshills/reviewhook/internal/redact"
)

const (
	// maxPromptTokens caps the provider's response length.
	maxPromptTokens = 8192
	// maxCodeBytes caps the code section of the prompt. Roughly four bytes
	// per token keeps the request inside common context windows.
	maxCodeBytes = maxPromptTokens * 4
)

// SystemPrompt returns the instructions sent with every review request.
func SystemPrompt() string {
	return `You are a senior software engineer performing a code review.
Review the file for bugs, security issues, performance problems, and maintainability concerns.
The static analysis findings listed in the prompt are already known; do not repeat them.
Respond in Markdown. Be specific and reference line numbers. If the file is fine, say so briefly.`
}

// BuildUserPrompt assembles the per-file prompt from the (redacted) code,
// the static findings, and an optional structural outline.
func BuildUserPrompt(code, fileName string, static analysis.Result, outline string) string {
	if len(code) > maxCodeBytes {
		cut := maxCodeBytes
		if i := strings.LastIndexByte(code[:cut], '\n'); i > 0 {
			cut = i
		}
		code = code[:cut] + "\n... (truncated)"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Review the file `%s`.\n\n", fileName)

	if outline != "" {
		b.WriteString("File structure:\n```\n")
		b.WriteString(outline)
		b.WriteString("\n```\n\n")
	}

	if len(static.Issues) > 0 {
		b.WriteString("Known static analysis findings (do not repeat):\n")
		for _, f := range static.Issues {
			fmt.Fprintf(&b, "- line %d [%s] %s (%s)\n", f.Line, f.Severity, f.Message, f.Rule)
		}
		b.WriteString("\n")
	}

	b.WriteString("File content:\n```\n")
	b.WriteString(code)
	b.WriteString("\n```\n")

	return b.String()
}

// ProviderAI adapts a model provider into the pipeline's AIFunc. Code is
// scrubbed of secrets before leaving the process; reviewable files get a
// structural outline in the prompt.
func ProviderAI(p providers.Provider, extractor *codectx.Extractor) AIFunc {
	return func(ctx context.Context, code, fileName string, static analysis.Result) (string, error) {
		var outline string
		if extractor != nil {
			outline = extractor.Outline(code, fileName, 20)
		}
		resp, err := p.Generate(ctx, providers.Request{
			SystemPrompt: SystemPrompt(),
			UserPrompt:   BuildUserPrompt(redact.Secrets(code), fileName, static, outline),
			MaxTokens:    maxPromptTokens,
		})
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	}
}
