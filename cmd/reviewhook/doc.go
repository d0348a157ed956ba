// Reviewhook is a GitHub webhook service that reviews repository code with
// static rules and an LLM provider, then posts a Markdown report back to
// GitHub as an issue or pull request comment.
//
// Usage:
//
//	reviewhook serve                          # run the webhook server
//	reviewhook review --owner o --repo r      # one-shot review, print report
//	reviewhook config show                    # show effective configuration
//	reviewhook version                        # print version
//
// Configuration merges defaults, the config file, REVIEWHOOK_* environment
// variables, and flags. GITHUB_TOKEN and a provider API key are required.
package main
