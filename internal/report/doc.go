// Package report renders an aggregated review into a single Markdown
// document with a fixed section order and a truncation policy that bounds
// the report to issue-tracker comment size limits.
package report
