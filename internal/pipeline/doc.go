// Package pipeline runs the per-file review stage sequence: static
// analysis, generative-model review, and per-file report assembly.
//
// The generative step is injected as an AIFunc so the pipeline is fully
// testable without network access. A failure in the AI stage fails the
// whole file; callers record it as a failed outcome.
package pipeline
