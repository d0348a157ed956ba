package scanner

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// SourceFile is one repository entry that passed filtering.
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int    `json:"size"`
}

// TreeEntry is a repository tree entry as reported by the content source.
type TreeEntry struct {
	Path string
	Type string // "blob" or "tree"
	Size int
}

// ContentSource lists a repository tree and fetches file contents.
// internal/github implements it against the GitHub REST API.
type ContentSource interface {
	GetTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, error)
	GetFileContent(ctx context.Context, owner, repo, filePath, ref string) (string, error)
}

// Options controls which repository entries are retrieved.
type Options struct {
	Extensions   []string // reviewable file extensions, with leading dot
	SkipDirs     []string // path segments that exclude a file
	MaxFileBytes int      // per-file size cap; larger blobs are skipped
	MaxFiles     int      // total file cap; extra entries are skipped
}

// DefaultOptions returns the filtering defaults.
func DefaultOptions() Options {
	return Options{
		Extensions:   []string{".js", ".jsx", ".ts", ".tsx", ".go", ".py", ".rb", ".java", ".php", ".c", ".cpp", ".cs", ".rs"},
		SkipDirs:     []string{"node_modules", "vendor", "dist", "build", ".git"},
		MaxFileBytes: 100 * 1024,
		MaxFiles:     50,
	}
}

// Scanner retrieves reviewable source files from a repository.
type Scanner struct {
	source ContentSource
	opts   Options
}

// New creates a Scanner over the given content source.
func New(source ContentSource, opts Options) *Scanner {
	if len(opts.Extensions) == 0 {
		opts = DefaultOptions()
	}
	return &Scanner{source: source, opts: opts}
}

// Fetch lists the repository tree at ref and returns the contents of every
// entry that passes extension, path, and size filtering, in tree order.
func (s *Scanner) Fetch(ctx context.Context, owner, repo, ref string) ([]SourceFile, error) {
	entries, err := s.source.GetTree(ctx, owner, repo, ref)
	if err != nil {
		return nil, fmt.Errorf("listing repository tree: %w", err)
	}

	var files []SourceFile
	for _, e := range entries {
		if s.opts.MaxFiles > 0 && len(files) >= s.opts.MaxFiles {
			break
		}
		if !s.Reviewable(e) {
			continue
		}
		content, err := s.source.GetFileContent(ctx, owner, repo, e.Path, ref)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", e.Path, err)
		}
		files = append(files, SourceFile{
			Path:    e.Path,
			Content: content,
			Size:    len(content),
		})
	}
	return files, nil
}

// Reviewable reports whether a tree entry should be retrieved for review.
func (s *Scanner) Reviewable(e TreeEntry) bool {
	if e.Type != "blob" {
		return false
	}
	if s.opts.MaxFileBytes > 0 && e.Size > s.opts.MaxFileBytes {
		return false
	}
	ext := strings.ToLower(path.Ext(e.Path))
	found := false
	for _, allowed := range s.opts.Extensions {
		if ext == allowed {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, seg := range strings.Split(e.Path, "/") {
		for _, skip := range s.opts.SkipDirs {
			if seg == skip {
				return false
			}
		}
	}
	return true
}
