package scanner

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	entries  []TreeEntry
	contents map[string]string
	fetchErr error
}

func (f *fakeSource) GetTree(_ context.Context, _, _, _ string) ([]TreeEntry, error) {
	return f.entries, nil
}

func (f *fakeSource) GetFileContent(_ context.Context, _, _, filePath, _ string) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.contents[filePath], nil
}

func TestReviewable(t *testing.T) {
	s := New(nil, DefaultOptions())

	tests := []struct {
		entry TreeEntry
		want  bool
	}{
		{TreeEntry{Path: "src/app.js", Type: "blob", Size: 100}, true},
		{TreeEntry{Path: "src/App.TSX", Type: "blob", Size: 100}, true},
		{TreeEntry{Path: "main.go", Type: "blob", Size: 100}, true},
		{TreeEntry{Path: "src", Type: "tree", Size: 0}, false},
		{TreeEntry{Path: "README.md", Type: "blob", Size: 100}, false},
		{TreeEntry{Path: "node_modules/lib/index.js", Type: "blob", Size: 100}, false},
		{TreeEntry{Path: "vendor/pkg/a.go", Type: "blob", Size: 100}, false},
		{TreeEntry{Path: "big.js", Type: "blob", Size: 200 * 1024}, false},
		{TreeEntry{Path: "image.png", Type: "blob", Size: 100}, false},
	}
	for _, tt := range tests {
		if got := s.Reviewable(tt.entry); got != tt.want {
			t.Errorf("Reviewable(%q) = %v, want %v", tt.entry.Path, got, tt.want)
		}
	}
}

func TestFetch_FiltersAndPreservesOrder(t *testing.T) {
	src := &fakeSource{
		entries: []TreeEntry{
			{Path: "a.js", Type: "blob", Size: 10},
			{Path: "doc.md", Type: "blob", Size: 10},
			{Path: "b.ts", Type: "blob", Size: 10},
			{Path: "node_modules/x.js", Type: "blob", Size: 10},
			{Path: "c.go", Type: "blob", Size: 10},
		},
		contents: map[string]string{
			"a.js": "var a",
			"b.ts": "let b",
			"c.go": "package c",
		},
	}

	files, err := New(src, DefaultOptions()).Fetch(context.Background(), "o", "r", "main")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	wantOrder := []string{"a.js", "b.ts", "c.go"}
	for i, want := range wantOrder {
		if files[i].Path != want {
			t.Errorf("files[%d].Path = %q, want %q", i, files[i].Path, want)
		}
	}
	if files[0].Content != "var a" || files[0].Size != len("var a") {
		t.Errorf("files[0] = %+v", files[0])
	}
}

func TestFetch_MaxFilesCap(t *testing.T) {
	var entries []TreeEntry
	contents := make(map[string]string)
	for _, p := range []string{"a.js", "b.js", "c.js", "d.js"} {
		entries = append(entries, TreeEntry{Path: p, Type: "blob", Size: 5})
		contents[p] = "x"
	}
	opts := DefaultOptions()
	opts.MaxFiles = 2

	files, err := New(&fakeSource{entries: entries, contents: contents}, opts).
		Fetch(context.Background(), "o", "r", "main")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2", len(files))
	}
}

func TestFetch_ContentErrorPropagates(t *testing.T) {
	src := &fakeSource{
		entries:  []TreeEntry{{Path: "a.js", Type: "blob", Size: 5}},
		fetchErr: errors.New("boom"),
	}
	_, err := New(src, DefaultOptions()).Fetch(context.Background(), "o", "r", "main")
	if err == nil {
		t.Fatal("expected error")
	}
}
