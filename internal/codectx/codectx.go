package codectx

import (
	"fmt"
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Extractor produces a structural outline of a source file for inclusion in
// the review prompt. JavaScript-family files are parsed with Tree-sitter and
// outlined from the syntax tree; other languages fall back to a line-based
// outline.
type Extractor struct {
	jsParser  *tree_sitter.Parser
	tsParser  *tree_sitter.Parser
	tsxParser *tree_sitter.Parser
}

// New creates an Extractor. Call Close to release parser resources.
func New() *Extractor {
	return &Extractor{
		jsParser:  tree_sitter.NewParser(),
		tsParser:  tree_sitter.NewParser(),
		tsxParser: tree_sitter.NewParser(),
	}
}

// Init binds the JavaScript grammar to the parsers. The JS grammar also
// covers TS/TSX well enough for outline purposes.
func (e *Extractor) Init() error {
	lang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())

	if err := e.jsParser.SetLanguage(lang); err != nil {
		return fmt.Errorf("binding javascript grammar: %w", err)
	}
	if err := e.tsParser.SetLanguage(lang); err != nil {
		return fmt.Errorf("binding javascript grammar: %w", err)
	}
	if err := e.tsxParser.SetLanguage(lang); err != nil {
		return fmt.Errorf("binding javascript grammar: %w", err)
	}

	return nil
}

// Close releases parser resources.
func (e *Extractor) Close() {
	if e.jsParser != nil {
		e.jsParser.Close()
	}
	if e.tsParser != nil {
		e.tsParser.Close()
	}
	if e.tsxParser != nil {
		e.tsxParser.Close()
	}
}

func (e *Extractor) parserForFile(filename string) *tree_sitter.Parser {
	switch {
	case strings.HasSuffix(filename, ".tsx"):
		return e.tsxParser
	case strings.HasSuffix(filename, ".ts"):
		return e.tsParser
	case strings.HasSuffix(filename, ".jsx"):
		return e.jsParser
	case strings.HasSuffix(filename, ".js"):
		return e.jsParser
	default:
		return nil
	}
}

var (
	// jsDeclRe matches JS/TS declaration forms, including exported ones.
	jsDeclRe = regexp.MustCompile(`^\s*(export\s+)?(async\s+)?(function|class|const|let|var|interface|type)\b\s*([A-Za-z0-9_$]*)`)
	// genericDeclRe covers the declaration keywords of the other reviewable languages.
	genericDeclRe = regexp.MustCompile(`^\s*(pub\s+)?(static\s+)?(func|def|class|type|struct|fn)\b\s*([A-Za-z0-9_$]*)`)
)

// Outline returns a short structural summary of the file: one line per
// top-level declaration with its 1-based line number, capped at maxEntries.
// JS-family files are outlined from the parsed syntax tree; other files, and
// JS files when no grammar is bound, use a line-based scan. Returns "" when
// no declarations are found.
func (e *Extractor) Outline(content, filename string, maxEntries int) string {
	if maxEntries <= 0 {
		maxEntries = 20
	}

	parser := e.parserForFile(filename)
	if parser == nil {
		return lineOutline(content, genericDeclRe, maxEntries)
	}

	// Parse yields no tree when the grammar was never bound.
	tree := parser.Parse([]byte(content), nil)
	if tree == nil {
		return lineOutline(content, jsDeclRe, maxEntries)
	}
	defer tree.Close()

	return treeOutline(tree, []byte(content), maxEntries)
}

// treeOutline walks the top-level named nodes of the syntax tree, unwrapping
// export statements, and emits one entry per declaration.
func treeOutline(tree *tree_sitter.Tree, source []byte, maxEntries int) string {
	var entries []string

	root := tree.RootNode()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		if len(entries) >= maxEntries {
			break
		}
		node := root.NamedChild(i)
		if node.Kind() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			}
		}
		entries = appendDeclaration(entries, node, source, maxEntries)
	}

	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n")
}

func appendDeclaration(entries []string, node *tree_sitter.Node, source []byte, maxEntries int) []string {
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			entries = append(entries, declEntry(node, "function", name.Utf8Text(source)))
		}
	case "class_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			entries = append(entries, declEntry(node, "class", name.Utf8Text(source)))
		}
	case "lexical_declaration", "variable_declaration":
		kind := "var"
		if kw := node.Child(0); kw != nil {
			kind = kw.Utf8Text(source)
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if len(entries) >= maxEntries {
				break
			}
			declarator := node.NamedChild(i)
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			if name := declarator.ChildByFieldName("name"); name != nil {
				entries = append(entries, declEntry(declarator, kind, name.Utf8Text(source)))
			}
		}
	}
	return entries
}

func declEntry(node *tree_sitter.Node, kind, name string) string {
	return fmt.Sprintf("line %d: %s %s", node.StartPosition().Row+1, kind, name)
}

// lineOutline is the scan used for languages without a bound grammar.
func lineOutline(content string, re *regexp.Regexp, maxEntries int) string {
	var entries []string
	for i, line := range strings.Split(content, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind, name := m[3], m[4]
		if name == "" {
			continue
		}
		entries = append(entries, fmt.Sprintf("line %d: %s %s", i+1, kind, name))
		if len(entries) >= maxEntries {
			break
		}
	}
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n")
}

// SurroundingLines returns up to contextLines lines before and after the
// given 1-based line, with the target line marked. Used when a finding needs
// local context in the prompt.
func SurroundingLines(content string, lineNum, contextLines int) string {
	lines := strings.Split(content, "\n")
	start := max(0, lineNum-contextLines-1)
	end := min(len(lines), lineNum+contextLines)

	if start >= len(lines) || end <= 0 {
		return ""
	}

	var out []string
	for i := start; i < end; i++ {
		prefix := "    "
		if i == lineNum-1 {
			prefix = ">>> "
		}
		out = append(out, fmt.Sprintf("%s%4d: %s", prefix, i+1, lines[i]))
	}
	return strings.Join(out, "\n")
}
