// Package javaparse turns Java source files into the small AST the analyzer
// walks. It is backed by tree-sitter.
package javaparse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrUnreadable is returned when a source file cannot be read or decoded.
	ErrUnreadable = errors.New("unreadable source file")
	// ErrSyntax is returned when a source file does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
)

// tree-sitter-java node types.
const (
	nodeClass           = "class_declaration"
	nodeInterface       = "interface_declaration"
	nodeModifiers       = "modifiers"
	nodeMethod          = "method_declaration"
	nodeBlock           = "block"
	nodeFor             = "for_statement"
	nodeWhile           = "while_statement"
	nodeIf              = "if_statement"
	nodeMethodCall      = "method_invocation"
	nodeError           = "ERROR"
	keywordAbstract     = "abstract"
	commentSuffix       = "comment"
	fieldName           = "name"
	fieldBody           = "body"
	defaultMaxFileBytes = 10 * 1024 * 1024
)

// Parser parses Java source files. A Parser is safe for concurrent use; each
// call creates its own tree-sitter parser.
type Parser struct {
	maxFileBytes int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileBytes rejects files larger than n bytes as unreadable.
func WithMaxFileBytes(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxFileBytes = n
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxFileBytes: defaultMaxFileBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses the file at path. Files are decoded as UTF-8;
// a leading byte order mark is dropped and invalid sequences become U+FFFD.
func (p *Parser) ParseFile(ctx context.Context, path string) (*CompilationUnit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(raw) > p.maxFileBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrUnreadable, path, len(raw))
	}
	content, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnreadable, err)
	}
	unit, err := p.Parse(ctx, content)
	if err != nil {
		return nil, err
	}
	unit.Path = path
	return unit, nil
}

// Parse parses Java source held in memory.
func (p *Parser) Parse(ctx context.Context, content []byte) (*CompilationUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		row := firstErrorRow(root)
		return nil, fmt.Errorf("%w near line %d", ErrSyntax, row+1)
	}

	unit := &CompilationUnit{}
	collectTypes(root, content, &unit.Types)
	return unit, nil
}

// collectTypes appends every class and interface declaration below node.
// Children are visited before the declaration itself is recorded.
func collectTypes(node *sitter.Node, src []byte, out *[]TypeDecl) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectTypes(node.NamedChild(i), src, out)
	}

	switch node.Type() {
	case nodeClass, nodeInterface:
		*out = append(*out, buildType(node, src))
	}
}

func buildType(node *sitter.Node, src []byte) TypeDecl {
	decl := TypeDecl{
		Interface: node.Type() == nodeInterface,
		Abstract:  hasModifier(node, keywordAbstract),
	}
	if name := node.ChildByFieldName(fieldName); name != nil {
		decl.Name = name.Content(src)
	}

	body := node.ChildByFieldName(fieldBody)
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() == nodeMethod {
			decl.Methods = append(decl.Methods, buildMethod(member, src))
		}
	}
	return decl
}

func hasModifier(node *sitter.Node, keyword string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != nodeModifiers {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if child.Child(j).Type() == keyword {
				return true
			}
		}
	}
	return false
}

func buildMethod(node *sitter.Node, src []byte) MethodDecl {
	var m MethodDecl
	if name := node.ChildByFieldName(fieldName); name != nil {
		m.Name = name.Content(src)
	}

	body := node.ChildByFieldName(fieldBody)
	if body == nil || body.Type() != nodeBlock {
		return m
	}
	m.HasBody = true
	m.Body = []Statement{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if strings.HasSuffix(stmt.Type(), commentSuffix) {
			continue
		}
		m.Body = append(m.Body, Statement{
			Kind:  statementKind(stmt.Type()),
			Text:  stmt.Content(src),
			Calls: collectCalls(stmt, src, nil),
		})
	}
	return m
}

func statementKind(nodeType string) StatementKind {
	switch nodeType {
	case nodeFor:
		return StmtFor
	case nodeWhile:
		return StmtWhile
	case nodeIf:
		return StmtIf
	default:
		return StmtOther
	}
}

// collectCalls walks node in pre-order and appends the simple name of each
// method invocation.
func collectCalls(node *sitter.Node, src []byte, calls []string) []string {
	if node.Type() == nodeMethodCall {
		if name := node.ChildByFieldName(fieldName); name != nil {
			calls = append(calls, name.Content(src))
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		calls = collectCalls(node.NamedChild(i), src, calls)
	}
	return calls
}

func firstErrorRow(node *sitter.Node) uint32 {
	if node.Type() == nodeError || node.IsMissing() {
		return node.StartPoint().Row
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstErrorRow(child)
		}
	}
	return node.StartPoint().Row
}
