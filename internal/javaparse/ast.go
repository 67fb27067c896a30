package javaparse

// StatementKind classifies a top-level statement of a method body.
type StatementKind int

const (
	StmtOther StatementKind = iota
	StmtFor
	StmtWhile
	StmtIf
)

// Statement is a direct child statement of a method body.
type Statement struct {
	Kind StatementKind
	// Text is the source text of the statement.
	Text string
	// Calls holds the simple callee name of every method invocation in the
	// statement subtree, in pre-order.
	Calls []string
}

func (s Statement) IsFor() bool   { return s.Kind == StmtFor }
func (s Statement) IsWhile() bool { return s.Kind == StmtWhile }
func (s Statement) IsIf() bool    { return s.Kind == StmtIf }

// MethodDecl is a method declared directly inside a type.
type MethodDecl struct {
	Name string
	// Body is nil for abstract and interface methods.
	Body []Statement
	// HasBody distinguishes an empty block from a missing one.
	HasBody bool
}

// TypeDecl is a class or interface declaration.
type TypeDecl struct {
	Name      string
	Interface bool
	Abstract  bool
	Methods   []MethodDecl
}

func (t TypeDecl) IsInterface() bool { return t.Interface }
func (t TypeDecl) IsAbstract() bool  { return t.Abstract }

// CompilationUnit is the parsed form of one source file.
type CompilationUnit struct {
	Path string
	// Types lists every class and interface declaration reachable in the file.
	// A declaration is listed after all declarations nested inside it.
	Types []TypeDecl
}
