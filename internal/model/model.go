// internal/model/model.go
package model

// Report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ClassKind classifies a declared type.
type ClassKind string

const (
	KindInterface     ClassKind = "Interface"
	KindAbstractClass ClassKind = "Abstract Class"
	KindRegularClass  ClassKind = "Regular Class"
)

// KindOf returns the kind of a declaration. Interface takes priority over abstract.
func KindOf(isInterface, isAbstract bool) ClassKind {
	switch {
	case isInterface:
		return KindInterface
	case isAbstract:
		return KindAbstractClass
	default:
		return KindRegularClass
	}
}

// CodeStats holds line statistics for the analyzed source files.
type CodeStats struct {
	Files      int64 `json:"files"`
	Lines      int64 `json:"lines"`
	Code       int64 `json:"code"`
	Comments   int64 `json:"comments"`
	Blanks     int64 `json:"blanks"`
	Complexity int64 `json:"complexity"`
}

// RepositoryInfo identifies the analyzed repository and its totals.
type RepositoryInfo struct {
	RepoName     string     `json:"repoName"`
	TotalClasses int64      `json:"totalClasses"`
	TotalMethods int64      `json:"totalMethods"`
	License      string     `json:"license,omitempty"`
	CodeStats    *CodeStats `json:"codeStats,omitempty"`
}

// MethodRecord describes one declared method.
type MethodRecord struct {
	Name                 string `json:"name"`
	ContainsLoops        bool   `json:"containsLoops"`
	ContainsConditionals bool   `json:"containsConditionals"`
}

// ClassRecord describes one class or interface declaration.
type ClassRecord struct {
	ClassName string         `json:"className"`
	Type      ClassKind      `json:"type"`
	Methods   []MethodRecord `json:"methods"`
}

// CallEdge is a single call expression found inside a method body.
type CallEdge struct {
	Caller       string `json:"caller"`
	CalledMethod string `json:"calledMethod"`
}

// ControlFlowEntry records a top-level loop or conditional statement.
// Exactly one of LoopType and ConditionalType is set.
type ControlFlowEntry struct {
	Method          string `json:"method"`
	LoopType        string `json:"loopType,omitempty"`
	ConditionalType string `json:"conditionalType,omitempty"`
}

// IsLoop reports whether the entry records a loop statement.
func (e ControlFlowEntry) IsLoop() bool {
	return e.LoopType != ""
}

// Summary holds the type and statement tallies of a run.
// MethodWithLoops and MethodWithConditionals count qualifying top-level
// statements, so a method with two top-level loops contributes two.
type Summary struct {
	AbstractClasses        int64 `json:"abstractClasses"`
	Interfaces             int64 `json:"interfaces"`
	MethodWithLoops        int64 `json:"methodWithLoops"`
	MethodWithConditionals int64 `json:"methodWithConditionals"`
}

// AnalysisData is the payload of a successful report.
type AnalysisData struct {
	RepositoryInfo       RepositoryInfo     `json:"repositoryInfo"`
	ClassDetails         []ClassRecord      `json:"classDetails"`
	MethodCalls          []CallEdge         `json:"methodCalls"`
	LoopsAndConditionals []ControlFlowEntry `json:"loopsAndConditionals"`
	Summary              Summary            `json:"summary"`
}

// Report is the top-level output structure.
type Report struct {
	Status  string        `json:"status"`
	Data    *AnalysisData `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Success wraps data into a success report.
func Success(data *AnalysisData) Report {
	return Report{Status: StatusSuccess, Data: data}
}

// Failure builds an error report carrying the given message.
func Failure(message string) Report {
	return Report{Status: StatusError, Message: message}
}
