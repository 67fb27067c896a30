package analyzer

import (
	"sync"
	"sync/atomic"

	"github.com/dsablic/reposcope/internal/javaparse"
	"github.com/dsablic/reposcope/internal/model"
)

// run holds the counters and lists of a single analysis. A new run is
// created for every call, so repeated analyses never accumulate.
type run struct {
	interfaces      atomic.Int64
	abstractClasses atomic.Int64
	totalClasses    atomic.Int64
	totalMethods    atomic.Int64
	loops           atomic.Int64
	conditionals    atomic.Int64

	mu      sync.Mutex
	classes []model.ClassRecord
	calls   []model.CallEdge
	flow    []model.ControlFlowEntry
}

func newRun() *run {
	return &run{
		classes: []model.ClassRecord{},
		calls:   []model.CallEdge{},
		flow:    []model.ControlFlowEntry{},
	}
}

// visitType records one class or interface declaration. The class counter
// is bumped only after the record has been appended.
func (r *run) visitType(decl javaparse.TypeDecl) {
	record := model.ClassRecord{
		ClassName: decl.Name,
		Type:      model.KindOf(decl.IsInterface(), decl.IsAbstract()),
		Methods:   []model.MethodRecord{},
	}

	if decl.IsInterface() {
		r.interfaces.Add(1)
	}
	if decl.IsAbstract() {
		r.abstractClasses.Add(1)
	}

	for _, method := range decl.Methods {
		record.Methods = append(record.Methods, r.analyzeMethod(method))
		r.totalMethods.Add(1)
	}

	r.mu.Lock()
	r.classes = append(r.classes, record)
	r.mu.Unlock()
	r.totalClasses.Add(1)
}

// analyzeMethod inspects only the direct statements of the method body.
// Loops and conditionals nested in other statements are not classified,
// but calls are collected from the whole statement subtree.
func (r *run) analyzeMethod(method javaparse.MethodDecl) model.MethodRecord {
	record := model.MethodRecord{Name: method.Name}

	var calls []model.CallEdge
	var flow []model.ControlFlowEntry
	for _, stmt := range method.Body {
		if stmt.IsFor() || stmt.IsWhile() {
			record.ContainsLoops = true
			r.loops.Add(1)
			flow = append(flow, model.ControlFlowEntry{Method: method.Name, LoopType: stmt.Text})
		}
		if stmt.IsIf() {
			record.ContainsConditionals = true
			r.conditionals.Add(1)
			flow = append(flow, model.ControlFlowEntry{Method: method.Name, ConditionalType: stmt.Text})
		}
		for _, callee := range stmt.Calls {
			calls = append(calls, model.CallEdge{Caller: method.Name, CalledMethod: callee})
		}
	}

	if len(calls) > 0 || len(flow) > 0 {
		r.mu.Lock()
		r.calls = append(r.calls, calls...)
		r.flow = append(r.flow, flow...)
		r.mu.Unlock()
	}
	return record
}

// data snapshots the run into the report payload.
func (r *run) data(repoName string) *model.AnalysisData {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &model.AnalysisData{
		RepositoryInfo: model.RepositoryInfo{
			RepoName:     repoName,
			TotalClasses: r.totalClasses.Load(),
			TotalMethods: r.totalMethods.Load(),
		},
		ClassDetails:         r.classes,
		MethodCalls:          r.calls,
		LoopsAndConditionals: r.flow,
		Summary: model.Summary{
			AbstractClasses:        r.abstractClasses.Load(),
			Interfaces:             r.interfaces.Load(),
			MethodWithLoops:        r.loops.Load(),
			MethodWithConditionals: r.conditionals.Load(),
		},
	}
}
