package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/diag"
)

// Kind enumerates the verification/completion/emission work item kinds
// the scheduler drives (spec §4.4).
type Kind int

const (
	VerifyType Kind = iota
	VerifyEnumBody
	VerifyFunctionBody
	VerifyStructBody
	CompleteStructData
	CompleteStruct
	CompleteEnum
	EmitScopeBody
	EmitFunctionBody
	EmitShortFunctionBody
)

func (k Kind) String() string {
	switch k {
	case VerifyType:
		return "VerifyType"
	case VerifyEnumBody:
		return "VerifyEnumBody"
	case VerifyFunctionBody:
		return "VerifyFunctionBody"
	case VerifyStructBody:
		return "VerifyStructBody"
	case CompleteStructData:
		return "CompleteStructData"
	case CompleteStruct:
		return "CompleteStruct"
	case CompleteEnum:
		return "CompleteEnum"
	case EmitScopeBody:
		return "EmitScopeBody"
	case EmitFunctionBody:
		return "EmitFunctionBody"
	case EmitShortFunctionBody:
		return "EmitShortFunctionBody"
	default:
		return "Kind(?)"
	}
}

// Item identifies one unit of deferrable compiler work (spec GLOSSARY
// "Work item"): a (kind, AST node, context) triple.
type Item struct {
	Kind Kind
	Node ast.Node
	Ctx  *Context
}

// Handler performs the work named by an Item once its prerequisites have
// all run. It returns only an error; a handler that discovers further
// work enqueues it itself via Scheduler.Enqueue.
type Handler func(g *Scheduler, item Item) error

// Scheduler is the fixpoint engine described in spec §4.4: a queue of
// work items with prerequisite sets, completion memoization, and a
// cyclic-dependency tracker.
type Scheduler struct {
	handlers map[Kind]Handler
	memo     map[Item]bool
	queue    []queued
	consumer diag.Consumer

	// depStack is the per-scheduler stack of identifiers currently being
	// verified, used for cyclic-dependency detection (spec §4.4).
	depStack []string
	onStack  map[string]int
}

type queued struct {
	item         Item
	prereqs      []Item
	prereqsNames []string // for cycle diagnostics when the prereq is an identifier lookup
}

func NewScheduler(consumer diag.Consumer) *Scheduler {
	return &Scheduler{
		handlers: make(map[Kind]Handler),
		memo:     make(map[Item]bool),
		onStack:  make(map[string]int),
		consumer: consumer,
	}
}

// RegisterHandler installs the handler that runs for work items of kind k.
func (s *Scheduler) RegisterHandler(k Kind, h Handler) {
	s.handlers[k] = h
}

// Enqueue adds item to the queue, to run after prereqs (spec §4.4 API
// "enqueue(item, prerequisites)").
func (s *Scheduler) Enqueue(item Item, prereqs ...Item) {
	s.queue = append(s.queue, queued{item: item, prereqs: prereqs})
}

// Complete drains the queue, running execute(item) on each entry in
// order (spec §4.4 "complete() (drain queue)"). Items enqueued by a
// handler while draining are appended and processed in the same pass.
func (s *Scheduler) Complete() error {
	for i := 0; i < len(s.queue); i++ {
		q := s.queue[i]
		for _, p := range q.prereqs {
			if err := s.Execute(p); err != nil {
				return err
			}
		}
		if err := s.Execute(q.item); err != nil {
			return err
		}
	}
	s.queue = nil
	return nil
}

// Execute runs item's handler once, deduplicating via the memo set
// (already-memoized items are no-ops). It does not run prerequisites:
// Complete runs the ones recorded by Enqueue just before their item, and
// the prerequisites of a prerequisite are not followed.
func (s *Scheduler) Execute(item Item) error {
	if s.memo[item] {
		return nil
	}
	h, ok := s.handlers[item.Kind]
	if !ok {
		return fmt.Errorf("compiler: no handler registered for %s", item.Kind)
	}
	s.memo[item] = true
	return h(s, item)
}

// PushDependency pushes name onto the cyclic-dependency stack before
// verifying an identifier lookup. If name is already on the stack, it
// reports the cycle (every identifier from the first occurrence to the
// top, in order) to the consumer and returns false so the caller can
// poison the relevant declarations and avoid infinite recursion.
//
// The returned release func must be called exactly once, even along an
// early-return diagnostic path, to keep the stack balanced (spec §5
// "Scoped acquisitions").
func (s *Scheduler) PushDependency(name string) (release func(), ok bool) {
	if idx, found := s.onStack[name]; found {
		cycle := append([]string(nil), s.depStack[idx:]...)
		cycle = append(cycle, name)
		s.consumer.Consume(diag.Diagnostic{
			Category: diag.CategoryTypeError,
			Name:     diag.NameCyclicDependency,
			Severity: diag.SeverityError,
			Message:  fmt.Sprintf("cyclic dependency: %v", cycle),
			Payload:  map[string]any{"cycle": cycle},
		})
		return func() {}, false
	}
	s.onStack[name] = len(s.depStack)
	s.depStack = append(s.depStack, name)
	depth := len(s.depStack)
	return func() {
		if len(s.depStack) != depth {
			// mismatched push/pop would silently corrupt cycle detection
			panic("compiler: dependency stack frame released out of order")
		}
		delete(s.onStack, name)
		s.depStack = s.depStack[:depth-1]
	}, true
}

// Consumer exposes the scheduler's diagnostic sink so handlers can report
// directly.
func (s *Scheduler) Consumer() diag.Consumer {
	return s.consumer
}
