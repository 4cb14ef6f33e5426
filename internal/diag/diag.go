// Package diag implements the DiagnosticConsumer contract of spec §6.2: the
// core emits {category, name, payload} triples and never formats them.
// Pretty-printing, filtering, and rendering are all ambient/external
// concerns layered on top here (cmd/icarusc, tests).
package diag

import "github.com/icarus-lang/icarus/internal/source"

// Severity distinguishes diagnostics that poison compilation from ones that
// are merely informative (spec §7: "Recoverable locally (no propagation):
// literal escape-sequence errors, stylistic warnings").
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is the wire-format-agnostic payload the core hands to a
// Consumer (spec §6.2). It must be consumable without access to source
// text, so it carries every SourceRange it needs.
type Diagnostic struct {
	Category string
	Name     string
	Severity Severity
	Message  string // a short human-oriented summary; pretty-printing may ignore it
	Ranges   []source.Range
	Payload  map[string]any
}

// Stable category/name identifiers test suites match on (spec §6.2).
const (
	CategoryTypeError    = "type-error"
	CategoryValueCatErr  = "value-category-error"
	CategoryValueError   = "value-error"
	CategoryPatternError = "pattern-error"
)

const (
	NameUndeclaredIdentifier        = "undeclared-identifier"
	NameNotAType                    = "not-a-type"
	NameInvalidCast                 = "invalid-cast"
	NameCyclicDependency            = "cyclic-dependency"
	NameImmovableType               = "immovable-type"
	NameUncopyableType              = "uncopyable-type"
	NameDeclarationOutOfOrder       = "declaration-out-of-order"
	NameUncapturedIdentifier        = "uncaptured-identifier"
	NameNonCallableInOverloadSet    = "non-callable-in-overload-set"
	NameDereferencingNonPointer     = "dereferencing-non-pointer"
	NameNegatingUnsignedInteger     = "negating-unsigned-integer"
	NameInvalidUnaryOperatorCall    = "invalid-unary-operator-call"
	NameInvalidUnaryOperatorOverload = "invalid-unary-operator-overload"
	NameUnexpandedUnaryOperatorArg  = "unexpanded-unary-operator-argument"
	NameAssigningToConstant         = "assigning-to-constant"
	NameNonAddressableExpression    = "non-addressable-expression"
	NameNonConstantImport           = "non-constant-import"
	NameInvalidImport               = "invalid-import"
	NamePatternMatchingFailed       = "pattern-matching-failed"
	NamePatternTypeMismatch         = "pattern-type-mismatch"
	NameMissingArgument             = "missing-argument"
	NameUnknownNamedArgument        = "unknown-named-argument"
	NameUncoveredCombination        = "uncovered-combination"
	NameAmbiguousDispatch           = "ambiguous-dispatch"
)

// Consumer is the interface the core calls, never implements directly
// (spec §6.2).
type Consumer interface {
	Consume(Diagnostic)
}
