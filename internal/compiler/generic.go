package compiler

import (
	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// IsGeneric reports whether a ParameterizedExpression must be instantiated
// per call rather than verified once (spec §4.6 "Trigger").
func IsGeneric(pe *ast.ParameterizedExpression) bool {
	return pe.IsGeneric()
}

// BoundValue is one entry of the key described in spec §4.6 "Cache key":
// the tuple of (name, constant_value_buffer, qualtype) for a single
// generic parameter, in declaration order.
type BoundValue struct {
	Name  string
	Bytes []byte
	Qual  types.QualType
}

// InstantiationKey renders a BoundValue tuple into the cache key string
// used by Context.FindSubcontext/Promote.
func InstantiationKey(bound []BoundValue) string {
	names := make([]string, len(bound))
	bytes := make([][]byte, len(bound))
	quals := make([]types.QualType, len(bound))
	for i, b := range bound {
		names[i] = b.Name
		bytes[i] = b.Bytes
		quals[i] = b.Qual
	}
	return BoundParameterKey(names, bytes, quals)
}

// Instantiator drives generic instantiation (spec §4.6). It is handed to
// the TypeVerifier so VerifyType handlers can request an instantiation
// without importing the IR/Evaluator packages directly (those live above
// compiler in the dependency graph).
type Instantiator struct {
	Interner *types.Interner
	// EvaluateConst evaluates expr under ctx and returns its constant
	// storage bytes, driving the Evaluator (spec §4.7.1). Wired in by the
	// caller (internal/interp) to avoid an import cycle.
	EvaluateConst func(ctx *Context, expr ast.Expr) ([]byte, types.QualType, error)
}

// Instantiate implements the cache half of spec §4.6's instantiation
// procedure: given a cache key already computed from the call's bound
// constant arguments (verifier_generic.go does the binding, since only it
// can tell a type-valued const parameter from an ordinary one), look up a
// previous instantiation under owner/key or create one by running body
// against a fresh scratchpad context. body's return value (e.g. a
// synthesized *types.Struct or a concrete *types.FuncType) is what gets
// cached and returned on repeat calls.
func (inst *Instantiator) Instantiate(
	parent *Context,
	owner ast.Node,
	key string,
	body func(child *Context) (types.Type, error),
) (types.Type, *Context, error) {
	if existing, ok := parent.FindSubcontext(owner, key); ok && existing.InstantiationResult != nil {
		return existing.InstantiationResult, existing, nil
	}

	child := parent.NewScratchpad()
	result, err := body(child)
	if err != nil {
		return nil, nil, err
	}
	child.InstantiationResult = result
	parent.Promote(owner, key, child)
	return result, child, nil
}

