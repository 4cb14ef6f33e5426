package compiler

import (
	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// ModuleExports answers argument-dependent lookup: for a type's
// "provenance module", which declarations does it export under a given
// name (spec §4.5 "union in M's exports of that name").
type ModuleExports interface {
	ProvenanceModule(t types.Type) (ModuleID, bool)
	Exports(id ModuleID, name string) []*ast.Declaration
}

// OverloadSet collects every Declaration visible for a call under a given
// name at a given scope, including argument-dependent candidates.
func BuildOverloadSet(scope *ast.Scope, name string, argTypes []types.Type, exports ModuleExports) []*ast.Declaration {
	set := append([]*ast.Declaration(nil), scope.Lookup(name)...)
	if exports == nil {
		return dedupeDecls(set)
	}
	seenModules := make(map[ModuleID]bool)
	for _, t := range argTypes {
		mod, ok := exports.ProvenanceModule(t)
		if !ok || seenModules[mod] {
			continue
		}
		seenModules[mod] = true
		set = append(set, exports.Exports(mod, name)...)
	}
	return dedupeDecls(set)
}

func dedupeDecls(decls []*ast.Declaration) []*ast.Declaration {
	seen := make(map[*ast.Declaration]bool, len(decls))
	out := decls[:0]
	for _, d := range decls {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Binding is a resolved mapping from a call's formal parameters to
// (formal type, actual expression or default) pairs (spec GLOSSARY).
type Binding struct {
	Callee *ast.Declaration
	Params []BoundParam
}

type BoundParam struct {
	Formal  *ast.Declaration
	Type    types.Type
	Arg     ast.Expr // nil if Default is used
	Default ast.Expr
}

// MatchError explains why a single candidate could not be bound; it is
// not itself a diagnostic (failure to match one overload is routine, not
// an error, per spec §4.5 step 2 "Failure here means this overload is
// discarded, not an error").
type MatchError struct {
	Reason string
}

func (e *MatchError) Error() string { return e.Reason }

// MatchArguments implements spec §4.5 step 1: positional args fill the
// leading parameters, named args fill the rest by name, unfilled
// parameters with defaults are defaulted, anything else is a mismatch.
func MatchArguments(formals []*ast.Declaration, args []ast.Argument) ([]BoundParam, error) {
	bound := make([]BoundParam, len(formals))
	filled := make([]bool, len(formals))
	indexOf := make(map[string]int, len(formals))
	for i, f := range formals {
		indexOf[f.Name] = i
		bound[i] = BoundParam{Formal: f}
	}

	pos := 0
	for _, a := range args {
		if a.Name == "" {
			for pos < len(formals) && filled[pos] {
				pos++
			}
			if pos >= len(formals) {
				return nil, &MatchError{Reason: "too many positional arguments"}
			}
			bound[pos].Arg = a.Value
			filled[pos] = true
			pos++
			continue
		}
		idx, ok := indexOf[a.Name]
		if !ok {
			return nil, &MatchError{Reason: "unknown named argument: " + a.Name}
		}
		if filled[idx] {
			return nil, &MatchError{Reason: "argument already bound: " + a.Name}
		}
		bound[idx].Arg = a.Value
		filled[idx] = true
	}

	for i, f := range formals {
		if filled[i] {
			continue
		}
		if f.Default != nil {
			bound[i].Default = f.Default
			continue
		}
		if f.HasNoDefault() {
			return nil, &MatchError{Reason: "missing argument: " + f.Name}
		}
	}
	return bound, nil
}
