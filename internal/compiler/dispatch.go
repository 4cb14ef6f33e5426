package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/types"
)

// DispatchTable maps a concrete argument-type combination at a call site
// onto exactly one Binding (spec §4.5, GLOSSARY "Dispatch table"). Single-
// entry tables (the common case, no variant-typed arguments) carry one
// Combination with a nil Types slice.
type DispatchTable struct {
	VariantArgs  []int // indices into the call's argument list that are Variant-typed
	Combinations []Combination
}

// Combination is one resolved row: a concrete type for each entry of
// VariantArgs, and the Binding that handles it.
type Combination struct {
	Types   []types.Type
	Binding *Binding
}

// SingleBinding reports whether the table never needs a runtime
// comparator chain (spec §4.5 "If the table has a single Binding... skip
// the comparator chain").
func (t *DispatchTable) SingleBinding() bool {
	return len(t.VariantArgs) == 0 && len(t.Combinations) == 1
}

// BuildDispatchTable expands the Cartesian product of variant-typed
// argument members against candidate bindings (spec §4.5 "Dispatch table
// expansion"). argTypes is the concrete (possibly Variant) type computed
// for each call argument, in order; candidates is the set of Bindings
// already produced by MatchArguments+Meet filtering for each overload
// that accepted the call shape.
func BuildDispatchTable(interner *types.Interner, argTypes []types.Type, candidates []*Binding) (*DispatchTable, error) {
	var variantArgs []int
	memberSets := make([][]types.Type, len(argTypes))
	for i, t := range argTypes {
		if v, ok := t.(*types.VariantType); ok {
			variantArgs = append(variantArgs, i)
			memberSets[i] = v.Members
		} else {
			memberSets[i] = []types.Type{t}
		}
	}

	if len(variantArgs) == 0 {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("compiler: no candidate accepts the call")
		}
		if len(candidates) > 1 {
			return nil, fmt.Errorf("compiler: ambiguous call, %d candidates match", len(candidates))
		}
		return &DispatchTable{Combinations: []Combination{{Binding: candidates[0]}}}, nil
	}

	combos := cartesian(memberSets, variantArgs)
	table := &DispatchTable{VariantArgs: variantArgs}
	for _, combo := range combos {
		var matches []*Binding
		for _, cand := range candidates {
			if bindingAccepts(interner, cand, variantArgs, combo) {
				matches = append(matches, cand)
			}
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("compiler: uncovered combination %v", combo)
		case 1:
			table.Combinations = append(table.Combinations, Combination{Types: combo, Binding: matches[0]})
		default:
			return nil, fmt.Errorf("compiler: ambiguous combination %v, %d bindings match", combo, len(matches))
		}
	}
	return table, nil
}

func bindingAccepts(interner *types.Interner, b *Binding, variantArgs []int, combo []types.Type) bool {
	for i, argIdx := range variantArgs {
		if argIdx >= len(b.Params) {
			return false
		}
		if interner.Meet(combo[i], b.Params[argIdx].Type) == nil {
			return false
		}
	}
	return true
}

// cartesian produces the Cartesian product across only the variant-typed
// argument positions, preserving order.
func cartesian(memberSets [][]types.Type, variantArgs []int) [][]types.Type {
	if len(variantArgs) == 0 {
		return nil
	}
	result := [][]types.Type{{}}
	for _, idx := range variantArgs {
		var next [][]types.Type
		for _, prefix := range result {
			for _, m := range memberSets[idx] {
				combo := append(append([]types.Type(nil), prefix...), m)
				next = append(next, combo)
			}
		}
		result = next
	}
	return result
}
