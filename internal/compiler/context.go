// Package compiler implements the four tightly coupled subsystems at the
// heart of Icarus: the context tree, the work scheduler, overload
// resolution and dispatch-table expansion, and generic instantiation.
package compiler

import (
	"fmt"

	"github.com/icarus-lang/icarus/internal/ast"
	"github.com/icarus-lang/icarus/internal/types"
)

// ConstantValue is the typed-value buffer backing a compile-time constant
// (spec §4.7.1): the raw storage bytes plus whether it has finished being
// written. A second SetConstant while Complete is false signals re-entrant
// evaluation, i.e. a cyclic dependency.
type ConstantValue struct {
	Bytes    []byte
	Complete bool
}

// CallMetadata is the resolved callee information attached to a Call
// expression once overload resolution has run (spec §4.5).
type CallMetadata struct {
	Table *DispatchTable
}

// Context is one node of the tree of per-instantiation verification state
// (spec §4.2). Reads walk toward the root; writes are always local, which
// is what lets a generic instantiation see its caller's bindings without
// polluting the caller's own context.
type Context struct {
	Parent   *Context
	Interner *types.Interner

	qualTypes  map[ast.Expr]types.QualType
	decls      map[*ast.Identifier][]*ast.Declaration
	constants  map[*ast.Declaration]*ConstantValue
	structs    map[ast.Node]*types.Struct
	enums      map[ast.Node]*types.Enum
	flags      map[ast.Node]*types.Flags
	imported   map[*ast.Import]ModuleID
	callMeta   map[ast.Expr]*CallMetadata
	children   map[ast.Node]map[string]*Context
	subcontext bool // true for a scratchpad context not yet wired into Parent.children

	// InstantiationResult holds the synthesized type (a concrete Struct or
	// FuncType) produced by the generic instantiation this context backs,
	// if any (spec §4.6). Only meaningful on a context returned by
	// NewScratchpad/Promote.
	InstantiationResult types.Type
}

// ModuleID identifies an imported module handle (spec §6.1 Importer).
type ModuleID int64

// NewRootContext creates the top-level Context for a single compilation
// unit, with no parent.
func NewRootContext(interner *types.Interner) *Context {
	return newContext(nil, interner)
}

func newContext(parent *Context, interner *types.Interner) *Context {
	return &Context{
		Parent:    parent,
		Interner:  interner,
		qualTypes: make(map[ast.Expr]types.QualType),
		decls:     make(map[*ast.Identifier][]*ast.Declaration),
		constants: make(map[*ast.Declaration]*ConstantValue),
		structs:   make(map[ast.Node]*types.Struct),
		enums:     make(map[ast.Node]*types.Enum),
		flags:     make(map[ast.Node]*types.Flags),
		imported:  make(map[*ast.Import]ModuleID),
		callMeta:  make(map[ast.Expr]*CallMetadata),
		children:  make(map[ast.Node]map[string]*Context),
	}
}

// NewScratchpad creates a child Context not yet wired into c.children
// (spec §4.2 "Scratchpad contexts"), for speculative verification such as
// trying one overload candidate of a generic callee. Call Promote to wire
// it in on success; simply discard it on failure.
func (c *Context) NewScratchpad() *Context {
	child := newContext(c, c.Interner)
	child.subcontext = true
	return child
}

// Promote wires a scratchpad context into the tree under expr, keyed by
// key (the bound-parameter cache key, spec §4.6).
func (c *Context) Promote(expr ast.Node, key string, child *Context) {
	child.subcontext = false
	byKey, ok := c.children[expr]
	if !ok {
		byKey = make(map[string]*Context)
		c.children[expr] = byKey
	}
	byKey[key] = child
}

// FindSubcontext looks up a previously promoted instantiation context.
func (c *Context) FindSubcontext(expr ast.Node, key string) (*Context, bool) {
	byKey, ok := c.children[expr]
	if !ok {
		return nil, false
	}
	child, ok := byKey[key]
	return child, ok
}

// QualTypeOf walks toward the root looking for a recorded QualType for
// expr. The zero QualType (ok=false) means no context in the chain has
// verified expr yet.
func (c *Context) QualTypeOf(expr ast.Expr) (types.QualType, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if qt, ok := cur.qualTypes[expr]; ok {
			return qt, true
		}
	}
	return types.QualType{}, false
}

// SetQualType writes the verified type of expr into this context, local
// only (spec §4.2 "Writes are always local").
func (c *Context) SetQualType(expr ast.Expr, qt types.QualType) {
	c.qualTypes[expr] = qt
}

// ResolveIdentifier returns the declarations bound to id, walking to the
// root if this context hasn't resolved it itself.
func (c *Context) ResolveIdentifier(id *ast.Identifier) ([]*ast.Declaration, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if decls, ok := cur.decls[id]; ok {
			return decls, true
		}
	}
	return nil, false
}

func (c *Context) BindIdentifier(id *ast.Identifier, decls []*ast.Declaration) {
	c.decls[id] = decls
}

// LoadConstant deserializes the bytes previously stored for decl, walking
// to the root. ok is false only if decl has no constant recorded anywhere
// in the chain; an entry still mid-evaluation is returned with ok true, so
// callers check ConstantValue.Complete themselves.
func (c *Context) LoadConstant(decl *ast.Declaration) (*ConstantValue, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if v, ok := cur.constants[decl]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetConstant writes decl's constant buffer locally. Calling it while an
// existing entry for decl is present and incomplete is the re-entrancy
// signature of a cyclic dependency (spec §4.7.1); the caller is expected
// to have already detected that via the scheduler's dependency stack
// before reaching here, so SetConstant itself does not diagnose it.
func (c *Context) SetConstant(decl *ast.Declaration, bytes []byte, complete bool) {
	c.constants[decl] = &ConstantValue{Bytes: bytes, Complete: complete}
}

func (c *Context) StructFor(n ast.Node) (*types.Struct, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if s, ok := cur.structs[n]; ok {
			return s, true
		}
	}
	return nil, false
}

func (c *Context) SetStruct(n ast.Node, s *types.Struct) {
	c.structs[n] = s
}

func (c *Context) EnumFor(n ast.Node) (*types.Enum, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if e, ok := cur.enums[n]; ok {
			return e, true
		}
	}
	return nil, false
}

func (c *Context) SetEnum(n ast.Node, e *types.Enum) {
	c.enums[n] = e
}

func (c *Context) FlagsFor(n ast.Node) (*types.Flags, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if f, ok := cur.flags[n]; ok {
			return f, true
		}
	}
	return nil, false
}

func (c *Context) SetFlags(n ast.Node, f *types.Flags) {
	c.flags[n] = f
}

func (c *Context) ImportedModule(imp *ast.Import) (ModuleID, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if id, ok := cur.imported[imp]; ok {
			return id, true
		}
	}
	return 0, false
}

func (c *Context) SetImportedModule(imp *ast.Import, id ModuleID) {
	c.imported[imp] = id
}

func (c *Context) CallMetadataOf(call ast.Expr) (*CallMetadata, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.callMeta[call]; ok {
			return m, true
		}
	}
	return nil, false
}

func (c *Context) SetCallMetadata(call ast.Expr, m *CallMetadata) {
	c.callMeta[call] = m
}

// BoundParameterKey renders the (name, constant bytes, qualtype) tuple of
// a ParameterizedExpression's bound arguments into the stable string used
// as a generic-instantiation cache key (spec §4.6 "Cache key").
func BoundParameterKey(names []string, values [][]byte, quals []types.QualType) string {
	key := ""
	for i, name := range names {
		key += fmt.Sprintf("%s=%x:%s\x00", name, values[i], quals[i].String())
	}
	return key
}
