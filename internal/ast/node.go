// Package ast defines the immutable, parent-owning AST node set the core
// consumes from an external parser (spec §1, §3.3). Nodes are a closed
// tagged sum modeled as a family of concrete struct types implementing
// small marker interfaces, matched with type switches rather than a
// virtual-dispatch visitor (spec §9 "Dynamic dispatch").
package ast

import "github.com/icarus-lang/icarus/internal/source"

// Node is implemented by every AST node.
type Node interface {
	Range() source.Range
}

// Expr is implemented by nodes that produce a value. Its resolved QualType
// is never stored on the node itself — it lives in the active
// internal/compiler.Context, keyed by the node's pointer identity, because
// the same syntactic node can carry different types across distinct
// generic instantiations (spec §4.2).
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by nodes that perform an action without producing a
// value.
type Stmt interface {
	Node
	stmtNode()
}

// NodeBase carries the one piece of bookkeeping every node needs: its
// source range and a non-owning pointer to its enclosing scope, written by
// Initialize (spec §3.3 "Scope & ownership").
type NodeBase struct {
	SrcRange source.Range
	Scope    *Scope
}

func (n NodeBase) Range() source.Range { return n.SrcRange }
