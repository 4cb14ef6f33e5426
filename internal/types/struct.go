package types

// Completeness tracks how much of a Struct's definition has been resolved
// (spec §4.3). Structs move forward through these states only; there is no
// regression.
type Completeness int

const (
	// Incomplete: only the identity exists. Used for recursive references
	// like `List ::= struct { next: *List }` — a pointer to an Incomplete
	// struct is always legal to form (spec §4.3, §9 "Cyclic graphs").
	Incomplete Completeness = iota
	// DataComplete: all fields have resolved QualTypes, but not yet their
	// initial-value byte buffers.
	DataComplete
	// Complete: field types, default-value buffers, alignment, and size
	// are all computed.
	Complete
)

func (c Completeness) String() string {
	switch c {
	case Incomplete:
		return "Incomplete"
	case DataComplete:
		return "DataComplete"
	case Complete:
		return "Complete"
	default:
		return "Completeness(?)"
	}
}

// Field is one member of a Struct.
type Field struct {
	Name         string
	Type         Type
	InitialValue []byte // nil until the owning struct reaches Complete
	Hashtags     []string
}

// HasHashtag reports whether tag (e.g. "Export") is attached to the field.
func (f Field) HasHashtag(tag string) bool {
	for _, h := range f.Hashtags {
		if h == tag {
			return true
		}
	}
	return false
}

// Struct is an identity type: every call to a struct literal's
// constructor produces a distinct handle, not hash-consed (spec §3.1).
// It is mutable only through the completion protocol below.
type Struct struct {
	Name         string
	Fields       []Field
	State        Completeness
	OwningModule ModuleID
	Align        int64
	Size         int64

	// Definition is the AST node (an ast.StructLiteral in practice) that
	// defines this struct. Held as `any` to avoid a types<->ast import
	// cycle: ast.Expression implementations carry *types.Struct, and
	// *types.Struct needs to point back at its defining literal so the
	// Context's struct/reverse-struct maps (spec §4.2) can be built without
	// a second lookup table.
	Definition any
}

func (s *Struct) Kind() Kind { return KindStruct }
func (s *Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	return "struct{...}"
}

// NewIncompleteStruct creates a Struct identity in the Incomplete state,
// before body verification — the one operation that lets a recursive
// reference like `*S` type-check before `S` itself is done (spec §4.3).
func NewIncompleteStruct(name string, owner ModuleID, def any) *Struct {
	return &Struct{Name: name, State: Incomplete, OwningModule: owner, Definition: def}
}

// SetDataComplete transitions s to DataComplete once every field has a
// resolved type. fields must already carry resolved Type values (their
// InitialValue stays nil).
func (s *Struct) SetDataComplete(fields []Field) {
	s.Fields = fields
	s.State = DataComplete
}

// SetFieldInitialValues fills in each field's default-value byte buffer.
// Does not yet advance to Complete — CompleteStruct (layout) is a separate
// step so that a dependent needing only DataComplete never blocks on
// layout (spec §4.3).
func (s *Struct) SetFieldInitialValues(values map[string][]byte) {
	for i := range s.Fields {
		if v, ok := values[s.Fields[i].Name]; ok {
			s.Fields[i].InitialValue = v
		}
	}
}

// CompleteLayout finalizes alignment and size per arch (spec §4.3
// "CompleteStruct"): align-forward each field, trailing pad to the max
// field alignment.
func (s *Struct) CompleteLayout(arch Architecture, fieldSize func(Type) int64, fieldAlign func(Type) int64) {
	var offset, maxAlign int64 = 0, 1
	for i := range s.Fields {
		align := fieldAlign(s.Fields[i].Type)
		if align > arch.MaxAlign {
			align = arch.MaxAlign
		}
		if align < 1 {
			align = 1
		}
		offset = alignForward(offset, align)
		offset += fieldSize(s.Fields[i].Type)
		if align > maxAlign {
			maxAlign = align
		}
	}
	s.Align = maxAlign
	s.Size = alignForward(offset, maxAlign)
	s.State = Complete
}

func alignForward(offset, align int64) int64 {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// FieldByName returns the field named name and true, or the zero Field and
// false if no such field exists.
func (s *Struct) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ModuleID identifies an owning module without this package depending on
// the module-resolution package (kept as an opaque integer per spec §6.1,
// which treats module identity as an external collaborator's concern).
type ModuleID int64

// Architecture parameterizes struct layout (spec §4.3 "per the host
// architecture rules", generalized per SPEC_FULL.md's "Architecture-
// parameterized struct layout" supplement).
type Architecture struct {
	PointerSize int64
	MaxAlign    int64
}

// DefaultArchitecture matches a common 64-bit target: 8-byte pointers,
// 8-byte maximum alignment.
var DefaultArchitecture = Architecture{PointerSize: 8, MaxAlign: 8}
