package types

// Instantiation is one memoized result of instantiating a generic struct or
// function literal for one distinct tuple of bound constant arguments
// (spec §4.6). Context is stored as `any` (in practice a
// *compiler.Context) to avoid an import cycle between internal/types and
// internal/compiler — the compiler package is the only reader.
type Instantiation struct {
	Key     string // canonical bound-parameter key, see compiler.InstantiationKey
	Result  Type   // concrete Struct or Func produced by this instantiation
	Context any
}

// GenericStruct is the type of a ParameterizedStructLiteral before it has
// been applied to concrete arguments (spec §3.1, §4.6). Identity type, not
// interned.
type GenericStruct struct {
	Name       string
	Params     []GenericParam
	Definition any // the ast.ParameterizedExpression defining it
	cache      map[string]*Instantiation
}

func (g *GenericStruct) Kind() Kind     { return KindGenericStruct }
func (g *GenericStruct) String() string { return g.Name }

// Lookup returns a previously memoized instantiation for key, or nil.
func (g *GenericStruct) Lookup(key string) *Instantiation {
	return g.cache[key]
}

// Memoize records inst under its key. Overwriting an existing key is a
// caller bug (spec §4.6 "equal tuples → same instantiation") but is
// tolerated here (last write wins) since detecting it requires the caller's
// own duplicate-call bookkeeping, not this package's.
func (g *GenericStruct) Memoize(inst *Instantiation) {
	if g.cache == nil {
		g.cache = make(map[string]*Instantiation)
	}
	g.cache[inst.Key] = inst
}

// GenericFunction is the type of a FunctionLiteral or ShortFunctionLiteral
// that takes compile-time parameters, before instantiation.
type GenericFunction struct {
	Name       string
	Params     []GenericParam
	Definition any
	cache      map[string]*Instantiation
}

func (g *GenericFunction) Kind() Kind     { return KindGenericFunction }
func (g *GenericFunction) String() string { return g.Name }

func (g *GenericFunction) Lookup(key string) *Instantiation {
	return g.cache[key]
}

func (g *GenericFunction) Memoize(inst *Instantiation) {
	if g.cache == nil {
		g.cache = make(map[string]*Instantiation)
	}
	g.cache[inst.Key] = inst
}

// GenericParam describes one compile-time parameter of a parameterized
// expression: either a Const value parameter or a dependent-type parameter
// (spec §4.6.1, the `$x` form).
type GenericParam struct {
	Name      string
	Const     bool
	Dependent bool   // true for `$` / `$x` (ArgumentType) parameters
	DependsOn string // name of the parameter `$x` refers to, "" for bare `$`
}
