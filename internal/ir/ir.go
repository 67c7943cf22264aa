// Package ir defines the syntax-layer stand-ins that an external
// parser hands to port elaboration: port headers, declarators, and
// instance connection syntax. Elaboration only ever reads these
// structures; it never constructs or mutates them.
package ir

import "github.com/svlang/svports/internal/source"

// DirectionToken is the direction keyword spelled in source, if any.
type DirectionToken int

const (
	DirNone DirectionToken = iota
	DirIn
	DirOut
	DirInOut
	DirRef
)

// TypeSyntax is an opaque handle to a data-type syntax node; the
// external type binder resolves it into an hwtypes.Type.
type TypeSyntax struct {
	// Name is the spelling, used both for diagnostics and, when it
	// isn't a known type or net-type keyword, for the "is this an
	// interface definition or an error?" identifier lookup in the
	// ANSI builder's implicit-port classification.
	Name string
	// Implicit is true for a syntax-absent type (the bare identifier
	// case a header must classify).
	Implicit bool
}

// ExpressionSyntax is an opaque handle to an expression the external
// binder resolves; elaboration never evaluates it, only threads it
// through to Port.Initializer or a PortConnection's expr.
type ExpressionSyntax struct {
	Span source.Span
	Text string
}

// NetTypeToken names an explicit net-type keyword ("wire", "tri",
// ...), or empty if the header carried none.
type NetTypeToken string

// AnsiPortHeader is the header one or more ANSI port declarators
// share: direction, net-type and var keywords, data type, or an
// interface port spelling.
type AnsiPortHeader struct {
	Span source.Span

	// Direction is the explicit direction keyword, or DirNone if the
	// header omitted it (subject to inheritance).
	Direction DirectionToken

	// NetType is the explicit net-type keyword, if any.
	NetType NetTypeToken

	// VarKeyword is true if `var` appeared explicitly.
	VarKeyword bool

	// Type is the declared type syntax, or a zero TypeSyntax with
	// Implicit=true if the header carried none.
	Type TypeSyntax

	// InterfaceName is set when the header spells an interface port
	// header ("iface_name.modport_name" or "interface ident"); empty
	// otherwise.
	InterfaceName string
	// ModportName is the modport named after the dot, if any.
	ModportName string
	// IsGenericInterface is true for a bare `interface` keyword
	// header with no named interface (matches any interface).
	IsGenericInterface bool

	// IsBareVariablePortHeader is true for a header with no
	// direction, no net type, no var keyword, and no explicit type:
	// the "full inheritance" case in the ANSI builder.
	IsBareVariablePortHeader bool
}

// AnsiPortDeclaration is one ANSI port list entry: a header plus one
// or more declarators sharing it.
type AnsiPortDeclaration struct {
	Header      AnsiPortHeader
	Declarators []Declarator
}

// Declarator is a single declared name within a port declaration,
// carrying its own optional unpacked dimensions and initializer.
//
// An explicit ANSI port ("`.a(b)`" in the port list, port_identifier
// distinct from the internal reference it connects to) sets
// ExternalName and ExternalLoc; Name then holds the internal
// identifier written inside the parens rather than the exposed port
// name, mirroring how a non-ANSI explicit entry keeps the two apart.
type Declarator struct {
	Name         string
	Span         source.Span
	ExternalName string
	ExternalLoc  source.Span
	Dimensions   []ConstantRange
	Initializer  *ExpressionSyntax
}

// ConstantRange is a packed/unpacked dimension bound, e.g. [7:0] or
// [0:7]; Left/Right preserve declaration order so IsLittleEndian can
// tell [7:0] from [0:7].
type ConstantRange struct {
	Left  int
	Right int
}

// IsLittleEndian reports whether the range counts up (Left < Right),
// the convention C6's array-slicing needs to know which side to
// increment from when translating a flat connection index.
func (r ConstantRange) IsLittleEndian() bool {
	return r.Left < r.Right
}

// Width returns the number of elements spanned by the range.
func (r ConstantRange) Width() int {
	if r.Left >= r.Right {
		return r.Left - r.Right + 1
	}
	return r.Right - r.Left + 1
}

// TranslateIndex maps a zero-based logical index (0 = first declared
// element) to the concrete bound value within this range, flipping
// direction for a big-endian range the way the connection resolver's
// per-instance array slicing must.
func (r ConstantRange) TranslateIndex(i int) int {
	if r.IsLittleEndian() {
		return r.Left + i
	}
	return r.Left - i
}

// AnsiPortList is a complete ANSI port list plus any leftover
// non-ANSI-style declarations found in the body (the
// PortDeclInANSIModule case).
type AnsiPortList struct {
	Ports              []AnsiPortDeclaration
	StrayBodyPortDecls []source.Span
}

// IODeclSyntax is one non-ANSI `input/output/inout/ref [type]
// name[, name...];` body declaration.
type IODeclSyntax struct {
	Span       source.Span
	Direction  DirectionToken
	NetType    NetTypeToken
	VarKeyword bool
	ConstKeyword bool
	Type        TypeSyntax
	Declarators []Declarator
}

// PortListEntryKind distinguishes the five non-ANSI port list entry
// shapes: implicit reference, explicit `.x(...)`, empty, concatenation,
// and a `.*` wildcard port list.
type PortListEntryKind int

const (
	PortListImplicit PortListEntryKind = iota
	PortListExplicit
	PortListEmpty
	PortListConcatenation
	PortListWildcardList
)

// PortListEntry is one entry in a non-ANSI module's parenthesized port
// list: `.name`, `.name(expr)`, `name` (bare reference), a `{a, b}`
// concatenation, or `()`.
type PortListEntry struct {
	Kind         PortListEntryKind
	Span         source.Span
	Name         string
	Expr         *ExpressionSyntax
	Concatenated []string // referenced names, in source order, for PortListConcatenation
}

// NonAnsiPortList is a complete non-ANSI module: the parenthesized
// name/concatenation list plus the body's IO declarations.
type NonAnsiPortList struct {
	Entries  []PortListEntry
	IODecls  []IODeclSyntax
}

// ConnectionKind distinguishes ordered, named, and wildcard
// instantiation port connections.
type ConnectionKind int

const (
	ConnOrdered ConnectionKind = iota
	ConnNamed
	ConnWildcard
)

// ConnectionSyntax is one `.name(expr)`, `.name`, `.*`, or bare
// ordered-expression connection at an instantiation site.
type ConnectionSyntax struct {
	Kind Kind
	Span source.Span
	Name string
	Expr *ExpressionSyntax
	// HasParens distinguishes `.name` (no parens, an implicit
	// reference to a same-named symbol in the enclosing scope) from
	// `.name()` (empty parens, expr is always absent regardless of any
	// default).
	HasParens bool
}

// Kind re-exports ConnectionKind so ConnectionSyntax.Kind reads
// naturally; kept as a distinct name to avoid a self-referential field.
type Kind = ConnectionKind

// InstanceArrayDim is one dimension of an instance array the
// connection site is nested inside, outermost first.
type InstanceArrayDim struct {
	Range ConstantRange
}

// InstanceSyntax describes one instantiation site: the definition
// name, its connections, and the instance-array dimensions (if any)
// the site is nested inside.
type InstanceSyntax struct {
	Span        source.Span
	DefName     string
	Connections []ConnectionSyntax
	ArrayDims   []InstanceArrayDim
}
