// Package symtab defines the scope, lookup, and definition-registry
// collaborators that port elaboration consumes but never implements
// itself, plus BasicScope, a reference in-memory implementation used
// by tests and the demo command.
package symtab

import (
	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/source"
)

// SymbolKind distinguishes the internal symbol kinds elaboration
// invariants care about.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindNet
	KindVariable
	KindInstance
	KindModport
	KindDefinition
)

// Symbol is any named entity a Scope can hold: a net, a variable, a
// module/interface instance, a modport, or a definition.
type Symbol interface {
	Name() string
	Kind() SymbolKind
	Span() source.Span
	Type() hwtypes.Type
}

// LookupFlags modifies Lookup.Unqualified resolution, mirroring the
// external name-lookup subsystem's flag bits.
type LookupFlags int

const (
	LookupNone LookupFlags = 0
	// LookupTypeOnly restricts resolution to type names. No caller in
	// this module passes it.
	LookupTypeOnly LookupFlags = 1 << iota
	// LookupDisallowWildcardImport suppresses resolution through a
	// wildcard package import, used for provisional/implicit lookups
	// that must not silently reach across a package boundary.
	LookupDisallowWildcardImport
)

// Lookup is the external name-resolution collaborator: given a scope
// and a bare identifier, find what it refers to.
type Lookup interface {
	// Unqualified resolves a single identifier (the connection
	// resolver's implicit `.name`/`.*` lookups and its interface
	// connection lookup).
	Unqualified(scope Scope, name string, flags LookupFlags) Symbol
}

// DefinitionKind distinguishes the module/interface/program
// definitions elaboration can bind an instance or interface port to.
type DefinitionKind int

const (
	DefinitionModule DefinitionKind = iota
	DefinitionInterface
	DefinitionProgram
)

// Definition describes a module/interface/program definition as the
// external definition registry would return it.
type Definition struct {
	Kind     DefinitionKind
	Name     string
	Span     source.Span
	Modports map[string]source.Span
}

// HasModport reports whether this definition declares the named
// modport.
func (d *Definition) HasModport(name string) bool {
	_, ok := d.Modports[name]
	return ok
}

// Registry is the external definition-lookup collaborator.
type Registry interface {
	// GetDefinition resolves a definition by name, or reports nil if
	// none exists.
	GetDefinition(name string) *Definition
}

// Scope is the external scope collaborator: name resolution root,
// diagnostic sink, and default-net-type source.
type Scope interface {
	// Find resolves a direct member of this scope only (no outward
	// walk), used by the non-ANSI indexing phase to check for an
	// existing declaration in the same port list.
	Find(name string) Symbol
	// Diagnostics returns a diagnostic bag scoped to this
	// compilation unit, allowing every phase to report through the
	// same collaborator the external front-end would provide.
	Diagnostics() *diag.Bag
	// DefaultNetType returns the net type new implicit nets should
	// take on, or hwtypes.Error if none has been established
	// (`` `default_nettype none ``).
	DefaultNetType() hwtypes.Type
	// Registry exposes the module/interface definition registry
	// reachable from this scope.
	Registry() Registry
}

// BasicScope is a minimal concrete Scope/Lookup/Registry
// implementation backed by plain maps, used by tests and the demo
// command in place of a real elaboration front-end.
type BasicScope struct {
	members    map[string]Symbol
	defs       map[string]*Definition
	defaultNet hwtypes.Type
	diags      *diag.Bag
}

// NewBasicScope creates an empty scope reporting through bag, with
// "wire" as the implicit default net type.
func NewBasicScope(bag *diag.Bag) *BasicScope {
	return &BasicScope{
		members:    make(map[string]Symbol),
		defs:       make(map[string]*Definition),
		defaultNet: hwtypes.NewLogic(1),
		diags:      bag,
	}
}

func (s *BasicScope) Find(name string) Symbol { return s.members[name] }
func (s *BasicScope) Diagnostics() *diag.Bag  { return s.diags }
func (s *BasicScope) DefaultNetType() hwtypes.Type {
	return s.defaultNet
}
func (s *BasicScope) Registry() Registry { return s }

// SetDefaultNetType overrides the scope's implicit net type; pass
// hwtypes.Error to model a `` `default_nettype none `` block.
func (s *BasicScope) SetDefaultNetType(t hwtypes.Type) {
	s.defaultNet = t
}

// Define adds sym as a direct member of this scope.
func (s *BasicScope) Define(sym Symbol) {
	s.members[sym.Name()] = sym
}

// DefineDefinition registers a module/interface/program definition.
func (s *BasicScope) DefineDefinition(d *Definition) {
	s.defs[d.Name] = d
}

func (s *BasicScope) GetDefinition(name string) *Definition {
	return s.defs[name]
}

// Unqualified implements Lookup directly against this scope's
// members; BasicScope is its own Lookup for simplicity.
func (s *BasicScope) Unqualified(scope Scope, name string, _ LookupFlags) Symbol {
	if bs, ok := scope.(*BasicScope); ok {
		return bs.members[name]
	}
	return scope.Find(name)
}

// plainSymbol is the concrete Symbol BasicScope stores.
type plainSymbol struct {
	name string
	kind SymbolKind
	span source.Span
	typ  hwtypes.Type
}

func (p *plainSymbol) Name() string          { return p.name }
func (p *plainSymbol) Kind() SymbolKind      { return p.kind }
func (p *plainSymbol) Span() source.Span     { return p.span }
func (p *plainSymbol) Type() hwtypes.Type    { return p.typ }

// NewSymbol constructs a plain Symbol suitable for BasicScope.Define.
func NewSymbol(name string, kind SymbolKind, span source.Span, typ hwtypes.Type) Symbol {
	return &plainSymbol{name: name, kind: kind, span: span, typ: typ}
}
