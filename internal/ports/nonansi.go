package ports

import (
	"log/slog"

	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/direction"
	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symbols"
	"github.com/svlang/svports/internal/symtab"
)

// PortInfo is the non-ANSI builder's scratch record for one declared
// name, tracked between the indexing phase (which walks the body's IO
// declarations) and the materialization phase (which walks the
// parenthesized port list and consumes each PortInfo at most once).
type PortInfo struct {
	Name              string
	Span              source.Span
	Attributes        []symbols.Attribute
	InternalSymbol    symtab.Symbol
	InterfaceDefinition *symtab.Definition
	Modport           string
	Direction         symbols.Direction
	HasDirection      bool
	Type              hwtypes.Type
	Initializer       *ir.ExpressionSyntax
	Used              bool
	IsInterface       bool
}

// nonAnsiBuilder holds the indexing-phase state: the name→PortInfo map
// and the diagnostic/logging collaborators shared by both phases.
type nonAnsiBuilder struct {
	scope  symtab.Scope
	lookup symtab.Lookup
	cfg    diag.Config
	log    source.Logger

	byName map[string]*PortInfo
	order  []string
}

// BuildNonAnsi elaborates a non-ANSI module's port list (C4): first
// indexing the body's IO declarations into PortInfo records, then
// materializing the parenthesized port-list entries against them.
func BuildNonAnsi(list *ir.NonAnsiPortList, scope symtab.Scope, lookup symtab.Lookup, cfg diag.Config, logger *slog.Logger) []symbols.Element {
	b := &nonAnsiBuilder{
		scope:  scope,
		lookup: lookup,
		cfg:    cfg,
		log:    source.Logger{L: logger},
		byName: make(map[string]*PortInfo),
	}
	b.index(list.IODecls)

	out := b.materialize(list.Entries)
	b.finalize()
	return out
}

// index walks the body's IO declarations, building one PortInfo per
// declared name, reporting Redefinition for a duplicate declarator and
// ConstPortNotAllowed for a const-qualified declaration.
func (b *nonAnsiBuilder) index(decls []ir.IODeclSyntax) {
	for _, decl := range decls {
		if decl.ConstKeyword {
			b.scope.Diagnostics().Add(diag.SeverityError, diag.CodeConstPortNotAllowed, decl.Span)
		}
		for _, d := range decl.Declarators {
			b.handleIODecl(decl, d)
		}
	}
}

func (b *nonAnsiBuilder) handleIODecl(decl ir.IODeclSyntax, d ir.Declarator) {
	if existing, ok := b.byName[d.Name]; ok {
		diagnostic := b.scope.Diagnostics().Add(diag.SeverityError, diag.CodeRedefinition, d.Span).Arg(d.Name)
		diagnostic.AddNote(diag.CodeRedefinition, existing.Span, "previous declaration")
		return
	}

	info := &PortInfo{Name: d.Name, Span: d.Span}
	b.byName[d.Name] = info
	b.order = append(b.order, d.Name)

	if decl.Direction != ir.DirNone {
		info.Direction = direction.Of(decl.Direction, symbols.DirIn)
		info.HasDirection = true
	}

	if d.Initializer != nil {
		if info.HasDirection && info.Direction != symbols.DirOut {
			b.scope.Diagnostics().Add(diag.SeverityError, diag.CodeDisallowedPortDefault, d.Span).Arg(d.Name)
		} else {
			info.Initializer = d.Initializer
		}
	}

	// Symbol reuse: if a variable/net with this name already exists
	// directly in scope (declared before the port list, e.g. a
	// `reg` later referenced as a port), reuse that symbol and its
	// type rather than creating a fresh one. There is no
	// declaration-order index to update here; the stand-in symbol
	// table has no notion of one.
	if existingSym := b.scope.Find(d.Name); existingSym != nil &&
		(existingSym.Kind() == symtab.KindVariable || existingSym.Kind() == symtab.KindNet) {
		info.InternalSymbol = existingSym
		info.Type = existingSym.Type()
		if !decl.Type.Implicit {
			info.Type = resolveDeclaredType(decl.Type, b.scope)
		}
		return
	}

	isNet := decl.NetType != "" || (!decl.VarKeyword && decl.Type.Implicit)
	if decl.VarKeyword {
		isNet = false
	}
	var typ hwtypes.Type
	if isNet {
		typ = direction.DefaultNet(b.scope, d.Span)
	} else {
		typ = resolveDeclaredType(decl.Type, b.scope)
	}
	info.Type = typ

	kind := symtab.KindVariable
	if isNet {
		kind = symtab.KindNet
	}
	info.InternalSymbol = symtab.NewSymbol(d.Name, kind, d.Span, typ)
}

// materialize walks the parenthesized port-list entries, consuming a
// PortInfo per name and building the corresponding Port/InterfacePort/
// MultiPort. Unknown names become provisional interface ports with
// IsMissingIO set, not an immediate error.
func (b *nonAnsiBuilder) materialize(entries []ir.PortListEntry) []symbols.Element {
	var out []symbols.Element
	for _, e := range entries {
		switch e.Kind {
		case ir.PortListEmpty:
			// `( , )`: an empty port with internal type void, still
			// occupying its ordinal slot.
			out = append(out, symbols.NewPort(e.Name, e.Span, hwtypes.Void))
		case ir.PortListConcatenation:
			out = append(out, b.materializeConcat(e))
		case ir.PortListExplicit:
			out = append(out, b.materializeExplicit(e))
		case ir.PortListWildcardList:
			// `.*` as the port list itself is rejected, never
			// partially elaborated.
			b.scope.Diagnostics().Add(diag.SeverityError, diag.CodeNotYetSupported, e.Span)
		default:
			out = append(out, b.materializeOne(e.Name, e.Name, e.Span))
		}
	}
	return out
}

// materializeExplicit handles `.x(a)` / `.x()` entries: the external
// name stays x for positional/named lookup while the internal
// reference (the identifier declared via an I/O decl) comes from the
// parenthesized expression. `.x()` has no internal reference at all
// and yields a void empty port under the external name x.
func (b *nonAnsiBuilder) materializeExplicit(e ir.PortListEntry) symbols.Element {
	if e.Expr == nil {
		return symbols.NewPort(e.Name, e.Span, hwtypes.Void)
	}
	return b.materializeOne(e.Name, e.Expr.Text, e.Span)
}

func (b *nonAnsiBuilder) materializeOne(externalName, refName string, span source.Span) symbols.Element {
	info, ok := b.byName[refName]
	if !ok {
		// Unknown non-ANSI reference: provisional InterfacePort with
		// IsMissingIO, resolved (or finally diagnosed) later by the
		// connection resolver.
		ip := symbols.NewInterfacePort(externalName, span, nil, "")
		ip.SetMissingIO(true)
		return ip
	}
	info.Used = true

	if info.IsInterface {
		return symbols.NewInterfacePort(externalName, span, info.InterfaceDefinition, info.Modport)
	}

	p := symbols.NewPort(externalName, span, info.Type)
	p.SetDirection(info.Direction)
	setInternalSymbolChecked(p, info.InternalSymbol, b.scope)
	p.SetInitializer(info.Initializer)
	for _, a := range info.Attributes {
		p.AddAttribute(a)
	}
	validatePortInvariants(p, b.scope)
	return p
}

// materializeConcat elaborates a `{a, b, ...}` non-ANSI port
// concatenation, computing its effective direction per C4's merge
// algorithm: start dir=in, all_nets=true, all_vars=true; any inout
// component forces dir=inout and requires every component to be a
// net (else PortConcatInOut); any ref component forces dir=ref and
// requires every component to be a variable (else PortConcatRef); an
// out component upgrades dir from in to out. At most one direction
// diagnostic is emitted per concatenation.
func (b *nonAnsiBuilder) materializeConcat(e ir.PortListEntry) symbols.Element {
	dir := symbols.DirIn
	allNets := true
	allVars := true
	var components []*symbols.Port
	diagnosed := false

	reportOnce := func(code diag.Code) {
		if diagnosed {
			return
		}
		diagnosed = true
		b.scope.Diagnostics().Add(diag.SeverityError, code, e.Span)
	}

	for _, name := range e.Concatenated {
		info, ok := b.byName[name]
		if !ok {
			reportOnce(diag.CodeBadConcatExpression)
			continue
		}
		if info.IsInterface {
			if info.IsMissingIODeclLike() {
				// An interface entry with no resolved definition
				// inside a concatenation is skipped without a
				// diagnostic; it is not added as a component, and no
				// implicit member is created for it.
				continue
			}
			b.scope.Diagnostics().Add(diag.SeverityError, diag.CodeIfacePortInConcat, info.Span).Arg(name)
			continue
		}
		info.Used = true

		isNet := info.InternalSymbol != nil && info.InternalSymbol.Kind() == symtab.KindNet
		isVar := info.InternalSymbol != nil && info.InternalSymbol.Kind() == symtab.KindVariable
		allNets = allNets && isNet
		allVars = allVars && isVar

		switch info.Direction {
		case symbols.DirInOut:
			dir = symbols.DirInOut
		case symbols.DirRef:
			dir = symbols.DirRef
		case symbols.DirOut:
			if dir == symbols.DirIn {
				dir = symbols.DirOut
			}
		}

		p := symbols.NewPort(name, info.Span, info.Type)
		p.SetDirection(info.Direction)
		p.SetInternalSymbol(info.InternalSymbol)
		components = append(components, p)
	}

	// The all-nets/all-vars invariant can be broken by a component
	// seen after the one that forced dir to inout/ref, so it is
	// checked once against the fully merged state rather than
	// per-component.
	if dir == symbols.DirInOut && !allNets {
		reportOnce(diag.CodePortConcatInOut)
	}
	if dir == symbols.DirRef && !allVars {
		reportOnce(diag.CodePortConcatRef)
	}

	return symbols.NewMultiPort(e.Name, e.Span, dir, components)
}

// IsMissingIODeclLike reports whether this PortInfo is an interface
// entry with no resolved interface definition.
func (p *PortInfo) IsMissingIODeclLike() bool {
	return p.IsInterface && p.InterfaceDefinition == nil
}

// finalize emits UnusedPortDecl for every PortInfo the port list never
// referenced.
func (b *nonAnsiBuilder) finalize() {
	for _, name := range b.order {
		info := b.byName[name]
		if !info.Used {
			b.scope.Diagnostics().Add(diag.SeverityWarning, diag.CodeUnusedPortDecl, info.Span).Arg(name)
		}
	}
}
