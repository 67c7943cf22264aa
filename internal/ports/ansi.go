// Package ports implements the ANSI (C3) and non-ANSI (C4) port list
// builders that turn parsed module headers into elaborated port
// symbols.
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

// ansiBuilderContext carries the mutable inheritance state ANSI port
// list construction threads from one port declaration to the next
// (§9: an explicit context passed by mutable reference, not hidden
// builder fields). LastDirection starts as inout per the LRM default
// for the first port in a list with no explicit direction.
type ansiBuilderContext struct {
	LastDirection symbols.Direction
	LastType      hwtypes.Type
	LastNetType   ir.NetTypeToken
	LastInterface *symtab.Definition
	LastModport   string
}

func newAnsiBuilderContext() *ansiBuilderContext {
	return &ansiBuilderContext{LastDirection: symbols.DirInOut}
}

// BuildAnsi elaborates an ANSI-style port list (C3).
func BuildAnsi(list *ir.AnsiPortList, scope symtab.Scope, lookup symtab.Lookup, cfg diag.Config, logger *slog.Logger) []symbols.Element {
	log := source.Logger{L: logger}
	ctx := newAnsiBuilderContext()
	var out []symbols.Element

	for _, decl := range list.Ports {
		for _, d := range decl.Declarators {
			elem := createAnsiPort(decl.Header, d, ctx, scope, lookup, cfg)
			out = append(out, elem)
			if log.TraceEnabled() {
				log.Trace("ansi port built", slog.String("name", elem.Name()))
			}
		}
	}

	for _, stray := range list.StrayBodyPortDecls {
		scope.Diagnostics().Add(diag.SeverityError, diag.CodePortDeclInANSIModule, stray)
	}

	return out
}

// getInterfacePortInfo resolves the interface definition and modport
// an explicit interface port header names, reporting
// UnknownInterface, PortTypeNotInterfaceOrData, or NotAModport as
// appropriate.
func getInterfacePortInfo(h ir.AnsiPortHeader, scope symtab.Scope) (def *symtab.Definition, modport string, ok bool) {
	if h.IsGenericInterface {
		return nil, h.ModportName, true
	}
	def = scope.Registry().GetDefinition(h.InterfaceName)
	if def == nil {
		scope.Diagnostics().Add(diag.SeverityError, diag.CodeUnknownInterface, h.Span).Arg(h.InterfaceName)
		return nil, "", false
	}
	if def.Kind != symtab.DefinitionInterface {
		scope.Diagnostics().Add(diag.SeverityError, diag.CodePortTypeNotInterfaceOrData, h.Span).Arg(h.InterfaceName)
		return nil, "", false
	}
	if h.ModportName != "" && !def.HasModport(h.ModportName) {
		scope.Diagnostics().Add(diag.SeverityError, diag.CodeNotAModport, h.Span).Arg(h.ModportName)
		return def, "", false
	}
	return def, h.ModportName, true
}

// resolveIdentifierType disambiguates a bare identifier ANSI header
// (no direction/var/net-type keyword, but an explicit-looking type
// name) between a net type, an interface definition, or an error, the
// way the ANSI builder's implicit-port classification does when it
// can't tell a data type name from a net type or interface name
// purely from the grammar.
func resolveIdentifierType(name string, span source.Span, scope symtab.Scope) (isInterface bool, def *symtab.Definition, isNet bool, typ hwtypes.Type) {
	if def := scope.Registry().GetDefinition(name); def != nil && def.Kind == symtab.DefinitionInterface {
		return true, def, false, hwtypes.Void
	}
	switch name {
	case "wire", "tri", "wand", "wor", "triand", "trior", "trireg", "tri0", "tri1", "uwire", "supply0", "supply1":
		return false, nil, true, hwtypes.NewLogic(1)
	case "":
		return false, nil, true, hwtypes.NewLogic(1)
	default:
		scope.Diagnostics().Add(diag.SeverityError, diag.CodePortTypeNotInterfaceOrData, span).Arg(name)
		return false, nil, false, hwtypes.Error
	}
}

// createAnsiPort elaborates one declarator under a shared header,
// applying inheritance, the industry-practice direction/type/var
// truth table, and post-construction invariant checks.
func createAnsiPort(h ir.AnsiPortHeader, d ir.Declarator, ctx *ansiBuilderContext, scope symtab.Scope, lookup symtab.Lookup, cfg diag.Config) symbols.Element {
	span := d.Span
	if span.IsEmpty() {
		span = h.Span
	}

	// Explicit ANSI port: the exposed name (d.ExternalName) and the
	// internal reference (d.Name) diverge. Everything below keeps
	// working against d.Name/span for type and internal-symbol
	// purposes; only the returned element's own name and recorded
	// external location differ.
	externalName := d.Name
	externalSpan := span
	if d.ExternalName != "" {
		externalName = d.ExternalName
		if !d.ExternalLoc.IsEmpty() {
			externalSpan = d.ExternalLoc
		}
	}

	isExplicitInterfaceHeader := h.InterfaceName != "" || h.IsGenericInterface

	switch {
	case isExplicitInterfaceHeader:
		// Explicit ANSI port resets inheritance.
		if h.Direction != ir.DirNone {
			scope.Diagnostics().Add(diag.SeverityError, diag.CodeDirectionWithInterface, h.Span)
		}
		if h.VarKeyword {
			scope.Diagnostics().Add(diag.SeverityError, diag.CodeVarKeywordWithInterface, h.Span)
		}
		def, modport, _ := getInterfacePortInfo(h, scope)
		ctx.LastInterface = def
		ctx.LastModport = modport
		ctx.LastDirection = symbols.DirInOut
		ctx.LastType = nil
		ctx.LastNetType = ""
		return makeInterfacePort(externalName, externalSpan, def, modport)

	case h.IsBareVariablePortHeader:
		// Full inheritance: direction, type, net-ness, and
		// interface-ness (if the previous port was one) all carry
		// forward unchanged.
		if ctx.LastInterface != nil {
			return makeInterfacePort(externalName, externalSpan, ctx.LastInterface, ctx.LastModport)
		}
		p := symbols.NewPort(externalName, externalSpan, ctx.LastType)
		p.SetExternalSpan(externalSpan)
		p.SetDirection(ctx.LastDirection)
		bindInternalSymbol(p, d.Name, span, scope, ctx.LastNetType != "")
		p.SetInitializer(d.Initializer)
		return p

	default:
		// Explicit ANSI data port resets the interface inheritance
		// chain even if it doesn't set every field itself.
		ctx.LastInterface = nil
		ctx.LastModport = ""

		explicitDir := h.Direction != ir.DirNone
		dir := direction.Of(h.Direction, ctx.LastDirection)

		var typ hwtypes.Type
		isNet := false
		switch {
		case h.NetType != "":
			isNet = true
			typ = resolveDeclaredType(h.Type, scope)
		case h.VarKeyword:
			isNet = false
			typ = resolveDeclaredType(h.Type, scope)
		case h.Type.Implicit:
			// No net-type keyword, no var keyword, no explicit type:
			// ambiguous identifier-only header. Try interface lookup
			// before falling back to an implicit net.
			isIface, def, isNetTy, resolvedTyp := resolveIdentifierType(h.Type.Name, h.Span, scope)
			if isIface {
				ctx.LastInterface = def
				ctx.LastDirection = dir
				return makeInterfacePort(externalName, externalSpan, def, "")
			}
			isNet = isNetTy
			if isNet {
				typ = direction.DefaultNet(scope, h.Span)
			} else {
				typ = resolvedTyp
			}
		default:
			// Explicit type given, no var/net-type keyword.
			typ = resolveDeclaredType(h.Type, scope)
			switch dir {
			case symbols.DirInOut, symbols.DirRef:
				isNet = dir == symbols.DirInOut
			default:
				// Industry-practice deviation: "other direction + no
				// var + explicit type" yields a variable, not a net,
				// contrary to the base LRM rule. StrictLRMDirections
				// disables the deviation.
				isNet = cfg.StrictLRMDirections
			}
		}

		p := symbols.NewPort(externalName, externalSpan, typ)
		p.SetExternalSpan(externalSpan)
		p.SetDirection(dir)
		bindInternalSymbol(p, d.Name, span, scope, isNet)
		p.SetInitializer(d.Initializer)

		if !p.DeclaredType().IsVoid() {
			validatePortInvariants(p, scope)
		}

		ctx.LastDirection = dir
		ctx.LastType = typ
		if isNet {
			ctx.LastNetType = h.NetType
			if ctx.LastNetType == "" {
				ctx.LastNetType = "wire"
			}
		} else {
			ctx.LastNetType = ""
		}
		_ = explicitDir
		return p
	}
}

func resolveDeclaredType(t ir.TypeSyntax, scope symtab.Scope) hwtypes.Type {
	if t.Implicit || t.Name == "" {
		return direction.DefaultNet(scope, source.Synthetic)
	}
	switch t.Name {
	case "int":
		return hwtypes.NewInt()
	case "logic":
		return hwtypes.NewLogic(1)
	case "bit":
		return hwtypes.NewBit(1)
	default:
		return hwtypes.NewNamed(t.Name)
	}
}

// bindInternalSymbol attaches the internal net/variable symbol a port
// resolves connections against. internalName/internalSpan are usually
// just the port's own name/span; an explicit ANSI port diverges them
// from the exposed port name recorded on p. A symbol whose kind does
// not suit p's direction is rejected and diagnosed.
func bindInternalSymbol(p *symbols.Port, internalName string, internalSpan source.Span, scope symtab.Scope, isNet bool) {
	kind := symtab.KindVariable
	if isNet {
		kind = symtab.KindNet
	}
	sym := symtab.NewSymbol(internalName, kind, internalSpan, p.DeclaredType())
	setInternalSymbolChecked(p, sym, scope)
}

// setInternalSymbolChecked assigns sym to p and, when SetInternalSymbol
// rejects it for p's direction, reports InOutPortCannotBeVariable or
// RefPortMustBeVariable.
func setInternalSymbolChecked(p *symbols.Port, sym symtab.Symbol, scope symtab.Scope) {
	if p.SetInternalSymbol(sym) {
		return
	}
	code := diag.CodeInOutPortCannotBeVariable
	if p.Direction() == symbols.DirRef {
		code = diag.CodeRefPortMustBeVariable
	}
	scope.Diagnostics().Add(diag.SeverityError, code, p.Span()).Arg(p.Name())
}

func makeInterfacePort(name string, span source.Span, def *symtab.Definition, modport string) *symbols.InterfacePort {
	return symbols.NewInterfacePort(name, span, def, modport)
}

// validatePortInvariants enforces the two post-construction checks
// C3 performs after every non-interface port is built: inout ports
// cannot back onto a Variable, ref ports must back onto a Variable.
func validatePortInvariants(p *symbols.Port, scope symtab.Scope) {
	sym := p.InternalSymbol()
	if sym == nil {
		return
	}
	switch p.Direction() {
	case symbols.DirInOut:
		if sym.Kind() != symtab.KindNet {
			scope.Diagnostics().Add(diag.SeverityError, diag.CodeInOutPortCannotBeVariable, p.Span()).Arg(p.Name())
		}
	case symbols.DirRef:
		if sym.Kind() != symtab.KindVariable {
			scope.Diagnostics().Add(diag.SeverityError, diag.CodeRefPortMustBeVariable, p.Span()).Arg(p.Name())
		}
	}
}
