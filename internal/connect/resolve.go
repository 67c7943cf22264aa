// Package connect implements the port connection resolver (C5) and
// the interface connection resolver (C6) it delegates to for
// interface-typed formal ports.
package connect

import (
	"log/slog"

	"github.com/svlang/svports/internal/diag"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symbols"
	"github.com/svlang/svports/internal/symtab"
)

// style is the connection style classified from an instance's first
// connection.
type style int

const (
	styleNone style = iota
	styleOrdered
	styleNamed
)

// Resolve builds the port→PortConnection map for one instantiation
// site against the module body's already-elaborated port list (C5).
// The result is keyed by port name and every formal port, resolved or
// not, is bound; unnamed ports all share the key "", so only the last
// unnamed port's connection remains in the map.
func Resolve(portList []symbols.Element, inst *ir.InstanceSyntax, scope symtab.Scope, lookup symtab.Lookup, cfg diag.Config, logger *slog.Logger) map[string]*symbols.PortConnection {
	log := source.Logger{L: logger}
	r := &resolver{
		scope:         scope,
		lookup:        lookup,
		cfg:           cfg,
		log:           log,
		instSpan:      inst.Span,
		instArrayDims: inst.ArrayDims,
		result:        make(map[string]*symbols.PortConnection, len(portList)),
	}
	r.classify(inst)
	r.indexConnections(inst)

	for _, elem := range portList {
		r.bindOne(elem)
	}

	r.finalize()
	return r.result
}

type namedConn struct {
	syntax ir.ConnectionSyntax
	used   bool
}

type resolver struct {
	scope  symtab.Scope
	lookup symtab.Lookup
	cfg    diag.Config
	log    source.Logger

	instSpan      source.Span
	instArrayDims []ir.InstanceArrayDim

	st          style
	orderedIdx  int
	orderedList []ir.ConnectionSyntax
	named       map[string]*namedConn
	nameOrder   []string
	wildcard    *ir.ConnectionSyntax

	result map[string]*symbols.PortConnection
}

func (r *resolver) classify(inst *ir.InstanceSyntax) {
	sawOrdered, sawNamed := false, false
	for _, c := range inst.Connections {
		switch c.Kind {
		case ir.ConnOrdered:
			sawOrdered = true
		case ir.ConnNamed:
			sawNamed = true
		}
	}
	if sawOrdered && sawNamed {
		r.scope.Diagnostics().AddOnce("mixed-style:"+inst.DefName, diag.SeverityError, diag.CodeMixingOrderedAndNamed, inst.Span)
	}
	// Processing continues in the mode set by the first connection;
	// zero connections defaults to named mode.
	if len(inst.Connections) > 0 && inst.Connections[0].Kind == ir.ConnOrdered {
		r.st = styleOrdered
	} else {
		r.st = styleNamed
	}
}

func (r *resolver) indexConnections(inst *ir.InstanceSyntax) {
	r.named = make(map[string]*namedConn)
	for _, c := range inst.Connections {
		switch c.Kind {
		case ir.ConnOrdered:
			r.orderedList = append(r.orderedList, c)
		case ir.ConnWildcard:
			if r.wildcard != nil {
				r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeDuplicateWildcardConn, c.Span)
				continue
			}
			cc := c
			r.wildcard = &cc
		case ir.ConnNamed:
			if existing, ok := r.named[c.Name]; ok {
				d := r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeDuplicatePortConnection, c.Span).Arg(c.Name)
				d.AddNote(diag.CodeDuplicatePortConnection, existing.syntax.Span, "previous connection")
				continue
			}
			cc := c
			r.named[c.Name] = &namedConn{syntax: cc}
			r.nameOrder = append(r.nameOrder, c.Name)
		}
	}
}

func (r *resolver) bindOne(elem symbols.Element) {
	if ip, ok := elem.(*symbols.InterfacePort); ok {
		r.bindInterfacePort(ip)
		return
	}
	name := elem.Name()
	switch r.st {
	case styleOrdered:
		r.bindOrdered(elem, name)
	default:
		r.bindNamed(elem, name)
	}
}

// portView unwraps a Port or MultiPort into a *symbols.Port suitable
// for connection bookkeeping. A MultiPort has no internal symbol or
// initializer of its own; a synthetic Port carrying just its name,
// span, and packed type stands in.
func portView(elem symbols.Element) *symbols.Port {
	switch v := elem.(type) {
	case *symbols.Port:
		return v
	case *symbols.MultiPort:
		return symbols.NewPort(v.Name(), v.Span(), v.Type())
	default:
		return symbols.NewPort(elem.Name(), elem.Span(), nil)
	}
}

// bindValue records a value connection for port, reporting
// NullPortExpression if a non-nil expression is being bound to a
// void-typed (empty) port.
func (r *resolver) bindValue(port *symbols.Port, name string, expr *ir.ExpressionSyntax) {
	if expr != nil && port.DeclaredType() != nil && port.DeclaredType().IsVoid() {
		r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeNullPortExpression, port.Span()).Arg(name)
	}
	r.result[name] = symbols.NewValueConnection(port, expr)
}

func (r *resolver) bindOrdered(elem symbols.Element, name string) {
	var connExpr *ir.ExpressionSyntax
	var haveConn bool
	if r.orderedIdx < len(r.orderedList) {
		haveConn = true
		connExpr = r.orderedList[r.orderedIdx].Expr
		r.orderedIdx++
	}

	port := portView(elem)
	if haveConn {
		if connExpr == nil {
			// An empty ordered connection `( , )`: falls back to the
			// port's own default if any, else an empty binding.
			connExpr = port.Initializer()
		}
		r.bindValue(port, name, connExpr)
		return
	}
	if port.Initializer() != nil {
		r.bindValue(port, name, port.Initializer())
		return
	}
	code := diag.CodeUnconnectedNamedPort
	if name == "" {
		code = diag.CodeUnconnectedUnnamedPort
	}
	r.scope.Diagnostics().AddOnce("unconn:"+name, diag.SeverityWarning, code, port.Span()).Arg(name)
	r.bindValue(port, name, nil)
}

func (r *resolver) bindNamed(elem symbols.Element, name string) {
	port := portView(elem)

	if nc, ok := r.named[name]; ok {
		nc.used = true
		if nc.syntax.HasParens {
			// `.name(expr)` or the empty `.name()`: expr is always
			// exactly what was written, defaults never apply.
			r.bindValue(port, name, nc.syntax.Expr)
			return
		}
		// Bare `.name`: an implicit reference to an outer symbol of
		// the same name, checked the way any implicit named/wildcard
		// binding is: strict type equivalence, declaration order, and
		// a diagnosed lookup miss.
		sym := r.lookup.Unqualified(r.scope, name, symtab.LookupDisallowWildcardImport)
		if sym == nil {
			r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeImplicitNamedPortNotFound, port.Span()).Arg(name)
			r.bindValue(port, name, nil)
			return
		}
		if sym.Span().Start > r.instSpan.Start {
			r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeUsedBeforeDeclared, port.Span()).Arg(name)
		}
		if !sym.Type().Equal(port.DeclaredType()) {
			r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeImplicitNamedPortTypeMism, port.Span()).Arg(name)
		}
		r.bindValue(port, name, &ir.ExpressionSyntax{Text: name})
		return
	}

	// No connection at all names this port. The implicit outer-scope
	// lookup only applies under `.*`; without a wildcard, a miss goes
	// straight to the port's own default, else UnconnectedNamedPort.
	if r.wildcard != nil {
		if sym := r.lookup.Unqualified(r.scope, name, symtab.LookupDisallowWildcardImport); sym != nil {
			if !sym.Type().Equal(port.DeclaredType()) {
				r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeImplicitNamedPortTypeMism, port.Span()).Arg(name)
			}
			r.bindValue(port, name, &ir.ExpressionSyntax{Text: name})
			return
		}
		if port.Initializer() != nil {
			r.bindValue(port, name, port.Initializer())
			return
		}
		r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeImplicitNamedPortNotFound, port.Span()).Arg(name)
		r.bindValue(port, name, nil)
		return
	}

	if port.Initializer() != nil {
		r.bindValue(port, name, port.Initializer())
		return
	}

	r.scope.Diagnostics().AddOnce("unconn:"+name, diag.SeverityWarning, diag.CodeUnconnectedNamedPort, port.Span()).Arg(name)
	r.bindValue(port, name, nil)
}

func (r *resolver) bindInterfacePort(ip *symbols.InterfacePort) {
	name := ip.Name()

	var connExpr *ir.ExpressionSyntax
	var found bool

	switch r.st {
	case styleOrdered:
		if r.orderedIdx < len(r.orderedList) {
			connExpr = r.orderedList[r.orderedIdx].Expr
			r.orderedIdx++
			found = true
		}
	default:
		if nc, ok := r.named[name]; ok {
			nc.used = true
			connExpr = nc.syntax.Expr
			found = nc.syntax.Expr != nil
		} else if r.wildcard != nil {
			connExpr = &ir.ExpressionSyntax{Text: name}
			found = true
		}
	}

	if !found {
		if ip.InterfaceDefinition() != nil {
			r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeInterfacePortNotConnected, ip.Span()).Arg(name)
		}
		r.result[name] = symbols.NewInterfaceConnection(ip, nil, nil)
		return
	}

	r.result[name] = ResolveInterfaceConnection(ip, connExpr, r.instArrayDims, r.scope, r.lookup, r.cfg)
}

// finalize emits TooManyPortConnections when ordered connections
// outnumber the formal port list, and PortDoesNotExist for every named
// connection that no formal port consumed.
func (r *resolver) finalize() {
	if r.st == styleOrdered && r.orderedIdx < len(r.orderedList) {
		extra := r.orderedList[r.orderedIdx]
		r.scope.Diagnostics().Add(diag.SeverityError, diag.CodeTooManyPortConnections, extra.Span)
	}
	for _, name := range r.nameOrder {
		nc := r.named[name]
		if !nc.used {
			r.scope.Diagnostics().Add(diag.SeverityError, diag.CodePortDoesNotExist, nc.syntax.Span).Arg(name)
		}
	}
}
