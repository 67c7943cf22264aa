// Package symbols implements the port symbol data model: Port,
// MultiPort, InterfacePort, and PortConnection, along with the
// construction functions and invariant-enforcing setters the builders
// in package ports use.
package symbols

import (
	"fmt"
	"strings"

	"github.com/svlang/svports/internal/hwtypes"
	"github.com/svlang/svports/internal/ir"
	"github.com/svlang/svports/internal/source"
	"github.com/svlang/svports/internal/symtab"
)

// Element is any port-list element the builders in package ports
// produce: a Port, a MultiPort, or an InterfacePort.
type Element interface {
	Name() string
	Span() source.Span
	Serialize(out *strings.Builder)
}

// Direction is a resolved port direction.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
	DirRef
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	case DirRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Attribute is a name/value pair attached to a port or connection from
// a (* ... *) attribute list.
type Attribute struct {
	Name  string
	Value *ir.ExpressionSyntax
}

// Port is a single elaborated port symbol (C1). InternalSymbol is a
// non-owning reference: the arena that created it owns the underlying
// storage, Port only ever reads through the interface.
type Port struct {
	name            string
	span            source.Span
	externalSpan    source.Span
	direction       Direction
	internalSymbol  symtab.Symbol
	declaredType    hwtypes.Type
	initializer     *ir.ExpressionSyntax
	attributes      []Attribute
}

// NewPort constructs a Port with its required fields; Direction and
// InternalSymbol may still be absent at construction time (the
// non-ANSI builder fills them in during materialization) and are set
// through the setters below, which enforce the direction/kind
// invariants at the point of assignment.
func NewPort(name string, span source.Span, declaredType hwtypes.Type) *Port {
	return &Port{name: name, span: span, declaredType: declaredType}
}

func (p *Port) Name() string                 { return p.name }
func (p *Port) Span() source.Span            { return p.span }
func (p *Port) ExternalSpan() source.Span    { return p.externalSpan }
func (p *Port) Direction() Direction         { return p.direction }
func (p *Port) InternalSymbol() symtab.Symbol { return p.internalSymbol }
func (p *Port) DeclaredType() hwtypes.Type   { return p.declaredType }
func (p *Port) Initializer() *ir.ExpressionSyntax { return p.initializer }
func (p *Port) Attributes() []Attribute      { return p.attributes }

// SetExternalSpan records the location as seen from the instantiation
// side. The ANSI builder sets it on every port; it differs from the
// declaration span only for an explicit ANSI port. The non-ANSI
// builder does not set it.
func (p *Port) SetExternalSpan(span source.Span) { p.externalSpan = span }

// SetDirection sets the port's direction. It does not itself validate
// the internal-symbol-kind invariants (inout requires Net, ref
// requires Variable); those are enforced by SetInternalSymbol once
// both fields are known, and re-checked by the ports package's
// validatePortInvariants for callers that set direction after the
// internal symbol.
func (p *Port) SetDirection(d Direction) { p.direction = d }

// SetInternalSymbol assigns the internal symbol this port aliases and
// enforces the direction/kind invariant: inout ports must back onto a
// Net, ref ports must back onto a Variable. Returns false if the
// invariant is violated (caller reports the corresponding diagnostic
// and the port keeps its previous internal symbol, if any).
func (p *Port) SetInternalSymbol(sym symtab.Symbol) bool {
	if sym != nil {
		switch p.direction {
		case DirInOut:
			if sym.Kind() != symtab.KindNet {
				return false
			}
		case DirRef:
			if sym.Kind() != symtab.KindVariable {
				return false
			}
		}
	}
	p.internalSymbol = sym
	return true
}

// SetDeclaredType overrides the declared type.
func (p *Port) SetDeclaredType(t hwtypes.Type) { p.declaredType = t }

// SetInitializer records the port's default-value expression. Per the
// void-type invariant, a void-typed port (an interface port's
// placeholder Port, if one is ever constructed) can never carry one;
// callers must check DeclaredType().IsVoid() first.
func (p *Port) SetInitializer(e *ir.ExpressionSyntax) { p.initializer = e }

// AddAttribute appends one (* name = value *) attribute.
func (p *Port) AddAttribute(a Attribute) { p.attributes = append(p.attributes, a) }

// Serialize writes a JSON-like textual record of this port: its name,
// direction, and type name, plus the internal symbol's name and the
// initializer text when present. Spans and attributes are not written.
func (p *Port) Serialize(out *strings.Builder) {
	fmt.Fprintf(out, `{"kind":"port","name":%q,"direction":%q,"type":%q`,
		p.name, p.direction, p.declaredType.Name())
	if p.internalSymbol != nil {
		fmt.Fprintf(out, `,"internalSymbol":%q`, p.internalSymbol.Name())
	}
	if p.initializer != nil {
		fmt.Fprintf(out, `,"initializer":%q`, p.initializer.Text)
	}
	out.WriteByte('}')
}

// MultiPort represents a concatenation of component ports exposed as
// a single formal port (C1, §4.4). All components must be integral;
// the effective direction and packed type are computed once, during
// C4's concatenation handling, and stored here.
type MultiPort struct {
	name       string
	span       source.Span
	direction  Direction
	components []*Port
	packedType hwtypes.Type
}

// NewMultiPort constructs a MultiPort from its ordered components,
// computing the packed concatenated type by summing component widths
// (hwtypes.Concat) the way MultiPortSymbol::getType does.
func NewMultiPort(name string, span source.Span, direction Direction, components []*Port) *MultiPort {
	types := make([]hwtypes.Type, len(components))
	for i, c := range components {
		types[i] = c.DeclaredType()
	}
	return &MultiPort{
		name:       name,
		span:       span,
		direction:  direction,
		components: components,
		packedType: hwtypes.Concat(types),
	}
}

func (m *MultiPort) Name() string          { return m.name }
func (m *MultiPort) Span() source.Span     { return m.span }
func (m *MultiPort) Direction() Direction  { return m.direction }
func (m *MultiPort) Components() []*Port   { return m.components }
func (m *MultiPort) Type() hwtypes.Type    { return m.packedType }

func (m *MultiPort) Serialize(out *strings.Builder) {
	fmt.Fprintf(out, `{"kind":"multiport","name":%q,"direction":%q,"type":%q,"components":[`,
		m.name, m.direction, m.packedType.Name())
	for i, c := range m.components {
		if i > 0 {
			out.WriteByte(',')
		}
		c.Serialize(out)
	}
	out.WriteString("]}")
}

// InterfacePort represents a port that connects to an interface (or
// modport thereof) instance rather than a data expression (C1, §4.6).
type InterfacePort struct {
	name               string
	span               source.Span
	interfaceDefinition *symtab.Definition
	modport            string
	declaredRange      []ir.ConstantRange
	isMissingIO        bool
	multiPortLocation  source.Span
}

// NewInterfacePort constructs an InterfacePort. interfaceDefinition
// may be nil for a provisional, is-missing-io placeholder created by
// the non-ANSI builder for an unrecognized bare reference.
func NewInterfacePort(name string, span source.Span, def *symtab.Definition, modport string) *InterfacePort {
	return &InterfacePort{name: name, span: span, interfaceDefinition: def, modport: modport}
}

func (i *InterfacePort) Name() string                          { return i.name }
func (i *InterfacePort) Span() source.Span                     { return i.span }
func (i *InterfacePort) InterfaceDefinition() *symtab.Definition { return i.interfaceDefinition }
func (i *InterfacePort) Modport() string                       { return i.modport }
func (i *InterfacePort) DeclaredRange() []ir.ConstantRange      { return i.declaredRange }
func (i *InterfacePort) IsMissingIO() bool                      { return i.isMissingIO }
func (i *InterfacePort) MultiPortLocation() source.Span         { return i.multiPortLocation }

func (i *InterfacePort) SetDeclaredRange(r []ir.ConstantRange) { i.declaredRange = r }
func (i *InterfacePort) SetMissingIO(v bool)                   { i.isMissingIO = v }
func (i *InterfacePort) SetMultiPortLocation(s source.Span)     { i.multiPortLocation = s }

func (i *InterfacePort) Serialize(out *strings.Builder) {
	defName := ""
	if i.interfaceDefinition != nil {
		defName = i.interfaceDefinition.Name
	}
	fmt.Fprintf(out, `{"kind":"interfaceport","name":%q,"interface":%q,"modport":%q,"missingIO":%t}`,
		i.name, defName, i.modport, i.isMissingIO)
}

// ConnectionKind discriminates the two PortConnection variants.
type ConnectionKind int

const (
	ConnValue ConnectionKind = iota
	ConnInterface
)

// PortConnection is the tagged union §3 requires: a Value connection
// carries an optional bound expression, an Interface connection
// carries an optional resolved instance/modport symbol. Exactly one of
// the two variant fields is meaningful, selected by Kind.
type PortConnection struct {
	Kind ConnectionKind

	// Value variant.
	Port *Port
	Expr *ir.ExpressionSyntax

	// Interface variant.
	InterfacePort   *InterfacePort
	InstanceSymbol  symtab.Symbol
	ModportSymbol   symtab.Symbol

	Attributes []Attribute
}

// NewValueConnection builds a Value-kind PortConnection. expr may be
// nil (an intentionally unconnected port).
func NewValueConnection(port *Port, expr *ir.ExpressionSyntax) *PortConnection {
	return &PortConnection{Kind: ConnValue, Port: port, Expr: expr}
}

// NewInterfaceConnection builds an Interface-kind PortConnection.
// instance/modport may be nil if resolution failed after a diagnostic
// was already reported.
func NewInterfaceConnection(port *InterfacePort, instance, modport symtab.Symbol) *PortConnection {
	return &PortConnection{Kind: ConnInterface, InterfacePort: port, InstanceSymbol: instance, ModportSymbol: modport}
}

func (c *PortConnection) Serialize(out *strings.Builder) {
	switch c.Kind {
	case ConnValue:
		fmt.Fprintf(out, `{"kind":"value","port":%q`, c.Port.Name())
		if c.Expr != nil {
			fmt.Fprintf(out, `,"expr":%q`, c.Expr.Text)
		}
		out.WriteByte('}')
	case ConnInterface:
		fmt.Fprintf(out, `{"kind":"interface","port":%q`, c.InterfacePort.Name())
		if c.InstanceSymbol != nil {
			fmt.Fprintf(out, `,"instance":%q`, c.InstanceSymbol.Name())
		}
		out.WriteByte('}')
	}
}
